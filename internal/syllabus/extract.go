package syllabus

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"

	"lectern/internal/services"
)

// ErrUnsupportedFileType message matches what upload clients display.
const unsupportedFileTypeMessage = "Unsupported file type. Please upload PDF or DOCX."

// ExtractText pulls plain text out of a syllabus document. PDF and DOCX are
// supported; anything else is a validation error.
func ExtractText(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(ctx, path)
	case ".docx":
		return extractDOCX(path)
	default:
		return "", services.Wrap(
			services.ErrValidation, "syllabus", "extract text",
			unsupportedFileTypeMessage, nil)
	}
}

func extractPDF(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat pdf: %w", err)
	}

	docs, err := documentloaders.NewPDF(file, info.Size()).Load(ctx)
	if err != nil {
		return "", services.Wrap(
			services.ErrValidation, "syllabus", "parse pdf",
			"Could not read the PDF; the file may be corrupt or encrypted", err)
	}

	var b strings.Builder
	for _, doc := range docs {
		text := strings.TrimSpace(doc.PageContent)
		if text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// extractDOCX reads the main document part of the OOXML package and joins
// non-empty paragraphs with newlines.
func extractDOCX(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", services.Wrap(
			services.ErrValidation, "syllabus", "parse docx",
			"Could not read the DOCX; the file may be corrupt", err)
	}
	defer archive.Close()

	var document *zip.File
	for _, file := range archive.File {
		if file.Name == "word/document.xml" {
			document = file
			break
		}
	}
	if document == nil {
		return "", services.Wrap(
			services.ErrValidation, "syllabus", "parse docx",
			"DOCX is missing its document body", nil)
	}

	reader, err := document.Open()
	if err != nil {
		return "", fmt.Errorf("open docx body: %w", err)
	}
	defer reader.Close()

	return docxParagraphs(reader)
}

func docxParagraphs(reader io.Reader) (string, error) {
	decoder := xml.NewDecoder(reader)
	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", services.Wrap(
				services.ErrValidation, "syllabus", "parse docx",
				"DOCX body is not valid XML", err)
		}
		switch element := token.(type) {
		case xml.StartElement:
			if element.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch element.Name.Local {
			case "t":
				inText = false
			case "p":
				if text := strings.TrimSpace(current.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(element)
			}
		}
	}
	if text := strings.TrimSpace(current.String()); text != "" {
		paragraphs = append(paragraphs, text)
	}
	return strings.Join(paragraphs, "\n"), nil
}
