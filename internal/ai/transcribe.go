package ai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

type transcriber struct {
	client *Client
	model  string
}

// Transcribe converts the audio file at audioPath into plain text using the
// configured transcription model.
func (t *transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if strings.TrimSpace(audioPath) == "" {
		return "", errors.New("ai transcribe: audio path required")
	}
	if strings.TrimSpace(t.model) == "" {
		return "", errors.New("ai transcribe: model required")
	}

	return t.client.callWithRetry(ctx, "transcription", func(callCtx context.Context) (string, error) {
		if t.client.geminiClient != nil {
			return t.client.transcribeGemini(callCtx, t.model, audioPath)
		}
		return t.client.transcribeOpenAI(callCtx, t.model, audioPath)
	})
}

func (c *Client) transcribeOpenAI(ctx context.Context, model, audioPath string) (string, error) {
	resp, err := c.openaiClient.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: audioPath,
	})
	if err != nil {
		return "", fmt.Errorf("ai transcribe: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func (c *Client) transcribeGemini(ctx context.Context, model, audioPath string) (string, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("ai transcribe: read audio: %w", err)
	}
	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromText("Transcribe this audio recording. Respond with the transcript text only."),
		genai.NewPartFromBytes(data, audioMIMEType(audioPath)),
	}, genai.RoleUser)

	resp, err := c.geminiClient.Models.GenerateContent(ctx, model, []*genai.Content{content}, nil)
	if err != nil {
		return "", fmt.Errorf("ai transcribe: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &emptyContentError{Operation: "ai transcribe", Detail: "empty transcript"}
	}
	return text, nil
}

func audioMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".aac":
		return "audio/aac"
	case ".flac":
		return "audio/flac"
	case ".ogg":
		return "audio/ogg"
	case ".webm":
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}
