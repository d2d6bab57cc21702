package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lectern/internal/ingest"
	"lectern/internal/lectures"
	"lectern/internal/logging"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello Professors! This API provides class analytics."})
}

// lectureResponse mirrors the dashboard's lecture payload. Payload columns
// stay null until the producing stage has run.
type lectureResponse struct {
	ID         int64   `json:"id"`
	Status     string  `json:"status"`
	Transcript *string `json:"transcript"`
	Summary    *string `json:"summary"`
	TopicsJSON *string `json:"topics_json"`
	QuizJSON   *string `json:"quiz_json"`
}

func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes())

	upload, err := c.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			detail(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Upload exceeds the %d MB limit.", s.cfg.API.MaxUploadMB))
			return
		}
		detail(c, http.StatusBadRequest, "No audio file was provided.")
		return
	}

	filename := filepath.Base(upload.Filename)
	if filename == "" || filename == "." || !ingest.IsAudioFile(filename) {
		detail(c, http.StatusBadRequest, "Unsupported audio format.")
		return
	}

	// The file lands on disk before the row exists so a worker can never
	// claim a pending lecture whose audio is still streaming in.
	destDir := filepath.Join(s.cfg.Paths.UploadDir, uuid.NewString())
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		s.logger.Error("create upload directory", logging.Error(err))
		detail(c, http.StatusInternalServerError, "Could not store the uploaded file.")
		return
	}
	destPath := filepath.Join(destDir, filename)
	if err := c.SaveUploadedFile(upload, destPath); err != nil {
		_ = os.RemoveAll(destDir)
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			detail(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Upload exceeds the %d MB limit.", s.cfg.API.MaxUploadMB))
			return
		}
		s.logger.Error("save uploaded file", logging.Error(err))
		detail(c, http.StatusInternalServerError, "Could not store the uploaded file.")
		return
	}

	lecture, err := s.deps.Store.NewLecture(c.Request.Context(), destPath, filename)
	if err != nil {
		_ = os.RemoveAll(destDir)
		s.logger.Error("enqueue lecture", logging.Error(err))
		detail(c, http.StatusInternalServerError, "Could not enqueue the lecture.")
		return
	}

	logger := logging.WithContext(c.Request.Context(), s.logger)
	logger.Info("lecture uploaded",
		logging.Int64(logging.FieldLectureID, lecture.ID),
		logging.String("filename", filename),
	)
	s.notifyReceived(c.Request.Context(), filename)

	c.JSON(http.StatusOK, gin.H{
		"lecture_id": lecture.ID,
		"status":     "PROCESSING",
	})
}

func (s *Server) handleGetLecture(c *gin.Context) {
	id, ok := s.lectureIDParam(c)
	if !ok {
		return
	}
	lecture, err := s.deps.Store.GetByID(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("load lecture", logging.Error(err))
		detail(c, http.StatusInternalServerError, "Could not load the lecture.")
		return
	}
	if lecture == nil {
		detail(c, http.StatusNotFound, "Lecture not found")
		return
	}
	c.JSON(http.StatusOK, lectureResponse{
		ID:         lecture.ID,
		Status:     lecture.Status.External(),
		Transcript: nullable(lecture.Transcript),
		Summary:    nullable(lecture.SummaryJSON),
		TopicsJSON: nullable(lecture.TopicsJSON),
		QuizJSON:   nullable(lecture.QuizJSON),
	})
}

func (s *Server) handleGetNotes(c *gin.Context) {
	id, ok := s.lectureIDParam(c)
	if !ok {
		return
	}
	lecture, err := s.deps.Store.GetByID(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("load lecture", logging.Error(err))
		detail(c, http.StatusInternalServerError, "Could not load the lecture.")
		return
	}
	if lecture == nil {
		detail(c, http.StatusNotFound, "Lecture not found")
		return
	}
	// Only in-flight lectures get the 400; failed ones fall through to the
	// notes lookup and report the missing notes instead.
	if lecture.Status.External() == lectures.ExternalProcessing {
		detail(c, http.StatusBadRequest, "Lecture is still processing. Notes are not yet available.")
		return
	}
	if lecture.NotesJSON == "" {
		detail(c, http.StatusNotFound, "Notes were not found or could not be generated for this lecture.")
		return
	}
	var notes any
	if err := json.Unmarshal([]byte(lecture.NotesJSON), &notes); err != nil {
		detail(c, http.StatusInternalServerError, "Failed to parse the stored notes JSON.")
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (s *Server) lectureIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		detail(c, http.StatusNotFound, "Lecture not found")
		return 0, false
	}
	return id, true
}

func (s *Server) notifyReceived(ctx context.Context, filename string) {
	if s.deps.Notifier == nil {
		return
	}
	if err := s.deps.Notifier.NotifyLectureReceived(ctx, filename); err != nil {
		s.logger.Debug("received notification failed", logging.Error(err))
	}
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
