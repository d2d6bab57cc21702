package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lectern/internal/logging"
	"lectern/internal/services"
)

func (s *Server) handleUploadSyllabus(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes())

	upload, err := c.FormFile("file")
	if err != nil {
		detail(c, http.StatusBadRequest, "Syllabus processing failed: no file was provided")
		return
	}
	filename := filepath.Base(upload.Filename)

	uploadsDir := filepath.Join(s.cfg.Paths.SyllabusDir, "uploads")
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		s.logger.Error("create syllabus upload directory", logging.Error(err))
		detail(c, http.StatusInternalServerError, "Syllabus processing failed: could not store the file")
		return
	}
	savedPath := filepath.Join(uploadsDir, uuid.NewString()+"_"+filename)
	if err := c.SaveUploadedFile(upload, savedPath); err != nil {
		s.logger.Error("save syllabus file", logging.Error(err))
		detail(c, http.StatusInternalServerError, "Syllabus processing failed: could not store the file")
		return
	}

	result, _, err := s.deps.Syllabus.Process(c.Request.Context(), savedPath, filename)
	if err != nil {
		logger := logging.WithContext(c.Request.Context(), s.logger)
		logger.Error("syllabus processing failed",
			logging.String("filename", filename),
			logging.Error(err),
		)
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrValidation) {
			status = http.StatusBadRequest
		}
		detail(c, status, fmt.Sprintf("Syllabus processing failed: %v", err))
		return
	}

	s.notifySyllabus(c, filename, result.CoverageStats.CoveragePercentage)

	c.JSON(http.StatusOK, gin.H{
		"filename":        filename,
		"coverage_result": result,
	})
}

func (s *Server) handleSyllabusResult(c *gin.Context) {
	latest, err := s.deps.Syllabus.Latest()
	if err != nil {
		s.logger.Error("load syllabus result", logging.Error(err))
		detail(c, http.StatusInternalServerError, "Could not load the syllabus result.")
		return
	}
	if latest == nil {
		detail(c, http.StatusNotFound, "No syllabus result found yet.")
		return
	}
	c.JSON(http.StatusOK, latest)
}

func (s *Server) handleSyllabusTopics(c *gin.Context) {
	entries, err := s.deps.Syllabus.LatestTopicStructure()
	if err != nil {
		s.logger.Error("load syllabus topics", logging.Error(err))
		detail(c, http.StatusInternalServerError, "Could not load the syllabus topics.")
		return
	}
	if entries == nil {
		detail(c, http.StatusNotFound, "No syllabus result found yet. Please upload one first.")
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) notifySyllabus(c *gin.Context, filename string, coveragePercent float64) {
	if s.deps.Notifier == nil {
		return
	}
	if err := s.deps.Notifier.NotifySyllabusProcessed(c.Request.Context(), filename, coveragePercent); err != nil {
		s.logger.Debug("syllabus notification failed", logging.Error(err))
	}
}
