package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"lectern/internal/lectures"
	"lectern/internal/logging"
)

const (
	defaultLogLines = 100
	maxLogLines     = 1000
)

func (s *Server) handleAdminStatus(c *gin.Context) {
	if s.deps.Workflow == nil {
		detail(c, http.StatusServiceUnavailable, "Workflow manager is not running.")
		return
	}
	c.JSON(http.StatusOK, s.deps.Workflow.Status(c.Request.Context()))
}

func (s *Server) handleAdminQueueList(c *gin.Context) {
	var filter []lectures.Status
	if raw := c.Query("status"); raw != "" {
		status, err := lectures.ParseStatus(raw)
		if err != nil {
			detail(c, http.StatusBadRequest, err.Error())
			return
		}
		filter = append(filter, status)
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			detail(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	items, err := s.deps.Store.List(c.Request.Context(), filter, limit)
	if err != nil {
		s.logger.Error("list queue", logging.Error(err))
		detail(c, http.StatusInternalServerError, "Could not list the queue.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"lectures": items, "count": len(items)})
}

func (s *Server) handleAdminQueueGet(c *gin.Context) {
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
	c.JSON(http.StatusOK, lecture)
}

func (s *Server) handleAdminQueueRetry(c *gin.Context) {
	id, ok := s.lectureIDParam(c)
	if !ok {
		return
	}
	if err := s.deps.Store.RetryLecture(c.Request.Context(), id); err != nil {
		detail(c, http.StatusConflict, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"lecture_id": id, "status": "queued"})
}

func (s *Server) handleAdminQueueRetryAll(c *gin.Context) {
	retried, err := s.deps.Store.RetryFailed(c.Request.Context())
	if err != nil {
		s.logger.Error("retry failed lectures", logging.Error(err))
		detail(c, http.StatusInternalServerError, "Could not retry failed lectures.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"retried": retried})
}

func (s *Server) handleAdminQueueRemove(c *gin.Context) {
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
	if !lecture.Status.IsTerminal() {
		detail(c, http.StatusConflict, "Lecture is still being processed and cannot be removed.")
		return
	}
	if err := s.deps.Store.Remove(c.Request.Context(), id); err != nil {
		s.logger.Error("remove lecture", logging.Error(err))
		detail(c, http.StatusInternalServerError, "Could not remove the lecture.")
		return
	}
	s.removeUploadDir(lecture.SourcePath)
	c.JSON(http.StatusOK, gin.H{"removed": id})
}

func (s *Server) handleAdminQueueClear(c *gin.Context) {
	scope := strings.ToLower(strings.TrimSpace(c.DefaultQuery("scope", "completed")))

	var cleared int64
	switch scope {
	case "completed":
		n, err := s.deps.Store.ClearCompleted(c.Request.Context())
		if err != nil {
			s.logger.Error("clear completed lectures", logging.Error(err))
			detail(c, http.StatusInternalServerError, "Could not clear the queue.")
			return
		}
		cleared = n
	case "failed":
		n, err := s.deps.Store.ClearFailed(c.Request.Context())
		if err != nil {
			s.logger.Error("clear failed lectures", logging.Error(err))
			detail(c, http.StatusInternalServerError, "Could not clear the queue.")
			return
		}
		cleared = n
	case "all":
		done, err := s.deps.Store.ClearCompleted(c.Request.Context())
		if err != nil {
			s.logger.Error("clear completed lectures", logging.Error(err))
			detail(c, http.StatusInternalServerError, "Could not clear the queue.")
			return
		}
		failed, err := s.deps.Store.ClearFailed(c.Request.Context())
		if err != nil {
			s.logger.Error("clear failed lectures", logging.Error(err))
			detail(c, http.StatusInternalServerError, "Could not clear the queue.")
			return
		}
		cleared = done + failed
	default:
		detail(c, http.StatusBadRequest, "scope must be one of completed, failed, all")
		return
	}
	c.JSON(http.StatusOK, gin.H{"scope": scope, "cleared": cleared})
}

func (s *Server) handleAdminLogs(c *gin.Context) {
	if s.deps.LogPath == "" {
		detail(c, http.StatusNotFound, "Log file not configured.")
		return
	}

	lines := defaultLogLines
	if raw := c.Query("lines"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			detail(c, http.StatusBadRequest, "lines must be a positive integer")
			return
		}
		lines = parsed
	}
	if lines > maxLogLines {
		lines = maxLogLines
	}

	tail, err := logging.TailFile(s.deps.LogPath, lines)
	if err != nil {
		detail(c, http.StatusNotFound, "Log file not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": tail, "count": len(tail)})
}

// removeUploadDir deletes a removed lecture's per-upload directory when it
// still sits under the configured upload root.
func (s *Server) removeUploadDir(sourcePath string) {
	if sourcePath == "" {
		return
	}
	dir := filepath.Dir(sourcePath)
	root := filepath.Clean(s.cfg.Paths.UploadDir)
	if root == "" || !strings.HasPrefix(dir, root+string(filepath.Separator)) {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		s.logger.Warn("remove upload directory", logging.String("dir", dir), logging.Error(err))
	}
}
