package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lectern/internal/logging"
)

func (s *Server) handleQuestionsPerClass(c *gin.Context) {
	data, err := s.deps.Analytics.QuestionsPerClass(c.Request.Context())
	if err != nil {
		s.analyticsError(c, "questions per class", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions_per_class": data})
}

func (s *Server) handleTopicsOverview(c *gin.Context) {
	data, err := s.deps.Analytics.TopicsOverview(c.Request.Context())
	if err != nil {
		s.analyticsError(c, "topics overview", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics_overview": data})
}

func (s *Server) handleSummaryMetrics(c *gin.Context) {
	data, err := s.deps.Analytics.SummaryMetrics(c.Request.Context())
	if err != nil {
		s.analyticsError(c, "summary metrics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary_metrics": data})
}

func (s *Server) handleSyllabusCoverage(c *gin.Context) {
	data, err := s.deps.Analytics.SyllabusCoverage(c.Request.Context())
	if err != nil {
		s.analyticsError(c, "syllabus coverage", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"syllabus_coverage": data})
}

func (s *Server) handleTranscriptLengths(c *gin.Context) {
	data, err := s.deps.Analytics.TranscriptLengths(c.Request.Context())
	if err != nil {
		s.analyticsError(c, "transcript lengths", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcript_length": data})
}

func (s *Server) handleTimeline(c *gin.Context) {
	data, err := s.deps.Analytics.Timeline(c.Request.Context())
	if err != nil {
		s.analyticsError(c, "lecture timeline", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lecture_timeline": data})
}

func (s *Server) handleDashboard(c *gin.Context) {
	data, err := s.deps.Analytics.DashboardMetrics(c.Request.Context())
	if err != nil {
		s.analyticsError(c, "dashboard", err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) analyticsError(c *gin.Context, operation string, err error) {
	s.logger.Error("analytics query failed",
		logging.String("operation", operation),
		logging.Error(err),
	)
	detail(c, http.StatusInternalServerError, "Could not compute analytics.")
}
