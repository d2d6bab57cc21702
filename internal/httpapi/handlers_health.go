package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealthz(c *gin.Context) {
	health := s.deps.Store.CheckHealth(c.Request.Context())

	workflowRunning := false
	if s.deps.Workflow != nil {
		workflowRunning = s.deps.Workflow.Status(c.Request.Context()).Running
	}

	status := http.StatusOK
	state := "ok"
	if !health.Healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status":           state,
		"database":         health,
		"workflow_running": workflowRunning,
	})
}
