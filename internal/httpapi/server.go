package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"lectern/internal/analytics"
	"lectern/internal/config"
	"lectern/internal/lectures"
	"lectern/internal/logging"
	"lectern/internal/notifications"
	"lectern/internal/observability"
	"lectern/internal/syllabus"
	"lectern/internal/workflow"
)

// StatusSource reports workflow diagnostics for the health and admin routes.
type StatusSource interface {
	Status(ctx context.Context) workflow.StatusSummary
}

// SyllabusService is the slice of the syllabus package the API needs.
type SyllabusService interface {
	Process(ctx context.Context, filePath, originalFilename string) (*syllabus.Result, string, error)
	Latest() (*syllabus.LatestResult, error)
	LatestTopicStructure() ([]syllabus.TopicEntry, error)
}

// Deps bundles the collaborators the server routes dispatch to.
type Deps struct {
	Store     *lectures.Store
	Workflow  StatusSource
	Analytics *analytics.Service
	Syllabus  SyllabusService
	Notifier  notifications.Service
	Metrics   *observability.Metrics
	Gatherer  prometheus.Gatherer
	LogPath   string
}

// Server hosts the HTTP API.
type Server struct {
	cfg    *config.Config
	deps   Deps
	logger *slog.Logger
	router *gin.Engine
}

// New constructs the server and builds its route table.
func New(cfg *config.Config, deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logging.NewComponentLogger(logger, "httpapi"),
	}
	s.router = s.buildRouter()
	return s
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(s.requestIDMiddleware())
	router.Use(s.recoveryMiddleware())
	router.Use(s.loggingMiddleware())
	router.Use(s.metricsMiddleware())
	if s.cfg.Telemetry.Enabled {
		router.Use(otelgin.Middleware(s.cfg.Telemetry.ServiceName))
	}

	router.GET("/", s.handleRoot)
	router.POST("/upload/", s.handleUpload)
	router.GET("/lecture/:id", s.handleGetLecture)
	router.GET("/lecture/:id/notes", s.handleGetNotes)

	router.GET("/analytics/questions", s.handleQuestionsPerClass)
	router.GET("/analytics/topics", s.handleTopicsOverview)
	router.GET("/analytics/summary", s.handleSummaryMetrics)
	router.GET("/analytics/syllabus", s.handleSyllabusCoverage)
	router.GET("/analytics/transcripts", s.handleTranscriptLengths)
	router.GET("/analytics/timeline", s.handleTimeline)
	router.GET("/analytics/dashboard", s.handleDashboard)

	router.POST("/upload_syllabus/", s.handleUploadSyllabus)
	router.GET("/syllabus_result/", s.handleSyllabusResult)
	router.GET("/syllabus/topics", s.handleSyllabusTopics)

	router.GET("/healthz", s.handleHealthz)
	if s.deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{})))
	}

	admin := router.Group("/admin")
	{
		admin.GET("/status", s.handleAdminStatus)
		admin.GET("/queue", s.handleAdminQueueList)
		admin.GET("/queue/:id", s.handleAdminQueueGet)
		admin.POST("/queue/:id/retry", s.handleAdminQueueRetry)
		admin.POST("/queue/retry", s.handleAdminQueueRetryAll)
		admin.DELETE("/queue/:id", s.handleAdminQueueRemove)
		admin.POST("/queue/clear", s.handleAdminQueueClear)
		admin.GET("/logs", s.handleAdminLogs)
	}

	return router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.API.Bind,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(s.cfg.API.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.API.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	s.logger.Info("http api listening", logging.String("bind", s.cfg.API.Bind))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// detail writes the product's error payload shape.
func detail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": message})
}
