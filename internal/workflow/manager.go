package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"lectern/internal/config"
	"lectern/internal/lectures"
	"lectern/internal/notifications"
	"lectern/internal/observability"
)

// Manager coordinates lecture processing using registered stage handlers.
type Manager struct {
	cfg          *config.Config
	store        *lectures.Store
	logger       *slog.Logger
	pollInterval time.Duration
	notifier     notifications.Service
	metrics      *observability.Metrics
	tracer       trace.Tracer

	heartbeat *HeartbeatMonitor

	lanes     map[lectures.Lane]*laneState
	laneOrder []lectures.Lane

	mu          sync.RWMutex
	running     bool
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	lastErr     error
	lastLecture *lectures.Lecture
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithNotifier overrides the notifier built from configuration. Tests use
// this to observe notification traffic.
func WithNotifier(notifier notifications.Service) ManagerOption {
	return func(m *Manager) {
		m.notifier = notifier
	}
}

// WithMetrics attaches the daemon's Prometheus instruments. A nil metrics
// value is safe; every observation method on it no-ops.
func WithMetrics(metrics *observability.Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager constructs a workflow manager.
func NewManager(cfg *config.Config, store *lectures.Store, logger *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logger,
		notifier:     notifications.NewService(cfg),
		tracer:       otel.Tracer("lectern/internal/workflow"),
		pollInterval: cfg.PollInterval(),
		heartbeat:    NewHeartbeatMonitor(store, logger, cfg.HeartbeatInterval(), cfg.StaleProcessingCutoff()),
		lanes:        make(map[lectures.Lane]*laneState),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
