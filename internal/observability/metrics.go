package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lectern"

// Metrics holds every Prometheus instrument the daemon records. One instance
// is created at startup and shared by the HTTP layer, the pipeline, and the
// AI clients; tests construct their own against a private registry.
type Metrics struct {
	APIRequests *prometheus.CounterVec
	APIDuration *prometheus.HistogramVec

	StageDuration     *prometheus.HistogramVec
	StageFailures     *prometheus.CounterVec
	LecturesCompleted prometheus.Counter
	LecturesFailed    prometheus.Counter
	QueueDepth        *prometheus.GaugeVec

	AIRequests *prometheus.CounterVec
	AIDuration *prometheus.HistogramVec
	AIRetries  *prometheus.CounterVec
}

// NewMetrics registers the lectern instruments against the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		APIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method, and status code.",
		}, []string{"route", "method", "status"}),
		APIDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage execution time by stage and outcome.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"stage", "outcome"}),
		StageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_failures_total",
			Help:      "Pipeline stage failures by stage.",
		}, []string{"stage"}),
		LecturesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "lectures_completed_total",
			Help:      "Lectures that finished every pipeline stage.",
		}),
		LecturesFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "lectures_failed_total",
			Help:      "Lectures that ended in a terminal failure status.",
		}),
		QueueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "queue_depth",
			Help:      "Lectures currently held at each status.",
		}, []string{"status"}),
		AIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "requests_total",
			Help:      "AI provider calls by provider, operation, and outcome.",
		}, []string{"provider", "operation", "outcome"}),
		AIDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "request_duration_seconds",
			Help:      "AI provider call latency by provider and operation.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"provider", "operation"}),
		AIRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "retries_total",
			Help:      "AI provider call retries by provider and operation.",
		}, []string{"provider", "operation"}),
	}
}

// ObserveAPIRequest records one finished HTTP request.
func (m *Metrics) ObserveAPIRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.APIRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.APIDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// ObserveStage records one stage execution.
func (m *Metrics) ObserveStage(stage string, failed bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if failed {
		outcome = "failure"
		m.StageFailures.WithLabelValues(stage).Inc()
	}
	m.StageDuration.WithLabelValues(stage, outcome).Observe(duration.Seconds())
}

// LectureFinished bumps the terminal-outcome counters.
func (m *Metrics) LectureFinished(failed bool) {
	if m == nil {
		return
	}
	if failed {
		m.LecturesFailed.Inc()
		return
	}
	m.LecturesCompleted.Inc()
}

// SetQueueDepth publishes the per-status queue gauge.
func (m *Metrics) SetQueueDepth(status string, depth int64) {
	if m == nil {
		return
	}
	m.QueueDepth.WithLabelValues(status).Set(float64(depth))
}

// ObserveAIRequest records one AI provider call.
func (m *Metrics) ObserveAIRequest(provider, operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.AIRequests.WithLabelValues(provider, operation, outcome).Inc()
	m.AIDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// ObserveAIRetry counts a retried AI provider call.
func (m *Metrics) ObserveAIRetry(provider, operation string) {
	if m == nil {
		return
	}
	m.AIRetries.WithLabelValues(provider, operation).Inc()
}
