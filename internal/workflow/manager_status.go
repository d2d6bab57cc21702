package workflow

import (
	"context"

	"lectern/internal/lectures"
	"lectern/internal/logging"
	"lectern/internal/stage"
)

// StatusSummary represents lightweight workflow diagnostics.
type StatusSummary struct {
	Running     bool                    `json:"running"`
	LastError   string                  `json:"lastError,omitempty"`
	LastLecture *lectures.Lecture       `json:"lastLecture,omitempty"`
	Queue       lectures.Stats          `json:"queue"`
	StageHealth map[string]stage.Health `json:"stageHealth,omitempty"`
}

// Status returns the latest workflow information.
func (m *Manager) Status(ctx context.Context) StatusSummary {
	m.mu.RLock()
	running := m.running
	lastErr := m.lastErr
	lastLecture := m.lastLecture
	stageSet := make([]pipelineStage, 0)
	for _, kind := range m.laneOrder {
		lane := m.lanes[kind]
		if lane == nil {
			continue
		}
		stageSet = append(stageSet, lane.stages...)
	}
	m.mu.RUnlock()

	stats, err := m.store.Stats(ctx)
	if err != nil {
		m.logger.Warn("failed to read queue stats", logging.Error(err))
	}
	m.publishQueueStats(stats)

	health := make(map[string]stage.Health, len(stageSet))
	for _, stg := range stageSet {
		handler := stg.handler
		if handler == nil {
			continue
		}
		health[stg.name] = handler.HealthCheck(ctx)
	}

	summary := StatusSummary{Running: running, Queue: stats, StageHealth: health}
	if lastErr != nil {
		summary.LastError = lastErr.Error()
	}
	if lastLecture != nil {
		copied := *lastLecture
		summary.LastLecture = &copied
	}
	return summary
}

// publishQueueDepth refreshes the per-status queue gauges after a lecture
// changes state.
func (m *Manager) publishQueueDepth(ctx context.Context) {
	if m.metrics == nil {
		return
	}
	stats, err := m.store.Stats(ctx)
	if err != nil {
		m.logger.Debug("queue stats unavailable for gauge update", logging.Error(err))
		return
	}
	m.publishQueueStats(stats)
}

func (m *Manager) publishQueueStats(stats lectures.Stats) {
	for _, status := range lectures.AllStatuses() {
		m.metrics.SetQueueDepth(string(status), stats.ByStatus[status])
	}
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) setLastLecture(lecture *lectures.Lecture) {
	m.mu.Lock()
	if lecture != nil {
		copied := *lecture
		m.lastLecture = &copied
	} else {
		m.lastLecture = nil
	}
	m.mu.Unlock()
}
