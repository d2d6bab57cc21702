package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lectern/internal/lectures"
	"lectern/internal/logging"
	"lectern/internal/services"
)

func (m *Manager) handleStageFailure(ctx context.Context, stg pipelineStage, lecture *lectures.Lecture, stageErr error) {
	base := m.logger
	if base == nil {
		base = logging.NewNop()
	}
	logger := m.stageLogger(ctx, base, lecture).With(logging.String(logging.FieldComponent, "workflow-manager"))

	status := services.FailureStatus(stageErr)
	message := m.classifyStageFailure(stg.name, stageErr)
	lecture.SetFailed(status, message)

	logger.Error("stage failed",
		logging.Error(stageErr),
		logging.String("resolved_status", string(status)),
		logging.String("error_message", strings.TrimSpace(message)),
		logging.String(logging.FieldEventType, "stage_failure"),
	)

	if err := m.store.Update(ctx, lecture); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not update stage failure")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}

	m.setLastLecture(lecture)
	m.metrics.LectureFinished(true)
	m.notifyLectureFailed(ctx, lecture, stageErr)
	m.publishQueueDepth(ctx)
}

func (m *Manager) classifyStageFailure(stageName string, stageErr error) string {
	if stageErr == nil {
		return m.stageFailureMessage(stageName, "failed without error detail")
	}
	message := strings.TrimSpace(stageErr.Error())
	if message == "" {
		message = m.stageFailureMessage(stageName, "failed")
	}
	return message
}

func (m *Manager) stageFailureMessage(stageName, defaultMsg string) string {
	if stageName != "" {
		return fmt.Sprintf("%s %s", stageName, defaultMsg)
	}
	return fmt.Sprintf("workflow %s", defaultMsg)
}
