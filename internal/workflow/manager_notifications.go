package workflow

import (
	"context"
	"errors"

	"lectern/internal/lectures"
	"lectern/internal/logging"
)

func (m *Manager) notifyLectureCompleted(ctx context.Context, lecture *lectures.Lecture) {
	if m.notifier == nil || lecture == nil {
		return
	}
	if err := m.notifier.NotifyLectureCompleted(ctx, lecture.OriginalFilename, lecture.NeedsReview); err != nil {
		if errors.Is(err, context.Canceled) {
			m.logger.Debug("daemon shutting down, could not send completion notification")
		} else {
			m.logger.Debug("completion notification failed", logging.Error(err))
		}
	}
}

func (m *Manager) notifyLectureFailed(ctx context.Context, lecture *lectures.Lecture, stageErr error) {
	if m.notifier == nil || lecture == nil {
		return
	}
	if err := m.notifier.NotifyLectureFailed(ctx, lecture.OriginalFilename, stageErr); err != nil {
		if errors.Is(err, context.Canceled) {
			m.logger.Debug("daemon shutting down, could not send failure notification")
		} else {
			m.logger.Debug("failure notification failed", logging.Error(err))
		}
	}
}
