package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"lectern/internal/lectures"
	"lectern/internal/logging"
	"lectern/internal/services"
)

func (m *Manager) laneLogger(lane *laneState) *slog.Logger {
	if m.logger == nil {
		return logging.NewNop()
	}
	name := string(lane.lane)
	return m.logger.With(
		logging.String(logging.FieldComponent, fmt.Sprintf("workflow-%s-runner", name)),
		logging.String(logging.FieldLane, name),
	)
}

func (m *Manager) stageLogger(ctx context.Context, base *slog.Logger, lecture *lectures.Lecture) *slog.Logger {
	if base == nil {
		base = m.logger
	}
	if base == nil {
		base = logging.NewNop()
	}
	logger := logging.WithContext(ctx, base)
	if lecture != nil {
		if _, ok := services.LectureIDFromContext(ctx); !ok {
			logger = logger.With(logging.Int64(logging.FieldLectureID, lecture.ID))
		}
	}
	return logger
}

func withStageContext(ctx context.Context, lane *laneState, stageName string, lecture *lectures.Lecture, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if lecture != nil {
		ctx = services.WithLectureID(ctx, lecture.ID)
	}
	if stageName != "" {
		ctx = services.WithStage(ctx, stageName)
	}
	if lane != nil {
		ctx = services.WithLane(ctx, string(lane.lane))
	}
	if requestID != "" {
		ctx = services.WithRequestID(ctx, requestID)
	}
	return ctx
}

func deriveStageLabel(status lectures.Status) string {
	if status == "" {
		return ""
	}
	parts := strings.Fields(strings.ReplaceAll(string(status), "_", " "))
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(strings.ToLower(part))
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
