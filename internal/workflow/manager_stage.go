package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"lectern/internal/lectures"
	"lectern/internal/logging"
	"lectern/internal/stage"
)

func (m *Manager) processLecture(ctx context.Context, lane *laneState, laneLogger *slog.Logger, lecture *lectures.Lecture) error {
	stg, ok := lane.stageForStatus(lecture.Status)
	if !ok {
		if laneLogger == nil {
			laneLogger = m.logger
		}
		if laneLogger == nil {
			laneLogger = logging.NewNop()
		}
		laneLogger.Warn("no stage configured for status", logging.String("status", string(lecture.Status)))
		m.waitForLectureOrShutdown(ctx)
		return nil
	}

	requestID := uuid.NewString()
	stageCtx := withStageContext(ctx, lane, stg.name, lecture, requestID)
	stageLogger := m.stageLogger(stageCtx, laneLogger, lecture)

	if err := m.transitionToProcessing(stageCtx, stg, lecture); err != nil {
		stageLogger.Error("failed to transition lecture to processing", logging.Error(err))
		m.setLastError(err)
		return err
	}

	return m.executeStage(stageCtx, stageLogger, stg, lecture)
}

func (m *Manager) executeStage(ctx context.Context, stageLogger *slog.Logger, stg pipelineStage, lecture *lectures.Lecture) error {
	stageStart := time.Now()
	stageLogger.Info(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(stg.processingStatus)),
		logging.String("original_filename", strings.TrimSpace(lecture.OriginalFilename)),
		logging.String("source_file", strings.TrimSpace(lecture.SourcePath)),
	)

	ctx, span := m.tracer.Start(ctx, "pipeline."+stg.name,
		trace.WithAttributes(
			attribute.Int64("lecture.id", lecture.ID),
			attribute.String("lecture.status", string(stg.processingStatus)),
		))
	defer span.End()

	handler := stg.handler
	if handler == nil {
		stageLogger.Warn("missing stage handler", logging.String("stage", stg.name))
		lecture.SetFailed(lectures.StatusFailed, fmt.Sprintf("stage %s missing handler", stg.name))
		if err := m.store.Update(ctx, lecture); err != nil {
			stageLogger.Error("failed to persist missing handler failure", logging.Error(err))
		}
		err := errors.New("stage handler unavailable")
		m.setLastError(err)
		return err
	}

	if err := handler.Prepare(ctx, lecture); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prepare failed")
		m.handleStageFailure(ctx, stg, lecture, err)
		m.setLastError(err)
		return err
	}
	if err := m.store.Update(ctx, lecture); err != nil {
		wrapped := fmt.Errorf("persist stage preparation: %w", err)
		stageLogger.Error("failed to persist stage preparation", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	execErr := m.executeWithHeartbeat(ctx, handler, lecture)
	if execErr != nil {
		if errors.Is(execErr, context.Canceled) {
			stageLogger.Debug("stage interrupted by shutdown")
			return execErr
		}
		span.RecordError(execErr)
		span.SetStatus(codes.Error, "execute failed")
		m.handleStageFailure(ctx, stg, lecture, execErr)
		m.setLastError(execErr)
		m.metrics.ObserveStage(stg.name, true, time.Since(stageStart))
		return execErr
	}

	if lecture.Status == stg.processingStatus || lecture.Status == "" {
		lecture.Status = stg.doneStatus
	}
	lecture.LastHeartbeat = nil
	if lecture.Status == lectures.StatusCompleted {
		if lecture.ProgressPercent < 100 {
			lecture.ProgressPercent = 100
		}
		if strings.TrimSpace(lecture.ProgressStage) == "" {
			lecture.ProgressStage = deriveStageLabel(lectures.StatusCompleted)
		}
		if strings.TrimSpace(lecture.ProgressMessage) == "" {
			lecture.ProgressMessage = deriveStageLabel(lectures.StatusCompleted)
		}
	}
	if err := m.store.Update(ctx, lecture); err != nil {
		wrapped := fmt.Errorf("persist stage result: %w", err)
		stageLogger.Error("failed to persist stage result", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}
	m.metrics.ObserveStage(stg.name, false, time.Since(stageStart))
	stageLogger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(lecture.Status)),
		logging.String("progress_stage", strings.TrimSpace(lecture.ProgressStage)),
		logging.String("progress_message", strings.TrimSpace(lecture.ProgressMessage)),
		logging.Duration("stage_duration", time.Since(stageStart)),
	)
	m.setLastLecture(lecture)
	if lecture.Status == lectures.StatusCompleted {
		m.metrics.LectureFinished(false)
		m.cleanupUploadDir(stageLogger, lecture)
		m.notifyLectureCompleted(ctx, lecture)
	}
	m.publishQueueDepth(ctx)
	return nil
}

func (m *Manager) executeWithHeartbeat(ctx context.Context, handler stage.Handler, lecture *lectures.Lecture) error {
	hbCtx, hbCancel := context.WithCancel(ctx)
	var hbWG sync.WaitGroup
	hbWG.Add(1)
	go m.heartbeat.StartLoop(hbCtx, &hbWG, lecture.ID)

	execErr := handler.Execute(ctx, lecture)
	hbCancel()
	hbWG.Wait()
	return execErr
}

func (m *Manager) transitionToProcessing(ctx context.Context, stg pipelineStage, lecture *lectures.Lecture) error {
	if stg.processingStatus == "" {
		return errors.New("processing status must not be empty")
	}

	m.setLectureProcessingState(lecture, stg.processingStatus)
	if err := m.store.Update(ctx, lecture); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}
	m.setLastLecture(lecture)
	return nil
}

func (m *Manager) setLectureProcessingState(lecture *lectures.Lecture, processing lectures.Status) {
	now := time.Now().UTC()
	lecture.Status = processing
	if lecture.ProgressStage == "" {
		lecture.ProgressStage = deriveStageLabel(processing)
	}
	if lecture.ProgressMessage == "" {
		lecture.ProgressMessage = fmt.Sprintf("%s started", deriveStageLabel(processing))
	}
	lecture.ProgressPercent = 0
	lecture.ErrorMessage = ""
	lecture.LastHeartbeat = &now
}

// cleanupUploadDir removes a completed lecture's staging directory. Failed
// lectures keep their audio so a retry can transcribe again.
func (m *Manager) cleanupUploadDir(logger *slog.Logger, lecture *lectures.Lecture) {
	if m.cfg == nil || m.cfg.Workspace.KeepUploads {
		return
	}
	source := strings.TrimSpace(lecture.SourcePath)
	if source == "" {
		return
	}
	uploadRoot := filepath.Clean(strings.TrimSpace(m.cfg.Paths.UploadDir))
	if uploadRoot == "" || uploadRoot == "." {
		return
	}
	dir := filepath.Dir(filepath.Clean(source))
	if !strings.HasPrefix(dir, uploadRoot+string(os.PathSeparator)) {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		logger.Warn("failed to remove upload directory",
			logging.Error(err),
			logging.String("path", dir),
		)
		return
	}
	logger.Debug("removed upload directory", logging.String("path", dir))
}
