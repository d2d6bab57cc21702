// Package transcription converts uploaded lecture audio into a transcript
// via the configured speech-to-text provider.
package transcription

import (
	"context"
	"log/slog"
	"os"

	"lectern/internal/ai"
	"lectern/internal/config"
	"lectern/internal/lectures"
	"lectern/internal/logging"
	"lectern/internal/services"
	"lectern/internal/stage"
)

// Transcriber is the first pipeline stage. It reads the uploaded audio file
// and produces the transcript every later stage depends on.
type Transcriber struct {
	cfg         *config.Config
	store       *lectures.Store
	transcriber ai.Transcriber
	logger      *slog.Logger
}

// NewTranscriber constructs the transcription stage handler.
func NewTranscriber(cfg *config.Config, store *lectures.Store, transcriber ai.Transcriber, logger *slog.Logger) *Transcriber {
	t := &Transcriber{cfg: cfg, store: store, transcriber: transcriber}
	t.SetLogger(logger)
	return t
}

// SetLogger updates the transcriber's logging destination.
func (t *Transcriber) SetLogger(logger *slog.Logger) {
	t.logger = logging.NewComponentLogger(logger, "transcription")
}

// Prepare verifies the uploaded audio still exists before the stage claims
// provider quota for it.
func (t *Transcriber) Prepare(ctx context.Context, lecture *lectures.Lecture) error {
	if _, err := os.Stat(lecture.SourcePath); err != nil {
		return services.Wrap(
			services.ErrValidation, "transcription", "stat audio",
			"Uploaded audio file is missing; upload the recording again", err)
	}
	lecture.InitProgress("Transcription", "Submitting audio for transcription")
	logging.WithContext(ctx, t.logger).Debug("starting transcription",
		logging.String("source_path", lecture.SourcePath))
	return nil
}

// Execute submits the audio to the provider and stores the transcript.
func (t *Transcriber) Execute(ctx context.Context, lecture *lectures.Lecture) error {
	logger := logging.WithContext(ctx, t.logger)

	if t.transcriber == nil {
		return services.Wrap(
			services.ErrConfiguration, "transcription", "client",
			"Transcription client unavailable; check AI configuration", nil)
	}

	lecture.SetProgress(10, "Transcribing audio")
	if t.store != nil {
		_ = t.store.UpdateProgress(ctx, lecture)
	}

	transcript, err := t.transcriber.Transcribe(ctx, lecture.SourcePath)
	if err != nil {
		return services.Wrap(
			services.ErrExternalService, "transcription", "transcribe",
			"Transcription provider request failed; it will be retried", err)
	}
	if transcript == "" {
		return services.Wrap(
			services.ErrValidation, "transcription", "transcribe",
			"Provider returned an empty transcript; the recording may be silent or corrupt", nil)
	}

	lecture.Transcript = transcript
	logger.Info("transcription complete", "transcript_chars", len(transcript))
	lecture.SetProgressComplete("Transcript ready")
	return nil
}

// HealthCheck reports the stage's operational readiness.
func (t *Transcriber) HealthCheck(ctx context.Context) stage.Health {
	if t.transcriber == nil {
		return stage.Unhealthy("transcription", "transcription client unavailable")
	}
	return stage.Healthy("transcription")
}
