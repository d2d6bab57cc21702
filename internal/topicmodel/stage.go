package topicmodel

import (
	"context"
	"encoding/json"
	"log/slog"

	"lectern/internal/config"
	"lectern/internal/lectures"
	"lectern/internal/logging"
	"lectern/internal/services"
	"lectern/internal/stage"
)

// Modeler is the pipeline stage that derives statistical topics from the
// lecture transcript. It runs entirely in-process and has no external
// dependencies, so a failure here is always a defect rather than an outage.
type Modeler struct {
	cfg    *config.Config
	store  *lectures.Store
	logger *slog.Logger
}

// NewModeler constructs the topic modeling stage handler.
func NewModeler(cfg *config.Config, store *lectures.Store, logger *slog.Logger) *Modeler {
	m := &Modeler{cfg: cfg, store: store}
	m.SetLogger(logger)
	return m
}

// SetLogger updates the modeler's logging destination.
func (m *Modeler) SetLogger(logger *slog.Logger) {
	m.logger = logging.NewComponentLogger(logger, "topicmodel")
}

// Prepare initializes progress messaging prior to Execute.
func (m *Modeler) Prepare(ctx context.Context, lecture *lectures.Lecture) error {
	lecture.InitProgress("Topic Modeling", "Training topic model")
	logging.WithContext(ctx, m.logger).Debug("starting topic modeling")
	return nil
}

// Execute trains the topic model over the transcript and stores the rendered
// topic lines on the lecture.
func (m *Modeler) Execute(ctx context.Context, lecture *lectures.Lecture) error {
	logger := logging.WithContext(ctx, m.logger)

	transcript, err := stage.RequireTranscript(lecture, "topic modeling")
	if err != nil {
		return err
	}

	lecture.SetProgress(25, "Tokenizing transcript")
	if m.store != nil {
		_ = m.store.UpdateProgress(ctx, lecture)
	}

	topics := Train(transcript, Params{
		Topics:        m.cfg.Topics.Count,
		TermsPerTopic: m.cfg.Topics.TermsPerTopic,
		Passes:        m.cfg.Topics.Passes,
		Seed:          m.cfg.Topics.Seed,
	})

	encoded, err := json.Marshal(topics)
	if err != nil {
		return services.Wrap(
			services.ErrValidation, "topic modeling", "encode topics",
			"Failed to encode topic model output", err)
	}
	lecture.LDATopicsJSON = string(encoded)

	logger.Info("topic modeling complete", "topic_count", len(topics))
	lecture.SetProgressComplete("Topics extracted")
	return nil
}

// HealthCheck reports the stage's operational readiness.
func (m *Modeler) HealthCheck(ctx context.Context) stage.Health {
	if m.cfg == nil {
		return stage.Unhealthy("topicmodel", "configuration unavailable")
	}
	return stage.Healthy("topicmodel")
}
