// Package analysis runs the structured lecture summary over a transcript and
// maps the model output onto the lecture's content columns.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"lectern/internal/ai"
	"lectern/internal/config"
	"lectern/internal/lectures"
	"lectern/internal/logging"
	"lectern/internal/services"
	"lectern/internal/stage"
)

// Result is the payload contract for the structured summary. The section
// bodies stay raw so model output round-trips into the store unmodified.
type Result struct {
	TopicsCovered  json.RawMessage `json:"topicsCovered"`
	KeyPoints      json.RawMessage `json:"keyPoints"`
	QuestionsAsked json.RawMessage `json:"questionsAsked"`
	ExamplesUsed   json.RawMessage `json:"examplesUsed"`
	SummaryInsight json.RawMessage `json:"summaryInsight"`
}

// Analyzer is the pipeline stage that produces the structured summary.
type Analyzer struct {
	cfg    *config.Config
	store  *lectures.Store
	chat   ai.Chat
	logger *slog.Logger
}

// NewAnalyzer constructs the analysis stage handler.
func NewAnalyzer(cfg *config.Config, store *lectures.Store, chat ai.Chat, logger *slog.Logger) *Analyzer {
	a := &Analyzer{cfg: cfg, store: store, chat: chat}
	a.SetLogger(logger)
	return a
}

// SetLogger updates the analyzer's logging destination.
func (a *Analyzer) SetLogger(logger *slog.Logger) {
	a.logger = logging.NewComponentLogger(logger, "analysis")
}

// Prepare initializes progress messaging prior to Execute.
func (a *Analyzer) Prepare(ctx context.Context, lecture *lectures.Lecture) error {
	lecture.InitProgress("Analysis", "Preparing structured summary")
	logging.WithContext(ctx, a.logger).Debug("starting analysis")
	return nil
}

// Execute sends the transcript for analysis and stores each section of the
// response on its own lecture column.
func (a *Analyzer) Execute(ctx context.Context, lecture *lectures.Lecture) error {
	logger := logging.WithContext(ctx, a.logger)

	if a.chat == nil {
		return services.Wrap(
			services.ErrConfiguration, "analysis", "client",
			"Analysis client unavailable; check AI configuration", nil)
	}
	transcript, err := stage.RequireTranscript(lecture, "analysis")
	if err != nil {
		return err
	}

	lecture.SetProgress(10, "Analyzing transcript")
	if a.store != nil {
		_ = a.store.UpdateProgress(ctx, lecture)
	}

	content, err := a.chat.CompleteJSON(ctx, systemPrompt, fmt.Sprintf(userPromptTemplate, transcript))
	if err != nil {
		return services.Wrap(
			services.ErrExternalService, "analysis", "complete",
			"Analysis provider request failed; it will be retried", err)
	}

	var result Result
	if err := ai.DecodeJSON(content, &result); err != nil {
		return services.Wrap(
			services.ErrValidation, "analysis", "parse payload",
			"Model returned an unparseable analysis payload", err)
	}

	lecture.SummaryJSON = sectionOrDefault(result.SummaryInsight, "{}")
	lecture.TopicsJSON = sectionOrDefault(result.TopicsCovered, "[]")
	lecture.QuizJSON = sectionOrDefault(result.QuestionsAsked, "[]")
	lecture.KeyPointsJSON = sectionOrDefault(result.KeyPoints, "[]")
	lecture.ExamplesJSON = sectionOrDefault(result.ExamplesUsed, "[]")

	logger.Info("analysis complete",
		"summary_bytes", len(lecture.SummaryJSON),
		"topics_bytes", len(lecture.TopicsJSON))
	lecture.SetProgressComplete("Structured summary ready")
	return nil
}

// HealthCheck reports the stage's operational readiness.
func (a *Analyzer) HealthCheck(ctx context.Context) stage.Health {
	if a.chat == nil {
		return stage.Unhealthy("analysis", "analysis client unavailable")
	}
	return stage.Healthy("analysis")
}

// sectionOrDefault keeps missing or null sections from leaving empty strings
// in the store; downstream JSON parsing expects a valid document.
func sectionOrDefault(section json.RawMessage, fallback string) string {
	if len(section) == 0 || string(section) == "null" {
		return fallback
	}
	return string(section)
}
