// Package notes generates rich pedagogical lecture notes from a transcript.
// The stage is best-effort: a lecture without notes still completes, it just
// gets flagged for operator review.
package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"lectern/internal/ai"
	"lectern/internal/config"
	"lectern/internal/lectures"
	"lectern/internal/logging"
	"lectern/internal/stage"
)

// Generator is the final pipeline stage. It writes the notes document to the
// lecture's notes column.
type Generator struct {
	cfg    *config.Config
	store  *lectures.Store
	chat   ai.Chat
	logger *slog.Logger
}

// NewGenerator constructs the notes stage handler.
func NewGenerator(cfg *config.Config, store *lectures.Store, chat ai.Chat, logger *slog.Logger) *Generator {
	g := &Generator{cfg: cfg, store: store, chat: chat}
	g.SetLogger(logger)
	return g
}

// SetLogger updates the generator's logging destination.
func (g *Generator) SetLogger(logger *slog.Logger) {
	g.logger = logging.NewComponentLogger(logger, "notes")
}

// Prepare initializes progress messaging prior to Execute.
func (g *Generator) Prepare(ctx context.Context, lecture *lectures.Lecture) error {
	lecture.InitProgress("Notes", "Generating pedagogical notes")
	logging.WithContext(ctx, g.logger).Debug("starting notes generation")
	return nil
}

// Execute generates the notes document. Failures degrade the lecture to
// needs-review instead of failing it: every other artifact already exists by
// the time this stage runs.
func (g *Generator) Execute(ctx context.Context, lecture *lectures.Lecture) error {
	logger := logging.WithContext(ctx, g.logger)

	transcript, err := stage.RequireTranscript(lecture, "notes")
	if err != nil {
		return err
	}
	if g.chat == nil {
		g.degrade(logger, lecture, "notes client unavailable")
		return nil
	}

	lecture.SetProgress(10, "Writing lecture notes")
	if g.store != nil {
		_ = g.store.UpdateProgress(ctx, lecture)
	}

	content, err := g.chat.CompleteJSON(ctx, systemPrompt, fmt.Sprintf(userPromptTemplate, transcript))
	if err != nil {
		g.degrade(logger, lecture, fmt.Sprintf("notes generation failed: %v", err))
		return nil
	}

	var document map[string]json.RawMessage
	if err := ai.DecodeJSON(content, &document); err != nil {
		g.degrade(logger, lecture, fmt.Sprintf("notes payload unparseable: %s", ai.PayloadSnippet(content)))
		return nil
	}

	encoded, err := json.Marshal(document)
	if err != nil {
		g.degrade(logger, lecture, fmt.Sprintf("notes re-encode failed: %v", err))
		return nil
	}
	lecture.NotesJSON = string(encoded)

	logger.Info("notes generation complete", "notes_bytes", len(lecture.NotesJSON))
	lecture.SetProgressComplete("Lecture notes ready")
	return nil
}

func (g *Generator) degrade(logger *slog.Logger, lecture *lectures.Lecture, reason string) {
	logger.Warn("notes generation degraded", "reason", reason)
	lecture.MarkNeedsReview(reason)
	lecture.SetProgressComplete("Completed without notes")
}

// HealthCheck reports the stage's operational readiness. A missing client is
// reported but does not block the pipeline.
func (g *Generator) HealthCheck(ctx context.Context) stage.Health {
	if g.chat == nil {
		return stage.Health{Name: "notes", Ready: true, Detail: "notes client unavailable (lectures will complete without notes)"}
	}
	return stage.Healthy("notes")
}
