package syllabus

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/tmc/langchaingo/textsplitter"

	"lectern/internal/ai"
	"lectern/internal/config"
	"lectern/internal/lectures"
	"lectern/internal/logging"
	"lectern/internal/services"
)

// maxPromptChars bounds how much syllabus text goes into one roadmap request.
// Anything longer is split and only the leading chunk is sent; syllabi are
// short documents and the tail past this limit is almost always boilerplate.
const maxPromptChars = 24000

// Service runs the full syllabus flow: extract, roadmap, flatten, coverage,
// persist.
type Service struct {
	cfg    *config.Config
	store  *lectures.Store
	chat   ai.Chat
	logger *slog.Logger
}

// NewService constructs the syllabus service.
func NewService(cfg *config.Config, store *lectures.Store, chat ai.Chat, logger *slog.Logger) *Service {
	s := &Service{cfg: cfg, store: store, chat: chat}
	s.SetLogger(logger)
	return s
}

// SetLogger updates the service's logging destination.
func (s *Service) SetLogger(logger *slog.Logger) {
	s.logger = logging.NewComponentLogger(logger, "syllabus")
}

// ResultsDir returns where processed results are stored.
func (s *Service) ResultsDir() string {
	return filepath.Join(s.cfg.Paths.SyllabusDir, "results")
}

// Process runs one syllabus document through the pipeline and saves the
// combined result. It returns the result and the saved file path.
func (s *Service) Process(ctx context.Context, filePath, originalFilename string) (*Result, string, error) {
	logger := logging.WithContext(ctx, s.logger)

	if s.chat == nil {
		return nil, "", services.Wrap(
			services.ErrConfiguration, "syllabus", "client",
			"Roadmap client unavailable; check AI configuration", nil)
	}

	text, err := ExtractText(ctx, filePath)
	if err != nil {
		return nil, "", err
	}
	if len(text) == 0 {
		return nil, "", services.Wrap(
			services.ErrValidation, "syllabus", "extract text",
			"Syllabus document contained no extractable text", nil)
	}
	logger.Debug("syllabus text extracted", "chars", len(text))

	text, err = boundPromptText(text)
	if err != nil {
		return nil, "", fmt.Errorf("bound syllabus text: %w", err)
	}

	content, err := s.chat.CompleteJSON(ctx, systemPrompt, fmt.Sprintf(userPromptTemplate, text))
	if err != nil {
		return nil, "", services.Wrap(
			services.ErrExternalService, "syllabus", "roadmap",
			"Roadmap provider request failed", err)
	}

	var roadmap []RoadmapDay
	if err := ai.DecodeJSON(content, &roadmap); err != nil {
		return nil, "", services.Wrap(
			services.ErrValidation, "syllabus", "parse roadmap",
			"Could not find valid JSON roadmap in LLM output.", err)
	}

	topics := FlattenRoadmap(roadmap)
	stats, near, err := CalculateCoverage(ctx, s.store, topics)
	if err != nil {
		return nil, "", fmt.Errorf("calculate coverage: %w", err)
	}
	for _, match := range near {
		logger.Debug("near-miss syllabus topic",
			"syllabus_topic", match.SyllabusTopic,
			"closest_covered", match.ClosestTopic,
			"similarity", fmt.Sprintf("%.2f", match.Similarity),
		)
	}

	result := &Result{CoverageStats: stats, CourseRoadmap: roadmap}
	savedPath, err := SaveResult(s.ResultsDir(), result, originalFilename)
	if err != nil {
		return nil, "", err
	}

	logger.Info("syllabus processed",
		"days", len(roadmap),
		"topics", stats.TotalTopics,
		"coverage_percentage", stats.CoveragePercentage,
		"result_file", filepath.Base(savedPath),
	)
	return result, savedPath, nil
}

// Latest returns the newest saved result, or nil when none exists.
func (s *Service) Latest() (*LatestResult, error) {
	return LatestCoverageResult(s.ResultsDir())
}

// LatestTopics returns the flattened topic list of the newest result. Used by
// the topic-structure endpoint and the coverage analytics.
func (s *Service) LatestTopics() ([]string, error) {
	latest, err := s.Latest()
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}
	return FlattenRoadmap(latest.Data.CourseRoadmap), nil
}

// LatestTopicStructure returns the newest roadmap reduced to main topics and
// subtopics, or nil when no syllabus has been processed yet.
func (s *Service) LatestTopicStructure() ([]TopicEntry, error) {
	latest, err := s.Latest()
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}
	return TopicStructure(latest.Data.CourseRoadmap), nil
}

// boundPromptText caps oversized syllabi with a recursive character splitter
// so the roadmap request stays inside the model context window.
func boundPromptText(text string) (string, error) {
	if len(text) <= maxPromptChars {
		return text, nil
	}
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(maxPromptChars),
		textsplitter.WithChunkOverlap(0),
	)
	chunks, err := splitter.SplitText(text)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return text, nil
	}
	return chunks[0], nil
}
