// Package analytics aggregates dashboard metrics over completed lectures.
// Counting that SQLite can do cheaply stays in SQL; metrics that need the
// stored JSON payloads are computed here, degrading to zeros when a payload
// fails to parse.
package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"

	"lectern/internal/lectures"
	"lectern/internal/logging"
)

// QuestionCount reports captured classroom questions for one lecture.
type QuestionCount struct {
	ClassID   int64 `json:"class_id"`
	Questions int64 `json:"questions"`
}

// TopicsOverview reports topic and subtopic counts for one lecture.
type TopicsOverview struct {
	ClassID   int64 `json:"class_id"`
	Topics    int   `json:"topics"`
	Subtopics int   `json:"subtopics"`
}

// TranscriptLength reports the transcript word count for one lecture.
type TranscriptLength struct {
	ClassID   int64 `json:"class_id"`
	WordCount int64 `json:"word_count"`
}

// SummaryMetric reports summary quality signals for one lecture.
type SummaryMetric struct {
	ClassID        int64 `json:"class_id"`
	MainIdeasCount int   `json:"main_ideas_count"`
	HasTakeaway    bool  `json:"has_takeaway"`
}

// CoverageEstimate approximates syllabus coverage from unique lecture topics.
type CoverageEstimate struct {
	UniqueTopicsCovered int     `json:"unique_topics_covered"`
	LecturesCount       int     `json:"lectures_count"`
	AvgTopicsPerClass   float64 `json:"avg_topics_per_class"`
}

// TimelinePoint reports one completed lecture's upload date.
type TimelinePoint struct {
	ClassID int64  `json:"class_id"`
	Date    string `json:"date"`
}

// Dashboard combines every metric for the main dashboard endpoint.
type Dashboard struct {
	QuestionsPerClass []QuestionCount    `json:"questions_per_class"`
	TopicsOverview    []TopicsOverview   `json:"topics_overview"`
	TranscriptLength  []TranscriptLength `json:"transcript_length"`
	SummaryMetrics    []SummaryMetric    `json:"summary_metrics"`
	SyllabusCoverage  CoverageEstimate   `json:"syllabus_coverage"`
	LectureTimeline   []TimelinePoint    `json:"lecture_timeline"`
}

// Service answers the analytics endpoints from the lecture store.
type Service struct {
	store  *lectures.Store
	logger *slog.Logger
}

// NewService constructs the analytics service.
func NewService(store *lectures.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logging.NewComponentLogger(logger, "analytics"),
	}
}

// QuestionsPerClass counts stored questions per completed lecture.
func (s *Service) QuestionsPerClass(ctx context.Context) ([]QuestionCount, error) {
	rows, err := s.store.QuestionsPerLecture(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]QuestionCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, QuestionCount{ClassID: row.LectureID, Questions: row.Questions})
	}
	return out, nil
}

// topicEntry mirrors the topicsCovered section stored per lecture.
type topicEntry struct {
	Topic     string   `json:"topic"`
	Subtopics []string `json:"subtopics"`
}

// TopicsOverview counts topics and subtopics per completed lecture.
func (s *Service) TopicsOverview(ctx context.Context) ([]TopicsOverview, error) {
	completed, err := s.store.CompletedLectures(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TopicsOverview, 0, len(completed))
	for _, lecture := range completed {
		overview := TopicsOverview{ClassID: lecture.ID}
		var entries []topicEntry
		if err := json.Unmarshal([]byte(orDefault(lecture.TopicsJSON, "[]")), &entries); err == nil {
			overview.Topics = len(entries)
			for _, entry := range entries {
				overview.Subtopics += len(entry.Subtopics)
			}
		}
		out = append(out, overview)
	}
	return out, nil
}

// TranscriptLengths reports words per completed transcript.
func (s *Service) TranscriptLengths(ctx context.Context) ([]TranscriptLength, error) {
	rows, err := s.store.TranscriptWordCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TranscriptLength, 0, len(rows))
	for _, row := range rows {
		out = append(out, TranscriptLength{ClassID: row.LectureID, WordCount: row.WordCount})
	}
	return out, nil
}

// SummaryMetrics extracts main-idea counts and takeaway presence per lecture.
func (s *Service) SummaryMetrics(ctx context.Context) ([]SummaryMetric, error) {
	completed, err := s.store.CompletedLectures(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SummaryMetric, 0, len(completed))
	for _, lecture := range completed {
		metric := SummaryMetric{ClassID: lecture.ID}
		var summary struct {
			MainIdeas   []string `json:"mainIdeas"`
			KeyTakeaway string   `json:"keyTakeaway"`
		}
		if err := json.Unmarshal([]byte(orDefault(lecture.SummaryJSON, "{}")), &summary); err == nil {
			metric.MainIdeasCount = len(summary.MainIdeas)
			metric.HasTakeaway = summary.KeyTakeaway != ""
		}
		out = append(out, metric)
	}
	return out, nil
}

// SyllabusCoverage approximates coverage as unique main topics across all
// completed lectures.
func (s *Service) SyllabusCoverage(ctx context.Context) (CoverageEstimate, error) {
	completed, err := s.store.CompletedLectures(ctx)
	if err != nil {
		return CoverageEstimate{}, err
	}
	unique := make(map[string]struct{})
	for _, lecture := range completed {
		var entries []topicEntry
		if err := json.Unmarshal([]byte(orDefault(lecture.TopicsJSON, "[]")), &entries); err != nil {
			continue
		}
		for _, entry := range entries {
			unique[entry.Topic] = struct{}{}
		}
	}

	estimate := CoverageEstimate{
		UniqueTopicsCovered: len(unique),
		LecturesCount:       len(completed),
	}
	if estimate.LecturesCount > 0 {
		avg := float64(estimate.UniqueTopicsCovered) / float64(estimate.LecturesCount)
		estimate.AvgTopicsPerClass = math.Round(avg*100) / 100
	}
	return estimate, nil
}

// Timeline reports completed lectures with their upload dates.
func (s *Service) Timeline(ctx context.Context) ([]TimelinePoint, error) {
	rows, err := s.store.LectureTimeline(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TimelinePoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, TimelinePoint{ClassID: row.LectureID, Date: row.Date})
	}
	return out, nil
}

// DashboardMetrics combines every analytics metric in one payload.
func (s *Service) DashboardMetrics(ctx context.Context) (*Dashboard, error) {
	questions, err := s.QuestionsPerClass(ctx)
	if err != nil {
		return nil, err
	}
	topics, err := s.TopicsOverview(ctx)
	if err != nil {
		return nil, err
	}
	lengths, err := s.TranscriptLengths(ctx)
	if err != nil {
		return nil, err
	}
	summaries, err := s.SummaryMetrics(ctx)
	if err != nil {
		return nil, err
	}
	coverage, err := s.SyllabusCoverage(ctx)
	if err != nil {
		return nil, err
	}
	timeline, err := s.Timeline(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		QuestionsPerClass: questions,
		TopicsOverview:    topics,
		TranscriptLength:  lengths,
		SummaryMetrics:    summaries,
		SyllabusCoverage:  coverage,
		LectureTimeline:   timeline,
	}, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
