package analytics_test

import (
	"context"
	"testing"

	"lectern/internal/analytics"
	"lectern/internal/lectures"
	"lectern/internal/logging"
	"lectern/internal/testsupport"
)

func completedLecture(t *testing.T, store *lectures.Store, mutate func(*lectures.Lecture)) *lectures.Lecture {
	t.Helper()
	lecture := testsupport.NewLecture(t, store, "/tmp/audio.mp3", "audio.mp3")
	lecture.Status = lectures.StatusCompleted
	if mutate != nil {
		mutate(lecture)
	}
	if err := store.Update(context.Background(), lecture); err != nil {
		t.Fatalf("update lecture: %v", err)
	}
	return lecture
}

func newService(t *testing.T) (*analytics.Service, *lectures.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	return analytics.NewService(store, logging.NewNop()), store
}

func TestTopicsOverview(t *testing.T) {
	service, store := newService(t)
	first := completedLecture(t, store, func(l *lectures.Lecture) {
		l.TopicsJSON = `[{"topic":"Recursion","subtopics":["Base cases","Call stack"]},{"topic":"Sorting","subtopics":["Merge sort"]}]`
	})
	completedLecture(t, store, func(l *lectures.Lecture) {
		l.TopicsJSON = `{broken json`
	})

	overview, err := service.TopicsOverview(context.Background())
	if err != nil {
		t.Fatalf("topics overview: %v", err)
	}
	if len(overview) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(overview))
	}
	if overview[0].ClassID != first.ID || overview[0].Topics != 2 || overview[0].Subtopics != 3 {
		t.Fatalf("unexpected first row: %+v", overview[0])
	}
	if overview[1].Topics != 0 || overview[1].Subtopics != 0 {
		t.Fatalf("bad JSON should degrade to zeros: %+v", overview[1])
	}
}

func TestSummaryMetrics(t *testing.T) {
	service, store := newService(t)
	completedLecture(t, store, func(l *lectures.Lecture) {
		l.SummaryJSON = `{"mainIdeas":["a","b","c"],"keyTakeaway":"define base cases"}`
	})
	completedLecture(t, store, func(l *lectures.Lecture) {
		l.SummaryJSON = `{"mainIdeas":[]}`
	})

	metrics, err := service.SummaryMetrics(context.Background())
	if err != nil {
		t.Fatalf("summary metrics: %v", err)
	}
	if len(metrics) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(metrics))
	}
	if metrics[0].MainIdeasCount != 3 || !metrics[0].HasTakeaway {
		t.Fatalf("unexpected first row: %+v", metrics[0])
	}
	if metrics[1].MainIdeasCount != 0 || metrics[1].HasTakeaway {
		t.Fatalf("unexpected second row: %+v", metrics[1])
	}
}

func TestSyllabusCoverageEstimate(t *testing.T) {
	service, store := newService(t)
	completedLecture(t, store, func(l *lectures.Lecture) {
		l.TopicsJSON = `[{"topic":"Recursion"},{"topic":"Sorting"}]`
	})
	completedLecture(t, store, func(l *lectures.Lecture) {
		l.TopicsJSON = `[{"topic":"Recursion"},{"topic":"Graphs"}]`
	})

	estimate, err := service.SyllabusCoverage(context.Background())
	if err != nil {
		t.Fatalf("coverage estimate: %v", err)
	}
	if estimate.UniqueTopicsCovered != 3 {
		t.Fatalf("unique topics = %d, want 3", estimate.UniqueTopicsCovered)
	}
	if estimate.LecturesCount != 2 {
		t.Fatalf("lectures count = %d, want 2", estimate.LecturesCount)
	}
	if estimate.AvgTopicsPerClass != 1.5 {
		t.Fatalf("avg topics = %v, want 1.5", estimate.AvgTopicsPerClass)
	}
}

func TestSyllabusCoverageEmpty(t *testing.T) {
	service, _ := newService(t)
	estimate, err := service.SyllabusCoverage(context.Background())
	if err != nil {
		t.Fatalf("coverage estimate: %v", err)
	}
	if estimate.LecturesCount != 0 || estimate.AvgTopicsPerClass != 0 {
		t.Fatalf("unexpected estimate: %+v", estimate)
	}
}

func TestDashboardMetrics(t *testing.T) {
	service, store := newService(t)
	completedLecture(t, store, func(l *lectures.Lecture) {
		l.Transcript = "hello there students"
		l.TopicsJSON = `[{"topic":"Recursion","subtopics":["Base cases"]}]`
		l.QuizJSON = `[{"question":"why?"}]`
		l.SummaryJSON = `{"mainIdeas":["x"],"keyTakeaway":"y"}`
	})

	dashboard, err := service.DashboardMetrics(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dashboard.QuestionsPerClass) != 1 || dashboard.QuestionsPerClass[0].Questions != 1 {
		t.Fatalf("unexpected questions: %+v", dashboard.QuestionsPerClass)
	}
	if len(dashboard.TranscriptLength) != 1 || dashboard.TranscriptLength[0].WordCount != 3 {
		t.Fatalf("unexpected transcript length: %+v", dashboard.TranscriptLength)
	}
	if len(dashboard.LectureTimeline) != 1 {
		t.Fatalf("unexpected timeline: %+v", dashboard.LectureTimeline)
	}
	if dashboard.SyllabusCoverage.UniqueTopicsCovered != 1 {
		t.Fatalf("unexpected coverage: %+v", dashboard.SyllabusCoverage)
	}
}
