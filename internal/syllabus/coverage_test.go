package syllabus_test

import (
	"context"
	"testing"

	"lectern/internal/lectures"
	"lectern/internal/syllabus"
	"lectern/internal/testsupport"
)

func completedLectureWithTopics(t *testing.T, store *lectures.Store, topicsJSON string) {
	t.Helper()
	lecture := testsupport.NewLecture(t, store, "/tmp/audio.mp3", "audio.mp3")
	lecture.Status = lectures.StatusCompleted
	lecture.TopicsJSON = topicsJSON
	if err := store.Update(context.Background(), lecture); err != nil {
		t.Fatalf("update lecture: %v", err)
	}
}

func TestCalculateCoverage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	completedLectureWithTopics(t, store,
		`[{"topic": "Recursion", "subtopics": ["Base cases", "Call Stack"]}]`)
	completedLectureWithTopics(t, store,
		`[{"topic": "Sorting", "subtopics": []}]`)

	topics := []string{"recursion", "Merge sort", "base cases", "Graphs"}
	stats, _, err := syllabus.CalculateCoverage(context.Background(), store, topics)
	if err != nil {
		t.Fatalf("coverage: %v", err)
	}

	if stats.TotalTopics != 4 {
		t.Fatalf("total topics = %d, want 4", stats.TotalTopics)
	}
	if stats.CoveredTopics != 2 {
		t.Fatalf("covered topics = %d, want 2: %+v", stats.CoveredTopics, stats)
	}
	if stats.CoveragePercentage != 50 {
		t.Fatalf("coverage percentage = %v, want 50", stats.CoveragePercentage)
	}
	if len(stats.MissingTopics) != 2 || stats.MissingTopics[0] != "Merge sort" {
		t.Fatalf("unexpected missing topics: %v", stats.MissingTopics)
	}
}

func TestCalculateCoverageSkipsBadJSON(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	completedLectureWithTopics(t, store, `{not json`)
	completedLectureWithTopics(t, store, `[{"topic": "Graphs"}]`)

	stats, _, err := syllabus.CalculateCoverage(context.Background(), store, []string{"Graphs", "Trees"})
	if err != nil {
		t.Fatalf("coverage: %v", err)
	}
	if stats.CoveredTopics != 1 {
		t.Fatalf("covered topics = %d, want 1", stats.CoveredTopics)
	}
}

func TestCalculateCoverageNoTopics(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	stats, _, err := syllabus.CalculateCoverage(context.Background(), store, nil)
	if err != nil {
		t.Fatalf("coverage: %v", err)
	}
	if stats.TotalTopics != 0 || stats.CoveragePercentage != 0 {
		t.Fatalf("unexpected stats for empty syllabus: %+v", stats)
	}
}
