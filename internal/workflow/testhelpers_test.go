package workflow_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"lectern/internal/lectures"
	"lectern/internal/stage"
)

// stubHandler is a configurable stage handler for manager tests.
type stubHandler struct {
	name      string
	onPrepare func(context.Context, *lectures.Lecture) error
	onExecute func(context.Context, *lectures.Lecture) error

	mu       sync.Mutex
	executed int
}

func (s *stubHandler) Prepare(ctx context.Context, lecture *lectures.Lecture) error {
	if s.onPrepare != nil {
		return s.onPrepare(ctx, lecture)
	}
	return nil
}

func (s *stubHandler) Execute(ctx context.Context, lecture *lectures.Lecture) error {
	s.mu.Lock()
	s.executed++
	s.mu.Unlock()
	if s.onExecute != nil {
		return s.onExecute(ctx, lecture)
	}
	return nil
}

func (s *stubHandler) HealthCheck(context.Context) stage.Health {
	return stage.Healthy(s.name)
}

func (s *stubHandler) executions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.executed
}

// recordingNotifier captures notification traffic for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	completed []string
	failed    []string
}

func (r *recordingNotifier) NotifyLectureReceived(context.Context, string) error { return nil }

func (r *recordingNotifier) NotifyLectureCompleted(_ context.Context, filename string, _ bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, filename)
	return nil
}

func (r *recordingNotifier) NotifyLectureFailed(_ context.Context, filename string, _ error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, filename)
	return nil
}

func (r *recordingNotifier) NotifySyllabusProcessed(context.Context, string, float64) error {
	return nil
}

func (r *recordingNotifier) TestNotification(context.Context) error { return nil }

func (r *recordingNotifier) completedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.completed)
}

func (r *recordingNotifier) failedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failed)
}

func waitForStatus(t *testing.T, store *lectures.Store, id int64, want lectures.Status, timeout time.Duration) *lectures.Lecture {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		lecture, err := store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("get lecture: %v", err)
		}
		if lecture != nil && lecture.Status == want {
			return lecture
		}
		time.Sleep(20 * time.Millisecond)
	}
	lecture, _ := store.GetByID(context.Background(), id)
	status := lectures.Status("<missing>")
	if lecture != nil {
		status = lecture.Status
	}
	t.Fatalf("lecture %d never reached %s (currently %s)", id, want, status)
	return nil
}
