package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"lectern/internal/config"
	"lectern/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyLectureCompleted(context.Background(), "week1.mp3", false); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		send           func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "lecture received",
			send: func(svc notifications.Service) error {
				return svc.NotifyLectureReceived(context.Background(), "week1.mp3")
			},
			expectTitle:   "Lectern - Lecture Received",
			expectMessage: "Queued for processing: week1.mp3",
			expectTags:    "lectern,lecture,received",
		},
		{
			name: "lecture completed",
			send: func(svc notifications.Service) error {
				return svc.NotifyLectureCompleted(context.Background(), "week1.mp3", false)
			},
			expectTitle:    "Lectern - Lecture Ready",
			expectMessage:  "Analysis complete: week1.mp3",
			expectTags:     "lectern,lecture,completed",
			expectPriority: "high",
		},
		{
			name: "lecture completed with review flag",
			send: func(svc notifications.Service) error {
				return svc.NotifyLectureCompleted(context.Background(), "week1.mp3", true)
			},
			expectTitle:    "Lectern - Lecture Ready (review)",
			expectMessage:  "Analysis complete with degraded output: week1.mp3",
			expectTags:     "lectern,lecture,review",
			expectPriority: "high",
		},
		{
			name: "lecture failed",
			send: func(svc notifications.Service) error {
				return svc.NotifyLectureFailed(context.Background(), "week2.mp3", errors.New("transcription empty"))
			},
			expectTitle:    "Lectern - Lecture Failed",
			expectMessage:  "Processing failed: week2.mp3\ntranscription empty",
			expectTags:     "lectern,error,alert",
			expectPriority: "high",
		},
		{
			name: "syllabus processed",
			send: func(svc notifications.Service) error {
				return svc.NotifySyllabusProcessed(context.Background(), "cs101.pdf", 42.5)
			},
			expectTitle:   "Lectern - Syllabus Processed",
			expectMessage: "Roadmap built from cs101.pdf (42.5% covered so far)",
			expectTags:    "lectern,syllabus,processed",
		},
		{
			name: "test notification",
			send: func(svc notifications.Service) error {
				return svc.TestNotification(context.Background())
			},
			expectTitle:    "Lectern - Test",
			expectMessage:  "Notification system test",
			expectTags:     "lectern,test",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeoutSeconds = 5

			svc := notifications.NewService(&cfg)
			if err := tc.send(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceReportsHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.RequestTimeoutSeconds = 5

	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
