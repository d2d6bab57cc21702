package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lectern/internal/config"
)

const userAgent = "Lectern/0.1.0"

// Service defines the notification surface exposed to pipeline components.
type Service interface {
	NotifyLectureReceived(ctx context.Context, filename string) error
	NotifyLectureCompleted(ctx context.Context, filename string, needsReview bool) error
	NotifyLectureFailed(ctx context.Context, filename string, cause error) error
	NotifySyllabusProcessed(ctx context.Context, filename string, coveragePercent float64) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyLectureReceived(ctx context.Context, filename string) error {
	filename = strings.TrimSpace(filename)
	data := payload{
		title:   "Lectern - Lecture Received",
		message: fmt.Sprintf("Queued for processing: %s", filename),
		tags:    []string{"lectern", "lecture", "received"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyLectureCompleted(ctx context.Context, filename string, needsReview bool) error {
	filename = strings.TrimSpace(filename)
	data := payload{
		title:    "Lectern - Lecture Ready",
		message:  fmt.Sprintf("Analysis complete: %s", filename),
		tags:     []string{"lectern", "lecture", "completed"},
		priority: "high",
	}
	if needsReview {
		data.title = "Lectern - Lecture Ready (review)"
		data.message = fmt.Sprintf("Analysis complete with degraded output: %s", filename)
		data.tags = []string{"lectern", "lecture", "review"}
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyLectureFailed(ctx context.Context, filename string, cause error) error {
	var builder strings.Builder
	builder.WriteString("Processing failed")
	if filename = strings.TrimSpace(filename); filename != "" {
		builder.WriteString(": ")
		builder.WriteString(filename)
	}
	if cause != nil {
		builder.WriteString("\n")
		builder.WriteString(strings.TrimSpace(cause.Error()))
	}
	data := payload{
		title:    "Lectern - Lecture Failed",
		message:  builder.String(),
		tags:     []string{"lectern", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySyllabusProcessed(ctx context.Context, filename string, coveragePercent float64) error {
	filename = strings.TrimSpace(filename)
	data := payload{
		title:   "Lectern - Syllabus Processed",
		message: fmt.Sprintf("Roadmap built from %s (%.1f%% covered so far)", filename, coveragePercent),
		tags:    []string{"lectern", "syllabus", "processed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Lectern - Test",
		message:  "Notification system test",
		tags:     []string{"lectern", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyLectureReceived(context.Context, string) error             { return nil }
func (noopService) NotifyLectureCompleted(context.Context, string, bool) error      { return nil }
func (noopService) NotifyLectureFailed(context.Context, string, error) error        { return nil }
func (noopService) NotifySyllabusProcessed(context.Context, string, float64) error  { return nil }
func (noopService) TestNotification(context.Context) error                          { return nil }
