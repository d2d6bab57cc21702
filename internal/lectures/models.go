package lectures

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Status represents the lifecycle state of a lecture.
type Status string

const (
	StatusPending      Status = "pending"
	StatusTranscribing Status = "transcribing"
	StatusTranscribed  Status = "transcribed"
	StatusAnalyzing    Status = "analyzing"
	StatusAnalyzed     Status = "analyzed"
	StatusModeling     Status = "modeling"
	StatusModeled      Status = "modeled"
	StatusAnnotating   Status = "annotating"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
	StatusReview       Status = "review"
)

// External status values reported by the HTTP API. Internal stage detail is
// collapsed to the three values dashboard clients understand.
const (
	ExternalDone       = "DONE"
	ExternalFailed     = "FAILED"
	ExternalProcessing = "PROCESSING"
)

// processingStatuses are the transient states a worker holds while a stage
// runs. Lectures stuck in one of these after a crash are rolled back on
// startup or reclaimed when their heartbeat goes stale.
var processingStatuses = map[Status]struct{}{
	StatusTranscribing: {},
	StatusAnalyzing:    {},
	StatusModeling:     {},
	StatusAnnotating:   {},
}

// stageRollbackTransitions maps each processing status to the stage-start
// status work resumes from after an interrupted run.
var stageRollbackTransitions = map[Status]Status{
	StatusTranscribing: StatusPending,
	StatusAnalyzing:    StatusTranscribed,
	StatusModeling:     StatusAnalyzed,
	StatusAnnotating:   StatusModeled,
}

// IsProcessing reports whether the status marks an in-flight stage.
func (s Status) IsProcessing() bool {
	_, ok := processingStatuses[s]
	return ok
}

// IsTerminal reports whether no further pipeline work applies.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusReview
}

// External maps the internal status onto the coarse value the API returns.
func (s Status) External() string {
	switch s {
	case StatusCompleted:
		return ExternalDone
	case StatusFailed, StatusReview:
		return ExternalFailed
	default:
		return ExternalProcessing
	}
}

// ParseStatus validates a user-supplied status string.
func ParseStatus(raw string) (Status, error) {
	candidate := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, status := range AllStatuses() {
		if candidate == status {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", raw)
}

// AllStatuses returns every status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusTranscribing,
		StatusTranscribed,
		StatusAnalyzing,
		StatusAnalyzed,
		StatusModeling,
		StatusModeled,
		StatusAnnotating,
		StatusCompleted,
		StatusFailed,
		StatusReview,
	}
}

// Lane identifies which worker loop owns a lecture at a given status.
type Lane string

const (
	LaneTranscription Lane = "transcription"
	LaneEnrichment    Lane = "enrichment"
)

// LaneForStatus routes statuses to lanes. Audio handling runs in the
// transcription lane; every AI enrichment stage shares the second lane so a
// long transcription never starves analysis of already-transcribed lectures.
func LaneForStatus(status Status) Lane {
	switch status {
	case StatusPending, StatusTranscribing:
		return LaneTranscription
	default:
		return LaneEnrichment
	}
}

// Lecture is one uploaded recording moving through the pipeline.
type Lecture struct {
	ID               int64      `json:"id"`
	Status           Status     `json:"status"`
	SourcePath       string     `json:"sourcePath"`
	OriginalFilename string     `json:"originalFilename"`
	Transcript       string     `json:"transcript,omitempty"`
	SummaryJSON      string     `json:"summaryJson,omitempty"`
	TopicsJSON       string     `json:"topicsJson,omitempty"`
	QuizJSON         string     `json:"quizJson,omitempty"`
	KeyPointsJSON    string     `json:"keyPointsJson,omitempty"`
	ExamplesJSON     string     `json:"examplesJson,omitempty"`
	LDATopicsJSON    string     `json:"ldaTopicsJson,omitempty"`
	NotesJSON        string     `json:"notesJson,omitempty"`
	ErrorMessage     string     `json:"errorMessage,omitempty"`
	ProgressStage    string     `json:"progressStage,omitempty"`
	ProgressPercent  float64    `json:"progressPercent,omitempty"`
	ProgressMessage  string     `json:"progressMessage,omitempty"`
	NeedsReview      bool       `json:"needsReview,omitempty"`
	ReviewReason     string     `json:"reviewReason,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	LastHeartbeat    *time.Time `json:"lastHeartbeat,omitempty"`
}

// InitProgress seeds progress tracking when a stage claims the lecture.
func (l *Lecture) InitProgress(stage, message string) {
	l.ProgressStage = stage
	l.ProgressPercent = 0
	l.ProgressMessage = message
}

// SetProgress updates stage progress, clamping percent to [0, 100].
func (l *Lecture) SetProgress(percent float64, message string) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	l.ProgressPercent = percent
	l.ProgressMessage = message
}

// SetProgressComplete marks the current stage finished.
func (l *Lecture) SetProgressComplete(message string) {
	l.ProgressPercent = 100
	l.ProgressMessage = message
}

// SetFailed transitions the lecture to a terminal failure status and records
// the cause. Review failures also flag the lecture for operator attention.
func (l *Lecture) SetFailed(status Status, message string) {
	if status != StatusFailed && status != StatusReview {
		status = StatusFailed
	}
	l.Status = status
	l.ErrorMessage = message
	if status == StatusReview {
		l.NeedsReview = true
		if l.ReviewReason == "" {
			l.ReviewReason = message
		}
	}
}

// MarkNeedsReview flags the lecture without changing its status. Used when a
// non-essential stage degrades but the pipeline still completes.
func (l *Lecture) MarkNeedsReview(reason string) {
	l.NeedsReview = true
	if reason != "" {
		l.ReviewReason = reason
	}
}

// Stats summarizes queue composition for the status command and API.
type Stats struct {
	Total        int64            `json:"total"`
	ByStatus     map[Status]int64 `json:"byStatus"`
	NeedsReview  int64            `json:"needsReview"`
	OldestActive *time.Time       `json:"oldestActive,omitempty"`
}

// SortedStatuses returns the statuses present in the stats, lifecycle order
// first, so callers render deterministic tables.
func (s Stats) SortedStatuses() []Status {
	known := make([]Status, 0, len(s.ByStatus))
	for _, status := range AllStatuses() {
		if _, ok := s.ByStatus[status]; ok {
			known = append(known, status)
		}
	}
	extras := make([]Status, 0)
	for status := range s.ByStatus {
		found := false
		for _, k := range known {
			if k == status {
				found = true
				break
			}
		}
		if !found {
			extras = append(extras, status)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i] < extras[j] })
	return append(known, extras...)
}

// DatabaseHealth reports the result of a store connectivity probe.
type DatabaseHealth struct {
	Healthy      bool      `json:"healthy"`
	LastChecked  time.Time `json:"lastChecked"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}
