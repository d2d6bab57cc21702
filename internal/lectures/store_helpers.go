package lectures

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// lectureColumns is the canonical select list. Every scan goes through
// scanLecture so column order lives in exactly one place.
const lectureColumns = `id, status, source_path, original_filename, transcript, summary,
	topics_json, quiz_json, key_points_json, examples_json, lda_topics_json, notes_json,
	error_message, progress_stage, progress_percent, progress_message,
	needs_review, review_reason, created_at, updated_at, last_heartbeat`

type scanner interface {
	Scan(dest ...any) error
}

func scanLecture(row scanner) (*Lecture, error) {
	var (
		lecture         Lecture
		status          string
		transcript      sql.NullString
		summary         sql.NullString
		topicsJSON      sql.NullString
		quizJSON        sql.NullString
		keyPointsJSON   sql.NullString
		examplesJSON    sql.NullString
		ldaTopicsJSON   sql.NullString
		notesJSON       sql.NullString
		errorMessage    sql.NullString
		progressStage   sql.NullString
		progressMessage sql.NullString
		needsReview     int64
		reviewReason    sql.NullString
		createdAt       string
		updatedAt       string
		lastHeartbeat   sql.NullString
	)
	if err := row.Scan(
		&lecture.ID,
		&status,
		&lecture.SourcePath,
		&lecture.OriginalFilename,
		&transcript,
		&summary,
		&topicsJSON,
		&quizJSON,
		&keyPointsJSON,
		&examplesJSON,
		&ldaTopicsJSON,
		&notesJSON,
		&errorMessage,
		&progressStage,
		&lecture.ProgressPercent,
		&progressMessage,
		&needsReview,
		&reviewReason,
		&createdAt,
		&updatedAt,
		&lastHeartbeat,
	); err != nil {
		return nil, err
	}
	lecture.Status = Status(status)
	lecture.Transcript = transcript.String
	lecture.SummaryJSON = summary.String
	lecture.TopicsJSON = topicsJSON.String
	lecture.QuizJSON = quizJSON.String
	lecture.KeyPointsJSON = keyPointsJSON.String
	lecture.ExamplesJSON = examplesJSON.String
	lecture.LDATopicsJSON = ldaTopicsJSON.String
	lecture.NotesJSON = notesJSON.String
	lecture.ErrorMessage = errorMessage.String
	lecture.ProgressStage = progressStage.String
	lecture.ProgressMessage = progressMessage.String
	lecture.NeedsReview = needsReview != 0
	lecture.ReviewReason = reviewReason.String

	var err error
	if lecture.CreatedAt, err = parseTimeString(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if lecture.UpdatedAt, err = parseTimeString(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if lastHeartbeat.Valid && strings.TrimSpace(lastHeartbeat.String) != "" {
		hb, err := parseTimeString(lastHeartbeat.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_heartbeat: %w", err)
		}
		lecture.LastHeartbeat = &hb
	}
	return &lecture, nil
}

// parseTimeString accepts both Go-written RFC 3339 timestamps and the
// datetime('now') format SQLite itself writes.
func parseTimeString(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return formatTime(*t)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func makePlaceholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func statusesToArgs(statuses []Status) []any {
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = string(status)
	}
	return args
}
