package lectures

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Stats aggregates queue composition in a single pass.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	stats := Stats{ByStatus: make(map[Status]int64)}
	err := retryOnBusy(ctx, func() error {
		rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM lectures GROUP BY status`)
		if err != nil {
			return err
		}
		defer rows.Close()
		stats.Total = 0
		clear(stats.ByStatus)
		for rows.Next() {
			var status string
			var count int64
			if err := rows.Scan(&status, &count); err != nil {
				return err
			}
			stats.ByStatus[Status(status)] = count
			stats.Total += count
		}
		return rows.Err()
	})
	if err != nil {
		return Stats{}, fmt.Errorf("queue stats: %w", err)
	}

	var needsReview int64
	if err := s.queryRowWithRetry(ctx, []any{&needsReview},
		`SELECT COUNT(*) FROM lectures WHERE needs_review = 1`); err != nil {
		return Stats{}, fmt.Errorf("count review lectures: %w", err)
	}
	stats.NeedsReview = needsReview

	var oldest sql.NullString
	err = s.queryRowWithRetry(ctx, []any{&oldest}, `
		SELECT MIN(created_at) FROM lectures
		WHERE status NOT IN (?, ?, ?)`,
		string(StatusCompleted), string(StatusFailed), string(StatusReview))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Stats{}, fmt.Errorf("oldest active lecture: %w", err)
	}
	if oldest.Valid && oldest.String != "" {
		t, err := parseTimeString(oldest.String)
		if err != nil {
			return Stats{}, fmt.Errorf("parse oldest active: %w", err)
		}
		stats.OldestActive = &t
	}
	return stats, nil
}

// CheckHealth probes the database with a trivial query.
func (s *Store) CheckHealth(ctx context.Context) DatabaseHealth {
	ctx = ensureContext(ctx)
	health := DatabaseHealth{LastChecked: time.Now().UTC()}
	var one int
	if err := s.queryRowWithRetry(ctx, []any{&one}, `SELECT 1`); err != nil {
		health.ErrorMessage = err.Error()
		return health
	}
	health.Healthy = true
	return health
}

// Remove deletes a lecture outright. Only terminal lectures should be
// removed; callers enforce that policy.
func (s *Store) Remove(ctx context.Context, id int64) error {
	ctx = ensureContext(ctx)
	result, err := s.execWithRetry(ctx, `DELETE FROM lectures WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove lecture %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove lecture %d: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("lecture %d not found", id)
	}
	return nil
}

// ClearCompleted deletes completed lectures and returns how many were removed.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	return s.clearByStatus(ctx, StatusCompleted)
}

// ClearFailed deletes failed and review lectures.
func (s *Store) ClearFailed(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	result, err := s.execWithRetry(ctx, `DELETE FROM lectures WHERE status IN (?, ?)`,
		string(StatusFailed), string(StatusReview))
	if err != nil {
		return 0, fmt.Errorf("clear failed lectures: %w", err)
	}
	return result.RowsAffected()
}

func (s *Store) clearByStatus(ctx context.Context, status Status) (int64, error) {
	ctx = ensureContext(ctx)
	result, err := s.execWithRetry(ctx, `DELETE FROM lectures WHERE status = ?`, string(status))
	if err != nil {
		return 0, fmt.Errorf("clear %s lectures: %w", status, err)
	}
	return result.RowsAffected()
}

// RetryFailed returns failed and review lectures to the queue. Lectures that
// already hold a transcript resume at the enrichment stages instead of
// paying for transcription again.
func (s *Store) RetryFailed(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	result, err := s.execWithRetry(ctx, `
		UPDATE lectures SET
			status = CASE
				WHEN transcript IS NOT NULL AND transcript != '' THEN ?
				ELSE ?
			END,
			error_message = NULL,
			needs_review = 0,
			review_reason = NULL,
			progress_stage = NULL,
			progress_percent = 0,
			progress_message = NULL,
			last_heartbeat = NULL,
			updated_at = ?
		WHERE status IN (?, ?)`,
		string(StatusTranscribed), string(StatusPending),
		formatTime(time.Now().UTC()),
		string(StatusFailed), string(StatusReview))
	if err != nil {
		return 0, fmt.Errorf("retry failed lectures: %w", err)
	}
	return result.RowsAffected()
}

// RetryLecture requeues a single failed or review lecture.
func (s *Store) RetryLecture(ctx context.Context, id int64) error {
	ctx = ensureContext(ctx)
	result, err := s.execWithRetry(ctx, `
		UPDATE lectures SET
			status = CASE
				WHEN transcript IS NOT NULL AND transcript != '' THEN ?
				ELSE ?
			END,
			error_message = NULL,
			needs_review = 0,
			review_reason = NULL,
			progress_stage = NULL,
			progress_percent = 0,
			progress_message = NULL,
			last_heartbeat = NULL,
			updated_at = ?
		WHERE id = ? AND status IN (?, ?)`,
		string(StatusTranscribed), string(StatusPending),
		formatTime(time.Now().UTC()), id,
		string(StatusFailed), string(StatusReview))
	if err != nil {
		return fmt.Errorf("retry lecture %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("retry lecture %d: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("lecture %d is not in a retryable status", id)
	}
	return nil
}
