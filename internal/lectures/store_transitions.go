package lectures

import (
	"context"
	"fmt"
	"time"
)

// rollbackCase builds the CASE expression returning each processing status
// to its stage-start status.
func rollbackCase() string {
	return fmt.Sprintf(`CASE status
		WHEN '%s' THEN '%s'
		WHEN '%s' THEN '%s'
		WHEN '%s' THEN '%s'
		WHEN '%s' THEN '%s'
		ELSE status END`,
		StatusTranscribing, stageRollbackTransitions[StatusTranscribing],
		StatusAnalyzing, stageRollbackTransitions[StatusAnalyzing],
		StatusModeling, stageRollbackTransitions[StatusModeling],
		StatusAnnotating, stageRollbackTransitions[StatusAnnotating])
}

// ResetStuckProcessing rolls every in-flight lecture back to its stage-start
// status. Called once at daemon startup, before the lanes spin up, so work
// interrupted by a crash is picked up again rather than stranded.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	query := fmt.Sprintf(`
		UPDATE lectures SET
			status = %s,
			progress_stage = NULL,
			progress_percent = 0,
			progress_message = NULL,
			last_heartbeat = NULL,
			updated_at = ?
		WHERE status IN (?, ?, ?, ?)`, rollbackCase())
	result, err := s.execWithRetry(ctx, query,
		formatTime(time.Now().UTC()),
		string(StatusTranscribing), string(StatusAnalyzing),
		string(StatusModeling), string(StatusAnnotating))
	if err != nil {
		return 0, fmt.Errorf("reset stuck lectures: %w", err)
	}
	return result.RowsAffected()
}

// ReclaimStaleProcessing rolls back in-flight lectures whose heartbeat is
// older than staleAfter. The workflow manager calls this periodically to
// recover lectures whose worker died mid-stage.
func (s *Store) ReclaimStaleProcessing(ctx context.Context, staleAfter time.Duration) (int64, error) {
	if staleAfter <= 0 {
		return 0, nil
	}
	ctx = ensureContext(ctx)
	cutoff := time.Now().UTC().Add(-staleAfter)
	query := fmt.Sprintf(`
		UPDATE lectures SET
			status = %s,
			progress_stage = NULL,
			progress_percent = 0,
			progress_message = NULL,
			last_heartbeat = NULL,
			updated_at = ?
		WHERE status IN (?, ?, ?, ?)
		  AND (last_heartbeat IS NULL OR last_heartbeat < ?)`, rollbackCase())
	result, err := s.execWithRetry(ctx, query,
		formatTime(time.Now().UTC()),
		string(StatusTranscribing), string(StatusAnalyzing),
		string(StatusModeling), string(StatusAnnotating),
		formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("reclaim stale lectures: %w", err)
	}
	return result.RowsAffected()
}

// UpdateHeartbeat stamps the lecture as actively worked on.
func (s *Store) UpdateHeartbeat(ctx context.Context, id int64) error {
	ctx = ensureContext(ctx)
	now := formatTime(time.Now().UTC())
	result, err := s.execWithRetry(ctx,
		`UPDATE lectures SET last_heartbeat = ?, updated_at = ? WHERE id = ?`,
		now, now, id)
	if err != nil {
		return fmt.Errorf("update heartbeat for lecture %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update heartbeat for lecture %d: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("lecture %d not found", id)
	}
	return nil
}
