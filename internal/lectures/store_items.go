package lectures

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// NewLecture inserts a pending lecture for an uploaded recording and returns
// it with its assigned ID.
func (s *Store) NewLecture(ctx context.Context, sourcePath, originalFilename string) (*Lecture, error) {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	lecture := &Lecture{
		Status:           StatusPending,
		SourcePath:       sourcePath,
		OriginalFilename: originalFilename,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	result, err := s.execWithRetry(ctx, `
		INSERT INTO lectures (status, source_path, original_filename, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		string(lecture.Status), lecture.SourcePath, lecture.OriginalFilename,
		formatTime(lecture.CreatedAt), formatTime(lecture.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert lecture: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("lecture id: %w", err)
	}
	lecture.ID = id
	return lecture, nil
}

// GetByID fetches one lecture. A missing row returns (nil, nil) so callers
// can distinguish absence from storage failure.
func (s *Store) GetByID(ctx context.Context, id int64) (*Lecture, error) {
	ctx = ensureContext(ctx)
	var lecture *Lecture
	err := retryOnBusy(ctx, func() error {
		row := s.db.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT %s FROM lectures WHERE id = ?`, lectureColumns), id)
		var scanErr error
		lecture, scanErr = scanLecture(row)
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get lecture %d: %w", id, err)
	}
	return lecture, nil
}

// Update persists every mutable column and refreshes updated_at.
func (s *Store) Update(ctx context.Context, lecture *Lecture) error {
	if lecture == nil {
		return errors.New("lecture is required")
	}
	ctx = ensureContext(ctx)
	lecture.UpdatedAt = time.Now().UTC()
	result, err := s.execWithRetry(ctx, `
		UPDATE lectures SET
			status = ?, source_path = ?, original_filename = ?, transcript = ?,
			summary = ?, topics_json = ?, quiz_json = ?, key_points_json = ?,
			examples_json = ?, lda_topics_json = ?, notes_json = ?, error_message = ?,
			progress_stage = ?, progress_percent = ?, progress_message = ?,
			needs_review = ?, review_reason = ?, updated_at = ?, last_heartbeat = ?
		WHERE id = ?`,
		string(lecture.Status), lecture.SourcePath, lecture.OriginalFilename,
		nullableString(lecture.Transcript), nullableString(lecture.SummaryJSON),
		nullableString(lecture.TopicsJSON), nullableString(lecture.QuizJSON),
		nullableString(lecture.KeyPointsJSON), nullableString(lecture.ExamplesJSON),
		nullableString(lecture.LDATopicsJSON), nullableString(lecture.NotesJSON),
		nullableString(lecture.ErrorMessage), nullableString(lecture.ProgressStage),
		lecture.ProgressPercent, nullableString(lecture.ProgressMessage),
		boolToInt(lecture.NeedsReview), nullableString(lecture.ReviewReason),
		formatTime(lecture.UpdatedAt), nullableTime(lecture.LastHeartbeat),
		lecture.ID)
	if err != nil {
		return fmt.Errorf("update lecture %d: %w", lecture.ID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lecture %d: %w", lecture.ID, err)
	}
	if rows == 0 {
		return fmt.Errorf("lecture %d not found", lecture.ID)
	}
	return nil
}

// UpdateProgress persists only the progress columns. Stages call this from
// inside Execute so dashboard polls see movement without a full row write.
func (s *Store) UpdateProgress(ctx context.Context, lecture *Lecture) error {
	if lecture == nil {
		return errors.New("lecture is required")
	}
	ctx = ensureContext(ctx)
	_, err := s.execWithRetry(ctx, `
		UPDATE lectures SET progress_stage = ?, progress_percent = ?, progress_message = ?, updated_at = ?
		WHERE id = ?`,
		nullableString(lecture.ProgressStage), lecture.ProgressPercent,
		nullableString(lecture.ProgressMessage), formatTime(time.Now().UTC()),
		lecture.ID)
	if err != nil {
		return fmt.Errorf("update lecture %d progress: %w", lecture.ID, err)
	}
	return nil
}

// List returns lectures newest first, optionally filtered by status. A limit
// of 0 returns everything.
func (s *Store) List(ctx context.Context, statusFilter []Status, limit int) ([]*Lecture, error) {
	ctx = ensureContext(ctx)
	query := fmt.Sprintf(`SELECT %s FROM lectures`, lectureColumns)
	args := []any{}
	if len(statusFilter) > 0 {
		query += fmt.Sprintf(` WHERE status IN (%s)`, makePlaceholders(len(statusFilter)))
		args = append(args, statusesToArgs(statusFilter)...)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryLectures(ctx, query, args...)
}

// NextForStatuses returns the oldest lecture in one of the given statuses,
// or nil when nothing is waiting. Lanes pass their stage-start statuses here
// to pick up work in arrival order.
func (s *Store) NextForStatuses(ctx context.Context, statuses ...Status) (*Lecture, error) {
	if len(statuses) == 0 {
		return nil, errors.New("at least one status is required")
	}
	ctx = ensureContext(ctx)
	query := fmt.Sprintf(`SELECT %s FROM lectures WHERE status IN (%s) ORDER BY created_at ASC, id ASC LIMIT 1`,
		lectureColumns, makePlaceholders(len(statuses)))
	var lecture *Lecture
	err := retryOnBusy(ctx, func() error {
		row := s.db.QueryRowContext(ctx, query, statusesToArgs(statuses)...)
		var scanErr error
		lecture, scanErr = scanLecture(row)
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next lecture: %w", err)
	}
	return lecture, nil
}

// CompletedLectures returns finished lectures in upload order. The analytics
// queries iterate these when aggregation needs JSON parsing Go side.
func (s *Store) CompletedLectures(ctx context.Context) ([]*Lecture, error) {
	ctx = ensureContext(ctx)
	query := fmt.Sprintf(`SELECT %s FROM lectures WHERE status = ? ORDER BY id ASC`, lectureColumns)
	return s.queryLectures(ctx, query, string(StatusCompleted))
}

// FindActiveByFilename reports an in-flight lecture already tracking a
// recording with the given original filename. The watch loop checks it
// before enqueueing so a re-dropped file does not process twice. Uploads
// land in per-lecture directories, so the filename is the only stable key.
func (s *Store) FindActiveByFilename(ctx context.Context, originalFilename string) (*Lecture, error) {
	ctx = ensureContext(ctx)
	query := fmt.Sprintf(`SELECT %s FROM lectures WHERE original_filename = ? AND status NOT IN (?, ?, ?) ORDER BY id DESC LIMIT 1`,
		lectureColumns)
	var lecture *Lecture
	err := retryOnBusy(ctx, func() error {
		row := s.db.QueryRowContext(ctx, query, originalFilename,
			string(StatusCompleted), string(StatusFailed), string(StatusReview))
		var scanErr error
		lecture, scanErr = scanLecture(row)
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find lecture by filename: %w", err)
	}
	return lecture, nil
}

func (s *Store) queryLectures(ctx context.Context, query string, args ...any) ([]*Lecture, error) {
	var lectures []*Lecture
	err := retryOnBusy(ctx, func() error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		lectures = lectures[:0]
		for rows.Next() {
			lecture, err := scanLecture(rows)
			if err != nil {
				return err
			}
			lectures = append(lectures, lecture)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query lectures: %w", err)
	}
	return lectures, nil
}
