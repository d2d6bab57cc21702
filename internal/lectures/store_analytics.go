package lectures

import (
	"context"
	"fmt"
)

// LectureQuestionCount pairs a completed lecture with the number of captured
// classroom questions in its quiz column.
type LectureQuestionCount struct {
	LectureID int64 `json:"lectureId"`
	Questions int64 `json:"questions"`
}

// LectureWordCount pairs a completed lecture with its transcript word count.
type LectureWordCount struct {
	LectureID int64 `json:"lectureId"`
	WordCount int64 `json:"wordCount"`
}

// TimelineEntry pairs a completed lecture with its upload date, in upload
// order, for progression charts.
type TimelineEntry struct {
	LectureID int64  `json:"lectureId"`
	Date      string `json:"date"`
}

// QuestionsPerLecture counts stored questions per completed lecture using
// SQLite's JSON functions, cheapest where the data already lives.
func (s *Store) QuestionsPerLecture(ctx context.Context) ([]LectureQuestionCount, error) {
	ctx = ensureContext(ctx)
	var counts []LectureQuestionCount
	err := retryOnBusy(ctx, func() error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, COALESCE(json_array_length(quiz_json), 0)
			FROM lectures
			WHERE status = ?
			ORDER BY id ASC`, string(StatusCompleted))
		if err != nil {
			return err
		}
		defer rows.Close()
		counts = counts[:0]
		for rows.Next() {
			var c LectureQuestionCount
			if err := rows.Scan(&c.LectureID, &c.Questions); err != nil {
				return err
			}
			counts = append(counts, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("questions per lecture: %w", err)
	}
	return counts, nil
}

// TranscriptWordCounts estimates words per completed transcript by counting
// space separators in SQL, avoiding loading full transcripts into memory.
func (s *Store) TranscriptWordCounts(ctx context.Context) ([]LectureWordCount, error) {
	ctx = ensureContext(ctx)
	var counts []LectureWordCount
	err := retryOnBusy(ctx, func() error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, length(transcript) - length(replace(transcript, ' ', '')) + 1
			FROM lectures
			WHERE status = ? AND transcript IS NOT NULL AND transcript != ''
			ORDER BY id ASC`, string(StatusCompleted))
		if err != nil {
			return err
		}
		defer rows.Close()
		counts = counts[:0]
		for rows.Next() {
			var c LectureWordCount
			if err := rows.Scan(&c.LectureID, &c.WordCount); err != nil {
				return err
			}
			counts = append(counts, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("transcript word counts: %w", err)
	}
	return counts, nil
}

// LectureTimeline lists completed lectures with their upload dates in upload
// order.
func (s *Store) LectureTimeline(ctx context.Context) ([]TimelineEntry, error) {
	ctx = ensureContext(ctx)
	var entries []TimelineEntry
	err := retryOnBusy(ctx, func() error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, date(created_at)
			FROM lectures
			WHERE status = ?
			ORDER BY created_at ASC, id ASC`, string(StatusCompleted))
		if err != nil {
			return err
		}
		defer rows.Close()
		entries = entries[:0]
		for rows.Next() {
			var e TimelineEntry
			if err := rows.Scan(&e.LectureID, &e.Date); err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("lecture timeline: %w", err)
	}
	return entries, nil
}
