package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/pkg/models"
)

// ReviewQueueRepository handles database operations for the review queue
type ReviewQueueRepository struct {
	db *sqlx.DB
}

// NewReviewQueueRepository creates a new repository instance
func NewReviewQueueRepository(db *sqlx.DB) *ReviewQueueRepository {
	return &ReviewQueueRepository{db: db}
}

// GetByWord returns the pending entry for a word, or (nil, nil) when the
// word is not queued.
func (r *ReviewQueueRepository) GetByWord(ctx context.Context, learnerID int64, wordID string) (*models.ReviewItem, error) {
	var item models.ReviewItem
	err := r.db.GetContext(ctx, &item,
		"SELECT * FROM review_queue WHERE learner_id = $1 AND word_id = $2",
		learnerID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get queue entry: %v", err)
	}
	return &item, nil
}

// Due returns every entry scheduled at or before now, most overdue first.
func (r *ReviewQueueRepository) Due(ctx context.Context, learnerID int64, now time.Time) ([]models.ReviewItem, error) {
	var items []models.ReviewItem
	err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM review_queue
		WHERE learner_id = $1 AND scheduled_for <= $2
		ORDER BY scheduled_for ASC
	`, learnerID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due entries: %v", err)
	}
	return items, nil
}

// Replace inserts the entry or overwrites the existing one for the word, so
// a word never has more than one pending entry.
func (r *ReviewQueueRepository) Replace(ctx context.Context, item *models.ReviewItem) error {
	query := `
		INSERT INTO review_queue (learner_id, word_id, scheduled_for, review_stage)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (learner_id, word_id) DO UPDATE SET
			scheduled_for = excluded.scheduled_for,
			review_stage = excluded.review_stage
	`
	_, err := r.db.ExecContext(ctx, query,
		item.LearnerID, item.WordID, item.ScheduledFor, item.ReviewStage)
	if err != nil {
		return fmt.Errorf("failed to replace queue entry: %v", err)
	}
	return nil
}

// Remove deletes the word's entry. Removing an absent entry is not an error.
func (r *ReviewQueueRepository) Remove(ctx context.Context, learnerID int64, wordID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM review_queue WHERE learner_id = $1 AND word_id = $2",
		learnerID, wordID)
	if err != nil {
		return fmt.Errorf("failed to remove queue entry: %v", err)
	}
	return nil
}

// DueCounts returns, per learner, how many words are due at the given time.
// Used by the reminder scheduler.
func (r *ReviewQueueRepository) DueCounts(ctx context.Context, now time.Time) (map[int64]int, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT learner_id, COUNT(*) AS due
		FROM review_queue
		WHERE scheduled_for <= $1
		GROUP BY learner_id
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count due entries: %v", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var learnerID int64
		var due int
		if err := rows.Scan(&learnerID, &due); err != nil {
			return nil, fmt.Errorf("failed to scan due count: %v", err)
		}
		counts[learnerID] = due
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read due counts: %v", err)
	}
	return counts, nil
}
