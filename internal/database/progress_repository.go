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

// ProgressRepository handles database operations for word progress
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new repository instance
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get returns progress for a specific learner and word, or (nil, nil) when
// the word has never been touched.
func (r *ProgressRepository) Get(ctx context.Context, learnerID int64, wordID string) (*models.WordProgress, error) {
	var progress models.WordProgress
	err := r.db.GetContext(ctx, &progress,
		"SELECT * FROM word_progress WHERE learner_id = $1 AND word_id = $2",
		learnerID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word progress: %v", err)
	}
	return &progress, nil
}

// ListByLearner returns every progress record for a learner.
func (r *ProgressRepository) ListByLearner(ctx context.Context, learnerID int64) ([]models.WordProgress, error) {
	var progress []models.WordProgress
	err := r.db.SelectContext(ctx, &progress,
		"SELECT * FROM word_progress WHERE learner_id = $1 ORDER BY word_id",
		learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list word progress: %v", err)
	}
	return progress, nil
}

// LearnedCount returns how many words the learner has ever learned,
// mastered words included.
func (r *ProgressRepository) LearnedCount(ctx context.Context, learnerID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM word_progress WHERE learner_id = $1 AND status <> $2",
		learnerID, models.StatusNew)
	if err != nil {
		return 0, fmt.Errorf("failed to count learned words: %v", err)
	}
	return count, nil
}

// Upsert inserts the record or replaces the existing one keyed by
// (learner_id, word_id).
func (r *ProgressRepository) Upsert(ctx context.Context, progress *models.WordProgress) error {
	now := time.Now().UTC()
	if progress.CreatedAt.IsZero() {
		progress.CreatedAt = now
	}
	progress.UpdatedAt = now

	query := `
		INSERT INTO word_progress (
			learner_id, word_id, status, correct_count, wrong_count,
			last_reviewed_at, next_review_at, learned_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (learner_id, word_id) DO UPDATE SET
			status = excluded.status,
			correct_count = excluded.correct_count,
			wrong_count = excluded.wrong_count,
			last_reviewed_at = excluded.last_reviewed_at,
			next_review_at = excluded.next_review_at,
			learned_at = excluded.learned_at,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		progress.LearnerID,
		progress.WordID,
		progress.Status,
		progress.CorrectCount,
		progress.WrongCount,
		progress.LastReviewedAt,
		progress.NextReviewAt,
		progress.LearnedAt,
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert word progress: %v", err)
	}
	return nil
}
