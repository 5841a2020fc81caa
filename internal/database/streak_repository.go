package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/pkg/models"
)

// StreakRepository handles database operations for streak state
type StreakRepository struct {
	db *sqlx.DB
}

// NewStreakRepository creates a new repository instance
func NewStreakRepository(db *sqlx.DB) *StreakRepository {
	return &StreakRepository{db: db}
}

// Get returns the learner's streak state, or (nil, nil) for a learner with
// no recorded activity.
func (r *StreakRepository) Get(ctx context.Context, learnerID int64) (*models.StreakState, error) {
	var state models.StreakState
	err := r.db.GetContext(ctx, &state,
		"SELECT * FROM streaks WHERE learner_id = $1", learnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %v", err)
	}
	return &state, nil
}

// Save inserts or replaces the learner's streak state.
func (r *StreakRepository) Save(ctx context.Context, state *models.StreakState) error {
	query := `
		INSERT INTO streaks (learner_id, current_streak, last_study_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (learner_id) DO UPDATE SET
			current_streak = excluded.current_streak,
			last_study_date = excluded.last_study_date
	`
	_, err := r.db.ExecContext(ctx, query,
		state.LearnerID, state.CurrentStreak, state.LastStudyDate)
	if err != nil {
		return fmt.Errorf("failed to save streak: %v", err)
	}
	return nil
}
