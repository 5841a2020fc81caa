package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/pkg/models"
)

// StudyPlanRepository handles database operations for study plans
type StudyPlanRepository struct {
	db *sqlx.DB
}

// NewStudyPlanRepository creates a new repository instance
func NewStudyPlanRepository(db *sqlx.DB) *StudyPlanRepository {
	return &StudyPlanRepository{db: db}
}

// Create inserts a new study plan.
func (r *StudyPlanRepository) Create(ctx context.Context, plan *models.StudyPlan) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO study_plans (id, learner_id, name, daily_goal, target_level, start_date, status, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, plan.ID, plan.LearnerID, plan.Name, plan.DailyGoal, plan.TargetLevel,
		plan.StartDate, string(plan.Status), plan.IsActive, plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create study plan: %v", err)
	}
	return nil
}

// GetByID returns a plan by ID, scoped to the learner.
func (r *StudyPlanRepository) GetByID(ctx context.Context, learnerID int64, planID string) (*models.StudyPlan, error) {
	var plan models.StudyPlan
	err := r.db.GetContext(ctx, &plan,
		"SELECT * FROM study_plans WHERE id = $1 AND learner_id = $2",
		planID, learnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("study plan %s: %w", planID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get study plan: %v", err)
	}
	return &plan, nil
}

// ListByLearner returns all plans of a learner, newest first.
func (r *StudyPlanRepository) ListByLearner(ctx context.Context, learnerID int64) ([]models.StudyPlan, error) {
	var plans []models.StudyPlan
	err := r.db.SelectContext(ctx, &plans,
		"SELECT * FROM study_plans WHERE learner_id = $1 ORDER BY created_at DESC",
		learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list study plans: %v", err)
	}
	return plans, nil
}

// UpdateStatus changes a plan's lifecycle status.
func (r *StudyPlanRepository) UpdateStatus(ctx context.Context, learnerID int64, planID string, status models.PlanStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE study_plans SET status = $1 WHERE id = $2 AND learner_id = $3",
		string(status), planID, learnerID)
	if err != nil {
		return fmt.Errorf("failed to update study plan status: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("study plan %s: %w", planID, ErrNotFound)
	}
	return nil
}

// SetActive marks one plan as the learner's active plan and clears the flag
// on every other plan, in a single transaction.
func (r *StudyPlanRepository) SetActive(ctx context.Context, learnerID int64, planID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE study_plans SET is_active = FALSE WHERE learner_id = $1",
		learnerID); err != nil {
		return fmt.Errorf("failed to clear active plan: %v", err)
	}
	result, err := tx.ExecContext(ctx,
		"UPDATE study_plans SET is_active = TRUE WHERE id = $1 AND learner_id = $2",
		planID, learnerID)
	if err != nil {
		return fmt.Errorf("failed to set active plan: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("study plan %s: %w", planID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}
