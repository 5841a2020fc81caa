// Package plans manages learners' study plans: named daily-goal targets the
// UI reads alongside the scheduling engine.
package plans

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/vocabtrainer/pkg/models"
)

// Repository persists study plans.
type Repository interface {
	Create(ctx context.Context, plan *models.StudyPlan) error
	GetByID(ctx context.Context, learnerID int64, planID string) (*models.StudyPlan, error)
	ListByLearner(ctx context.Context, learnerID int64) ([]models.StudyPlan, error)
	UpdateStatus(ctx context.Context, learnerID int64, planID string, status models.PlanStatus) error
	SetActive(ctx context.Context, learnerID int64, planID string) error
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Service manages study plans for learners.
type Service struct {
	repo  Repository
	clock Clock
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// NewService creates a plans service.
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = systemClock{}
	}
	return &Service{repo: repo, clock: clock}
}

// Create adds a new active-status plan. The learner's first plan also
// becomes their active plan.
func (s *Service) Create(ctx context.Context, learnerID int64, name string, dailyGoal int, targetLevel string) (*models.StudyPlan, error) {
	if name == "" {
		return nil, fmt.Errorf("plan name must not be empty")
	}
	if dailyGoal <= 0 {
		return nil, fmt.Errorf("daily goal must be positive")
	}
	switch targetLevel {
	case string(models.LevelJunior), string(models.LevelSenior), "all":
	default:
		return nil, fmt.Errorf("unknown target level %q", targetLevel)
	}

	existing, err := s.repo.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	plan := &models.StudyPlan{
		ID:          uuid.NewString(),
		LearnerID:   learnerID,
		Name:        name,
		DailyGoal:   dailyGoal,
		TargetLevel: targetLevel,
		StartDate:   s.clock.Now(),
		Status:      models.PlanActive,
		IsActive:    len(existing) == 0,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	return plan, nil
}

// SetActive switches the learner's active plan.
func (s *Service) SetActive(ctx context.Context, learnerID int64, planID string) error {
	return s.repo.SetActive(ctx, learnerID, planID)
}

// TogglePause pauses an active plan or resumes a paused one. Completed
// plans are left alone.
func (s *Service) TogglePause(ctx context.Context, learnerID int64, planID string) (*models.StudyPlan, error) {
	plan, err := s.repo.GetByID(ctx, learnerID, planID)
	if err != nil {
		return nil, err
	}
	switch plan.Status {
	case models.PlanActive:
		plan.Status = models.PlanPaused
	case models.PlanPaused:
		plan.Status = models.PlanActive
	default:
		return plan, nil
	}
	if err := s.repo.UpdateStatus(ctx, learnerID, planID, plan.Status); err != nil {
		return nil, err
	}
	return plan, nil
}

// ListByLearner returns the learner's plans.
func (s *Service) ListByLearner(ctx context.Context, learnerID int64) ([]models.StudyPlan, error) {
	return s.repo.ListByLearner(ctx, learnerID)
}
