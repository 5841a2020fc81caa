package models

import "time"

// PlanStatus is the lifecycle state of a study plan
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanPaused    PlanStatus = "paused"
	PlanCompleted PlanStatus = "completed"
)

// StudyPlan is a learner's daily study goal. TargetLevel is a WordLevel
// or "all".
type StudyPlan struct {
	ID          string     `json:"id" db:"id"`
	LearnerID   int64      `json:"learner_id" db:"learner_id"`
	Name        string     `json:"name" db:"name"`
	DailyGoal   int        `json:"daily_goal" db:"daily_goal"`
	TargetLevel string     `json:"target_level" db:"target_level"`
	StartDate   time.Time  `json:"start_date" db:"start_date"`
	Status      PlanStatus `json:"status" db:"status"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
