package models

import "time"

// ReviewItem is a pending entry in a learner's review queue. At most one
// entry exists per (learner, word); it is replaced on every review and
// removed when the word is mastered.
type ReviewItem struct {
	LearnerID    int64     `json:"learner_id" db:"learner_id"`
	WordID       string    `json:"word_id" db:"word_id"`
	ScheduledFor time.Time `json:"scheduled_for" db:"scheduled_for"`
	ReviewStage  int       `json:"review_stage" db:"review_stage"`
}
