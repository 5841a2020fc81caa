package models

import "time"

// MasteryStatus is the coarse-grained learning state of a word
type MasteryStatus string

const (
	StatusNew       MasteryStatus = "new"
	StatusLearning  MasteryStatus = "learning"
	StatusReviewing MasteryStatus = "reviewing"
	StatusMastered  MasteryStatus = "mastered"
)

// Valid reports whether s is one of the defined mastery statuses.
func (s MasteryStatus) Valid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusReviewing, StatusMastered:
		return true
	}
	return false
}

// WordProgress tracks a learner's progress with a specific word.
// NextReviewAt is nil once the word is mastered.
type WordProgress struct {
	LearnerID      int64         `json:"learner_id" db:"learner_id"`
	WordID         string        `json:"word_id" db:"word_id"`
	Status         MasteryStatus `json:"status" db:"status"`
	CorrectCount   int           `json:"correct_count" db:"correct_count"`
	WrongCount     int           `json:"wrong_count" db:"wrong_count"`
	LastReviewedAt time.Time     `json:"last_reviewed_at" db:"last_reviewed_at"`
	NextReviewAt   *time.Time    `json:"next_review_at,omitempty" db:"next_review_at"`
	LearnedAt      time.Time     `json:"learned_at" db:"learned_at"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}
