package models

import "time"

// WordbookKind distinguishes the learner's word collections
type WordbookKind string

const (
	WordbookFavorite WordbookKind = "favorite"
	WordbookMistake  WordbookKind = "mistake"
)

// WordbookEntry is a word saved to one of a learner's wordbooks
// (favorites or mistakes).
type WordbookEntry struct {
	LearnerID int64        `json:"learner_id" db:"learner_id"`
	WordID    string       `json:"word_id" db:"word_id"`
	Kind      WordbookKind `json:"kind" db:"kind"`
	AddedAt   time.Time    `json:"added_at" db:"added_at"`
}
