package models

import "time"

// WordLevel indicates the school level a word belongs to
type WordLevel string

const (
	LevelJunior WordLevel = "junior"
	LevelSenior WordLevel = "senior"
)

// WordMeaning is a single definition with its part of speech
type WordMeaning struct {
	Pos        string `json:"pos"`
	Definition string `json:"definition"`
}

// Example is an example sentence with its translation
type Example struct {
	En string `json:"en"`
	Cn string `json:"cn"`
}

// Word represents a vocabulary item to be learned
type Word struct {
	ID        string        `json:"id" db:"id"`
	Text      string        `json:"word" db:"word"`
	Phonetic  string        `json:"phonetic" db:"phonetic"`
	Meanings  []WordMeaning `json:"meanings" db:"-"`
	Examples  []Example     `json:"examples" db:"-"`
	Level     WordLevel     `json:"level" db:"level"`
	Unit      int           `json:"unit" db:"unit"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}
