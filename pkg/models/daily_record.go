package models

// DateLayout is the format used for calendar-day keys.
const DateLayout = "2006-01-02"

// DailyRecord accumulates a learner's activity for one calendar day.
// Date is in the learner's local time zone, YYYY-MM-DD.
type DailyRecord struct {
	LearnerID     int64  `json:"learner_id" db:"learner_id"`
	Date          string `json:"date" db:"date"`
	WordsLearned  int    `json:"words_learned" db:"words_learned"`
	WordsReviewed int    `json:"words_reviewed" db:"words_reviewed"`
	StudyTime     int    `json:"study_time" db:"study_time"` // minutes
}

// StreakState tracks consecutive study days for a learner.
// LastStudyDate is empty until the first activity is recorded.
type StreakState struct {
	LearnerID     int64  `json:"learner_id" db:"learner_id"`
	CurrentStreak int    `json:"current_streak" db:"current_streak"`
	LastStudyDate string `json:"last_study_date" db:"last_study_date"`
}
