package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/pkg/models"
)

// DailyRecordRepository handles database operations for daily activity
type DailyRecordRepository struct {
	db *sqlx.DB
}

// NewDailyRecordRepository creates a new repository instance
func NewDailyRecordRepository(db *sqlx.DB) *DailyRecordRepository {
	return &DailyRecordRepository{db: db}
}

// GetByDate returns the record for one calendar day, or (nil, nil) when the
// learner had no activity that day.
func (r *DailyRecordRepository) GetByDate(ctx context.Context, learnerID int64, date string) (*models.DailyRecord, error) {
	var record models.DailyRecord
	err := r.db.GetContext(ctx, &record,
		"SELECT * FROM daily_records WHERE learner_id = $1 AND date = $2",
		learnerID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily record: %v", err)
	}
	return &record, nil
}

// Range returns records with from <= date <= to, ascending. Dates are
// YYYY-MM-DD strings, so lexicographic order is chronological order.
func (r *DailyRecordRepository) Range(ctx context.Context, learnerID int64, from, to string) ([]models.DailyRecord, error) {
	var records []models.DailyRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT * FROM daily_records
		WHERE learner_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`, learnerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily records: %v", err)
	}
	return records, nil
}

// Upsert inserts the record or replaces the existing one for the day.
func (r *DailyRecordRepository) Upsert(ctx context.Context, record *models.DailyRecord) error {
	query := `
		INSERT INTO daily_records (learner_id, date, words_learned, words_reviewed, study_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (learner_id, date) DO UPDATE SET
			words_learned = excluded.words_learned,
			words_reviewed = excluded.words_reviewed,
			study_time = excluded.study_time
	`
	_, err := r.db.ExecContext(ctx, query,
		record.LearnerID, record.Date,
		record.WordsLearned, record.WordsReviewed, record.StudyTime)
	if err != nil {
		return fmt.Errorf("failed to upsert daily record: %v", err)
	}
	return nil
}
