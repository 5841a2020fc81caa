package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/pkg/models"
)

// WordbookRepository handles database operations for favorites and mistakes
type WordbookRepository struct {
	db *sqlx.DB
}

// NewWordbookRepository creates a new repository instance
func NewWordbookRepository(db *sqlx.DB) *WordbookRepository {
	return &WordbookRepository{db: db}
}

// Add saves a word to the learner's wordbook. Adding a word that is already
// present is a no-op.
func (r *WordbookRepository) Add(ctx context.Context, entry *models.WordbookEntry) error {
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wordbook_entries (learner_id, word_id, kind, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (learner_id, word_id, kind) DO NOTHING
	`, entry.LearnerID, entry.WordID, string(entry.Kind), entry.AddedAt)
	if err != nil {
		return fmt.Errorf("failed to add wordbook entry: %v", err)
	}
	return nil
}

// Remove deletes a word from the learner's wordbook.
func (r *WordbookRepository) Remove(ctx context.Context, learnerID int64, wordID string, kind models.WordbookKind) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM wordbook_entries WHERE learner_id = $1 AND word_id = $2 AND kind = $3",
		learnerID, wordID, string(kind))
	if err != nil {
		return fmt.Errorf("failed to remove wordbook entry: %v", err)
	}
	return nil
}

// Contains reports whether the word is in the learner's wordbook.
func (r *WordbookRepository) Contains(ctx context.Context, learnerID int64, wordID string, kind models.WordbookKind) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM wordbook_entries WHERE learner_id = $1 AND word_id = $2 AND kind = $3",
		learnerID, wordID, string(kind))
	if err != nil {
		return false, fmt.Errorf("failed to check wordbook entry: %v", err)
	}
	return count > 0, nil
}

// List returns the learner's wordbook of the given kind, oldest first.
func (r *WordbookRepository) List(ctx context.Context, learnerID int64, kind models.WordbookKind) ([]models.WordbookEntry, error) {
	var entries []models.WordbookEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT * FROM wordbook_entries
		WHERE learner_id = $1 AND kind = $2
		ORDER BY added_at ASC
	`, learnerID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list wordbook entries: %v", err)
	}
	return entries, nil
}
