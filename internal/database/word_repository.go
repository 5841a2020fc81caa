package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/pkg/models"
)

// WordRepository handles database operations for the vocabulary catalog
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

// wordRow is the flat table shape; meanings and examples are JSON text.
type wordRow struct {
	ID        string    `db:"id"`
	Text      string    `db:"word"`
	Phonetic  string    `db:"phonetic"`
	Meanings  string    `db:"meanings"`
	Examples  string    `db:"examples"`
	Level     string    `db:"level"`
	Unit      int       `db:"unit"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row *wordRow) toModel() (*models.Word, error) {
	word := &models.Word{
		ID:        row.ID,
		Text:      row.Text,
		Phonetic:  row.Phonetic,
		Level:     models.WordLevel(row.Level),
		Unit:      row.Unit,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.Meanings), &word.Meanings); err != nil {
		return nil, fmt.Errorf("failed to decode meanings for word %s: %v", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.Examples), &word.Examples); err != nil {
		return nil, fmt.Errorf("failed to decode examples for word %s: %v", row.ID, err)
	}
	return word, nil
}

func encodeWord(word *models.Word) (meanings, examples string, err error) {
	m, err := json.Marshal(word.Meanings)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode meanings: %v", err)
	}
	e, err := json.Marshal(word.Examples)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode examples: %v", err)
	}
	return string(m), string(e), nil
}

// GetByID returns a word by ID. Returns ErrNotFound when the catalog has no
// such word.
func (r *WordRepository) GetByID(ctx context.Context, id string) (*models.Word, error) {
	var row wordRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM words WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("word %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %v", err)
	}
	return row.toModel()
}

// List returns catalog words filtered by level and unit. An empty level or a
// zero unit means no filter on that field.
func (r *WordRepository) List(ctx context.Context, level models.WordLevel, unit int) ([]models.Word, error) {
	query := "SELECT * FROM words WHERE 1 = 1"
	args := []interface{}{}
	if level != "" {
		args = append(args, string(level))
		query += fmt.Sprintf(" AND level = $%d", len(args))
	}
	if unit != 0 {
		args = append(args, unit)
		query += fmt.Sprintf(" AND unit = $%d", len(args))
	}
	query += " ORDER BY level, unit, word"

	var rows []wordRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list words: %v", err)
	}
	return rowsToModels(rows)
}

// Search returns words whose text matches the pattern, case-insensitively.
func (r *WordRepository) Search(ctx context.Context, query string) ([]models.Word, error) {
	pattern := "%" + query + "%"
	var rows []wordRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM words
		WHERE LOWER(word) LIKE LOWER($1)
		ORDER BY word
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search words: %v", err)
	}
	return rowsToModels(rows)
}

// Create inserts a new word.
func (r *WordRepository) Create(ctx context.Context, word *models.Word) error {
	meanings, examples, err := encodeWord(word)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	word.CreatedAt = now
	word.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO words (id, word, phonetic, meanings, examples, level, unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, word.ID, word.Text, word.Phonetic, meanings, examples,
		string(word.Level), word.Unit, word.CreatedAt, word.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create word: %v", err)
	}
	return nil
}

// Update modifies an existing word.
func (r *WordRepository) Update(ctx context.Context, word *models.Word) error {
	meanings, examples, err := encodeWord(word)
	if err != nil {
		return err
	}
	word.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE words SET
			word = $1, phonetic = $2, meanings = $3, examples = $4,
			level = $5, unit = $6, updated_at = $7
		WHERE id = $8
	`, word.Text, word.Phonetic, meanings, examples,
		string(word.Level), word.Unit, word.UpdatedAt, word.ID)
	if err != nil {
		return fmt.Errorf("failed to update word: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("word %s: %w", word.ID, ErrNotFound)
	}
	return nil
}

func rowsToModels(rows []wordRow) ([]models.Word, error) {
	words := make([]models.Word, 0, len(rows))
	for i := range rows {
		word, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		words = append(words, *word)
	}
	return words, nil
}
