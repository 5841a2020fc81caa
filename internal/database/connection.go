package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Config selects the backing store.
type Config struct {
	Driver string // "sqlite3" or "postgres"
	Path   string // sqlite database file
	URL    string // postgres connection string
}

// Connect opens the database and makes sure the schema exists. The returned
// handle is passed into the repositories; there is no package-level
// connection.
func Connect(cfg Config) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error

	switch cfg.Driver {
	case "postgres":
		db, err = sqlx.Connect("postgres", cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %v", err)
		}
	case "sqlite3", "":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %v", err)
			}
		}
		db, err = sqlx.Connect("sqlite3", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to sqlite: %v", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	if err := initializeSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// initializeSchema creates the tables if they don't exist. The DDL sticks to
// the subset both sqlite and postgres accept.
func initializeSchema(db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS words (
			id TEXT PRIMARY KEY,
			word TEXT NOT NULL,
			phonetic TEXT NOT NULL DEFAULT '',
			meanings TEXT NOT NULL DEFAULT '[]',
			examples TEXT NOT NULL DEFAULT '[]',
			level TEXT NOT NULL,
			unit BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS word_progress (
			learner_id BIGINT NOT NULL,
			word_id TEXT NOT NULL,
			status TEXT NOT NULL,
			correct_count BIGINT NOT NULL DEFAULT 0,
			wrong_count BIGINT NOT NULL DEFAULT 0,
			last_reviewed_at TIMESTAMP NOT NULL,
			next_review_at TIMESTAMP,
			learned_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (learner_id, word_id)
		)`,
		`CREATE TABLE IF NOT EXISTS review_queue (
			learner_id BIGINT NOT NULL,
			word_id TEXT NOT NULL,
			scheduled_for TIMESTAMP NOT NULL,
			review_stage BIGINT NOT NULL,
			PRIMARY KEY (learner_id, word_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_review_queue_due
			ON review_queue (learner_id, scheduled_for)`,
		`CREATE TABLE IF NOT EXISTS daily_records (
			learner_id BIGINT NOT NULL,
			date TEXT NOT NULL,
			words_learned BIGINT NOT NULL DEFAULT 0,
			words_reviewed BIGINT NOT NULL DEFAULT 0,
			study_time BIGINT NOT NULL DEFAULT 0,
			PRIMARY KEY (learner_id, date)
		)`,
		`CREATE TABLE IF NOT EXISTS streaks (
			learner_id BIGINT PRIMARY KEY,
			current_streak BIGINT NOT NULL DEFAULT 0,
			last_study_date TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS study_plans (
			id TEXT PRIMARY KEY,
			learner_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			daily_goal BIGINT NOT NULL,
			target_level TEXT NOT NULL,
			start_date TIMESTAMP NOT NULL,
			status TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS wordbook_entries (
			learner_id BIGINT NOT NULL,
			word_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			added_at TIMESTAMP NOT NULL,
			PRIMARY KEY (learner_id, word_id, kind)
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}
	return nil
}
