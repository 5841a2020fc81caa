package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/internal/srs"
)

// Defaults for the reminder window (hours, learner-local).
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Config holds the application configuration, loaded from the environment
// (optionally seeded from a .env file).
type Config struct {
	Database  database.Config
	Intervals srs.Intervals
	Location  *time.Location

	TelegramToken         string
	NotificationStartHour int
	NotificationEndHour   int
}

// Load reads the configuration from the environment. A missing .env file is
// not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Database: database.Config{
			Driver: envOr("DB_DRIVER", "sqlite3"),
			Path:   envOr("DB_PATH", "data/vocabtrainer.db"),
			URL:    os.Getenv("DATABASE_URL"),
		},
		Intervals:             srs.DefaultIntervals(),
		Location:              time.UTC,
		TelegramToken:         os.Getenv("TELEGRAM_BOT_TOKEN"),
		NotificationStartHour: envHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour),
		NotificationEndHour:   envHour("NOTIFICATION_END_HOUR", DefaultNotificationEndHour),
	}

	if raw := os.Getenv("REVIEW_INTERVALS"); raw != "" {
		intervals, err := srs.ParseIntervals(raw)
		if err != nil {
			return nil, fmt.Errorf("REVIEW_INTERVALS: %v", err)
		}
		cfg.Intervals = intervals
	}

	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("TIMEZONE: %v", err)
		}
		cfg.Location = loc
	}

	if cfg.Database.Driver == "postgres" && cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envHour(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
