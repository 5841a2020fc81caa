package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtrainer/internal/srs"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DB_DRIVER", "DB_PATH", "DATABASE_URL", "REVIEW_INTERVALS",
		"TIMEZONE", "TELEGRAM_BOT_TOKEN", "NOTIFICATION_START_HOUR", "NOTIFICATION_END_HOUR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "data/vocabtrainer.db", cfg.Database.Path)
	assert.Equal(t, srs.DefaultIntervals(), cfg.Intervals)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, DefaultNotificationStartHour, cfg.NotificationStartHour)
	assert.Equal(t, DefaultNotificationEndHour, cfg.NotificationEndHour)
}

func TestLoadCustomIntervals(t *testing.T) {
	clearEnv(t)
	t.Setenv("REVIEW_INTERVALS", "1,3,7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, srs.Intervals{1, 3, 7}, cfg.Intervals)
}

func TestLoadRejectsBadIntervals(t *testing.T) {
	clearEnv(t)
	t.Setenv("REVIEW_INTERVALS", "7,3,1")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadTimezone(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIMEZONE", "Asia/Shanghai")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Shanghai", cfg.Location.String())

	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadPostgresRequiresURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/vocab?sslmode=disable")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoadNotificationHours(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTIFICATION_START_HOUR", "9")
	t.Setenv("NOTIFICATION_END_HOUR", "21")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.NotificationStartHour)
	assert.Equal(t, 21, cfg.NotificationEndHour)

	// out-of-range values fall back to the defaults
	t.Setenv("NOTIFICATION_START_HOUR", "25")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultNotificationStartHour, cfg.NotificationStartHour)
}
