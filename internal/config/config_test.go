package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"ENV",
	"DB_DRIVER",
	"DB_DSN",
	"DB_MAX_OPEN_CONNS",
	"TELEGRAM_BOT_TOKEN",
	"REMINDER_EVERY",
	"REMINDER_START_HOUR",
	"REMINDER_END_HOUR",
	"REVIEW_MAX_ATTEMPTS",
	"REVIEW_MAX_INTERVAL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "sqlite3", cfg.DB.Driver)
	assert.Equal(t, "data/studyreview.db", cfg.DB.DSN)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Empty(t, cfg.Telegram.BotToken)
	assert.Equal(t, time.Hour, cfg.Reminder.Every)
	assert.Equal(t, 8, cfg.Reminder.StartHour)
	assert.Equal(t, 22, cfg.Reminder.EndHour)
	assert.Equal(t, 3, cfg.Review.MaxAttempts)
	assert.Equal(t, 0, cfg.Review.MaxInterval)
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	yaml := `
env: production
db:
  driver: postgres
  dsn: postgres://localhost/studyreview?sslmode=disable
reminder:
  every: 30m
  start_hour: 6
review:
  max_interval: 365
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "studyreview.yaml"), []byte(yaml), 0o644))

	t.Setenv("REMINDER_START_HOUR", "9")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "postgres://localhost/studyreview?sslmode=disable", cfg.DB.DSN)
	assert.Equal(t, 30*time.Minute, cfg.Reminder.Every)
	assert.Equal(t, 9, cfg.Reminder.StartHour)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, 365, cfg.Review.MaxInterval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown driver", key: "DB_DRIVER", val: "mysql"},
		{name: "hour out of range", key: "REMINDER_START_HOUR", val: "25"},
		{name: "no attempts", key: "REVIEW_MAX_ATTEMPTS", val: "0"},
		{name: "unknown env", key: "ENV", val: "qa"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load(t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}
