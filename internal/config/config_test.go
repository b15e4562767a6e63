package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/reprocket/internal/domain"
	"github.com/vladimiradmaev/reprocket/internal/logger"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"STORAGE_DRIVER", "GEMINI_MODEL", "TELEGRAM_OWNER_ID", "TIMEZONE", "TRACKER_DEFAULTS_FILE", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "reprocket", cfg.Namespace)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, logger.LevelInfo, cfg.Logger.Level)
	assert.NotNil(t, cfg.Location)
}

func TestLoad_ReportsAllErrors(t *testing.T) {
	t.Setenv("TELEGRAM_OWNER_ID", "abc")
	t.Setenv("REDIS_DB", "x")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	t.Setenv("TRACKER_DEFAULTS_FILE", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_OWNER_ID")
	assert.Contains(t, err.Error(), "REDIS_DB")
	assert.Contains(t, err.Error(), "TIMEZONE")
}

func TestLoad_ParsesValues(t *testing.T) {
	t.Setenv("TELEGRAM_OWNER_ID", "424242")
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("STREAK_EXCUSE_REST_DAYS", "true")
	t.Setenv("TRACKER_DEFAULTS_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(424242), cfg.OwnerChatID)
	assert.Equal(t, StorageRedis, cfg.StorageDriver)
	assert.Equal(t, logger.LevelDebug, cfg.Logger.Level)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.True(t, cfg.ExcusePreferredRestDays)
}

func TestLoadTrackerDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defaults.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
calorie_goal = 2500
user_name = "Sam"
weight_unit = "lbs"
preferred_rest_days = [0, 6]
`), 0o600))

	d, err := LoadTrackerDefaults(path)
	require.NoError(t, err)

	s := d.Apply(domain.DefaultSettings())
	assert.Equal(t, 2500, s.CalorieGoal)
	assert.Equal(t, 150, s.ProteinGoal)
	assert.Equal(t, "Sam", s.UserName)
	assert.Equal(t, domain.UnitLbs, s.WeightUnit)
	assert.Equal(t, []int{0, 6}, s.PreferredRestDays)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("calorie_gaol = 1\n"), 0o600))
	_, err = LoadTrackerDefaults(bad)
	assert.ErrorContains(t, err, "unknown keys")

	_, err = LoadTrackerDefaults(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{StorageDriver: "sqlite", Defaults: TrackerDefaults{WeightUnit: "stone", PreferredRestDays: []int{7}}}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"TELEGRAM_BOT_TOKEN", "TELEGRAM_OWNER_ID", "GEMINI_API_KEY", "STORAGE_DRIVER", "weight_unit", "preferred_rest_days"} {
		assert.Contains(t, err.Error(), want)
	}

	ok := &Config{TelegramToken: "t", OwnerChatID: 1, GeminiAPIKey: "k", StorageDriver: StoragePostgres}
	assert.NoError(t, ok.Validate())
}
