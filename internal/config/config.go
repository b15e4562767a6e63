package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vladimiradmaev/reprocket/internal/domain"
	"github.com/vladimiradmaev/reprocket/internal/logger"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type Config struct {
	TelegramToken string
	// OwnerChatID is the only Telegram user the bot answers.
	OwnerChatID int64

	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string

	StorageDriver string
	Namespace     string
	// MemoryQuotaBytes limits the in-memory backend; 0 means unlimited.
	MemoryQuotaBytes int

	DB       DBConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Location *time.Location

	MetricsAddr string

	// ExcusePreferredRestDays lets preferred rest weekdays keep a streak alive.
	ExcusePreferredRestDays bool

	Defaults TrackerDefaults
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
	MaxSizeMB  int
	MaxBackups int
}

// TrackerDefaults overrides the initial settings of a fresh tracker.
// Loaded from the TOML file named by TRACKER_DEFAULTS_FILE.
type TrackerDefaults struct {
	CalorieGoal       int    `toml:"calorie_goal"`
	ProteinGoal       int    `toml:"protein_goal"`
	UserName          string `toml:"user_name"`
	WeightUnit        string `toml:"weight_unit"`
	PreferredRestDays []int  `toml:"preferred_rest_days"`
}

// Apply copies every non-zero default onto s.
func (d TrackerDefaults) Apply(s domain.Settings) domain.Settings {
	if d.CalorieGoal > 0 {
		s.CalorieGoal = d.CalorieGoal
	}
	if d.ProteinGoal > 0 {
		s.ProteinGoal = d.ProteinGoal
	}
	if d.UserName != "" {
		s.UserName = d.UserName
	}
	if d.WeightUnit != "" {
		s.WeightUnit = domain.WeightUnit(d.WeightUnit)
	}
	if d.PreferredRestDays != nil {
		s.PreferredRestDays = append([]int(nil), d.PreferredRestDays...)
	}
	return s
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

// Load reads configuration from the environment. Malformed numeric values
// and an unreadable defaults file are reported together.
func Load() (*Config, error) {
	var errs []error

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		StorageDriver: strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", StorageMemory)),
		Namespace:     getEnvOrDefault("STORAGE_NAMESPACE", "reprocket"),
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "reprocket"),
		},
		Redis: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
		MetricsAddr:             os.Getenv("METRICS_ADDR"),
		ExcusePreferredRestDays: strings.EqualFold(os.Getenv("STREAK_EXCUSE_REST_DAYS"), "true"),
	}

	var err error
	if raw := os.Getenv("TELEGRAM_OWNER_ID"); raw != "" {
		if cfg.OwnerChatID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			errs = append(errs, fmt.Errorf("TELEGRAM_OWNER_ID must be an integer: %w", err))
		}
	}
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", 0); err != nil {
		errs = append(errs, err)
	}
	if cfg.MemoryQuotaBytes, err = getEnvInt("MEMORY_QUOTA_BYTES", 5*1024*1024); err != nil {
		errs = append(errs, err)
	}
	if cfg.Logger.MaxSizeMB, err = getEnvInt("LOG_MAX_SIZE_MB", 50); err != nil {
		errs = append(errs, err)
	}
	if cfg.Logger.MaxBackups, err = getEnvInt("LOG_MAX_BACKUPS", 5); err != nil {
		errs = append(errs, err)
	}

	cfg.Location = time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		if cfg.Location, err = time.LoadLocation(tz); err != nil {
			errs = append(errs, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err))
		}
	}

	if path := os.Getenv("TRACKER_DEFAULTS_FILE"); path != "" {
		if cfg.Defaults, err = LoadTrackerDefaults(path); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// LoadTrackerDefaults decodes a TOML defaults file.
func LoadTrackerDefaults(path string) (TrackerDefaults, error) {
	var d TrackerDefaults
	md, err := toml.DecodeFile(path, &d)
	if err != nil {
		return TrackerDefaults{}, fmt.Errorf("failed to read tracker defaults %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return TrackerDefaults{}, fmt.Errorf("unknown keys in tracker defaults %s: %v", path, undecoded)
	}
	return d, nil
}

// Validate reports every problem that would stop the bot from starting.
func (c *Config) Validate() error {
	var errs []error

	if c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}
	if c.OwnerChatID == 0 {
		errs = append(errs, errors.New("TELEGRAM_OWNER_ID is required"))
	}
	if c.GeminiAPIKey == "" && c.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("one of GEMINI_API_KEY or OPENAI_API_KEY is required"))
	}

	switch c.StorageDriver {
	case StorageMemory, StoragePostgres, StorageRedis:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be one of memory, postgres, redis; got %q", c.StorageDriver))
	}

	if c.Defaults.WeightUnit != "" && c.Defaults.WeightUnit != string(domain.UnitKg) && c.Defaults.WeightUnit != string(domain.UnitLbs) {
		errs = append(errs, fmt.Errorf("weight_unit must be kg or lbs; got %q", c.Defaults.WeightUnit))
	}
	for _, d := range c.Defaults.PreferredRestDays {
		if d < 0 || d > 6 {
			errs = append(errs, fmt.Errorf("preferred_rest_days entries must be 0..6; got %d", d))
		}
	}

	return errors.Join(errs...)
}
