package interfaces

import (
	"context"
	"time"

	"github.com/vladimiradmaev/reprocket/internal/domain"
	"github.com/vladimiradmaev/reprocket/internal/services"
	"github.com/vladimiradmaev/reprocket/internal/stats"
)

// TrackerServiceInterface defines the contract for record store operations
type TrackerServiceInterface interface {
	Today() time.Time
	Snapshot() services.Snapshot
	Day(date string) (domain.DayRecord, bool)
	UpdateDay(ctx context.Context, date string, fn func(rec *domain.DayRecord)) (services.SaveResult, error)
	DeleteDay(ctx context.Context, date string) error
	AddExercise(ctx context.Context, date string, ex domain.Exercise) (services.SaveResult, error)
	AddPersonalRecord(ctx context.Context, date string, pr domain.PersonalRecord) (services.SaveResult, error)
	AddGoal(ctx context.Context, g domain.Goal) (*domain.Goal, error)
	ToggleGoalCompleted(ctx context.Context, id string) (*domain.Goal, error)
	DeleteGoal(ctx context.Context, id string) error
	AddAchievement(ctx context.Context, text, date string) (domain.Achievement, error)
	AddNote(ctx context.Context, title, content string) (domain.Note, error)
	DeleteNote(ctx context.Context, id string) error
	AddPhoto(ctx context.Context, date, mimeType string, image []byte) (domain.ProgressPhoto, error)
	CompleteOnboarding(ctx context.Context) error
}

// SettingsServiceInterface defines the contract for settings operations
type SettingsServiceInterface interface {
	Get() domain.Settings
	Update(ctx context.Context, fn func(settings *domain.Settings)) (domain.Settings, error)
}

// WeightServiceInterface defines the contract for body weight operations
type WeightServiceInterface interface {
	Log(ctx context.Context, date time.Time, value float64) error
	History() []services.WeightEntry
	Latest() (services.WeightEntry, bool)
}

// StatsServiceInterface defines the contract for derived metrics
type StatsServiceInterface interface {
	Streak() int
	Dashboard(year int, month time.Month) services.Dashboard
	MissedDays(preset stats.RangePreset, customStart, customEnd *time.Time) (services.MissedDays, error)
	PersonalRecordHistory(exercise string) []stats.PRPoint
}

// AIServiceInterface defines the contract for AI coaching
type AIServiceInterface interface {
	Enabled() bool
	StreamAdvice(ctx context.Context, prompt string) (domain.AdviceStream, error)
}

// CalorieEstimateServiceInterface defines the contract for burned-calorie estimates
type CalorieEstimateServiceInterface interface {
	Estimate(ctx context.Context, date string) (int, error)
	Apply(ctx context.Context, date string, burned int) error
}

// BackupServiceInterface defines the contract for export and import
type BackupServiceInterface interface {
	ExportJSON() ([]byte, error)
	ExportCSV() []byte
	Import(ctx context.Context, data []byte) error
}

var (
	_ TrackerServiceInterface         = (*services.TrackerService)(nil)
	_ SettingsServiceInterface        = (*services.SettingsService)(nil)
	_ WeightServiceInterface          = (*services.WeightService)(nil)
	_ StatsServiceInterface           = (*services.StatsService)(nil)
	_ AIServiceInterface              = (*services.AIService)(nil)
	_ CalorieEstimateServiceInterface = (*services.CalorieEstimateService)(nil)
	_ BackupServiceInterface          = (*services.BackupService)(nil)
)
