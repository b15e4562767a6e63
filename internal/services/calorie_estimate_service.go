package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vladimiradmaev/reprocket/internal/domain"
	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
	"github.com/vladimiradmaev/reprocket/internal/logger"
)

// CalorieEstimateService estimates burned calories for logged workouts.
type CalorieEstimateService struct {
	aiService *AIService
	tracker   *TrackerService
}

func NewCalorieEstimateService(aiService *AIService, tracker *TrackerService) *CalorieEstimateService {
	return &CalorieEstimateService{
		aiService: aiService,
		tracker:   tracker,
	}
}

// BuildCaloriePrompt describes a workout for the calorie-estimate model.
func BuildCaloriePrompt(userName string, rec domain.DayRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "User Name: %s\n", userName)
	fmt.Fprintf(&sb, "Workout Title: %s\n", rec.Title)
	sb.WriteString("Exercises Performed:\n")
	for _, ex := range rec.Exercises {
		fmt.Fprintf(&sb, "- %s\n", ex.Name)
	}
	sb.WriteString("\nBased on this workout data, please provide a rough, single numerical estimate of the total calories burned. " +
		"Consider the mix of compound and isolation exercises. Assume a standard 1-hour workout duration if not specified.")
	return sb.String()
}

// Estimate asks the AI collaborator how many calories the workout logged
// on date burned. Nothing is stored.
func (s *CalorieEstimateService) Estimate(ctx context.Context, date string) (int, error) {
	rec, ok := s.tracker.Day(date)
	if !ok || !rec.IsWorkout() {
		return 0, apperrors.NewValidationError("add some exercises first to estimate calories")
	}
	userName := strings.TrimSpace(s.tracker.Snapshot().Settings.UserName)
	if userName == "" {
		return 0, apperrors.NewValidationError("set your name first: /set name <name>")
	}

	prompt := BuildCaloriePrompt(userName, rec)
	est, err := s.aiService.EstimateCalories(ctx, prompt)
	if err != nil {
		return 0, fmt.Errorf("failed to estimate calories: %w", err)
	}

	logger.Info("Estimated burned calories", "date", date, "burned", est.BurnedCalories)
	return est.BurnedCalories, nil
}

// Apply stores burned as the day's burned calories.
func (s *CalorieEstimateService) Apply(ctx context.Context, date string, burned int) error {
	if burned < 0 {
		return apperrors.NewValidationError("burned calories cannot be negative")
	}
	_, err := s.tracker.UpdateDay(ctx, date, func(rec *domain.DayRecord) {
		rec.BurnedCalories = &burned
	})
	return err
}

func (s *CalorieEstimateService) EstimateAndApply(ctx context.Context, date string) (int, error) {
	burned, err := s.Estimate(ctx, date)
	if err != nil {
		return 0, err
	}
	if err := s.Apply(ctx, date, burned); err != nil {
		return burned, fmt.Errorf("failed to save burned calories: %w", err)
	}
	return burned, nil
}
