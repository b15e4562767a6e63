package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vladimiradmaev/reprocket/internal/domain"
	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
	"github.com/vladimiradmaev/reprocket/internal/metrics"
	"github.com/vladimiradmaev/reprocket/internal/storage"
)

func TestBuildCaloriePrompt(t *testing.T) {
	prompt := BuildCaloriePrompt("Champ", domain.DayRecord{
		Title:     "Leg Day",
		Exercises: []domain.Exercise{{Name: "Squat"}, {Name: "Leg Curl"}},
	})

	assert.Contains(t, prompt, "User Name: Champ\n")
	assert.Contains(t, prompt, "Workout Title: Leg Day\n")
	assert.Contains(t, prompt, "- Squat\n- Leg Curl\n")
	assert.True(t, strings.HasSuffix(prompt, "Assume a standard 1-hour workout duration if not specified."))
}

func TestCalorieEstimateService_EstimateAndApply(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	provider := namedProvider(ctrl, "gemini")

	tracker := newTestTracker(t, storage.NewMemoryBackend(0))
	_, err := tracker.SaveDay(ctx, "2024-03-15", domain.DayRecord{
		Title:     "Pull",
		Exercises: []domain.Exercise{{Name: "Row"}},
	})
	require.NoError(t, err)

	provider.EXPECT().
		EstimateCalories(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string) (*domain.CalorieEstimate, error) {
			assert.Contains(t, prompt, "Workout Title: Pull")
			return &domain.CalorieEstimate{BurnedCalories: 380}, nil
		})

	svc := NewCalorieEstimateService(NewAIService(metrics.NewTestManager(), provider), tracker)
	burned, err := svc.EstimateAndApply(ctx, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, 380, burned)

	rec, _ := tracker.Day("2024-03-15")
	assert.Equal(t, 380, rec.BurnedValue())
}

func TestCalorieEstimateService_RequiresExercises(t *testing.T) {
	tracker := newTestTracker(t, storage.NewMemoryBackend(0))
	svc := NewCalorieEstimateService(NewAIService(metrics.NewTestManager()), tracker)

	_, err := svc.Estimate(context.Background(), "2024-03-15")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestCalorieEstimateService_RequiresUserName(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	provider := namedProvider(ctrl, "gemini")
	provider.EXPECT().EstimateCalories(gomock.Any(), gomock.Any()).Times(0)

	tracker := newTestTracker(t, storage.NewMemoryBackend(0))
	_, err := tracker.SaveDay(ctx, "2024-03-15", domain.DayRecord{Exercises: []domain.Exercise{{Name: "Run"}}})
	require.NoError(t, err)
	settings := tracker.Snapshot().Settings
	settings.UserName = "  "
	require.NoError(t, tracker.SaveSettings(ctx, settings))

	svc := NewCalorieEstimateService(NewAIService(metrics.NewTestManager(), provider), tracker)
	_, err = svc.Estimate(ctx, "2024-03-15")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestCalorieEstimateService_AIFailureLeavesDayUntouched(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	provider := namedProvider(ctrl, "gemini")
	provider.EXPECT().EstimateCalories(gomock.Any(), gomock.Any()).Return(nil, errors.New("503"))

	tracker := newTestTracker(t, storage.NewMemoryBackend(0))
	_, err := tracker.SaveDay(ctx, "2024-03-15", domain.DayRecord{Exercises: []domain.Exercise{{Name: "Run"}}})
	require.NoError(t, err)

	svc := NewCalorieEstimateService(NewAIService(metrics.NewTestManager(), provider), tracker)
	_, err = svc.EstimateAndApply(ctx, "2024-03-15")
	assert.True(t, errors.Is(err, apperrors.ErrAICollaboratorFailure))

	rec, _ := tracker.Day("2024-03-15")
	assert.Nil(t, rec.BurnedCalories)
}
