package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/reprocket/internal/calendar"
	"github.com/vladimiradmaev/reprocket/internal/domain"
	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
	"github.com/vladimiradmaev/reprocket/internal/storage"
)

func TestSettingsService_Update(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t, storage.NewMemoryBackend(0))
	svc := NewSettingsService(tracker)

	updated, err := svc.Update(ctx, func(s *domain.Settings) {
		s.UserName = "  Sam "
		s.CalorieGoal = 2500
		s.PreferredRestDays = []int{6, 0, 6, 3}
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam", updated.UserName)
	assert.Equal(t, []int{0, 3, 6}, updated.PreferredRestDays)
	assert.Equal(t, updated, svc.Get())
}

func TestSettingsService_UpdateRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t, storage.NewMemoryBackend(0))
	svc := NewSettingsService(tracker)

	cases := map[string]func(s *domain.Settings){
		"zero calories":    func(s *domain.Settings) { s.CalorieGoal = 0 },
		"negative protein": func(s *domain.Settings) { s.ProteinGoal = -1 },
		"bad unit":         func(s *domain.Settings) { s.WeightUnit = "stone" },
		"bad weekday":      func(s *domain.Settings) { s.PreferredRestDays = []int{7} },
		"bad age":          func(s *domain.Settings) { s.Age = ptr(0) },
		"bad expiry":       func(s *domain.Settings) { s.MembershipExpiry = "next year" },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Update(ctx, fn)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
			assert.Equal(t, domain.DefaultSettings(), svc.Get(), "nothing stored")
		})
	}
}

func TestWeightService_HistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t, storage.NewMemoryBackend(0))
	svc := NewWeightService(tracker)

	_, ok := svc.Latest()
	assert.False(t, ok)

	require.NoError(t, svc.Log(ctx, calendar.MustParse("2024-03-02"), 81))
	require.NoError(t, svc.Log(ctx, calendar.MustParse("2024-03-09"), 80.4))
	require.NoError(t, svc.Log(ctx, calendar.MustParse("2024-02-24"), 82))

	history := svc.History()
	require.Len(t, history, 3)
	assert.Equal(t, "2024-03-09", history[0].Date)
	assert.Equal(t, "2024-02-24", history[2].Date)

	latest, ok := svc.Latest()
	require.True(t, ok)
	assert.Equal(t, 80.4, latest.Value)

	err := svc.Log(ctx, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), -1)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	require.NoError(t, svc.Delete(ctx, calendar.MustParse("2024-03-09")))
	latest, _ = svc.Latest()
	assert.Equal(t, "2024-03-02", latest.Date)
}
