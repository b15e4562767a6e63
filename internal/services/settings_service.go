package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vladimiradmaev/reprocket/internal/calendar"
	"github.com/vladimiradmaev/reprocket/internal/domain"
	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
)

type SettingsService struct {
	tracker *TrackerService
}

func NewSettingsService(tracker *TrackerService) *SettingsService {
	return &SettingsService{tracker: tracker}
}

func (s *SettingsService) Get() domain.Settings {
	return s.tracker.Snapshot().Settings
}

// Update applies fn to a copy of the current settings, normalizes and
// validates the result, then stores it.
func (s *SettingsService) Update(ctx context.Context, fn func(settings *domain.Settings)) (domain.Settings, error) {
	next := s.Get()
	next.PreferredRestDays = append([]int(nil), next.PreferredRestDays...)
	fn(&next)

	next, err := NormalizeSettings(next)
	if err != nil {
		return domain.Settings{}, err
	}
	if err := s.tracker.SaveSettings(ctx, next); err != nil {
		return next, fmt.Errorf("failed to update settings: %w", err)
	}
	return next, nil
}

// NormalizeSettings trims the user name, deduplicates and sorts rest days
// and rejects values the rest of the tracker cannot work with.
func NormalizeSettings(s domain.Settings) (domain.Settings, error) {
	if s.CalorieGoal <= 0 {
		return s, apperrors.NewValidationError("calorie goal must be positive")
	}
	if s.ProteinGoal < 0 {
		return s, apperrors.NewValidationError("protein goal cannot be negative")
	}
	switch s.WeightUnit {
	case domain.UnitKg, domain.UnitLbs:
	case "":
		s.WeightUnit = domain.UnitKg
	default:
		return s, apperrors.NewValidationError(fmt.Sprintf("unknown weight unit %q", s.WeightUnit))
	}
	if s.BodyWeight < 0 {
		return s, apperrors.NewValidationError("body weight cannot be negative")
	}
	if s.Age != nil && (*s.Age <= 0 || *s.Age > 120) {
		return s, apperrors.NewValidationError("age must be between 1 and 120")
	}
	switch s.Gender {
	case "", domain.GenderMale, domain.GenderFemale, domain.GenderOther, domain.GenderPreferNotToSay:
	default:
		return s, apperrors.NewValidationError(fmt.Sprintf("unknown gender %q", s.Gender))
	}
	if s.MembershipExpiry != "" {
		if _, err := calendar.Parse(s.MembershipExpiry); err != nil {
			return s, apperrors.NewValidationError("membership expiry must be YYYY-MM-DD")
		}
	}

	s.UserName = strings.TrimSpace(s.UserName)

	seen := make(map[int]bool, len(s.PreferredRestDays))
	days := make([]int, 0, len(s.PreferredRestDays))
	for _, d := range s.PreferredRestDays {
		if d < 0 || d > 6 {
			return s, apperrors.NewValidationError(fmt.Sprintf("rest day %d is not a weekday (0-6)", d))
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Ints(days)
	s.PreferredRestDays = days
	return s, nil
}
