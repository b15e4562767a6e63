package services

import (
	"time"

	"github.com/vladimiradmaev/reprocket/internal/calendar"
	"github.com/vladimiradmaev/reprocket/internal/domain"
	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
	"github.com/vladimiradmaev/reprocket/internal/metrics"
	"github.com/vladimiradmaev/reprocket/internal/stats"
)

// GoalView is a goal with its derived progress and deadline.
type GoalView struct {
	Goal     domain.Goal
	Percent  float64
	Deadline stats.Deadline
}

// Dashboard gathers every derived view shown for one month.
type Dashboard struct {
	Year        int
	Month       time.Month
	Streak      int
	Exercise    []stats.ExercisePoint
	Nutrition   []stats.NutritionPoint
	Summary     stats.MonthSummary
	GymDays     int
	Goals       []GoalView
	Weights     []stats.WeightPoint
	PRExercises []string
}

type MissedDays struct {
	Count int
	Range stats.DateRange
}

type StatsService struct {
	tracker        *TrackerService
	metrics        *metrics.Manager
	excuseRestDays bool
}

// NewStatsService keeps the streak gauge current by recomputing it after
// every tracker change. With excuseRestDays, preferred rest weekdays
// without a record do not break the streak.
func NewStatsService(tracker *TrackerService, m *metrics.Manager, excuseRestDays bool) *StatsService {
	s := &StatsService{tracker: tracker, metrics: m, excuseRestDays: excuseRestDays}
	tracker.Subscribe(func(snap Snapshot) {
		s.metrics.GaugeStreak.Set(float64(s.streak(snap)))
	})
	s.metrics.GaugeStreak.Set(float64(s.streak(tracker.Snapshot())))
	return s
}

func (s *StatsService) policy(settings domain.Settings) stats.StreakPolicy {
	if !s.excuseRestDays {
		return stats.StreakPolicy{}
	}
	return stats.StreakPolicy{ExcusedWeekdays: settings.RestDaySet()}
}

func (s *StatsService) streak(snap Snapshot) int {
	return stats.ComputeStreakWithPolicy(snap.Records, s.tracker.Today(), s.policy(snap.Settings))
}

func (s *StatsService) Streak() int {
	return s.streak(s.tracker.Snapshot())
}

func (s *StatsService) Dashboard(year int, month time.Month) Dashboard {
	snap := s.tracker.Snapshot()
	today := s.tracker.Today()

	goals := make([]GoalView, 0, len(snap.Goals))
	for _, g := range snap.Goals {
		goals = append(goals, GoalView{
			Goal:     *g,
			Percent:  stats.GoalProgressPercent(*g),
			Deadline: stats.GoalDeadline(*g, today),
		})
	}

	return Dashboard{
		Year:        year,
		Month:       month,
		Streak:      s.streak(snap),
		Exercise:    stats.ExerciseSeries(snap.Records, year, month),
		Nutrition:   stats.NutritionSeries(snap.Records, year, month, snap.Settings.CalorieGoal),
		Summary:     stats.MonthlySummary(snap.Records, year, month),
		GymDays:     stats.GymDaysAllTime(snap.Records),
		Goals:       goals,
		Weights:     stats.WeightSeries(snap.Weights),
		PRExercises: stats.PersonalRecordExercises(snap.Records),
	}
}

// MissedDays counts missed days over a preset window. customStart and
// customEnd are only read for stats.RangeCustom.
func (s *StatsService) MissedDays(preset stats.RangePreset, customStart, customEnd *time.Time) (MissedDays, error) {
	snap := s.tracker.Snapshot()
	today := s.tracker.Today()

	r, err := stats.ResolveRange(preset, today, customStart, customEnd)
	if err != nil {
		return MissedDays{}, apperrors.NewValidationError(err.Error())
	}

	count := stats.CountMissedDays(snap.Records, stats.MissedDaysQuery{
		Start:             r.Start,
		End:               r.End,
		PreferredRestDays: snap.Settings.PreferredRestDays,
		FirstEntry:        stats.FirstEntryDate(snap.Records),
		Today:             today,
	})
	return MissedDays{Count: count, Range: r}, nil
}

func (s *StatsService) PersonalRecordHistory(exercise string) []stats.PRPoint {
	return stats.PersonalRecordSeries(s.tracker.Snapshot().Records, exercise)
}

// CurrentMonth is the year and month of today.
func (s *StatsService) CurrentMonth() (int, time.Month) {
	today := s.tracker.Today()
	return today.Year(), today.Month()
}

// DayKey is today's record key.
func (s *StatsService) DayKey() string {
	return calendar.Key(s.tracker.Today())
}
