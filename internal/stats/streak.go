// Package stats derives read-only metrics from a snapshot of the tracker's
// records. Every function is pure: inputs are never modified and empty
// collections yield zero values.
package stats

import (
	"time"

	"github.com/vladimiradmaev/reprocket/internal/calendar"
	"github.com/vladimiradmaev/reprocket/internal/domain"
)

// MaxStreakScan bounds how many days the streak walk inspects.
const MaxStreakScan = 365

// StreakPolicy controls which non-workout days keep a streak alive.
// The zero value only excuses days explicitly flagged as rest.
type StreakPolicy struct {
	// ExcusedWeekdays are weekdays (0=Sunday) whose missing records
	// are treated as rest rather than a break.
	ExcusedWeekdays map[int]bool
}

// ComputeStreak counts consecutive workout days ending at today, or at
// yesterday when today has no workout yet. Days flagged as rest are
// skipped without counting. Today itself never counts unless it has
// exercises, even when flagged as rest.
func ComputeStreak(records domain.DayRecords, today time.Time) int {
	return ComputeStreakWithPolicy(records, today, StreakPolicy{})
}

// ComputeStreakWithPolicy is ComputeStreak with absent records on the
// policy's weekdays treated as rest.
func ComputeStreakWithPolicy(records domain.DayRecords, today time.Time, policy StreakPolicy) int {
	day := calendar.Of(today)
	if rec, ok := records[calendar.Key(day)]; !ok || !rec.IsWorkout() {
		day = calendar.AddDays(day, -1)
	}

	count := 0
	for i := 0; i < MaxStreakScan; i++ {
		rec, ok := records[calendar.Key(day)]
		switch {
		case ok && rec.IsWorkout():
			count++
		case ok && rec.IsRestDay:
		case !ok && policy.ExcusedWeekdays[calendar.Weekday(day)]:
		default:
			return count
		}
		day = calendar.AddDays(day, -1)
	}
	return count
}
