package stats

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/reprocket/internal/calendar"
	"github.com/vladimiradmaev/reprocket/internal/domain"
)

// UpdateGoalProgress recomputes CurrentValue for every open goal.
//
// bodyWeight goals follow the latest-dated weight entry (startValue when
// there is none); weightLift goals take the max of startValue and every
// personal record whose exercise name matches the description
// case-insensitively. Generic and completed goals are left alone.
//
// The returned slice shares pointers with the input for unchanged goals;
// changed goals are fresh copies. When nothing changed the input slice
// itself is returned and changed is false.
func UpdateGoalProgress(goals []*domain.Goal, records domain.DayRecords, weights domain.WeightHistory) (updated []*domain.Goal, changed bool) {
	latestWeight, hasWeight := LatestWeight(weights)

	var out []*domain.Goal
	for i, g := range goals {
		if g == nil || g.IsCompleted {
			continue
		}

		var current float64
		switch g.Type {
		case domain.GoalBodyWeight:
			current = g.StartValue
			if hasWeight {
				current = latestWeight
			}
		case domain.GoalWeightLift:
			current = bestRecord(records, g.Description, g.StartValue)
		default:
			continue
		}

		if current == g.CurrentValue {
			continue
		}
		if out == nil {
			out = make([]*domain.Goal, len(goals))
			copy(out, goals)
		}
		cp := *g
		cp.CurrentValue = current
		out[i] = &cp
	}

	if out == nil {
		return goals, false
	}
	return out, true
}

func bestRecord(records domain.DayRecords, exercise string, floor float64) float64 {
	best := floor
	for _, rec := range records {
		for _, pr := range rec.PersonalRecords {
			if strings.EqualFold(pr.ExerciseName, exercise) && pr.Value > best {
				best = pr.Value
			}
		}
	}
	return best
}

// GoalProgressPercent is how far CurrentValue has moved from StartValue
// toward TargetValue, clamped to [0, 100]. Works for decreasing targets.
func GoalProgressPercent(g domain.Goal) float64 {
	if g.TargetValue == g.StartValue {
		return 100
	}
	p := (g.CurrentValue - g.StartValue) / (g.TargetValue - g.StartValue) * 100
	return math.Min(100, math.Max(0, p))
}

// DeadlineStatus classifies a goal's target date relative to today.
type DeadlineStatus string

const (
	DeadlineNone     DeadlineStatus = "none"
	DeadlineDueToday DeadlineStatus = "due_today"
	DeadlineDaysLeft DeadlineStatus = "days_left"
	DeadlineOverdue  DeadlineStatus = "overdue"
)

// Deadline is the time left before a goal's target date.
type Deadline struct {
	Status   DeadlineStatus
	DaysLeft int
}

func (d Deadline) String() string {
	switch d.Status {
	case DeadlineOverdue:
		return "Overdue"
	case DeadlineDueToday:
		return "Due today"
	case DeadlineDaysLeft:
		if d.DaysLeft == 1 {
			return "1 day left"
		}
		return strconv.Itoa(d.DaysLeft) + " days left"
	default:
		return ""
	}
}

// GoalDeadline describes the time left before the goal's target date.
// Completed goals and goals without a parseable target date have none.
func GoalDeadline(g domain.Goal, today time.Time) Deadline {
	if g.TargetDate == "" || g.IsCompleted {
		return Deadline{Status: DeadlineNone}
	}
	target, err := calendar.Parse(g.TargetDate)
	if err != nil {
		return Deadline{Status: DeadlineNone}
	}
	days := int(target.Sub(calendar.Of(today)).Hours() / 24)
	switch {
	case days < 0:
		return Deadline{Status: DeadlineOverdue, DaysLeft: days}
	case days == 0:
		return Deadline{Status: DeadlineDueToday}
	default:
		return Deadline{Status: DeadlineDaysLeft, DaysLeft: days}
	}
}
