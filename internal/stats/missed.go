package stats

import (
	"fmt"
	"time"

	"github.com/vladimiradmaev/reprocket/internal/calendar"
	"github.com/vladimiradmaev/reprocket/internal/domain"
)

// MissedDaysQuery describes a missed-day count over [Start, End).
type MissedDaysQuery struct {
	Start             time.Time
	End               time.Time
	PreferredRestDays []int
	// FirstEntry is the earliest logged date; nil when nothing is logged.
	FirstEntry *time.Time
	Today      time.Time
}

// CountMissedDays counts days in the query range, clamped to start no
// earlier than FirstEntry and to stop before Today, that have neither
// exercises nor a rest flag and do not fall on a preferred rest weekday.
func CountMissedDays(records domain.DayRecords, q MissedDaysQuery) int {
	start := calendar.Of(q.Start)
	if q.FirstEntry != nil {
		start = calendar.Max(start, calendar.Of(*q.FirstEntry))
	}
	end := calendar.Min(calendar.Of(q.End), calendar.Of(q.Today))

	rest := make(map[int]bool, len(q.PreferredRestDays))
	for _, d := range q.PreferredRestDays {
		rest[d] = true
	}

	missed := 0
	calendar.EachDay(start, end, func(d time.Time) bool {
		rec, ok := records[calendar.Key(d)]
		logged := ok && (rec.IsWorkout() || rec.IsRestDay)
		if !logged && !rest[calendar.Weekday(d)] {
			missed++
		}
		return true
	})
	return missed
}

// FirstEntryDate returns the earliest date with a record, or nil.
// Keys that are not valid dates are ignored.
func FirstEntryDate(records domain.DayRecords) *time.Time {
	var first *time.Time
	for key := range records {
		d, err := calendar.Parse(key)
		if err != nil {
			continue
		}
		if first == nil || d.Before(*first) {
			first = &d
		}
	}
	return first
}

// RangePreset names a missed-days window.
type RangePreset string

const (
	RangeThisWeek  RangePreset = "this_week"
	RangeThisMonth RangePreset = "this_month"
	Range3Months   RangePreset = "3_months"
	Range6Months   RangePreset = "6_months"
	Range1Year     RangePreset = "1_year"
	RangeCustom    RangePreset = "custom"
)

// RangePresets lists the presets in menu order.
var RangePresets = []RangePreset{RangeThisWeek, RangeThisMonth, Range3Months, Range6Months, Range1Year, RangeCustom}

// DateRange is a half-open [Start, End) window with a display label.
type DateRange struct {
	Start time.Time
	End   time.Time
	Label string
}

// ResolveRange turns a preset into a concrete window. Preset windows end
// tomorrow so today is inside the range. For RangeCustom both bounds are
// required and customEnd is inclusive.
func ResolveRange(preset RangePreset, today time.Time, customStart, customEnd *time.Time) (DateRange, error) {
	today = calendar.Of(today)
	end := calendar.AddDays(today, 1)

	switch preset {
	case RangeThisWeek:
		return DateRange{Start: calendar.StartOfWeek(today), End: end, Label: "This Week"}, nil
	case RangeThisMonth, "":
		return DateRange{Start: calendar.StartOfMonth(today), End: end, Label: "This Month"}, nil
	case Range3Months:
		return DateRange{Start: today.AddDate(0, -3, 0), End: end, Label: "Last 3 Months"}, nil
	case Range6Months:
		return DateRange{Start: today.AddDate(0, -6, 0), End: end, Label: "Last 6 Months"}, nil
	case Range1Year:
		return DateRange{Start: today.AddDate(-1, 0, 0), End: end, Label: "Last Year"}, nil
	case RangeCustom:
		if customStart == nil || customEnd == nil {
			return DateRange{}, fmt.Errorf("custom range needs a start and an end date")
		}
		s, e := calendar.Of(*customStart), calendar.Of(*customEnd)
		return DateRange{
			Start: s,
			End:   calendar.AddDays(e, 1),
			Label: calendar.Key(s) + " - " + calendar.Key(e),
		}, nil
	default:
		return DateRange{}, fmt.Errorf("unknown range preset %q", preset)
	}
}
