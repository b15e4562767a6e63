// Package calendar works with civil dates: values carry a year, month and
// day and are represented as time.Time at midnight UTC so that day
// arithmetic never crosses a DST boundary.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the key format for every date-keyed collection.
const Layout = "2006-01-02"

// Day builds a civil date. Out-of-range values normalize like time.Date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Of returns the civil date of t as seen in t's own location.
func Of(t time.Time) time.Time {
	y, m, d := t.Date()
	return Day(y, m, d)
}

// Today returns the civil date of now in loc. A nil loc means now's location.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc != nil {
		now = now.In(loc)
	}
	return Of(now)
}

// Key formats d as a YYYY-MM-DD collection key.
func Key(d time.Time) string {
	return d.Format(Layout)
}

// Parse reads a YYYY-MM-DD key.
func Parse(key string) (time.Time, error) {
	d, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", key, err)
	}
	return d, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(key string) time.Time {
	d, err := Parse(key)
	if err != nil {
		panic(err)
	}
	return d
}

// AddDays moves d by n calendar days.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// Weekday returns 0 for Sunday through 6 for Saturday.
func Weekday(d time.Time) int {
	return int(d.Weekday())
}

// DaysInMonth returns the number of days in month.
func DaysInMonth(year int, month time.Month) int {
	return Day(year, month+1, 0).Day()
}

// IsToday reports whether d and today are the same civil date.
func IsToday(d, today time.Time) bool {
	return Of(d).Equal(Of(today))
}

// IsPast reports whether d is strictly before today.
func IsPast(d, today time.Time) bool {
	return Of(d).Before(Of(today))
}

// StartOfWeek returns the Sunday on or before d.
func StartOfWeek(d time.Time) time.Time {
	d = Of(d)
	return AddDays(d, -Weekday(d))
}

// StartOfMonth returns the first day of d's month.
func StartOfMonth(d time.Time) time.Time {
	return Day(d.Year(), d.Month(), 1)
}

// EachDay calls fn for every date in [start, end) until fn returns false.
func EachDay(start, end time.Time, fn func(d time.Time) bool) {
	for d := Of(start); d.Before(end); d = AddDays(d, 1) {
		if !fn(d) {
			return
		}
	}
}

// Min returns the earlier of two dates.
func Min(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the later of two dates.
func Max(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
