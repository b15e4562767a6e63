package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/reprocket/internal/calendar"
	"github.com/vladimiradmaev/reprocket/internal/domain"
)

// 2024-01-01 is a Monday and 2024-01-07 a Sunday.
func weekOfRecords() domain.DayRecords {
	return domain.DayRecords{
		"2024-01-01": workout("Squat"),
		"2024-01-02": workout("Bench"),
		"2024-01-03": restDay(),
		"2024-01-05": {Title: "busy", Calories: 1900},
	}
}

func TestCountMissedDays_MixedWeek(t *testing.T) {
	got := CountMissedDays(weekOfRecords(), MissedDaysQuery{
		Start:             day("2024-01-01"),
		End:               day("2024-01-08"),
		PreferredRestDays: []int{0},
		FirstEntry:        ptr(day("2024-01-01")),
		Today:             day("2024-02-01"),
	})
	assert.Equal(t, 3, got)
}

func TestCountMissedDays_NeverCountsTodayOrFuture(t *testing.T) {
	got := CountMissedDays(weekOfRecords(), MissedDaysQuery{
		Start:             day("2024-01-01"),
		End:               day("2024-03-01"),
		PreferredRestDays: []int{0},
		FirstEntry:        ptr(day("2024-01-01")),
		Today:             day("2024-01-05"),
	})
	// only 2024-01-04 is before today and missed
	assert.Equal(t, 1, got)
}

func TestCountMissedDays_ClampsToFirstEntry(t *testing.T) {
	records := domain.DayRecords{"2024-01-04": workout("Row")}
	got := CountMissedDays(records, MissedDaysQuery{
		Start:      day("2023-12-01"),
		End:        day("2024-01-08"),
		FirstEntry: FirstEntryDate(records),
		Today:      day("2024-01-10"),
	})
	// 01-05, 01-06, 01-07
	assert.Equal(t, 3, got)
}

func TestCountMissedDays_EmptyAndInvertedRanges(t *testing.T) {
	q := MissedDaysQuery{Start: day("2024-01-10"), End: day("2024-01-01"), Today: day("2024-02-01")}
	assert.Zero(t, CountMissedDays(nil, q))

	q = MissedDaysQuery{Start: day("2024-01-10"), End: day("2024-01-10"), Today: day("2024-02-01")}
	assert.Zero(t, CountMissedDays(nil, q))

	q = MissedDaysQuery{Start: day("2024-01-01"), End: day("2024-01-08"), Today: day("2024-01-01")}
	assert.Zero(t, CountMissedDays(nil, q))
}

func TestCountMissedDays_NoFirstEntryCountsWholeRange(t *testing.T) {
	got := CountMissedDays(domain.DayRecords{}, MissedDaysQuery{
		Start: day("2024-01-01"),
		End:   day("2024-01-08"),
		Today: day("2024-02-01"),
	})
	assert.Equal(t, 7, got)
}

func TestCountMissedDays_RangeInLocalZones(t *testing.T) {
	for _, offset := range []int{-5, 0, 9} {
		loc := time.FixedZone("local", offset*3600)
		got := CountMissedDays(domain.DayRecords{}, MissedDaysQuery{
			Start: time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
			End:   time.Date(2024, 1, 8, 0, 0, 0, 0, loc),
			Today: time.Date(2030, 1, 1, 0, 0, 0, 0, loc),
		})
		assert.Equal(t, 7, got, "offset %d", offset)
	}
}

func TestFirstEntryDate(t *testing.T) {
	assert.Nil(t, FirstEntryDate(nil))

	first := FirstEntryDate(domain.DayRecords{
		"2024-05-01": workout("a"),
		"2023-11-20": restDay(),
		"not-a-date": workout("b"),
	})
	require.NotNil(t, first)
	assert.Equal(t, "2023-11-20", calendar.Key(*first))
}

func TestResolveRange(t *testing.T) {
	today := day("2024-01-03") // Wednesday

	r, err := ResolveRange(RangeThisWeek, today, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", calendar.Key(r.Start))
	assert.Equal(t, "2024-01-04", calendar.Key(r.End))
	assert.Equal(t, "This Week", r.Label)

	r, err = ResolveRange(RangeThisMonth, today, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", calendar.Key(r.Start))

	r, err = ResolveRange(Range3Months, today, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "2023-10-03", calendar.Key(r.Start))

	r, err = ResolveRange(Range6Months, today, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "2023-07-03", calendar.Key(r.Start))

	r, err = ResolveRange(Range1Year, today, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "2023-01-03", calendar.Key(r.Start))
	assert.Equal(t, "Last Year", r.Label)

	r, err = ResolveRange(RangeCustom, today, ptr(day("2023-12-01")), ptr(day("2023-12-02")))
	require.NoError(t, err)
	assert.Equal(t, "2023-12-03", calendar.Key(r.End), "custom end is inclusive")
	assert.Equal(t, "2023-12-01 - 2023-12-02", r.Label)

	_, err = ResolveRange(RangeCustom, today, nil, ptr(today))
	assert.Error(t, err)

	_, err = ResolveRange("fortnight", today, nil, nil)
	assert.Error(t, err)
}
