package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vladimiradmaev/reprocket/internal/calendar"
	"github.com/vladimiradmaev/reprocket/internal/domain"
)

func TestComputeStreak(t *testing.T) {
	today := day("2024-03-10")

	tests := []struct {
		name    string
		records domain.DayRecords
		want    int
	}{
		{
			name:    "no records",
			records: domain.DayRecords{},
			want:    0,
		},
		{
			name:    "nil records",
			records: nil,
			want:    0,
		},
		{
			name: "three consecutive days including today",
			records: domain.DayRecords{
				"2024-03-10": workout("Squat"),
				"2024-03-09": workout("Bench"),
				"2024-03-08": workout("Row"),
			},
			want: 3,
		},
		{
			name: "today not logged yet keeps streak",
			records: domain.DayRecords{
				"2024-03-09": workout("Bench"),
				"2024-03-08": workout("Row"),
			},
			want: 2,
		},
		{
			name: "today with title only does not break or count",
			records: domain.DayRecords{
				"2024-03-10": {Title: "planning"},
				"2024-03-09": workout("Bench"),
			},
			want: 1,
		},
		{
			name: "explicit rest day inside streak",
			records: domain.DayRecords{
				"2024-03-10": workout("Squat"),
				"2024-03-09": restDay(),
				"2024-03-08": workout("Row"),
				"2024-03-07": workout("Press"),
			},
			want: 3,
		},
		{
			name: "missing day breaks streak",
			records: domain.DayRecords{
				"2024-03-10": workout("Squat"),
				"2024-03-08": workout("Row"),
				"2024-03-07": workout("Press"),
			},
			want: 1,
		},
		{
			name: "record without exercises or rest flag breaks streak",
			records: domain.DayRecords{
				"2024-03-10": workout("Squat"),
				"2024-03-09": {Calories: 2200},
				"2024-03-08": workout("Row"),
			},
			want: 1,
		},
		{
			name: "today flagged rest never counts",
			records: domain.DayRecords{
				"2024-03-10": restDay(),
				"2024-03-09": workout("Bench"),
				"2024-03-08": workout("Row"),
			},
			want: 2,
		},
		{
			name: "gap yesterday with nothing today",
			records: domain.DayRecords{
				"2024-03-08": workout("Row"),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStreak(tt.records, today))
		})
	}
}

func TestComputeStreak_ConsecutiveDaysFromToday(t *testing.T) {
	today := day("2024-06-30")
	for n := 1; n <= 10; n++ {
		records := domain.DayRecords{}
		for i := 0; i < n; i++ {
			records[calendar.Key(calendar.AddDays(today, -i))] = workout("Deadlift")
		}
		assert.Equal(t, n, ComputeStreak(records, today), "n=%d", n)
	}
}

func TestComputeStreak_CappedAtMaxScan(t *testing.T) {
	today := day("2024-12-31")
	records := domain.DayRecords{}
	for i := 0; i < 400; i++ {
		records[calendar.Key(calendar.AddDays(today, -i))] = workout("Run")
	}
	assert.Equal(t, MaxStreakScan, ComputeStreak(records, today))
}

func TestComputeStreakWithPolicy_ExcusedWeekdays(t *testing.T) {
	// 2024-03-10 is a Sunday
	today := day("2024-03-11")
	records := domain.DayRecords{
		"2024-03-11": workout("Squat"),
		"2024-03-09": workout("Row"),
	}

	assert.Equal(t, 1, ComputeStreak(records, today))
	assert.Equal(t, 2, ComputeStreakWithPolicy(records, today, StreakPolicy{
		ExcusedWeekdays: map[int]bool{0: true},
	}))
}

func TestComputeStreakWithPolicy_LoggedNonWorkoutDayBreaks(t *testing.T) {
	// 2024-03-10 is a Sunday with food logged but no workout
	today := day("2024-03-11")
	records := domain.DayRecords{
		"2024-03-11": workout("Squat"),
		"2024-03-10": {Calories: 1800},
		"2024-03-09": workout("Row"),
	}

	assert.Equal(t, 1, ComputeStreakWithPolicy(records, today, StreakPolicy{
		ExcusedWeekdays: map[int]bool{0: true},
	}))
}
