package stats

import (
	"sort"

	"github.com/vladimiradmaev/reprocket/internal/domain"
)

type WeightPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

type PRPoint struct {
	Date  string        `json:"date"`
	Value float64       `json:"value"`
	Unit  domain.PRUnit `json:"unit"`
}

// LatestWeight returns the entry with the latest date key.
func LatestWeight(history domain.WeightHistory) (float64, bool) {
	var latest string
	for date := range history {
		if date > latest {
			latest = date
		}
	}
	if latest == "" {
		return 0, false
	}
	return history[latest], true
}

// WeightSeries returns the weight history ordered by date.
func WeightSeries(history domain.WeightHistory) []WeightPoint {
	out := make([]WeightPoint, 0, len(history))
	for date, w := range history {
		out = append(out, WeightPoint{Date: date, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// PersonalRecordExercises lists every exercise name with at least one PR.
func PersonalRecordExercises(records domain.DayRecords) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for _, pr := range rec.PersonalRecords {
			seen[pr.ExerciseName] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PersonalRecordSeries returns the PRs logged for exercise (exact name),
// oldest first.
func PersonalRecordSeries(records domain.DayRecords, exercise string) []PRPoint {
	var out []PRPoint
	for _, date := range records.SortedDates() {
		for _, pr := range records[date].PersonalRecords {
			if pr.ExerciseName == exercise {
				out = append(out, PRPoint{Date: date, Value: pr.Value, Unit: pr.Unit})
			}
		}
	}
	return out
}
