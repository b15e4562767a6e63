package stats

import (
	"math"
	"time"

	"github.com/vladimiradmaev/reprocket/internal/calendar"
	"github.com/vladimiradmaev/reprocket/internal/domain"
)

// ExercisePoint is one day of the exercise-count series.
type ExercisePoint struct {
	Day       int `json:"day"`
	Exercises int `json:"exercises"`
}

// NutritionPoint is one day of the nutrition series.
type NutritionPoint struct {
	Day        int `json:"day"`
	Intake     int `json:"intake"`
	Goal       int `json:"goal"`
	Protein    int `json:"protein"`
	Burned     int `json:"burned"`
	Difference int `json:"difference"`
}

// ExerciseSeries returns one point per day of the month with the number of
// exercises logged that day.
func ExerciseSeries(records domain.DayRecords, year int, month time.Month) []ExercisePoint {
	n := calendar.DaysInMonth(year, month)
	out := make([]ExercisePoint, n)
	for i := range out {
		day := i + 1
		out[i] = ExercisePoint{
			Day:       day,
			Exercises: len(records[calendar.Key(calendar.Day(year, month, day))].Exercises),
		}
	}
	return out
}

// NutritionSeries returns one point per day of the month. Difference is
// intake minus burned, and zero on days where neither was tracked.
func NutritionSeries(records domain.DayRecords, year int, month time.Month, calorieGoal int) []NutritionPoint {
	n := calendar.DaysInMonth(year, month)
	out := make([]NutritionPoint, n)
	for i := range out {
		day := i + 1
		rec := records[calendar.Key(calendar.Day(year, month, day))]
		intake, burned := rec.Calories, rec.BurnedValue()

		diff := 0
		if intake != 0 || burned != 0 {
			diff = intake - burned
		}
		out[i] = NutritionPoint{
			Day:        day,
			Intake:     intake,
			Goal:       calorieGoal,
			Protein:    rec.ProteinValue(),
			Burned:     burned,
			Difference: diff,
		}
	}
	return out
}

type MonthSummary struct {
	AvgCalories    int `json:"avgCalories"`
	TotalExercises int `json:"totalExercises"`
}

// MonthlySummary averages intake over the days that tracked calories.
func MonthlySummary(records domain.DayRecords, year int, month time.Month) MonthSummary {
	var sum, days, exercises int
	for day := 1; day <= calendar.DaysInMonth(year, month); day++ {
		rec, ok := records[calendar.Key(calendar.Day(year, month, day))]
		if !ok {
			continue
		}
		exercises += len(rec.Exercises)
		if rec.Calories > 0 {
			sum += rec.Calories
			days++
		}
	}

	avg := 0
	if days > 0 {
		avg = int(math.Round(float64(sum) / float64(days)))
	}
	return MonthSummary{AvgCalories: avg, TotalExercises: exercises}
}

// GymDaysAllTime counts records with at least one exercise.
func GymDaysAllTime(records domain.DayRecords) int {
	n := 0
	for _, rec := range records {
		if rec.IsWorkout() {
			n++
		}
	}
	return n
}
