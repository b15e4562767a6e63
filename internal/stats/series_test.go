package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vladimiradmaev/reprocket/internal/domain"
)

func TestLatestWeightAndSeries(t *testing.T) {
	_, ok := LatestWeight(nil)
	assert.False(t, ok)

	history := domain.WeightHistory{"2024-01-05": 78, "2024-01-01": 80, "2024-01-03": 79.5}
	w, ok := LatestWeight(history)
	assert.True(t, ok)
	assert.Equal(t, 78.0, w)

	assert.Equal(t, []WeightPoint{
		{Date: "2024-01-01", Weight: 80},
		{Date: "2024-01-03", Weight: 79.5},
		{Date: "2024-01-05", Weight: 78},
	}, WeightSeries(history))
}

func TestPersonalRecords(t *testing.T) {
	records := domain.DayRecords{
		"2024-02-10": {PersonalRecords: []domain.PersonalRecord{{ExerciseName: "Squat", Value: 120, Unit: domain.PRUnitKg}}},
		"2024-01-10": {PersonalRecords: []domain.PersonalRecord{
			{ExerciseName: "Squat", Value: 110, Unit: domain.PRUnitKg},
			{ExerciseName: "Bench", Value: 80, Unit: domain.PRUnitKg},
		}},
		"2024-01-20": {PersonalRecords: []domain.PersonalRecord{{ExerciseName: "Pull-up", Value: 12, Unit: domain.PRUnitReps}}},
	}

	assert.Equal(t, []string{"Bench", "Pull-up", "Squat"}, PersonalRecordExercises(records))
	assert.Equal(t, []PRPoint{
		{Date: "2024-01-10", Value: 110, Unit: domain.PRUnitKg},
		{Date: "2024-02-10", Value: 120, Unit: domain.PRUnitKg},
	}, PersonalRecordSeries(records, "Squat"))
	assert.Empty(t, PersonalRecordSeries(records, "squat"))
	assert.Empty(t, PersonalRecordExercises(nil))
}
