package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/reprocket/internal/calendar"
	"github.com/vladimiradmaev/reprocket/internal/domain"
	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
	"github.com/vladimiradmaev/reprocket/internal/storage"
)

func seedBackup(t *testing.T, tracker *TrackerService) {
	t.Helper()
	ctx := context.Background()

	_, err := tracker.SaveDay(ctx, "2024-03-02", domain.DayRecord{
		Title:          "Push, heavy",
		Calories:       2400,
		Protein:        ptr(160),
		BurnedCalories: ptr(450),
		Exercises: []domain.Exercise{
			{ID: "e1", Name: "Bench", Sets: 5, Reps: 5, Weight: 82.5},
			{ID: "e2", Name: `Dip "weighted"`, Sets: 3, Reps: 8, Weight: 10},
		},
		PersonalRecords: []domain.PersonalRecord{{ID: "p1", ExerciseName: "Bench", Value: 82.5, Unit: domain.PRUnitKg}},
	})
	require.NoError(t, err)
	_, err = tracker.SaveDay(ctx, "2024-03-01", domain.DayRecord{Title: "ignored", IsRestDay: true, Calories: 1800})
	require.NoError(t, err)
	_, err = tracker.SaveDay(ctx, "2024-03-03", domain.DayRecord{Title: "Walk", Calories: 1900})
	require.NoError(t, err)

	require.NoError(t, tracker.SetWeight(ctx, "2024-03-02", 81.2))
	_, err = tracker.AddGoal(ctx, domain.Goal{Type: domain.GoalWeightLift, Description: "Bench", StartValue: 70, TargetValue: 100, Unit: "kg"})
	require.NoError(t, err)
	_, err = tracker.AddAchievement(ctx, "First 80kg bench", "2024-03-02")
	require.NoError(t, err)
	_, err = tracker.AddNote(ctx, "Plan", "deload next week")
	require.NoError(t, err)
}

func TestBackupService_ExportCSV(t *testing.T) {
	tracker := newTestTracker(t, storage.NewMemoryBackend(0))
	seedBackup(t, tracker)

	want := "Date,Title,CaloriesEaten,Protein,CaloriesBurned,Exercise,Sets,Reps,Weight,Unit\n" +
		"2024-03-01,Rest Day,1800,,,,,,,\n" +
		"2024-03-02,\"Push, heavy\",2400,160,450,Bench,5,5,82.5,kg\n" +
		",,,,,\"Dip \"\"weighted\"\"\",3,8,10,kg\n" +
		"2024-03-03,Walk,1900,,,,,,,\n"
	assert.Equal(t, want, string(NewBackupService(tracker).ExportCSV()))
}

func TestBackupService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newTestTracker(t, storage.NewMemoryBackend(0))
	seedBackup(t, source)

	exported, err := NewBackupService(source).ExportJSON()
	require.NoError(t, err)

	target := newTestTracker(t, storage.NewMemoryBackend(0))
	backup := NewBackupService(target)
	require.NoError(t, backup.Import(ctx, exported))

	reexported, err := backup.ExportJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(exported), string(reexported))
	assert.Equal(t, 82.5, target.Snapshot().Goals[0].CurrentValue)
}

func TestBackupService_ImportRejectsInvalidFiles(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t, storage.NewMemoryBackend(0))
	seedBackup(t, tracker)
	before := tracker.Snapshot()
	svc := NewBackupService(tracker)

	cases := map[string]string{
		"not json":         `{"appData":`,
		"missing settings": `{"appData":{}}`,
		"null app data":    `{"appData":null,"settings":{}}`,
		"bad date":         `{"appData":{"March 1":{"title":"x"}},"settings":{}}`,
		"bad notes":        `{"appData":{},"settings":{},"notes":{"id":"1"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			err := svc.Import(ctx, []byte(body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidImportFile))
			assert.Equal(t, before, tracker.Snapshot())
		})
	}
}

func TestParseBackup_OptionalCollections(t *testing.T) {
	b, err := ParseBackup([]byte(`{"appData":{"2024-01-01":{"title":"x","exercises":[],"calories":0}},"settings":{"calorieGoal":1800}}`))
	require.NoError(t, err)

	require.NotNil(t, b.Records)
	assert.Len(t, *b.Records, 1)
	assert.Equal(t, 1800, b.Settings.CalorieGoal)
	assert.Equal(t, "Champ", b.Settings.UserName, "absent settings keep defaults")
	assert.Nil(t, b.Notes)
	assert.Nil(t, b.Goals)
	assert.Nil(t, b.Photos)
}

func TestCheckImportFileAndNames(t *testing.T) {
	assert.NoError(t, CheckImportFile("backup.JSON", ""))
	assert.NoError(t, CheckImportFile("upload", "application/json"))
	assert.True(t, errors.Is(CheckImportFile("data.csv", "text/csv"), apperrors.ErrInvalidImportFile))

	day := calendar.MustParse("2024-03-15")
	assert.Equal(t, "reprocket-backup-2024-03-15.json", BackupFileName(day))
	assert.Equal(t, "reprocket-workouts-2024-03-15.csv", WorkoutsFileName(day))
}
