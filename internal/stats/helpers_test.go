package stats

import (
	"time"

	"github.com/vladimiradmaev/reprocket/internal/calendar"
	"github.com/vladimiradmaev/reprocket/internal/domain"
)

func workout(names ...string) domain.DayRecord {
	rec := domain.DayRecord{}
	for _, n := range names {
		rec.Exercises = append(rec.Exercises, domain.Exercise{Name: n, Sets: 3, Reps: 10})
	}
	return rec
}

func restDay() domain.DayRecord {
	return domain.DayRecord{IsRestDay: true}
}

func day(key string) time.Time {
	return calendar.MustParse(key)
}

func ptr[T any](v T) *T {
	return &v
}
