package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vladimiradmaev/reprocket/internal/calendar"
)

type WeightEntry struct {
	Date  string
	Value float64
}

type WeightService struct {
	tracker *TrackerService
}

func NewWeightService(tracker *TrackerService) *WeightService {
	return &WeightService{
		tracker: tracker,
	}
}

// Log records value for date, replacing any earlier entry for that day.
func (s *WeightService) Log(ctx context.Context, date time.Time, value float64) error {
	if err := s.tracker.SetWeight(ctx, calendar.Key(date), value); err != nil {
		return fmt.Errorf("failed to log weight: %w", err)
	}
	return nil
}

func (s *WeightService) Delete(ctx context.Context, date time.Time) error {
	return s.tracker.DeleteWeight(ctx, calendar.Key(date))
}

// History returns every entry, newest first.
func (s *WeightService) History() []WeightEntry {
	weights := s.tracker.Snapshot().Weights
	entries := make([]WeightEntry, 0, len(weights))
	for date, v := range weights {
		entries = append(entries, WeightEntry{Date: date, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
	return entries
}

// Latest is the entry with the most recent date.
func (s *WeightService) Latest() (WeightEntry, bool) {
	history := s.History()
	if len(history) == 0 {
		return WeightEntry{}, false
	}
	return history[0], true
}
