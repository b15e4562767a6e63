package services

import (
	"context"
	"fmt"

	"github.com/vladimiradmaev/reprocket/internal/domain"
	"github.com/vladimiradmaev/reprocket/internal/logger"
	"github.com/vladimiradmaev/reprocket/internal/storage"
)

// Bundle holds whole collections to replace at once. Nil fields are left
// untouched.
type Bundle struct {
	Records      *domain.DayRecords
	Settings     *domain.Settings
	Notes        *[]domain.Note
	Weights      *domain.WeightHistory
	Goals        *[]*domain.Goal
	Achievements *[]domain.Achievement
	Photos       *[]domain.ProgressPhoto
}

type replaceStep struct {
	key    string
	apply  func() error
	revert func() error
}

func replaceCollection[T any](ctx context.Context, c *storage.Collection[T], v *T) *replaceStep {
	if v == nil {
		return nil
	}
	prev := c.Get()
	return &replaceStep{
		key:    c.Key(),
		apply:  func() error { return c.Set(ctx, *v) },
		revert: func() error { return c.Set(ctx, prev) },
	}
}

// ReplaceAll writes every collection present in b. If any write fails,
// the collections already replaced and the failing one are restored to
// their previous values and the first error is returned.
func (s *TrackerService) ReplaceAll(ctx context.Context, b Bundle) error {
	return s.mutate(ctx, func() (bool, error) {
		steps := []*replaceStep{
			replaceCollection(ctx, s.records, b.Records),
			replaceCollection(ctx, s.settings, b.Settings),
			replaceCollection(ctx, s.notes, b.Notes),
			replaceCollection(ctx, s.weights, b.Weights),
			replaceCollection(ctx, s.goals, b.Goals),
			replaceCollection(ctx, s.achievements, b.Achievements),
			replaceCollection(ctx, s.photos, b.Photos),
		}

		var done []*replaceStep
		for _, step := range steps {
			if step == nil {
				continue
			}
			done = append(done, step)
			if err := s.persisted(step.key, step.apply()); err != nil {
				for i := len(done) - 1; i >= 0; i-- {
					if rerr := done[i].revert(); rerr != nil {
						logger.Error("Failed to roll back collection", "key", done[i].key, "error", rerr)
					}
				}
				return true, err
			}
		}
		if len(done) == 0 {
			return false, nil
		}
		return true, s.recalculateGoalsLocked(ctx)
	})
}

// StartSync subscribes to writes made by other processes on the same
// backend, loads every collection, and then reloads the affected
// collection for each foreign write. Subscribing before the load means a
// write racing with startup is either loaded or delivered afterwards. The
// returned channel is closed once ctx is done and the watch loop has exited.
func (s *TrackerService) StartSync(ctx context.Context) (<-chan struct{}, error) {
	watchCtx, cancel := context.WithCancel(ctx)
	changes, err := s.backend.Watch(watchCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to watch storage: %w", err)
	}
	if err := s.Load(ctx); err != nil {
		cancel()
		for range changes {
		}
		return nil, fmt.Errorf("failed to load tracker data: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		for change := range changes {
			s.applyExternalChange(ctx, change.Key)
		}
	}()
	return done, nil
}

func (s *TrackerService) applyExternalChange(ctx context.Context, key string) {
	s.mu.Lock()
	switch key {
	case storage.KeyDayRecords:
		s.records.Load(ctx)
	case storage.KeySettings:
		s.settings.Load(ctx)
	case storage.KeyNotes:
		s.notes.Load(ctx)
	case storage.KeyWeightHistory:
		s.weights.Load(ctx)
	case storage.KeyGoals:
		s.goals.Load(ctx)
	case storage.KeyAchievements:
		s.achievements.Load(ctx)
	case storage.KeyProgressPhotos:
		s.photos.Load(ctx)
	case storage.KeyOnboardingComplete:
		s.onboarding.Load(ctx)
	default:
		s.mu.Unlock()
		logger.Debug("Ignoring change for unknown key", "key", key)
		return
	}
	if err := s.recalculateGoalsLocked(ctx); err != nil {
		logger.Warn("Goal recalculation after external change failed", "key", key, "error", err)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.CounterExternalRefresh.WithLabelValues(key).Inc()
	logger.Debug("Reloaded collection after external change", "key", key)
	s.notify(snap)
}
