package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/reprocket/internal/calendar"
	"github.com/vladimiradmaev/reprocket/internal/domain"
	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
	"github.com/vladimiradmaev/reprocket/internal/logger"
	"github.com/vladimiradmaev/reprocket/internal/metrics"
	"github.com/vladimiradmaev/reprocket/internal/stats"
	"github.com/vladimiradmaev/reprocket/internal/storage"
)

// Snapshot is a consistent, read-only view of every collection. Callers
// must not modify anything reachable from it.
type Snapshot struct {
	Records            domain.DayRecords
	Settings           domain.Settings
	Notes              []domain.Note
	Weights            domain.WeightHistory
	Goals              []*domain.Goal
	Achievements       []domain.Achievement
	Photos             []domain.ProgressPhoto
	OnboardingComplete bool
}

// SaveResult reports side effects of saving a day.
type SaveResult struct {
	Deleted            bool
	CalorieGoalReached bool
}

// TrackerService owns the tracker's collections. Every mutation persists
// the affected collection, recomputes goal progress when day records or
// weights changed, and then notifies subscribers with a fresh snapshot.
type TrackerService struct {
	mu sync.RWMutex

	backend      storage.Backend
	records      *storage.Collection[domain.DayRecords]
	settings     *storage.Collection[domain.Settings]
	notes        *storage.Collection[[]domain.Note]
	weights      *storage.Collection[domain.WeightHistory]
	goals        *storage.Collection[[]*domain.Goal]
	achievements *storage.Collection[[]domain.Achievement]
	photos       *storage.Collection[[]domain.ProgressPhoto]
	onboarding   *storage.Collection[bool]

	metrics *metrics.Manager
	now     func() time.Time
	loc     *time.Location

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

func NewTrackerService(backend storage.Backend, defaults domain.Settings, m *metrics.Manager, loc *time.Location) *TrackerService {
	if loc == nil {
		loc = time.Local
	}
	defaultSettings := func() domain.Settings {
		s := defaults
		s.PreferredRestDays = append([]int(nil), defaults.PreferredRestDays...)
		return s
	}

	return &TrackerService{
		backend:      backend,
		records:      storage.NewCollection(backend, storage.KeyDayRecords, func() domain.DayRecords { return domain.DayRecords{} }),
		settings:     storage.NewCollection(backend, storage.KeySettings, defaultSettings),
		notes:        storage.NewCollection(backend, storage.KeyNotes, func() []domain.Note { return []domain.Note{} }),
		weights:      storage.NewCollection(backend, storage.KeyWeightHistory, func() domain.WeightHistory { return domain.WeightHistory{} }),
		goals:        storage.NewCollection(backend, storage.KeyGoals, func() []*domain.Goal { return []*domain.Goal{} }),
		achievements: storage.NewCollection(backend, storage.KeyAchievements, func() []domain.Achievement { return []domain.Achievement{} }),
		photos:       storage.NewCollection(backend, storage.KeyProgressPhotos, func() []domain.ProgressPhoto { return []domain.ProgressPhoto{} }),
		onboarding:   storage.NewCollection(backend, storage.KeyOnboardingComplete, func() bool { return false }),
		metrics:      m,
		now:          time.Now,
		loc:          loc,
		subs:         make(map[int]func(Snapshot)),
	}
}

// WithClock replaces the time source.
func (s *TrackerService) WithClock(now func() time.Time) *TrackerService {
	s.now = now
	return s
}

// Today is the current civil date in the tracker's location.
func (s *TrackerService) Today() time.Time {
	return calendar.Today(s.now(), s.loc)
}

// Load reads every collection from the backend and brings goal progress
// up to date.
func (s *TrackerService) Load(ctx context.Context) error {
	s.mu.Lock()
	s.records.Load(ctx)
	s.settings.Load(ctx)
	s.notes.Load(ctx)
	s.weights.Load(ctx)
	s.goals.Load(ctx)
	s.achievements.Load(ctx)
	s.photos.Load(ctx)
	s.onboarding.Load(ctx)
	err := s.recalculateGoalsLocked(ctx)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return err
}

func (s *TrackerService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *TrackerService) snapshotLocked() Snapshot {
	return Snapshot{
		Records:            s.records.Get(),
		Settings:           s.settings.Get(),
		Notes:              s.notes.Get(),
		Weights:            s.weights.Get(),
		Goals:              s.goals.Get(),
		Achievements:       s.achievements.Get(),
		Photos:             s.photos.Get(),
		OnboardingComplete: s.onboarding.Get(),
	}
}

// Subscribe registers fn to receive a snapshot after every change.
func (s *TrackerService) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *TrackerService) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// mutate runs fn under the write lock, then notifies subscribers if fn
// changed anything. A quota failure still counts as a change since the
// in-memory state keeps the new value.
func (s *TrackerService) mutate(ctx context.Context, fn func() (changed bool, err error)) error {
	s.mu.Lock()
	changed, err := fn()
	var snap Snapshot
	if changed {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if changed {
		s.notify(snap)
	}
	return err
}

// persisted records the outcome of a collection write.
func (s *TrackerService) persisted(key string, err error) error {
	switch {
	case err == nil:
		s.metrics.CounterStorageWrites.WithLabelValues(key, "ok").Inc()
		return nil
	case errors.Is(err, apperrors.ErrStorageQuotaExceeded):
		s.metrics.CounterStorageWrites.WithLabelValues(key, "quota").Inc()
		s.metrics.CounterQuotaExceeded.Inc()
		logger.Error("Storage quota exceeded", "key", key, "error", err)
	default:
		s.metrics.CounterStorageWrites.WithLabelValues(key, "error").Inc()
		logger.Error("Failed to persist collection", "key", key, "error", err)
	}
	return fmt.Errorf("failed to save %s: %w", key, err)
}

func (s *TrackerService) recalculateGoalsLocked(ctx context.Context) error {
	updated, changed := stats.UpdateGoalProgress(s.goals.Get(), s.records.Get(), s.weights.Get())
	if !changed {
		return nil
	}
	return s.persisted(storage.KeyGoals, s.goals.Set(ctx, updated))
}

// afterDataChangeLocked persists the goal recalculation that follows any
// day-record or weight write. The first error wins.
func (s *TrackerService) afterDataChangeLocked(ctx context.Context, writeErr error) error {
	goalErr := s.recalculateGoalsLocked(ctx)
	if writeErr != nil {
		return writeErr
	}
	return goalErr
}

func (s *TrackerService) copyRecords() domain.DayRecords {
	cur := s.records.Get()
	next := make(domain.DayRecords, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	return next
}

func (s *TrackerService) copyWeights() domain.WeightHistory {
	cur := s.weights.Get()
	next := make(domain.WeightHistory, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	return next
}

func validDate(date string) error {
	if _, err := calendar.Parse(date); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
	}
	return nil
}

// Day returns the record for date and whether one is stored.
func (s *TrackerService) Day(date string) (domain.DayRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records.Get()[date]
	return rec, ok
}

// SaveDay stores rec under date. An effectively empty record removes the
// date instead. Exercises and personal records without an id get one.
func (s *TrackerService) SaveDay(ctx context.Context, date string, rec domain.DayRecord) (SaveResult, error) {
	if err := validDate(date); err != nil {
		return SaveResult{}, err
	}
	rec = rec.Clone()
	for i := range rec.Exercises {
		if rec.Exercises[i].ID == "" {
			rec.Exercises[i].ID = uuid.NewString()
		}
	}
	for i := range rec.PersonalRecords {
		if rec.PersonalRecords[i].ID == "" {
			rec.PersonalRecords[i].ID = uuid.NewString()
		}
	}

	var result SaveResult
	err := s.mutate(ctx, func() (bool, error) {
		next := s.copyRecords()
		prev, existed := next[date]

		if rec.IsEffectivelyEmpty() {
			if !existed {
				result.Deleted = true
				return false, nil
			}
			delete(next, date)
			result.Deleted = true
		} else {
			next[date] = rec
			goal := s.settings.Get().CalorieGoal
			if goal > 0 && prev.Calories < goal && rec.Calories >= goal {
				result.CalorieGoalReached = true
				s.metrics.CounterCalorieGoalsHit.Inc()
			}
		}

		writeErr := s.persisted(storage.KeyDayRecords, s.records.Set(ctx, next))
		return true, s.afterDataChangeLocked(ctx, writeErr)
	})
	return result, err
}

// UpdateDay applies fn to a copy of the record for date (zero value when
// absent) and saves the result.
func (s *TrackerService) UpdateDay(ctx context.Context, date string, fn func(rec *domain.DayRecord)) (SaveResult, error) {
	rec, _ := s.Day(date)
	rec = rec.Clone()
	fn(&rec)
	return s.SaveDay(ctx, date, rec)
}

func (s *TrackerService) DeleteDay(ctx context.Context, date string) error {
	return s.mutate(ctx, func() (bool, error) {
		if _, ok := s.records.Get()[date]; !ok {
			return false, nil
		}
		next := s.copyRecords()
		delete(next, date)
		writeErr := s.persisted(storage.KeyDayRecords, s.records.Set(ctx, next))
		return true, s.afterDataChangeLocked(ctx, writeErr)
	})
}

func (s *TrackerService) AddExercise(ctx context.Context, date string, ex domain.Exercise) (SaveResult, error) {
	if strings.TrimSpace(ex.Name) == "" {
		return SaveResult{}, apperrors.NewValidationError("exercise name is required")
	}
	return s.UpdateDay(ctx, date, func(rec *domain.DayRecord) {
		rec.Exercises = append(rec.Exercises, ex)
	})
}

func (s *TrackerService) AddPersonalRecord(ctx context.Context, date string, pr domain.PersonalRecord) (SaveResult, error) {
	if strings.TrimSpace(pr.ExerciseName) == "" {
		return SaveResult{}, apperrors.NewValidationError("exercise name is required")
	}
	if pr.Value <= 0 {
		return SaveResult{}, apperrors.NewValidationError("personal record value must be positive")
	}
	return s.UpdateDay(ctx, date, func(rec *domain.DayRecord) {
		rec.PersonalRecords = append(rec.PersonalRecords, pr)
	})
}

// SetWeight records the body weight for date, overwriting that date.
func (s *TrackerService) SetWeight(ctx context.Context, date string, value float64) error {
	if err := validDate(date); err != nil {
		return err
	}
	if value <= 0 {
		return apperrors.NewValidationError("weight must be positive")
	}
	return s.mutate(ctx, func() (bool, error) {
		next := s.copyWeights()
		next[date] = value
		writeErr := s.persisted(storage.KeyWeightHistory, s.weights.Set(ctx, next))
		return true, s.afterDataChangeLocked(ctx, writeErr)
	})
}

func (s *TrackerService) DeleteWeight(ctx context.Context, date string) error {
	return s.mutate(ctx, func() (bool, error) {
		if _, ok := s.weights.Get()[date]; !ok {
			return false, nil
		}
		next := s.copyWeights()
		delete(next, date)
		writeErr := s.persisted(storage.KeyWeightHistory, s.weights.Set(ctx, next))
		return true, s.afterDataChangeLocked(ctx, writeErr)
	})
}

// AddGoal validates and stores a new goal. Progress is computed right away.
func (s *TrackerService) AddGoal(ctx context.Context, g domain.Goal) (*domain.Goal, error) {
	switch g.Type {
	case domain.GoalWeightLift, domain.GoalBodyWeight, domain.GoalGeneric:
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown goal type %q", g.Type))
	}
	if strings.TrimSpace(g.Description) == "" {
		return nil, apperrors.NewValidationError("goal description is required")
	}
	if g.TargetDate != "" {
		if err := validDate(g.TargetDate); err != nil {
			return nil, err
		}
	}

	goal := g
	goal.ID = uuid.NewString()
	goal.CreatedAt = s.now().UTC().Format(time.RFC3339)
	goal.CurrentValue = goal.StartValue
	goal.IsCompleted = false

	var stored *domain.Goal
	err := s.mutate(ctx, func() (bool, error) {
		next := append(append([]*domain.Goal{}, s.goals.Get()...), &goal)
		writeErr := s.persisted(storage.KeyGoals, s.goals.Set(ctx, next))
		goalErr := s.recalculateGoalsLocked(ctx)
		stored = s.findGoalLocked(goal.ID)
		if writeErr != nil {
			return true, writeErr
		}
		return true, goalErr
	})
	return stored, err
}

func (s *TrackerService) findGoalLocked(id string) *domain.Goal {
	for _, g := range s.goals.Get() {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// UpdateGoal applies fn to a copy of the goal. Id and creation time are kept.
func (s *TrackerService) UpdateGoal(ctx context.Context, id string, fn func(g *domain.Goal)) (*domain.Goal, error) {
	var updated *domain.Goal
	err := s.mutate(ctx, func() (bool, error) {
		cur := s.goals.Get()
		next := make([]*domain.Goal, len(cur))
		copy(next, cur)

		idx := -1
		for i, g := range next {
			if g.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false, apperrors.NewNotFoundError("goal")
		}

		cp := *next[idx]
		fn(&cp)
		cp.ID, cp.CreatedAt = next[idx].ID, next[idx].CreatedAt
		next[idx] = &cp

		writeErr := s.persisted(storage.KeyGoals, s.goals.Set(ctx, next))
		goalErr := s.recalculateGoalsLocked(ctx)
		updated = s.findGoalLocked(id)
		if writeErr != nil {
			return true, writeErr
		}
		return true, goalErr
	})
	return updated, err
}

func (s *TrackerService) ToggleGoalCompleted(ctx context.Context, id string) (*domain.Goal, error) {
	return s.UpdateGoal(ctx, id, func(g *domain.Goal) {
		g.IsCompleted = !g.IsCompleted
	})
}

func (s *TrackerService) DeleteGoal(ctx context.Context, id string) error {
	return s.mutate(ctx, func() (bool, error) {
		cur := s.goals.Get()
		next := make([]*domain.Goal, 0, len(cur))
		for _, g := range cur {
			if g.ID != id {
				next = append(next, g)
			}
		}
		if len(next) == len(cur) {
			return false, apperrors.NewNotFoundError("goal")
		}
		return true, s.persisted(storage.KeyGoals, s.goals.Set(ctx, next))
	})
}

func (s *TrackerService) AddAchievement(ctx context.Context, text, date string) (domain.Achievement, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Achievement{}, apperrors.NewValidationError("achievement text is required")
	}
	if date == "" {
		date = calendar.Key(s.Today())
	}
	if err := validDate(date); err != nil {
		return domain.Achievement{}, err
	}

	a := domain.Achievement{ID: uuid.NewString(), Text: strings.TrimSpace(text), Date: date}
	err := s.mutate(ctx, func() (bool, error) {
		next := append([]domain.Achievement{a}, s.achievements.Get()...)
		return true, s.persisted(storage.KeyAchievements, s.achievements.Set(ctx, next))
	})
	return a, err
}

func (s *TrackerService) DeleteAchievement(ctx context.Context, id string) error {
	return s.mutate(ctx, func() (bool, error) {
		cur := s.achievements.Get()
		next := make([]domain.Achievement, 0, len(cur))
		for _, a := range cur {
			if a.ID != id {
				next = append(next, a)
			}
		}
		if len(next) == len(cur) {
			return false, apperrors.NewNotFoundError("achievement")
		}
		return true, s.persisted(storage.KeyAchievements, s.achievements.Set(ctx, next))
	})
}

// AddNote prepends a note so the newest comes first.
func (s *TrackerService) AddNote(ctx context.Context, title, content string) (domain.Note, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(content) == "" {
		return domain.Note{}, apperrors.NewValidationError("note is empty")
	}
	ts := s.now().UTC().Format(time.RFC3339)
	n := domain.Note{ID: uuid.NewString(), Title: title, Content: content, CreatedAt: ts, UpdatedAt: ts}

	err := s.mutate(ctx, func() (bool, error) {
		next := append([]domain.Note{n}, s.notes.Get()...)
		return true, s.persisted(storage.KeyNotes, s.notes.Set(ctx, next))
	})
	return n, err
}

func (s *TrackerService) UpdateNote(ctx context.Context, id, title, content string) (domain.Note, error) {
	var updated domain.Note
	err := s.mutate(ctx, func() (bool, error) {
		cur := s.notes.Get()
		next := make([]domain.Note, len(cur))
		copy(next, cur)
		for i := range next {
			if next[i].ID != id {
				continue
			}
			next[i].Title = title
			next[i].Content = content
			next[i].UpdatedAt = s.now().UTC().Format(time.RFC3339)
			updated = next[i]
			return true, s.persisted(storage.KeyNotes, s.notes.Set(ctx, next))
		}
		return false, apperrors.NewNotFoundError("note")
	})
	return updated, err
}

func (s *TrackerService) DeleteNote(ctx context.Context, id string) error {
	return s.mutate(ctx, func() (bool, error) {
		cur := s.notes.Get()
		next := make([]domain.Note, 0, len(cur))
		for _, n := range cur {
			if n.ID != id {
				next = append(next, n)
			}
		}
		if len(next) == len(cur) {
			return false, apperrors.NewNotFoundError("note")
		}
		return true, s.persisted(storage.KeyNotes, s.notes.Set(ctx, next))
	})
}

// AddPhoto stores image bytes as a base64 data URL.
func (s *TrackerService) AddPhoto(ctx context.Context, date, mimeType string, image []byte) (domain.ProgressPhoto, error) {
	if err := validDate(date); err != nil {
		return domain.ProgressPhoto{}, err
	}
	if len(image) == 0 {
		return domain.ProgressPhoto{}, apperrors.NewValidationError("photo is empty")
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return domain.ProgressPhoto{}, apperrors.NewValidationError(fmt.Sprintf("unsupported photo type %q", mimeType))
	}

	p := domain.ProgressPhoto{
		ID:           uuid.NewString(),
		Date:         date,
		ImageDataURL: "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image),
		MimeType:     mimeType,
	}
	err := s.mutate(ctx, func() (bool, error) {
		next := append([]domain.ProgressPhoto{p}, s.photos.Get()...)
		return true, s.persisted(storage.KeyProgressPhotos, s.photos.Set(ctx, next))
	})
	return p, err
}

func (s *TrackerService) DeletePhoto(ctx context.Context, id string) error {
	return s.mutate(ctx, func() (bool, error) {
		cur := s.photos.Get()
		next := make([]domain.ProgressPhoto, 0, len(cur))
		for _, p := range cur {
			if p.ID != id {
				next = append(next, p)
			}
		}
		if len(next) == len(cur) {
			return false, apperrors.NewNotFoundError("photo")
		}
		return true, s.persisted(storage.KeyProgressPhotos, s.photos.Set(ctx, next))
	})
}

// SaveSettings stores settings as given; validation belongs to SettingsService.
func (s *TrackerService) SaveSettings(ctx context.Context, settings domain.Settings) error {
	return s.mutate(ctx, func() (bool, error) {
		return true, s.persisted(storage.KeySettings, s.settings.Set(ctx, settings))
	})
}

func (s *TrackerService) CompleteOnboarding(ctx context.Context) error {
	return s.mutate(ctx, func() (bool, error) {
		if s.onboarding.Get() {
			return false, nil
		}
		return true, s.persisted(storage.KeyOnboardingComplete, s.onboarding.Set(ctx, true))
	})
}
