// Package storage persists tracker collections as JSON documents in a
// key-value backend and keeps an in-memory copy in sync with writes made
// by other processes sharing the same backend.
package storage

import "context"

// Collection keys. Each logical collection is stored as one JSON document.
const (
	KeyDayRecords         = "repRocketData"
	KeySettings           = "repRocketSettings"
	KeyNotes              = "repRocketNotes"
	KeyWeightHistory      = "repRocketWeight"
	KeyGoals              = "repRocketGoals"
	KeyAchievements       = "repRocketAchievements"
	KeyProgressPhotos     = "repRocketPhotos"
	KeyOnboardingComplete = "repRocketOnboardingComplete"
)

// AllKeys lists every collection key.
var AllKeys = []string{
	KeyDayRecords,
	KeySettings,
	KeyNotes,
	KeyWeightHistory,
	KeyGoals,
	KeyAchievements,
	KeyProgressPhotos,
	KeyOnboardingComplete,
}

// Change announces that another backend instance wrote or deleted Key.
type Change struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// Resync sends a Change for every collection key. Watchers call it after
// a gap in which notifications may have been lost, so readers reload
// everything. It returns false if ctx ended first.
func Resync(ctx context.Context, out chan<- Change) bool {
	for _, key := range AllKeys {
		select {
		case out <- Change{Key: key}:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// Backend is a namespaced key-value store shared by every process of one
// tracker. Set returns an error matching errors.ErrStorageQuotaExceeded
// when the store has no room left.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Watch subscribes to writes made by other instances. The
	// subscription is active when Watch returns; the channel is closed
	// once ctx is done. Notifications are never silently lost: after a
	// gap the watcher emits a Change for every key.
	Watch(ctx context.Context) (<-chan Change, error)

	Close() error
}
