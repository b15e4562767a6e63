package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
)

// MemoryHub is a process-local store that several MemoryBackend views can
// share, each view acting as an independent tracker instance.
type MemoryHub struct {
	mu    sync.Mutex
	data  map[string][]byte
	quota int
	subs  map[*memorySub]struct{}
}

// memorySub queues at most one pending change per key, so a slow reader
// sees the latest writer for every key it has not consumed yet.
type memorySub struct {
	origin  string
	mu      sync.Mutex
	pending []Change
	wake    chan struct{}
}

func (s *memorySub) push(c Change) {
	s.mu.Lock()
	queued := false
	for i := range s.pending {
		if s.pending[i].Key == c.Key {
			s.pending[i] = c
			queued = true
			break
		}
	}
	if !queued {
		s.pending = append(s.pending, c)
	}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *memorySub) take() []Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.pending
	s.pending = nil
	return p
}

// NewMemoryHub creates a hub holding at most quotaBytes of keys plus
// values. A quota of 0 disables the limit.
func NewMemoryHub(quotaBytes int) *MemoryHub {
	return &MemoryHub{
		data:  make(map[string][]byte),
		quota: quotaBytes,
		subs:  make(map[*memorySub]struct{}),
	}
}

// Open returns a new view with its own origin.
func (h *MemoryHub) Open() *MemoryBackend {
	return &MemoryBackend{hub: h, origin: uuid.NewString()}
}

// Size is the number of bytes currently used.
func (h *MemoryHub) Size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sizeLocked("", nil)
}

func (h *MemoryHub) sizeLocked(replaceKey string, replaceValue []byte) int {
	total := 0
	for k, v := range h.data {
		if k == replaceKey {
			continue
		}
		total += len(k) + len(v)
	}
	if replaceKey != "" {
		total += len(replaceKey) + len(replaceValue)
	}
	return total
}

func (h *MemoryHub) notifyLocked(key, origin string) {
	for sub := range h.subs {
		if sub.origin == origin {
			continue
		}
		sub.push(Change{Key: key, Origin: origin})
	}
}

// MemoryBackend is one view of a MemoryHub.
type MemoryBackend struct {
	hub    *MemoryHub
	origin string
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend returns a view of a fresh hub.
func NewMemoryBackend(quotaBytes int) *MemoryBackend {
	return NewMemoryHub(quotaBytes).Open()
}

func (b *MemoryBackend) Origin() string {
	return b.origin
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.hub.mu.Lock()
	defer b.hub.mu.Unlock()
	v, ok := b.hub.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	b.hub.mu.Lock()
	defer b.hub.mu.Unlock()

	if b.hub.quota > 0 && b.hub.sizeLocked(key, value) > b.hub.quota {
		return apperrors.NewQuotaExceededError(errors.New("memory quota reached"), key).
			WithContext("quota_bytes", b.hub.quota)
	}
	b.hub.data[key] = append([]byte(nil), value...)
	b.hub.notifyLocked(key, b.origin)
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.hub.mu.Lock()
	defer b.hub.mu.Unlock()
	if _, ok := b.hub.data[key]; !ok {
		return nil
	}
	delete(b.hub.data, key)
	b.hub.notifyLocked(key, b.origin)
	return nil
}

func (b *MemoryBackend) Watch(ctx context.Context) (<-chan Change, error) {
	sub := &memorySub{origin: b.origin, wake: make(chan struct{}, 1)}

	b.hub.mu.Lock()
	b.hub.subs[sub] = struct{}{}
	b.hub.mu.Unlock()

	out := make(chan Change)
	go func() {
		defer close(out)
		defer func() {
			b.hub.mu.Lock()
			delete(b.hub.subs, sub)
			b.hub.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.wake:
			}
			for _, c := range sub.take() {
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (b *MemoryBackend) Close() error {
	return nil
}
