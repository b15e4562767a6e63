package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
	"github.com/vladimiradmaev/reprocket/internal/logger"
)

// Collection is a typed, cached view of one key.
type Collection[T any] struct {
	backend Backend
	key     string
	def     func() T

	mu    sync.RWMutex
	value T
}

// NewCollection returns a collection holding def() until Load is called.
func NewCollection[T any](backend Backend, key string, def func() T) *Collection[T] {
	return &Collection[T]{
		backend: backend,
		key:     key,
		def:     def,
		value:   def(),
	}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load reads the stored document into the cache and returns it. Absent,
// unreadable or unparseable data yields the default; the latter two are
// logged and never returned as errors.
func (c *Collection[T]) Load(ctx context.Context) T {
	v := c.read(ctx)
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
	return v
}

func (c *Collection[T]) read(ctx context.Context) T {
	raw, ok, err := c.backend.Get(ctx, c.key)
	if err != nil {
		logger.Error("Failed to read collection, using default", "key", c.key, "error", err)
		return c.def()
	}
	if !ok || len(raw) == 0 {
		return c.def()
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		appErr := apperrors.NewMalformedDataError(err, c.key)
		logger.Warn("Persisted data replaced with default", appErr.LogFields()...)
		return c.def()
	}
	return v
}

// Get returns the cached value.
func (c *Collection[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the cached value and persists it. The cache keeps the new
// value even when persisting fails.
func (c *Collection[T]) Set(ctx context.Context, v T) error {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	if err := c.backend.Set(ctx, c.key, raw); err != nil {
		return err
	}
	return nil
}

// Reset drops the stored document and restores the default.
func (c *Collection[T]) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.value = c.def()
	c.mu.Unlock()
	return c.backend.Delete(ctx, c.key)
}

// Raw returns the cached value encoded as JSON.
func (c *Collection[T]) Raw() (json.RawMessage, error) {
	return json.Marshal(c.Get())
}

// SetRaw decodes raw and stores it. Nothing changes if raw does not decode.
func (c *Collection[T]) SetRaw(ctx context.Context, raw json.RawMessage) error {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", c.key, err)
	}
	return c.Set(ctx, v)
}
