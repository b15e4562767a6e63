package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vladimiradmaev/reprocket/internal/config"
	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
	"github.com/vladimiradmaev/reprocket/internal/logger"
	"github.com/vladimiradmaev/reprocket/internal/storage"
)

// RedisBackend stores each collection under "<namespace>:<key>" and
// publishes writes on "<namespace>:changes".
type RedisBackend struct {
	client  *redis.Client
	prefix  string
	channel string
	origin  string
}

var _ storage.Backend = (*RedisBackend)(nil)

// NewRedisClient connects and pings the server.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewRedisBackend(client *redis.Client, namespace string) *RedisBackend {
	return &RedisBackend{
		client:  client,
		prefix:  namespace + ":",
		channel: namespace + ":changes",
		origin:  uuid.NewString(),
	}
}

func (b *RedisBackend) Origin() string {
	return b.origin
}

func (b *RedisBackend) Channel() string {
	return b.channel
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := b.client.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewStorageError(err, key)
	}
	return val, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := b.client.Set(ctx, b.prefix+key, value, 0).Err(); err != nil {
		return b.mapError(err, key)
	}
	return b.publish(ctx, key)
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	n, err := b.client.Del(ctx, b.prefix+key).Result()
	if err != nil {
		return b.mapError(err, key)
	}
	if n == 0 {
		return nil
	}
	return b.publish(ctx, key)
}

// publish failures are logged only: the write itself already succeeded.
func (b *RedisBackend) publish(ctx context.Context, key string) error {
	payload, err := encodeChange(key, b.origin)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		logger.Warn("Failed to publish change", "key", key, "channel", b.channel, "error", err)
	}
	return nil
}

func (b *RedisBackend) mapError(err error, key string) error {
	if isRedisQuotaError(err) {
		return apperrors.NewQuotaExceededError(err, key)
	}
	return apperrors.NewStorageError(err, key)
}

// isRedisQuotaError matches the OOM reply sent once maxmemory is reached.
func isRedisQuotaError(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "OOM ")
}

func (b *RedisBackend) Watch(ctx context.Context) (<-chan storage.Change, error) {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	// Receive blocks on the socket; closing the subscription unblocks it.
	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	changes := make(chan storage.Change, 64)
	go func() {
		defer close(changes)
		resync := false
		for {
			msg, err := sub.Receive(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// The next Receive reconnects and subscribes again.
				logger.Warn("Change subscription lost connection, reconnecting", "channel", b.channel, "error", err)
				resync = true
				select {
				case <-ctx.Done():
					return
				case <-time.After(listenRetryDelay):
				}
				continue
			}
			if resync {
				resync = false
				logger.Info("Change subscription restored, reloading all collections", "channel", b.channel)
				if !storage.Resync(ctx, changes) {
					return
				}
			}

			m, ok := msg.(*redis.Message)
			if !ok {
				continue
			}
			change, ok := decodeChange(m.Payload, b.origin)
			if !ok {
				continue
			}
			select {
			case changes <- change:
			case <-ctx.Done():
				return
			}
		}
	}()
	return changes, nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
