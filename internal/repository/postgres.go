package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vladimiradmaev/reprocket/internal/database"
	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
	"github.com/vladimiradmaev/reprocket/internal/logger"
	"github.com/vladimiradmaev/reprocket/internal/storage"
)

const listenRetryDelay = 2 * time.Second

// SQLSTATE codes meaning the server ran out of room.
var quotaSQLStates = map[string]bool{
	"53100": true, // disk_full
	"53200": true, // out_of_memory
	"54000": true, // program_limit_exceeded
}

// PostgresBackend stores collections in storage_entries and announces
// writes with NOTIFY so other instances can refresh.
type PostgresBackend struct {
	db        *gorm.DB
	dsn       string
	namespace string
	origin    string
	channel   string
}

var _ storage.Backend = (*PostgresBackend)(nil)

// NewPostgresBackend uses db for reads and writes. dsn opens the dedicated
// LISTEN connection used by Watch.
func NewPostgresBackend(db *gorm.DB, dsn, namespace string) *PostgresBackend {
	return &PostgresBackend{
		db:        db,
		dsn:       dsn,
		namespace: namespace,
		origin:    uuid.NewString(),
		channel:   ChangeChannel(namespace),
	}
}

// ChangeChannel is the NOTIFY channel used for a namespace.
func ChangeChannel(namespace string) string {
	return namespace + "_changes"
}

func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry database.StorageEntry
	err := b.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", b.namespace, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewStorageError(err, key)
	}
	return entry.Value, true, nil
}

func (b *PostgresBackend) Set(ctx context.Context, key string, value []byte) error {
	entry := database.StorageEntry{
		Namespace: b.namespace,
		Key:       key,
		Value:     value,
		Origin:    b.origin,
		UpdatedAt: time.Now().UTC(),
	}

	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "origin", "updated_at"}),
		}).Create(&entry).Error
		if err != nil {
			return err
		}
		return b.notify(tx, key)
	})
	return b.mapError(err, key)
}

func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("namespace = ? AND key = ?", b.namespace, key).Delete(&database.StorageEntry{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return b.notify(tx, key)
	})
	return b.mapError(err, key)
}

func (b *PostgresBackend) notify(tx *gorm.DB, key string) error {
	payload, err := encodeChange(key, b.origin)
	if err != nil {
		return err
	}
	return tx.Exec("SELECT pg_notify(?, ?)", b.channel, payload).Error
}

func (b *PostgresBackend) mapError(err error, key string) error {
	if err == nil {
		return nil
	}
	if isPostgresQuotaError(err) {
		return apperrors.NewQuotaExceededError(err, key)
	}
	return apperrors.NewStorageError(err, key)
}

func isPostgresQuotaError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && quotaSQLStates[pgErr.Code]
}

// Watch listens on the namespace channel over a dedicated pgx connection,
// reconnecting when the connection drops.
func (b *PostgresBackend) Watch(ctx context.Context) (<-chan storage.Change, error) {
	conn, err := b.listen(ctx)
	if err != nil {
		return nil, err
	}

	changes := make(chan storage.Change, 64)
	go func() {
		defer close(changes)
		for {
			err := b.consume(ctx, conn, changes)
			_ = conn.Close(context.Background())
			if ctx.Err() != nil {
				return
			}
			logger.Warn("Change listener lost connection, reconnecting", "channel", b.channel, "error", err)

			for {
				select {
				case <-ctx.Done():
					return
				case <-time.After(listenRetryDelay):
				}
				if conn, err = b.listen(ctx); err == nil {
					break
				}
				logger.Warn("Failed to re-establish change listener", "channel", b.channel, "error", err)
			}

			// Writes committed while nobody was listening sent no notification.
			logger.Info("Change listener reconnected, reloading all collections", "channel", b.channel)
			storage.Resync(ctx, changes)
		}
	}()
	return changes, nil
}

func (b *PostgresBackend) listen(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, b.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open listen connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{b.channel}.Sanitize()); err != nil {
		_ = conn.Close(context.Background())
		return nil, fmt.Errorf("failed to listen on %s: %w", b.channel, err)
	}
	return conn, nil
}

func (b *PostgresBackend) consume(ctx context.Context, conn *pgx.Conn, out chan<- storage.Change) error {
	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		change, ok := decodeChange(n.Payload, b.origin)
		if !ok {
			continue
		}
		select {
		case out <- change:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *PostgresBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func encodeChange(key, origin string) (string, error) {
	payload, err := json.Marshal(storage.Change{Key: key, Origin: origin})
	if err != nil {
		return "", fmt.Errorf("failed to encode change: %w", err)
	}
	return string(payload), nil
}

// decodeChange parses a notification payload, dropping our own writes and
// anything malformed.
func decodeChange(payload, self string) (storage.Change, bool) {
	var change storage.Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		logger.Warn("Ignoring malformed change notification", "payload", payload, "error", err)
		return storage.Change{}, false
	}
	if change.Key == "" || change.Origin == self {
		return storage.Change{}, false
	}
	return change, true
}
