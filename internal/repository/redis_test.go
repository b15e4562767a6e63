package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
	"github.com/vladimiradmaev/reprocket/internal/storage"
)

func TestRedisBackend_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	b := NewRedisBackend(db, "reprocket")
	ctx := context.Background()

	mock.ExpectGet("reprocket:" + storage.KeyGoals).RedisNil()
	val, ok, err := b.Get(ctx, storage.KeyGoals)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)

	mock.ExpectGet("reprocket:" + storage.KeyGoals).SetVal(`[{"id":"g1"}]`)
	val, ok, err = b.Get(ctx, storage.KeyGoals)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"g1"}]`, string(val))

	mock.ExpectGet("reprocket:" + storage.KeyGoals).SetErr(errors.New("i/o timeout"))
	_, _, err = b.Get(ctx, storage.KeyGoals)
	require.Error(t, err)
	appErr, isApp := apperrors.As(err)
	require.True(t, isApp)
	assert.Equal(t, apperrors.ErrorTypeStorage, appErr.Type)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBackend_SetPublishesChange(t *testing.T) {
	db, mock := redismock.NewClientMock()
	b := NewRedisBackend(db, "reprocket")
	ctx := context.Background()

	value := []byte(`{"2024-01-01":{"title":"Legs"}}`)
	payload, err := encodeChange(storage.KeyDayRecords, b.Origin())
	require.NoError(t, err)

	mock.ExpectSet("reprocket:"+storage.KeyDayRecords, value, 0).SetVal("OK")
	mock.ExpectPublish(b.Channel(), payload).SetVal(1)

	require.NoError(t, b.Set(ctx, storage.KeyDayRecords, value))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBackend_SetOOMIsQuotaExceeded(t *testing.T) {
	db, mock := redismock.NewClientMock()
	b := NewRedisBackend(db, "reprocket")

	mock.ExpectSet("reprocket:"+storage.KeyProgressPhotos, []byte("[]"), 0).
		SetErr(errors.New("OOM command not allowed when used memory > 'maxmemory'."))

	err := b.Set(context.Background(), storage.KeyProgressPhotos, []byte("[]"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStorageQuotaExceeded))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBackend_DeleteOnlyPublishesWhenRemoved(t *testing.T) {
	db, mock := redismock.NewClientMock()
	b := NewRedisBackend(db, "ns")
	ctx := context.Background()

	mock.ExpectDel("ns:" + storage.KeyNotes).SetVal(0)
	require.NoError(t, b.Delete(ctx, storage.KeyNotes))

	payload, err := encodeChange(storage.KeyNotes, b.Origin())
	require.NoError(t, err)
	mock.ExpectDel("ns:" + storage.KeyNotes).SetVal(1)
	mock.ExpectPublish("ns:changes", payload).SetVal(0)
	require.NoError(t, b.Delete(ctx, storage.KeyNotes))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecodeChange(t *testing.T) {
	payload, err := encodeChange(storage.KeyGoals, "other")
	require.NoError(t, err)

	change, ok := decodeChange(payload, "self")
	require.True(t, ok)
	assert.Equal(t, storage.Change{Key: storage.KeyGoals, Origin: "other"}, change)

	_, ok = decodeChange(payload, "other")
	assert.False(t, ok, "own writes are dropped")

	_, ok = decodeChange("not json", "self")
	assert.False(t, ok)

	_, ok = decodeChange(`{"origin":"x"}`, "self")
	assert.False(t, ok)
}

func TestIsRedisQuotaError(t *testing.T) {
	assert.False(t, isRedisQuotaError(nil))
	assert.False(t, isRedisQuotaError(redis.Nil))
	assert.True(t, isRedisQuotaError(errors.New("OOM command not allowed")))
}
