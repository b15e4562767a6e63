package state

import (
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	m := NewManager()

	assert.Equal(t, None, m.GetUserState(1))
	m.SetUserState(1, WaitingForCoach)
	assert.Equal(t, WaitingForCoach, m.GetUserState(1))
	m.ClearUserState(1)
	assert.Equal(t, None, m.GetUserState(1))

	m.SetTempData(1, KeyEstimateBurned, 420)
	v, ok := m.GetTempData(1, KeyEstimateBurned)
	require.True(t, ok)
	assert.Equal(t, 420, v)

	m.ClearTempData(1)
	_, ok = m.GetTempData(1, KeyEstimateBurned)
	assert.False(t, ok)
}

func TestManager_PendingStepExpires(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	m := NewManager().WithClock(func() time.Time { return now })

	m.SetUserState(7, WaitingForImport)
	m.SetTempData(7, KeyEstimateDate, "2024-03-15")

	now = now.Add(stateTTL - time.Minute)
	assert.Equal(t, WaitingForImport, m.GetUserState(7))
	m.SetTempData(7, KeyEstimateBurned, 350)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, None, m.GetUserState(7))
	v, ok := m.GetTempData(7, KeyEstimateDate)
	require.True(t, ok, "temp data expiry is renewed by every write")
	assert.Equal(t, "2024-03-15", v)

	now = now.Add(stateTTL)
	_, ok = m.GetTempData(7, KeyEstimateBurned)
	assert.False(t, ok)

	m.SetTempData(7, KeyEstimateBurned, 400)
	_, ok = m.GetTempData(7, KeyEstimateDate)
	assert.False(t, ok, "expired values are not carried into a new set")
}

func TestRedisManager_State(t *testing.T) {
	db, mock := redismock.NewClientMock()
	m := NewRedisManager(db, "reprocket")

	mock.ExpectSet("reprocket:user:7:state", WaitingForNote, stateTTL).SetVal("OK")
	m.SetUserState(7, WaitingForNote)

	mock.ExpectGet("reprocket:user:7:state").SetVal(WaitingForNote)
	assert.Equal(t, WaitingForNote, m.GetUserState(7))

	mock.ExpectGet("reprocket:user:8:state").RedisNil()
	assert.Equal(t, None, m.GetUserState(8))

	mock.ExpectDel("reprocket:user:7:state").SetVal(1)
	m.ClearUserState(7)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisManager_TempData(t *testing.T) {
	db, mock := redismock.NewClientMock()
	m := NewRedisManager(db, "reprocket")

	mock.ExpectGet("reprocket:user:7:temp").RedisNil()
	mock.ExpectSet("reprocket:user:7:temp", []byte(`{"estimate_date":"2024-03-15"}`), stateTTL).SetVal("OK")
	m.SetTempData(7, KeyEstimateDate, "2024-03-15")

	mock.ExpectGet("reprocket:user:7:temp").SetVal(`{"estimate_date":"2024-03-15","estimate_burned":380}`)
	v, ok := m.GetTempData(7, KeyEstimateBurned)
	require.True(t, ok)
	assert.Equal(t, 380.0, v)

	mock.ExpectDel("reprocket:user:7:temp").SetVal(1)
	m.ClearTempData(7)

	require.NoError(t, mock.ExpectationsWereMet())
}
