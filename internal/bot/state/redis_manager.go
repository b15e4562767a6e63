package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladimiradmaev/reprocket/internal/logger"
)

const (
	stateTTL       = 24 * time.Hour
	redisOpTimeout = 3 * time.Second
)

// RedisManager keeps conversation state in Redis so it survives restarts
// and is shared by every bot instance.
type RedisManager struct {
	client    redis.UniversalClient
	namespace string
}

func NewRedisManager(client redis.UniversalClient, namespace string) *RedisManager {
	return &RedisManager{client: client, namespace: namespace}
}

func (m *RedisManager) stateKey(userID int64) string {
	return fmt.Sprintf("%s:user:%d:state", m.namespace, userID)
}

func (m *RedisManager) tempKey(userID int64) string {
	return fmt.Sprintf("%s:user:%d:temp", m.namespace, userID)
}

// SetUserState sets the state for a user with TTL
func (m *RedisManager) SetUserState(userID int64, state string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := m.client.Set(ctx, m.stateKey(userID), state, stateTTL).Err(); err != nil {
		logger.Warn("Failed to save user state", "user_id", userID, "error", err)
	}
}

// GetUserState gets the state for a user
func (m *RedisManager) GetUserState(userID int64) string {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	val, err := m.client.Get(ctx, m.stateKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return None
	}
	if err != nil {
		logger.Warn("Failed to read user state", "user_id", userID, "error", err)
		return None
	}
	return val
}

func (m *RedisManager) ClearUserState(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	m.client.Del(ctx, m.stateKey(userID))
}

// SetTempData sets temporary data for a user
func (m *RedisManager) SetTempData(userID int64, key string, value interface{}) {
	tempData := m.getTempDataMap(userID)
	if tempData == nil {
		tempData = make(map[string]interface{})
	}
	tempData[key] = value
	m.saveTempDataMap(userID, tempData)
}

// GetTempData gets temporary data for a user. Values come back the way
// encoding/json decodes them, so numbers are float64.
func (m *RedisManager) GetTempData(userID int64, key string) (interface{}, bool) {
	tempData := m.getTempDataMap(userID)
	if tempData == nil {
		return nil, false
	}
	value, exists := tempData[key]
	return value, exists
}

// ClearTempData clears all temporary data for a user
func (m *RedisManager) ClearTempData(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	m.client.Del(ctx, m.tempKey(userID))
}

func (m *RedisManager) getTempDataMap(userID int64) map[string]interface{} {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	raw, err := m.client.Get(ctx, m.tempKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Failed to read temp data", "user_id", userID, "error", err)
		}
		return nil
	}

	var tempData map[string]interface{}
	if err := json.Unmarshal(raw, &tempData); err != nil {
		return nil
	}
	return tempData
}

func (m *RedisManager) saveTempDataMap(userID int64, tempData map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := json.Marshal(tempData)
	if err != nil {
		return
	}
	if err := m.client.Set(ctx, m.tempKey(userID), data, stateTTL).Err(); err != nil {
		logger.Warn("Failed to save temp data", "user_id", userID, "error", err)
	}
}
