package state

import (
	"sync"
	"time"
)

// chatSession is one chat's pending step and the values collected for it,
// such as an estimate waiting for confirmation.
type chatSession struct {
	state   string
	stateAt time.Time
	temp    map[string]interface{}
	tempAt  time.Time
}

// Manager keeps conversation state in process memory. Entries expire after
// the same TTL the Redis manager sets, so a pending /estimate or /import
// behaves the same on both.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*chatSession
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates an empty in-memory state manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*chatSession),
		ttl:      stateTTL,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for expiry.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) expired(at time.Time) bool {
	return m.now().Sub(at) >= m.ttl
}

func (m *Manager) sessionLocked(userID int64) *chatSession {
	s, ok := m.sessions[userID]
	if !ok {
		s = &chatSession{}
		m.sessions[userID] = s
	}
	return s
}

func (m *Manager) pruneLocked(userID int64) {
	if s, ok := m.sessions[userID]; ok && s.state == "" && s.temp == nil {
		delete(m.sessions, userID)
	}
}

// SetUserState records the step a chat is waiting on
func (m *Manager) SetUserState(userID int64, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sessionLocked(userID)
	s.state = state
	s.stateAt = m.now()
}

// GetUserState returns the pending step, or None once it has expired
func (m *Manager) GetUserState(userID int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok || s.state == "" || m.expired(s.stateAt) {
		return None
	}
	return s.state
}

func (m *Manager) ClearUserState(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		s.state = ""
		m.pruneLocked(userID)
	}
}

// SetTempData stores a value for the pending step. Like the Redis manager,
// every write renews the expiry of the whole set.
func (m *Manager) SetTempData(userID int64, key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sessionLocked(userID)
	if s.temp == nil || m.expired(s.tempAt) {
		s.temp = make(map[string]interface{})
	}
	s.temp[key] = value
	s.tempAt = m.now()
}

func (m *Manager) GetTempData(userID int64, key string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok || s.temp == nil || m.expired(s.tempAt) {
		return nil, false
	}
	value, ok := s.temp[key]
	return value, ok
}

// ClearTempData drops every value stored for the chat
func (m *Manager) ClearTempData(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		s.temp = nil
		m.pruneLocked(userID)
	}
}
