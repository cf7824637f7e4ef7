package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/GriffinCanCode/addonkit/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/addonkit/internal/shared/id"
)

// Manager keeps visitor sessions in memory
type Manager struct {
	sessions sync.Map // id.SessionID -> *Session
	active   atomic.Int64
	ttl      time.Duration
	now      func() time.Time
	metrics  *monitoring.Metrics
}

// Stats describes the manager's current state
type Stats struct {
	Active int64         `json:"active"`
	TTL    time.Duration `json:"ttl"`
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithClock replaces the manager clock
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithMetrics reports the active session count
func WithMetrics(metrics *monitoring.Metrics) ManagerOption {
	return func(m *Manager) { m.metrics = metrics }
}

// NewManager creates a manager expiring sessions idle longer than ttl. A
// zero ttl keeps sessions forever.
func NewManager(ttl time.Duration, opts ...ManagerOption) *Manager {
	m := &Manager{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins a request for the session sid. An unknown, empty or expired
// id starts a fresh session; created reports which happened. Starting an
// existing session ages its flash data by one request.
func (m *Manager) Start(sid id.SessionID) (s *Session, created bool) {
	now := m.now()
	if existing, ok := m.lookup(sid, now); ok {
		existing.rotateFlash()
		existing.touch(now)
		return existing, false
	}

	s = newSession(id.NewSessionID(), now)
	m.sessions.Store(s.id, s)
	m.metrics.SetSessionsActive(int(m.active.Add(1)))
	return s, true
}

// Get returns a live session without starting a request
func (m *Manager) Get(sid id.SessionID) (*Session, bool) {
	return m.lookup(sid, m.now())
}

func (m *Manager) lookup(sid id.SessionID, now time.Time) (*Session, bool) {
	if sid == "" {
		return nil, false
	}
	v, ok := m.sessions.Load(sid)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	if m.expired(s, now) {
		m.Delete(sid)
		return nil, false
	}
	return s, true
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	return m.ttl > 0 && now.Sub(s.idleSince()) > m.ttl
}

// Delete removes a session
func (m *Manager) Delete(sid id.SessionID) bool {
	if _, ok := m.sessions.LoadAndDelete(sid); !ok {
		return false
	}
	m.metrics.SetSessionsActive(int(m.active.Add(-1)))
	return true
}

// Sweep removes expired sessions and returns how many were removed
func (m *Manager) Sweep() int {
	now := m.now()
	removed := 0
	m.sessions.Range(func(k, v interface{}) bool {
		if m.expired(v.(*Session), now) && m.Delete(k.(id.SessionID)) {
			removed++
		}
		return true
	})
	return removed
}

// Stats returns manager statistics
func (m *Manager) Stats() Stats {
	return Stats{Active: m.active.Load(), TTL: m.ttl}
}
