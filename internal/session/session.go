package session

import (
	"sort"
	"sync"
	"time"

	"github.com/GriffinCanCode/addonkit/internal/shared/id"
)

// Session holds one visitor's state
type Session struct {
	id        id.SessionID
	createdAt time.Time
	lastSeen  time.Time

	mu        sync.Mutex
	data      map[string]map[string]map[string]any
	flashNow  map[string]any
	flashNext map[string]any
}

var _ Backend = (*Session)(nil)

func newSession(sid id.SessionID, now time.Time) *Session {
	return &Session{
		id:        sid,
		createdAt: now,
		lastSeen:  now,
		data:      make(map[string]map[string]map[string]any),
		flashNow:  make(map[string]any),
		flashNext: make(map[string]any),
	}
}

// New creates a standalone session outside any manager
func New() *Session {
	return newSession(id.NewSessionID(), time.Now())
}

// ID returns the session id
func (s *Session) ID() id.SessionID { return s.id }

// CreatedAt returns when the session started
func (s *Session) CreatedAt() time.Time { return s.createdAt }

func (s *Session) bucket(namespace, addon string, create bool) map[string]any {
	ns, ok := s.data[namespace]
	if !ok {
		if !create {
			return nil
		}
		ns = make(map[string]map[string]any)
		s.data[namespace] = ns
	}
	b, ok := ns[addon]
	if !ok && create {
		b = make(map[string]any)
		ns[addon] = b
	}
	return b
}

// Get returns the stored value or def
func (s *Session) Get(namespace, addon, key string, def any) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.bucket(namespace, addon, false)[key]; ok {
		return v
	}
	return def
}

// Set stores a value
func (s *Session) Set(namespace, addon, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bucket(namespace, addon, true)[key] = value
}

// Exists reports whether a value is stored
func (s *Session) Exists(namespace, addon, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.bucket(namespace, addon, false)[key]
	return ok
}

// Delete removes a value
func (s *Session) Delete(namespace, addon, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bucket(namespace, addon, false), key)
}

// Destroy removes every value an addon stored in a namespace
func (s *Session) Destroy(namespace, addon string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.data[namespace]; ok {
		delete(ns, addon)
	}
}

// Update performs an atomic read-modify-write of one value
func (s *Session) Update(namespace, addon, key string, fn func(current any, ok bool) (any, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.bucket(namespace, addon, false)[key]
	next, write := fn(current, ok)
	if write {
		s.bucket(namespace, addon, true)[key] = next
	}
}

// GetFlash returns a flash value set during this or the previous request
func (s *Session) GetFlash(key string, def any) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.flashNext[key]; ok {
		return v
	}
	if v, ok := s.flashNow[key]; ok {
		return v
	}
	return def
}

// SetFlash stores a value readable until the end of the next request
func (s *Session) SetFlash(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashNext[key] = value
}

// FlashExists reports whether a flash value is readable
func (s *Session) FlashExists(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, next := s.flashNext[key]
	_, now := s.flashNow[key]
	return next || now
}

// DeleteFlash removes a flash value
func (s *Session) DeleteFlash(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flashNext, key)
	delete(s.flashNow, key)
}

// FlashKeys returns every readable flash key, sorted
func (s *Session) FlashKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(s.flashNow)+len(s.flashNext))
	for k := range s.flashNow {
		seen[k] = true
	}
	for k := range s.flashNext {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// rotateFlash ages flash data by one request
func (s *Session) rotateFlash() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashNow = s.flashNext
	s.flashNext = make(map[string]any)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
