package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/movievault/internal/shared"
)

// SessionStore is an in-memory [Store] that lives as long as one session.
type SessionStore struct {
	mu            sync.RWMutex
	values        map[string]string
	maxValueBytes int
	origin        string
	events        *Broadcaster
	lastSeen      time.Time
}

// NewSessionStore creates an empty [SessionStore]. A maxValueBytes of zero disables the quota.
func NewSessionStore(maxValueBytes int) *SessionStore {
	return &SessionStore{
		values:        make(map[string]string),
		maxValueBytes: maxValueBytes,
		origin:        shared.GenerateID(),
		events:        NewBroadcaster(),
		lastSeen:      time.Now(),
	}
}

func (s *SessionStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *SessionStore) Set(key, value string) error {
	if s.maxValueBytes > 0 && len(value) > s.maxValueBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", shared.ErrQuotaExceeded, key, len(value), s.maxValueBytes)
	}

	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()

	s.events.Publish(Change{Key: key, Origin: s.origin})
	return nil
}

func (s *SessionStore) Remove(key string) error {
	s.mu.Lock()
	_, ok := s.values[key]
	delete(s.values, key)
	s.mu.Unlock()

	if ok {
		s.events.Publish(Change{Key: key, Origin: s.origin})
	}
	return nil
}

func (s *SessionStore) Subscribe() (<-chan Change, func()) {
	return s.events.Subscribe()
}

func (s *SessionStore) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *SessionStore) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// SessionRegistry holds one [SessionStore] per browser session id.
type SessionRegistry struct {
	mu            sync.Mutex
	sessions      map[string]*SessionStore
	maxValueBytes int
}

func NewSessionRegistry(maxValueBytes int) *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*SessionStore), maxValueBytes: maxValueBytes}
}

// Get returns the store for id, creating it on first use.
func (r *SessionRegistry) Get(id string) *SessionStore {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = NewSessionStore(r.maxValueBytes)
		r.sessions[id] = s
	}
	s.touch()
	return s
}

// Expire drops sessions idle for longer than ttl and returns how many were removed.
func (r *SessionRegistry) Expire(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	removed := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Has reports whether a session with id is live.
func (r *SessionRegistry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	return ok
}
