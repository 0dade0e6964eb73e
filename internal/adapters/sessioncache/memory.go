// Package sessioncache holds per-session booking references in memory, the
// server-side analogue of per-tab session storage.
package sessioncache

import (
	"sync"
	"time"
)

type entry struct {
	reference string
	expiresAt time.Time
}

type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

func (s *Store) GetReference(sessionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, found := s.entries[sessionID]
	if !found || time.Now().After(e.expiresAt) {
		return "", false
	}
	return e.reference, true
}

func (s *Store) PutReference(sessionID, reference string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sessionID] = entry{
		reference: reference,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.clearExpiredLocked()
}

// clearExpiredLocked drops expired sessions opportunistically on writes so
// the map does not grow without bound. Caller holds the write lock.
func (s *Store) clearExpiredLocked() {
	now := time.Now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
