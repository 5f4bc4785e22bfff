package conversation

import (
	"sync"
	"time"
)

type entry struct {
	mu       sync.Mutex
	session  *Session
	lastSeen time.Time
}

// Store keeps per-user sessions and serializes access per user.
//
// Acquire locks the user's entry until release is called, so two updates
// from the same user never interleave; different users proceed in
// parallel.
type Store struct {
	mu      sync.RWMutex
	entries map[int64]*entry
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{entries: make(map[int64]*entry)}
}

// Acquire returns the user's session, creating a fresh main menu session
// on first contact, and locks it. The caller must invoke release when
// done with the session.
func (s *Store) Acquire(userID int64) (*Session, func()) {
	s.mu.RLock()
	e, ok := s.entries[userID]
	s.mu.RUnlock()

	if !ok {
		s.mu.Lock()
		e, ok = s.entries[userID]
		if !ok {
			e = &entry{session: &Session{State: StateMainMenu}}
			s.entries[userID] = e
		}
		s.mu.Unlock()
	}

	e.mu.Lock()
	e.lastSeen = time.Now()
	return e.session, e.mu.Unlock
}

// Delete removes the user's session entirely.
func (s *Store) Delete(userID int64) {
	s.mu.Lock()
	delete(s.entries, userID)
	s.mu.Unlock()
}

// EvictIdle drops sessions untouched for longer than maxIdle and
// returns how many were removed. Entries currently held by Acquire are
// skipped, not waited on.
func (s *Store) EvictIdle(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.entries {
		if !e.mu.TryLock() {
			continue
		}
		idle := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
