package game

import (
	"sync"

	"passfailbot/models"
)

// entry pairs a session with its concurrency guard and the cancel handle
// of its countdown ticker. All transitions for one session run under mu,
// which is what makes the event model single-threaded per session.
type entry struct {
	mu        sync.Mutex
	session   models.Session
	stopTimer chan struct{}
}

// cancelTimerLocked stops the countdown if one is running. Callers must
// hold e.mu.
func (e *entry) cancelTimerLocked() {
	if e.stopTimer != nil {
		close(e.stopTimer)
		e.stopTimer = nil
	}
}

// Store holds live sessions in memory for the lifetime of the process.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
	}
}

func (s *Store) Get(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, exists := s.entries[id]
	return e, exists
}

func (s *Store) Set(id string, e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = e
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}
