package state

import "sync"

// Store holds the latest published AppState. The dispatcher is its only
// writer; any number of readers take snapshots.
type Store struct {
	mu    sync.RWMutex
	state AppState
}

// NewStore returns a store seeded with initial.
func NewStore(initial AppState) *Store {
	return &Store{state: initial.Clone()}
}

// Replace swaps in next and returns the state it replaced.
func (s *Store) Replace(next AppState) AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	s.state = next.Clone()
	return prev
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Clone()
}
