// internal/game/match_store.go
package game

import (
	"sync"

	"github.com/google/uuid"
)

// Match guards one engine with a single exclusive lock, for hosts that drive a match
// from more than one goroutine.
type Match struct {
	mu     sync.Mutex
	engine *Engine
}

// NewMatch wraps an engine.
func NewMatch(e *Engine) *Match {
	return &Match{engine: e}
}

// ID returns the wrapped engine's match id.
func (m *Match) ID() uuid.UUID { return m.engine.ID }

// Do runs fn while holding the match lock.
func (m *Match) Do(fn func(e *Engine) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.engine)
}

// MatchStore keeps the in-progress matches of one process.
type MatchStore struct {
	mu      sync.Mutex
	matches map[uuid.UUID]*Match
}

func NewMatchStore() *MatchStore {
	return &MatchStore{
		matches: make(map[uuid.UUID]*Match),
	}
}

func (s *MatchStore) Add(m *Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[m.ID()] = m
}

func (s *MatchStore) Get(id uuid.UUID) (*Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	return m, ok
}

func (s *MatchStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
}

// Len returns the number of stored matches.
func (s *MatchStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}
