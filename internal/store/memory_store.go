package store

import (
	"context"
	"sync"

	"github.com/courtside/franchise-sim/internal/domain/games"
)

// MemoryStore keeps a thread-safe map of saved games in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	saves map[string]games.State
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		saves: make(map[string]games.State),
	}
}

func (s *MemoryStore) Put(_ context.Context, state games.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saves[state.GameID] = state
	return nil
}

func (s *MemoryStore) Get(_ context.Context, gameID string) (games.State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.saves[gameID]
	return st, ok, nil
}

func (s *MemoryStore) List(_ context.Context) ([]games.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]games.State, 0, len(s.saves))
	for _, st := range s.saves {
		result = append(result, st)
	}
	return result, nil
}

func (s *MemoryStore) Delete(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.saves, gameID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
