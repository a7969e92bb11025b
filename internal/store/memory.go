package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps scenarios in process memory. Useful for tests and for
// callers that only need within-session persistence.
type MemoryStore struct {
	mu        sync.RWMutex
	scenarios map[string]Scenario
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scenarios: make(map[string]Scenario)}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, scenario *Scenario) error {
	stamp(scenario)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenarios[scenario.ID] = *scenario
	return nil
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, id string) (*Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scenario, ok := s.scenarios[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &scenario, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) ([]Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Scenario, 0, len(s.scenarios))
	for _, scenario := range s.scenarios {
		out = append(out, scenario)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.Before(out[j].SavedAt) })
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scenarios[id]; !ok {
		return ErrNotFound
	}
	delete(s.scenarios, id)
	return nil
}
