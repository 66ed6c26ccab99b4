package settings

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Provider. It is safe for concurrent use and
// is the only backend shipped today; a persistent implementation can replace
// it behind the same interface.
type MemoryStore struct {
	mu     sync.RWMutex
	actors map[string]map[string]string
	global map[string]string
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		actors: make(map[string]map[string]string),
		global: make(map[string]string),
	}
}

func (s *MemoryStore) GetOrDefault(_ context.Context, actorID, key, def string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.actors[actorID]
	if ok {
		if value, ok := values[key]; ok {
			return value, nil
		}
	}
	if def == "" {
		return "", nil
	}
	if values == nil {
		values = make(map[string]string)
		s.actors[actorID] = values
	}
	values[key] = def
	return def, nil
}

func (s *MemoryStore) Set(_ context.Context, actorID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.actors[actorID]
	if !ok {
		values = make(map[string]string)
		s.actors[actorID] = values
	}
	values[key] = value
	return nil
}

func (s *MemoryStore) GetOrDefaultGlobal(_ context.Context, key, def string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value, ok := s.global[key]; ok {
		return value, nil
	}
	if def == "" {
		return "", nil
	}
	s.global[key] = def
	return def, nil
}

func (s *MemoryStore) SetGlobal(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.global[key] = value
	return nil
}
