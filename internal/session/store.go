package session

import (
	"context"
	"errors"
	"sync"

	"go-chi-calculator/internal/engine"
)

// ErrNotFound is returned when a session id has no stored state.
var ErrNotFound = errors.New("session not found")

// Store persists calculator state between requests.
type Store interface {
	Load(ctx context.Context, id string) (engine.State, error)
	Save(ctx context.Context, id string, state engine.State) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]engine.State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]engine.State)}
}

func (s *MemoryStore) Load(_ context.Context, id string) (engine.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[id]
	if !ok {
		return engine.State{}, ErrNotFound
	}
	return state, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, state engine.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = state
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}
