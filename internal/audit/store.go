package audit

import (
	"context"
	"slices"
	"sync"
)

// Store persists audit events. Implementations are append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByClient(ctx context.Context, clientID string) ([]Event, error)
}

// InMemoryStore keeps events in process memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ClientID] = append(s.events[event.ClientID], event)
	return nil
}

func (s *InMemoryStore) ListByClient(_ context.Context, clientID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events[clientID]), nil
}
