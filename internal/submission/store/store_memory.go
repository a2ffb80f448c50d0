// Package store holds submission claims that block duplicate check
// submissions within a time window.
package store

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore implements the submission guard in process memory. It is
// not shared between instances; use RedisStore when running more than one.
type InMemoryStore struct {
	mu     sync.Mutex
	claims map[string]time.Time
	now    func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{claims: make(map[string]time.Time), now: time.Now}
}

// Claim holds fingerprint for ttl. It returns false if an unexpired claim exists.
func (s *InMemoryStore) Claim(_ context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.cleanup(now)
	if _, held := s.claims[fingerprint]; held {
		return false, nil
	}
	s.claims[fingerprint] = now.Add(ttl)
	return true, nil
}

// Release drops a claim. Releasing an unknown fingerprint is not an error.
func (s *InMemoryStore) Release(_ context.Context, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claims, fingerprint)
	return nil
}

func (s *InMemoryStore) cleanup(now time.Time) {
	for fp, expires := range s.claims {
		if !now.Before(expires) {
			delete(s.claims, fp)
		}
	}
}
