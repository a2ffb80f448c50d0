package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreClaim(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewInMemoryStore()
	s.now = func() time.Time { return now }

	ok, err := s.Claim(ctx, "fp-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Claim(ctx, "fp-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second claim inside the window is rejected")

	ok, err = s.Claim(ctx, "fp-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "other fingerprints are independent")

	now = now.Add(time.Minute)
	ok, err = s.Claim(ctx, "fp-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "claim expires with its ttl")
}

func TestInMemoryStoreRelease(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	_, err := s.Claim(ctx, "fp-1", time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.Release(ctx, "fp-1"))
	require.NoError(t, s.Release(ctx, "unknown"))

	ok, err := s.Claim(ctx, "fp-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryStoreConcurrentClaims(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.Claim(ctx, "fp-race", time.Minute); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
