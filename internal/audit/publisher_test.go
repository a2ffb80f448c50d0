package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	mu    sync.Mutex
	calls int
}

func (s *failingStore) Append(context.Context, Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return errors.New("disk full")
}

func (s *failingStore) ListByClient(context.Context, string) ([]Event, error) {
	return nil, nil
}

func TestPublisherSync(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p := NewPublisher(NewInMemoryStore(), WithClock(func() time.Time { return fixed }))

	require.NoError(t, p.Emit(ctx, Event{Action: ActionCheckConfigured, ClientID: "c-1"}))
	require.NoError(t, p.Emit(ctx, Event{Action: ActionCheckSubmitted, ClientID: "c-1", Reference: "API-MAT-1"}))
	require.NoError(t, p.Emit(ctx, Event{Action: ActionCheckSubmitted, ClientID: "c-2"}))

	events, err := p.List(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionCheckConfigured, events[0].Action)
	assert.Equal(t, "API-MAT-1", events[1].Reference)
	assert.Equal(t, fixed, events[0].Timestamp)
	assert.NotEmpty(t, events[0].ID)
	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestPublisherSyncPropagatesStoreErrors(t *testing.T) {
	p := NewPublisher(&failingStore{})
	require.Error(t, p.Emit(context.Background(), Event{Action: ActionCheckSubmitted}))
}

func TestPublisherAsync(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	p := NewPublisher(store, WithAsyncBuffer(4))

	for range 10 {
		require.NoError(t, p.Emit(ctx, Event{Action: ActionCheckSubmitted, ClientID: "c-1"}))
	}
	p.Close()

	events, err := store.ListByClient(ctx, "c-1")
	require.NoError(t, err)
	assert.Len(t, events, 10)

	assert.ErrorIs(t, p.Emit(ctx, Event{ClientID: "c-1"}), ErrPublisherClosed)
	p.Close()
}

func TestPublisherAsyncSwallowsStoreErrors(t *testing.T) {
	store := &failingStore{}
	p := NewPublisher(store, WithAsyncBuffer(1))

	require.NoError(t, p.Emit(context.Background(), Event{Action: ActionCheckSubmitted}))
	p.Close()

	assert.Equal(t, 1, store.calls)
}

func TestInMemoryStoreListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Append(ctx, Event{ID: "e-1", ClientID: "c-1"}))

	events, err := store.ListByClient(ctx, "c-1")
	require.NoError(t, err)
	events[0].ID = "mutated"

	again, err := store.ListByClient(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "e-1", again[0].ID)
}
