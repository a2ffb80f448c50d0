package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrPublisherClosed is returned by Emit after Close.
var ErrPublisherClosed = errors.New("audit publisher closed")

// Publisher captures structured audit events. By default events are written
// synchronously; WithAsyncBuffer hands them to a background Worker.
type Publisher struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	queue  chan Event
	closed bool
	done   chan struct{}
}

type Option func(*Publisher)

// WithAsyncBuffer queues up to size events for a background worker.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.queue = make(chan Event, size)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue != nil {
		p.done = make(chan struct{})
		w := NewWorker(store, p.queue, p.logger)
		go func() {
			defer close(p.done)
			w.Run(context.Background())
		}()
	}
	return p
}

// Emit records an event, assigning an ID and timestamp when missing.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	if p.queue == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// List returns the events recorded for a client.
func (p *Publisher) List(ctx context.Context, clientID string) ([]Event, error) {
	return p.store.ListByClient(ctx, clientID)
}

// Close stops accepting events and waits for queued ones to be persisted.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.queue != nil {
		close(p.queue)
	}
	p.mu.Unlock()
	if p.done != nil {
		<-p.done
	}
}
