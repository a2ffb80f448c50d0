package audit

import (
	"context"
	"log/slog"
)

// Worker drains queued events into a store until its inbox is closed.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run persists events until the inbox closes. A failed append is logged and
// the worker moves on; audit loss never blocks the request path.
func (w *Worker) Run(ctx context.Context) {
	for event := range w.inbox {
		if err := w.store.Append(ctx, event); err != nil && w.logger != nil {
			w.logger.ErrorContext(ctx, "failed to persist audit event",
				"error", err,
				"action", string(event.Action),
				"event_id", event.ID,
			)
		}
	}
}
