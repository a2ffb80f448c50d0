package dispatch

import (
	"context"
	"log/slog"
	"time"

	"onboard/internal/check/models"
	"onboard/internal/check/ports"
	"onboard/pkg/platform/circuit"
)

const fallbackTimeout = 5 * time.Second

// FallbackDispatcher sends to the primary while the breaker allows it. Once
// the breaker opens, payloads go straight to the fallback and the primary
// only sees a trial call per breaker cooldown.
type FallbackDispatcher struct {
	primary  ports.Dispatcher
	fallback ports.Dispatcher
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewFallbackDispatcher(primary, fallback ports.Dispatcher, breaker *circuit.Breaker, logger *slog.Logger) *FallbackDispatcher {
	return &FallbackDispatcher{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (d *FallbackDispatcher) Dispatch(ctx context.Context, payloads []models.Payload) error {
	if d.fallback != nil && !d.breaker.Allow() {
		return d.divert(ctx, payloads, nil)
	}

	err := d.primary.Dispatch(ctx, payloads)
	if err == nil {
		if _, change := d.breaker.RecordSuccess(); change.Closed {
			d.logger.InfoContext(ctx, "dispatch circuit closed, primary recovered",
				"breaker", d.breaker.Name(),
			)
		}
		return nil
	}

	useFallback, change := d.breaker.RecordFailure()
	if change.Opened {
		d.logger.WarnContext(ctx, "dispatch circuit opened, diverting to fallback",
			"breaker", d.breaker.Name(),
			"error", err,
		)
	}
	if !useFallback || d.fallback == nil {
		return err
	}
	return d.divert(ctx, payloads, err)
}

// divert hands payloads to the fallback on a context of its own; the
// caller's may already have expired waiting on the primary. A fallback
// failure reports primaryErr when there is one.
func (d *FallbackDispatcher) divert(ctx context.Context, payloads []models.Payload, primaryErr error) error {
	fbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fallbackTimeout)
	defer cancel()

	fbErr := d.fallback.Dispatch(fbCtx, payloads)
	if fbErr == nil {
		return nil
	}
	d.logger.ErrorContext(ctx, "fallback dispatch failed",
		"breaker", d.breaker.Name(),
		"error", fbErr,
	)
	if primaryErr != nil {
		return primaryErr
	}
	return fbErr
}
