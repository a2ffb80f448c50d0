package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"onboard/internal/check/models"
	"onboard/internal/check/ports"
	"onboard/pkg/platform/sentinel"
)

// RedisSpool queues payloads in a Redis list while the broker is down, for
// later replay.
type RedisSpool struct {
	client redis.Cmdable
	key    string
	logger *slog.Logger
}

func NewRedisSpool(client redis.Cmdable, key string, logger *slog.Logger) *RedisSpool {
	return &RedisSpool{client: client, key: key, logger: logger}
}

// Dispatch appends the payloads to the spool atomically.
func (s *RedisSpool) Dispatch(ctx context.Context, payloads []models.Payload) error {
	values := make([]any, 0, len(payloads))
	for _, p := range payloads {
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode payload %s: %w", p.Reference, err)
		}
		values = append(values, b)
	}
	if err := s.client.RPush(ctx, s.key, values...).Err(); err != nil {
		return fmt.Errorf("spool payloads: %w: %w", sentinel.ErrUnavailable, err)
	}
	s.logger.WarnContext(ctx, "verification requests spooled",
		"key", s.key,
		"count", len(payloads),
	)
	return nil
}

// Pending returns the number of spooled payloads.
func (s *RedisSpool) Pending(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, s.key).Result()
}

// Replay re-dispatches up to limit spooled payloads in order. A payload that
// fails to dispatch is pushed back to the head and replay stops.
func (s *RedisSpool) Replay(ctx context.Context, to ports.Dispatcher, limit int) (int, error) {
	sent := 0
	for sent < limit {
		raw, err := s.client.LPop(ctx, s.key).Bytes()
		if errors.Is(err, redis.Nil) {
			return sent, nil
		}
		if err != nil {
			return sent, fmt.Errorf("pop spooled payload: %w", err)
		}

		var p models.Payload
		if err := json.Unmarshal(raw, &p); err != nil {
			s.logger.ErrorContext(ctx, "dropping undecodable spooled payload",
				"key", s.key,
				"error", err,
			)
			continue
		}
		if err := to.Dispatch(ctx, []models.Payload{p}); err != nil {
			if pushErr := s.client.LPush(ctx, s.key, raw).Err(); pushErr != nil {
				return sent, errors.Join(err, pushErr)
			}
			return sent, err
		}
		sent++
	}
	return sent, nil
}
