package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"onboard/pkg/platform/sentinel"
)

const keyPrefix = "onboard:submission:"

// RedisStore implements the submission guard with SET NX PX so claims are
// shared by every instance and expire on their own.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Claim(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, keyPrefix+fingerprint, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim submission: %w: %w", sentinel.ErrUnavailable, err)
	}
	return ok, nil
}

func (s *RedisStore) Release(ctx context.Context, fingerprint string) error {
	if err := s.client.Del(ctx, keyPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("release submission: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}
