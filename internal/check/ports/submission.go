package ports

import (
	"context"
	"time"
)

// SubmissionGuard rejects duplicate submissions of the same check within a
// time window. Claim reports false when the fingerprint is already held.
type SubmissionGuard interface {
	Claim(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, fingerprint string) error
}
