package ports

import (
	"context"

	"onboard/internal/check/models"
)

// Dispatcher hands built payloads to the external verification provider.
// Dispatch either accepts every payload or returns an error.
type Dispatcher interface {
	Dispatch(ctx context.Context, payloads []models.Payload) error
}
