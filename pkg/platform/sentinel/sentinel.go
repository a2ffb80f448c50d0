package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and adapters return these,
// optionally wrapped, and services translate them into domain errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
