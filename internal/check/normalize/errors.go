package normalize

import "errors"

// Recoverable normalization failures. Callers degrade to a default rather
// than halting configuration or validation.
var (
	ErrMalformedAddress = errors.New("malformed address")
	ErrUnparseablePhone = errors.New("unparseable phone number")
)
