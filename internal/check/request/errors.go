package request

import (
	"errors"
	"fmt"

	"onboard/internal/check/models"
)

var (
	// ErrInvalidAnswers means Build was called without valid answers. It is a
	// caller bug, not a user-facing outcome.
	ErrInvalidAnswers = errors.New("answers are not valid")

	ErrMissingLinkedRecord           = errors.New("missing linked record")
	ErrUnresolvableDocumentReference = errors.New("unresolvable document reference")
)

// BuildError is a non-retryable failure that needs user correction. Option
// names the sub-option that triggered it.
type BuildError struct {
	Kind   error
	Option models.OptionKey
	Detail string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s for %s: %s", e.Kind, e.Option, e.Detail)
}

func (e *BuildError) Unwrap() error {
	return e.Kind
}
