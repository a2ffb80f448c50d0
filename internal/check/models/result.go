package models

import "slices"

// Violation is a single user-correctable validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the immutable outcome of validating an answer set.
type ValidationResult struct {
	violations []Violation
}

// NewValidationResult captures violations in the order given.
func NewValidationResult(violations []Violation) ValidationResult {
	return ValidationResult{violations: slices.Clone(violations)}
}

// Valid reports whether there are no violations.
func (r ValidationResult) Valid() bool {
	return len(r.violations) == 0
}

// Violations returns a copy of the ordered violations.
func (r ValidationResult) Violations() []Violation {
	return slices.Clone(r.violations)
}

// Fields returns the violated field names in order.
func (r ValidationResult) Fields() []string {
	fields := make([]string, 0, len(r.violations))
	for _, v := range r.violations {
		fields = append(fields, v.Field)
	}
	return fields
}
