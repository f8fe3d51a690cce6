package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmptyInput is returned when a service is asked to process empty text.
	ErrEmptyInput = errors.New("input text is empty")
)

// ProviderError wraps a failure from an AI backend with the operation that
// produced it. Callers can use errors.As to detect provider failures
// uniformly across embedding, completion, and classification.
type ProviderError struct {
	// Op names the failing operation, e.g. "embed", "complete", "classify".
	Op string

	// Err is the underlying error from the backend client.
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ai provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err as a ProviderError for the given operation.
func NewProviderError(op string, err error) error {
	return &ProviderError{Op: op, Err: err}
}
