// Package errs classifies transport failures so retry logic can distinguish
// transient trouble from requests that will never succeed.
package errs

import (
	"errors"
	"fmt"
)

// Category determines how an error is handled by retry logic.
type Category int

const (
	// Recoverable errors may be retried with exponential backoff
	// (5xx, 408, 429, network-level failures).
	Recoverable Category = iota

	// Irrecoverable errors fail immediately without retry
	// (remaining 4xx: bad request, unauthorized, not found, ...).
	Irrecoverable
)

func (c Category) String() string {
	switch c {
	case Recoverable:
		return "recoverable"
	case Irrecoverable:
		return "irrecoverable"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// ClassifiedError wraps a transport failure with its retry category, the HTTP
// status (0 for network-level failures) and the raw response body kept as
// diagnostic detail.
type ClassifiedError struct {
	Category   Category
	StatusCode int
	Body       string
	Underlying error
}

func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
}

func (e *ClassifiedError) Unwrap() error { return e.Underlying }

// FromStatus builds a ClassifiedError for a non-success HTTP response.
func FromStatus(operation string, statusCode int, body string) *ClassifiedError {
	return &ClassifiedError{
		Category:   categoryFor(statusCode),
		StatusCode: statusCode,
		Body:       body,
		Underlying: fmt.Errorf("%s: status %d", operation, statusCode),
	}
}

// FromNetwork builds a ClassifiedError for a network-level failure, which is
// always considered transient.
func FromNetwork(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Underlying: fmt.Errorf("%s: %w", operation, err),
	}
}

func categoryFor(statusCode int) Category {
	switch {
	case statusCode == 408 || statusCode == 429:
		return Recoverable
	case statusCode >= 400 && statusCode < 500:
		return Irrecoverable
	default:
		// 5xx and anything unexpected: be conservative and retry.
		return Recoverable
	}
}

// IsIrrecoverable reports whether err should not be retried.
func IsIrrecoverable(err error) bool {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Category == Irrecoverable
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}
