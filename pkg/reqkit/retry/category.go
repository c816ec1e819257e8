// Package retry provides error categorization and backoff-based retry
// for asynchronous requirements.
//
// The package separates the two failure channels: a failed verdict is a
// definitive answer and is never retried; an execution error may be
// transient and worth another attempt. Retrying categorizes the error,
// retries transient ones with exponential backoff and jitter, and gives
// up immediately on permanent ones.
package retry

import (
	"context"
	"errors"
	"fmt"

	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit"
)

// Category represents how an execution error should be handled.
type Category int

const (
	// CategoryTransient indicates a retry will likely help.
	// Examples: timeouts, temporary backend unavailability.
	CategoryTransient Category = iota

	// CategoryPermanent indicates a retry won't help.
	// Examples: panics in evaluation functions, cancellation.
	CategoryPermanent
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransient:
		return "transient"
	case CategoryPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// CategorizedError wraps an execution error with its category and the
// number of attempts made.
type CategorizedError struct {
	// Err is the underlying error.
	Err error

	// Category indicates how this error should be handled.
	Category Category

	// Attempts is the number of attempts that were made.
	Attempts int

	// Context describes what was being attempted.
	Context string
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (category: %s, attempts: %d)",
			e.Context, e.Err, e.Category, e.Attempts)
	}
	return fmt.Sprintf("%s (category: %s, attempts: %d)",
		e.Err, e.Category, e.Attempts)
}

// Unwrap returns the underlying error.
func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// Transient marks an error as worth retrying.
func Transient(err error, context string) *CategorizedError {
	return &CategorizedError{Err: err, Category: CategoryTransient, Context: context}
}

// Permanent marks an error as not worth retrying.
func Permanent(err error, context string) *CategorizedError {
	return &CategorizedError{Err: err, Category: CategoryPermanent, Context: context}
}

// Categorize determines how an execution error should be handled.
func Categorize(err error) Category {
	if err == nil {
		return CategoryPermanent // shouldn't happen, fail safe
	}

	// Already-categorized errors keep their category.
	var catErr *CategorizedError
	if errors.As(err, &catErr) {
		return catErr.Category
	}

	// Cancellation is an instruction to stop, never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CategoryPermanent
	}

	// A panic means a broken evaluation function.
	var panicErr *reqkit.PanicError
	if errors.As(err, &panicErr) {
		return CategoryPermanent
	}

	// Timeouts are often load-induced.
	if errors.Is(err, reqkit.ErrTimedOut) {
		return CategoryTransient
	}

	// Unknown errors are permanent (fail safe)
	return CategoryPermanent
}

// IsRetryable reports whether the error should be retried.
func IsRetryable(err error) bool {
	return Categorize(err) == CategoryTransient
}
