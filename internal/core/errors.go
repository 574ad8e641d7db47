package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateNumber is the constraint violation a store reports when an
// insert collides with an existing invoice number. The Allocator retries
// on it.
var ErrDuplicateNumber = errors.New("invoice number already exists")

// NotFoundError is returned when a lookup by invoice number matches nothing.
type NotFoundError struct {
	Number string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("invoice not found: %s", e.Number)
}

// AllocationError is returned when the numbering allocator cannot complete
// its read-increment-insert step, either because the store failed or because
// bounded retries on number conflicts were exhausted.
type AllocationError struct {
	Year     int
	Attempts int
	Err      error
}

func (e *AllocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not allocate invoice number for %d: %v", e.Year, e.Err)
	}
	return fmt.Sprintf("could not allocate invoice number for %d after %d attempts, try again", e.Year, e.Attempts)
}

func (e *AllocationError) Unwrap() error { return e.Err }

// ValidationError aggregates every violated invariant so the caller can
// display all problems at once instead of fixing them one by one.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invoice validation failed: " + strings.Join(e.Violations, "; ")
}
