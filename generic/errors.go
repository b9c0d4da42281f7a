/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All engine error types in one place. Domain packages wrap these with
  additional context instead of defining parallel taxonomies.

ERROR CATEGORIES:
  1. Validation errors - Missing/invalid required fields, surfaced to caller
  2. Not-found errors  - Operation on a nonexistent record id
  3. Storage errors    - Blob load/save failures; logged, never fatal

All engine errors are local and recoverable: nothing in the recurrence,
ledger or aggregation path is fatal to the process.

USAGE:
  if errors.Is(err, generic.ErrNotFound) { ... }
  var verr *generic.ValidationError
  if errors.As(err, &verr) { ... }
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when an operation references a record id that
	// does not exist in the collection.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is the sentinel wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrStorage is the sentinel wrapped by every StorageError.
	ErrStorage = errors.New("storage failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a missing or invalid required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StorageError reports a failed blob load or save. The collection falls back
// to in-memory state; the error is logged and surfaced, never retried
// automatically.
type StorageError struct {
	Key string
	Op  string // "load" or "save"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed for %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return ErrStorage }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
