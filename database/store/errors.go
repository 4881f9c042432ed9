package store

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by every backend. Callers match them with errors.Is.
var (
	ErrNotFound         = errors.New("record not found")
	ErrAlreadyExists    = errors.New("record already exists")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrStoreUnavailable = errors.New("record store unavailable")
	ErrValidationFailed = errors.New("validation failed")
)

// Error describes a failed store operation. It matches its Kind with errors.Is
// and unwraps to the backend's own error.
type Error struct {
	Op         string
	Collection string
	ID         string
	Kind       error
	Err        error
}

func (e *Error) Error() string {
	target := e.Collection
	if e.ID != "" {
		target += "/" + e.ID
	}
	if e.Err == nil {
		return fmt.Sprintf("store %s %s: %v", e.Op, target, e.Kind)
	}
	return fmt.Sprintf("store %s %s: %v: %v", e.Op, target, e.Kind, e.Err)
}

func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, collection, id string, kind, cause error) error {
	return &Error{Op: op, Collection: collection, ID: id, Kind: kind, Err: cause}
}

// IsRetryable reports whether the caller may retry the operation later.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// Invalid builds a ValidationFailed error for malformed input or records.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}
