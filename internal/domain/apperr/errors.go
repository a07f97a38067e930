package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned for malformed input
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the actor's role does not allow the operation
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned when the entity's state does not allow the operation
	ErrConflict = errors.New("conflict")
)

// Validationf wraps ErrValidation with a formatted message
func Validationf(format string, args ...interface{}) error {
	return wrap(ErrValidation, format, args...)
}

// NotFoundf wraps ErrNotFound with a formatted message
func NotFoundf(format string, args ...interface{}) error {
	return wrap(ErrNotFound, format, args...)
}

// Forbiddenf wraps ErrForbidden with a formatted message
func Forbiddenf(format string, args ...interface{}) error {
	return wrap(ErrForbidden, format, args...)
}

// Conflictf wraps ErrConflict with a formatted message
func Conflictf(format string, args ...interface{}) error {
	return wrap(ErrConflict, format, args...)
}

func wrap(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// Kind returns the taxonomy sentinel err belongs to, or nil
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrForbidden, ErrConflict} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
