package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrReference  = errors.New("referenced record does not exist")
)

// NotFound returns an error wrapping ErrNotFound for the given record kind and id.
func NotFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

// ValidationError reports a missing or malformed field in a request payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid creates a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Required creates a ValidationError for a missing required field.
func Required(field string) error {
	return &ValidationError{Field: field, Message: "is required"}
}

// ReferenceError reports a foreign key whose target record does not exist.
type ReferenceError struct {
	Field string // JSON field carrying the reference, e.g. "categoryId"
	Kind  string // kind of the missing record, e.g. "category"
	ID    int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s %d does not exist", e.Field, e.Kind, e.ID)
}

func (e *ReferenceError) Is(target error) bool {
	return target == ErrReference
}

// ConflictError reports an operation that would violate a uniqueness or
// dependency constraint.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Conflict creates a ConflictError with a formatted message.
func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
