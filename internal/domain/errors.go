package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")

	// ErrDuplicate signals that the flashcard store already holds a note
	// whose word field equals the text being saved. It drives the
	// reconciliation flow and is not a failure by itself.
	ErrDuplicate = errors.New("duplicate note")

	// ErrStoreUnreachable signals a transport-level failure reaching the
	// flashcard store, as opposed to a logical rejection from it.
	ErrStoreUnreachable = errors.New("flashcard store unreachable")

	// ErrCacheUnavailable signals that the shared cache tier could not be
	// reached. Resolution degrades to local-only caching.
	ErrCacheUnavailable = errors.New("shared cache unavailable")

	// ErrSchemaMismatch signals that the flashcard store rejected a note for
	// field reasons. The store gateway raises it bare; the card service
	// wraps it into a SchemaMismatchError with the template's live fields.
	ErrSchemaMismatch = errors.New("note schema mismatch")
)

// SchemaMismatchError is returned when the flashcard store rejects an insert
// for field reasons. It carries the template name and its live field list so
// the caller can correct its mapping. It is never retried.
type SchemaMismatchError struct {
	Template string
	Fields   []string
	Reason   string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("template %q rejected note (%s); known fields: %s",
		e.Template, e.Reason, strings.Join(e.Fields, ", "))
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}
