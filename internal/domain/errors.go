package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Every ValidationError wraps it.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when a required value is blank.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrTooLong is returned when a value exceeds its maximum length.
	ErrTooLong = errors.New("value too long")

	// ErrDescriptionMatchesTitle is returned when a book's description repeats its title.
	ErrDescriptionMatchesTitle = errors.New("description should be different from the title")

	// ErrInvalidLifespan is returned when an author's date of death precedes the date of birth.
	ErrInvalidLifespan = errors.New("date of death before date of birth")
)

// ValidationError reports a single invalid field of an entity.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the specific cause. Is additionally matches ErrValidation.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrValidation, so that every validation
// failure can be detected regardless of its cause.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for field. err is the
// underlying cause and may be ErrValidation itself.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

// FieldErrors groups the validation errors carried by err by field name.
// Errors that are not ValidationErrors are ignored.
func FieldErrors(err error) map[string][]string {
	out := make(map[string][]string)
	for _, e := range flatten(err) {
		var ve *ValidationError
		if errors.As(e, &ve) {
			out[ve.Field] = append(out[ve.Field], ve.Error())
		}
	}
	return out
}
