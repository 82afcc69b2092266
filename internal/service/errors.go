package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/library-api/internal/store"
)

// Sentinel errors returned by the catalog service. The API layer maps them
// to HTTP status codes.
var (
	// ErrAuthorNotFound indicates that the author does not exist, or that
	// at least one author of a requested collection does not exist.
	ErrAuthorNotFound = errors.New("author not found")

	// ErrBookNotFound indicates that the book does not exist for the author.
	ErrBookNotFound = errors.New("book not found")

	// ErrAuthorExists indicates an attempt to create an author under an ID
	// that is already taken.
	ErrAuthorExists = errors.New("author already exists")

	// ErrBookExists indicates an attempt to create a book under an ID that
	// is already taken.
	ErrBookExists = errors.New("book already exists")

	// ErrEmptyCollection is returned when an author collection has no
	// members.
	ErrEmptyCollection = errors.New("author collection is empty")
)

// ServiceError wraps an unexpected failure of a catalog operation.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "list_authors", "create_book")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// wrapStoreError translates store sentinels into service sentinels and wraps
// anything else in a ServiceError. Validation errors from the domain pass
// through untouched so that callers can report them per field.
func wrapStoreError(operation, message string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrAuthorNotFound):
		return ErrAuthorNotFound
	case errors.Is(err, store.ErrBookNotFound):
		return ErrBookNotFound
	case errors.Is(err, store.ErrAuthorExists):
		return ErrAuthorExists
	case errors.Is(err, store.ErrBookExists):
		return ErrBookExists
	case isValidation(err):
		return err
	}
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
