package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Entity-specific variants (ErrAuthorNotFound, ErrBookNotFound) wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a second entity
	// with the same identity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or violates a database constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidQuery is returned when a list query cannot be executed as
	// requested, for example because it orders by an unknown attribute.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrAuthorNotFound indicates that the requested author does not exist.
	ErrAuthorNotFound = fmt.Errorf("%w: author", ErrNotFound)

	// ErrBookNotFound indicates that the requested book does not exist for the author.
	ErrBookNotFound = fmt.Errorf("%w: book", ErrNotFound)

	// ErrAuthorExists indicates that an author with the same ID is already stored.
	ErrAuthorExists = fmt.Errorf("%w: author", ErrDuplicate)

	// ErrBookExists indicates that a book with the same ID is already stored.
	ErrBookExists = fmt.Errorf("%w: book", ErrDuplicate)
)
