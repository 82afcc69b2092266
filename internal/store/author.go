package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/projection"
)

// AuthorQuery selects one page of authors.
//
// Genre matches the trimmed value exactly, ignoring case. SearchQuery matches
// any author whose genre, first name or last name contains the trimmed value,
// ignoring case. Both filters are skipped when blank. Sort is applied before
// paging; ties and an empty Sort fall back to ID order so that pages are
// stable. PageNumber and PageSize must already be clamped by the caller.
type AuthorQuery struct {
	Genre       string
	SearchQuery string
	Sort        projection.SortClause
	PageNumber  int
	PageSize    int
}

// AuthorStore defines the interface for author persistence.
type AuthorStore interface {
	// Create saves a new author together with its nested books.
	// Returns ErrAuthorExists if the ID is taken, or validation errors from
	// the domain Author if data is invalid.
	Create(ctx context.Context, author *domain.Author) error

	// CreateMultiple saves several authors atomically: either all of them
	// are stored or none is.
	CreateMultiple(ctx context.Context, authors []*domain.Author) error

	// GetByID retrieves an author (without books) by its ID.
	// Returns ErrAuthorNotFound if the author does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Author, error)

	// GetByIDs retrieves every stored author whose ID is in ids, ordered by
	// first and last name. Missing IDs are silently skipped; callers compare
	// lengths to detect them.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Author, error)

	// Exists reports whether an author with the given ID is stored.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Delete removes an author and all of its books.
	// Returns ErrAuthorNotFound if the author does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of authors matching q. TotalCount counts every
	// match, not only the returned page.
	List(ctx context.Context, q AuthorQuery) (projection.Page[*domain.Author], error)
}
