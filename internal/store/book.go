package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/projection"
)

// BookStore defines the interface for book persistence. Every operation is
// scoped to an author; a book of another author is reported as not found.
type BookStore interface {
	// ListByAuthor returns every book of the author ordered by sort. An
	// empty sort orders by title.
	ListByAuthor(ctx context.Context, authorID uuid.UUID, sort projection.SortClause) ([]*domain.Book, error)

	// GetForAuthor retrieves a single book of the author.
	// Returns ErrBookNotFound if it does not exist.
	GetForAuthor(ctx context.Context, authorID, bookID uuid.UUID) (*domain.Book, error)

	// Create saves a new book. Returns ErrAuthorNotFound when the author is
	// missing and ErrBookExists when the ID is taken.
	Create(ctx context.Context, book *domain.Book) error

	// Update saves the title and description of an existing book.
	// Returns ErrBookNotFound if it does not exist.
	Update(ctx context.Context, book *domain.Book) error

	// Delete removes a book of the author.
	// Returns ErrBookNotFound if it does not exist.
	Delete(ctx context.Context, authorID, bookID uuid.UUID) error
}
