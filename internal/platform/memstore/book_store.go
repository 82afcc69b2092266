package memstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/projection"
	"github.com/phrazzld/library-api/internal/store"
)

// BookStore implements store.BookStore on a Catalog.
type BookStore struct {
	c *Catalog
}

var _ store.BookStore = (*BookStore)(nil)

var bookComparators = map[string]projection.Comparator[domain.Book]{
	"Id":          func(a, b domain.Book) int { return compareUUID(a.ID, b.ID) },
	"Title":       func(a, b domain.Book) int { return foldCompare(a.Title, b.Title) },
	"Description": func(a, b domain.Book) int { return foldCompare(a.Description, b.Description) },
}

var byTitle = projection.SortClause{{Attribute: "Title", Ascending: true}}

// ListByAuthor implements store.BookStore.ListByAuthor.
func (s *BookStore) ListByAuthor(ctx context.Context, authorID uuid.UUID, sort projection.SortClause) ([]*domain.Book, error) {
	s.c.mu.RLock()
	books := s.c.booksOf(authorID)
	s.c.mu.RUnlock()

	if sort.IsEmpty() {
		sort = byTitle
	}
	if err := projection.SortStable(books, sort, bookComparators); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidQuery, err)
	}
	return pointers(books), nil
}

// GetForAuthor implements store.BookStore.GetForAuthor.
func (s *BookStore) GetForAuthor(ctx context.Context, authorID, bookID uuid.UUID) (*domain.Book, error) {
	s.c.mu.RLock()
	defer s.c.mu.RUnlock()

	item, ok := s.c.books.Get(bookItem{authorID: authorID, id: bookID})
	if !ok {
		return nil, store.ErrBookNotFound
	}
	b := item.book
	return &b, nil
}

// Create implements store.BookStore.Create.
func (s *BookStore) Create(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.c.logger)

	if err := book.Validate(); err != nil {
		return err
	}

	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	if _, ok := s.c.getAuthor(book.AuthorID); !ok {
		return store.ErrAuthorNotFound
	}
	if s.c.hasBook(book.ID) {
		return fmt.Errorf("%w: %s", store.ErrBookExists, book.ID)
	}
	s.c.putBook(book)

	log.Debug("book created",
		slog.String("book_id", book.ID.String()),
		slog.String("author_id", book.AuthorID.String()))
	return nil
}

// Update implements store.BookStore.Update.
func (s *BookStore) Update(ctx context.Context, book *domain.Book) error {
	if err := book.Validate(); err != nil {
		return err
	}

	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	if _, ok := s.c.books.Get(bookItem{authorID: book.AuthorID, id: book.ID}); !ok {
		return store.ErrBookNotFound
	}
	s.c.putBook(book)
	return nil
}

// Delete implements store.BookStore.Delete.
func (s *BookStore) Delete(ctx context.Context, authorID, bookID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.c.logger)

	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	if _, ok := s.c.books.Delete(bookItem{authorID: authorID, id: bookID}); !ok {
		return store.ErrBookNotFound
	}

	log.Debug("book deleted",
		slog.String("book_id", bookID.String()),
		slog.String("author_id", authorID.String()))
	return nil
}
