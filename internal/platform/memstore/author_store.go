package memstore

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/projection"
	"github.com/phrazzld/library-api/internal/store"
)

// AuthorStore implements store.AuthorStore on a Catalog.
type AuthorStore struct {
	c *Catalog
}

var _ store.AuthorStore = (*AuthorStore)(nil)

func foldCompare(a, b string) int {
	if c := cmp.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// authorComparators orders authors by the backing attributes sort clauses
// may reference.
var authorComparators = map[string]projection.Comparator[domain.Author]{
	"Id":          func(a, b domain.Author) int { return compareUUID(a.ID, b.ID) },
	"FirstName":   func(a, b domain.Author) int { return foldCompare(a.FirstName, b.FirstName) },
	"LastName":    func(a, b domain.Author) int { return foldCompare(a.LastName, b.LastName) },
	"Genre":       func(a, b domain.Author) int { return foldCompare(a.Genre, b.Genre) },
	"DateOfBirth": func(a, b domain.Author) int { return a.DateOfBirth.Compare(b.DateOfBirth) },
}

// Create implements store.AuthorStore.Create.
func (s *AuthorStore) Create(ctx context.Context, author *domain.Author) error {
	log := logger.FromContextOrDefault(ctx, s.c.logger)

	if err := author.Validate(); err != nil {
		log.Warn("author validation failed during create",
			slog.String("error", err.Error()),
			slog.String("author_id", author.ID.String()))
		return err
	}

	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	if err := s.checkInsertable(author); err != nil {
		return err
	}
	s.insert(author)

	log.Debug("author created",
		slog.String("author_id", author.ID.String()),
		slog.Int("book_count", len(author.Books)))
	return nil
}

// CreateMultiple implements store.AuthorStore.CreateMultiple. Every author is
// validated and checked for conflicts before any is stored.
func (s *AuthorStore) CreateMultiple(ctx context.Context, authors []*domain.Author) error {
	log := logger.FromContextOrDefault(ctx, s.c.logger)

	for _, a := range authors {
		if err := a.Validate(); err != nil {
			return err
		}
	}

	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	seen := make(map[uuid.UUID]bool, len(authors))
	for _, a := range authors {
		if seen[a.ID] {
			return fmt.Errorf("%w: %s appears twice", store.ErrAuthorExists, a.ID)
		}
		seen[a.ID] = true
		if err := s.checkInsertable(a); err != nil {
			return err
		}
	}
	for _, a := range authors {
		s.insert(a)
	}

	log.Debug("author collection created", slog.Int("count", len(authors)))
	return nil
}

func (s *AuthorStore) checkInsertable(a *domain.Author) error {
	if _, ok := s.c.getAuthor(a.ID); ok {
		return fmt.Errorf("%w: %s", store.ErrAuthorExists, a.ID)
	}
	for _, b := range a.Books {
		if s.c.hasBook(b.ID) {
			return fmt.Errorf("%w: %s", store.ErrBookExists, b.ID)
		}
	}
	return nil
}

func (s *AuthorStore) insert(a *domain.Author) {
	s.c.putAuthor(a)
	for i := range a.Books {
		b := a.Books[i]
		b.AuthorID = a.ID
		s.c.putBook(&b)
	}
}

// GetByID implements store.AuthorStore.GetByID.
func (s *AuthorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	s.c.mu.RLock()
	defer s.c.mu.RUnlock()

	a, ok := s.c.getAuthor(id)
	if !ok {
		return nil, store.ErrAuthorNotFound
	}
	return &a, nil
}

// GetByIDs implements store.AuthorStore.GetByIDs.
func (s *AuthorStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Author, error) {
	s.c.mu.RLock()
	found := make([]domain.Author, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if a, ok := s.c.getAuthor(id); ok {
			found = append(found, a)
		}
	}
	s.c.mu.RUnlock()

	slices.SortStableFunc(found, func(a, b domain.Author) int {
		if c := foldCompare(a.FirstName, b.FirstName); c != 0 {
			return c
		}
		return foldCompare(a.LastName, b.LastName)
	})
	return pointers(found), nil
}

// Exists implements store.AuthorStore.Exists.
func (s *AuthorStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	s.c.mu.RLock()
	defer s.c.mu.RUnlock()

	_, ok := s.c.getAuthor(id)
	return ok, nil
}

// Delete implements store.AuthorStore.Delete.
func (s *AuthorStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.c.logger)

	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	if _, ok := s.c.authors.Delete(authorItem{id: id}); !ok {
		return store.ErrAuthorNotFound
	}
	removed := s.c.deleteBooksOf(id)

	log.Debug("author deleted",
		slog.String("author_id", id.String()),
		slog.Int("books_removed", removed))
	return nil
}

// List implements store.AuthorStore.List. Matching authors are collected in
// ID order, sorted stably by q.Sort and then paged.
func (s *AuthorStore) List(ctx context.Context, q store.AuthorQuery) (projection.Page[*domain.Author], error) {
	genre := strings.ToLower(strings.TrimSpace(q.Genre))
	search := strings.ToLower(strings.TrimSpace(q.SearchQuery))

	s.c.mu.RLock()
	var matches []domain.Author
	s.c.authors.Ascend(func(item authorItem) bool {
		if matchesAuthor(item.author, genre, search) {
			a := item.author
			a.DateOfDeath = copyTime(a.DateOfDeath)
			matches = append(matches, a)
		}
		return true
	})
	s.c.mu.RUnlock()

	if err := projection.SortStable(matches, q.Sort, authorComparators); err != nil {
		return projection.Page[*domain.Author]{}, fmt.Errorf("%w: %v", store.ErrInvalidQuery, err)
	}

	page := projection.Paginate(matches, len(matches), q.PageNumber, q.PageSize)
	return projection.MapPage(page, func(a domain.Author) *domain.Author { return &a }), nil
}

func matchesAuthor(a domain.Author, genre, search string) bool {
	if genre != "" && strings.ToLower(a.Genre) != genre {
		return false
	}
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Genre), search) ||
		strings.Contains(strings.ToLower(a.FirstName), search) ||
		strings.Contains(strings.ToLower(a.LastName), search)
}

func pointers[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
