package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/projection"
	"github.com/phrazzld/library-api/internal/store"
)

// AuthorListQuery selects and shapes one page of authors. PageNumber and
// PageSize must already be clamped by the caller.
type AuthorListQuery struct {
	Fields      string
	OrderBy     string
	Genre       string
	SearchQuery string
	PageNumber  int
	PageSize    int
}

// AuthorList is a page of authors together with the resolved field selection.
type AuthorList struct {
	Page   projection.Page[AuthorView]
	Fields projection.Selection[AuthorView]
}

// BookList is every book of an author together with the resolved field selection.
type BookList struct {
	Books  []BookView
	Fields projection.Selection[BookView]
}

// CatalogService provides the author and book use cases.
type CatalogService interface {
	// ListAuthors returns one filtered, ordered page of authors. Invalid
	// orderBy and fields expressions are reported together in one error
	// before any query runs.
	ListAuthors(ctx context.Context, q AuthorListQuery) (AuthorList, error)

	// GetAuthor returns a single author and the resolved field selection.
	GetAuthor(ctx context.Context, id uuid.UUID, fields string) (AuthorView, projection.Selection[AuthorView], error)

	// CreateAuthor creates an author, with nested books if given.
	CreateAuthor(ctx context.Context, in AuthorInput) (AuthorView, error)

	// AuthorExists reports whether the author is stored.
	AuthorExists(ctx context.Context, id uuid.UUID) (bool, error)

	// DeleteAuthor removes an author and all of their books.
	DeleteAuthor(ctx context.Context, id uuid.UUID) error

	// CreateAuthorCollection creates several authors atomically.
	CreateAuthorCollection(ctx context.Context, in []AuthorInput) ([]AuthorView, error)

	// GetAuthorCollection returns the given authors ordered by name. It fails
	// with ErrAuthorNotFound unless every ID resolves.
	GetAuthorCollection(ctx context.Context, ids []uuid.UUID) ([]AuthorView, error)

	// ListBooks returns the books of an author.
	ListBooks(ctx context.Context, authorID uuid.UUID, orderBy, fields string) (BookList, error)

	// GetBook returns a single book of an author.
	GetBook(ctx context.Context, authorID, bookID uuid.UUID, fields string) (BookView, projection.Selection[BookView], error)

	// CreateBook adds a book to an author.
	CreateBook(ctx context.Context, authorID uuid.UUID, in BookInput) (BookView, error)

	// UpsertBook replaces a book, or creates it under bookID when it does not
	// exist. created reports which of the two happened.
	UpsertBook(ctx context.Context, authorID, bookID uuid.UUID, in BookUpdate) (view BookView, created bool, err error)

	// PatchBook applies patch to the current content of a book and saves the
	// result. A missing book is patched from empty content and created.
	PatchBook(ctx context.Context, authorID, bookID uuid.UUID, patch func(*BookUpdate) error) (view BookView, created bool, err error)

	// DeleteBook removes a book of an author.
	DeleteBook(ctx context.Context, authorID, bookID uuid.UUID) error
}

// catalogService implements the CatalogService interface
type catalogService struct {
	authors  store.AuthorStore
	books    store.BookStore
	registry *projection.Registry
	logger   *slog.Logger
	now      func() time.Time
}

// NewCatalogService creates a new CatalogService.
// It returns an error if a dependency is nil or if the registry lacks one
// of the required mapping pairs.
func NewCatalogService(
	authors store.AuthorStore,
	books store.BookStore,
	registry *projection.Registry,
	logger *slog.Logger,
) (CatalogService, error) {
	if authors == nil {
		return nil, domain.NewValidationError("authors", "cannot be nil", domain.ErrValidation)
	}
	if books == nil {
		return nil, domain.NewValidationError("books", "cannot be nil", domain.ErrValidation)
	}
	if registry == nil {
		return nil, domain.NewValidationError("registry", "cannot be nil", domain.ErrValidation)
	}
	for _, pair := range RequiredPairs {
		if _, err := registry.Lookup(pair); err != nil {
			return nil, err
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &catalogService{
		authors:  authors,
		books:    books,
		registry: registry,
		logger:   logger.With(slog.String("component", "catalog_service")),
		now:      time.Now,
	}, nil
}

// ListAuthors implements CatalogService.ListAuthors
func (s *catalogService) ListAuthors(ctx context.Context, q AuthorListQuery) (AuthorList, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sort, sortErr := s.registry.CompileSort(AuthorViewToAuthor, q.OrderBy)
	if errors.Is(sortErr, projection.ErrUnregisteredMapping) {
		return AuthorList{}, &ServiceError{Operation: "list_authors", Message: "mapping lookup failed", Err: sortErr}
	}
	fields, fieldErr := AuthorShape.Resolve(q.Fields)
	if err := projection.Combine(sortErr, fieldErr); err != nil {
		log.Debug("rejected author list request",
			slog.String("order_by", q.OrderBy),
			slog.String("fields", q.Fields),
			slog.String("error", err.Error()))
		return AuthorList{}, err
	}

	page, err := s.authors.List(ctx, store.AuthorQuery{
		Genre:       q.Genre,
		SearchQuery: q.SearchQuery,
		Sort:        sort,
		PageNumber:  q.PageNumber,
		PageSize:    q.PageSize,
	})
	if err != nil {
		log.Error("failed to list authors", slog.String("error", err.Error()))
		return AuthorList{}, wrapStoreError("list_authors", "failed to query authors", err)
	}

	now := s.now()
	return AuthorList{
		Page:   projection.MapPage(page, func(a *domain.Author) AuthorView { return NewAuthorView(a, now) }),
		Fields: fields,
	}, nil
}

// GetAuthor implements CatalogService.GetAuthor
func (s *catalogService) GetAuthor(ctx context.Context, id uuid.UUID, fields string) (AuthorView, projection.Selection[AuthorView], error) {
	sel, err := AuthorShape.Resolve(fields)
	if err != nil {
		return AuthorView{}, sel, err
	}

	author, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return AuthorView{}, sel, wrapStoreError("get_author", "failed to load author", err)
	}
	return NewAuthorView(author, s.now()), sel, nil
}

// CreateAuthor implements CatalogService.CreateAuthor
func (s *catalogService) CreateAuthor(ctx context.Context, in AuthorInput) (AuthorView, error) {
	author, err := in.toDomain()
	if err != nil {
		return AuthorView{}, err
	}
	if err := s.authors.Create(ctx, author); err != nil {
		return AuthorView{}, wrapStoreError("create_author", "failed to save author", err)
	}
	return NewAuthorView(author, s.now()), nil
}

// AuthorExists implements CatalogService.AuthorExists
func (s *catalogService) AuthorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	exists, err := s.authors.Exists(ctx, id)
	if err != nil {
		return false, wrapStoreError("author_exists", "failed to check author", err)
	}
	return exists, nil
}

// DeleteAuthor implements CatalogService.DeleteAuthor
func (s *catalogService) DeleteAuthor(ctx context.Context, id uuid.UUID) error {
	if err := s.authors.Delete(ctx, id); err != nil {
		return wrapStoreError("delete_author", "failed to delete author", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("author deleted", slog.String("author_id", id.String()))
	return nil
}

// CreateAuthorCollection implements CatalogService.CreateAuthorCollection
func (s *catalogService) CreateAuthorCollection(ctx context.Context, in []AuthorInput) ([]AuthorView, error) {
	if len(in) == 0 {
		return nil, ErrEmptyCollection
	}

	authors := make([]*domain.Author, 0, len(in))
	var errs *multierror.Error
	for i, input := range in {
		author, err := input.toDomain()
		if err != nil {
			errs = multierror.Append(errs, domain.IndexErrors("", i, err))
			continue
		}
		authors = append(authors, author)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	if err := s.authors.CreateMultiple(ctx, authors); err != nil {
		return nil, wrapStoreError("create_author_collection", "failed to save authors", err)
	}
	return authorViews(authors, s.now()), nil
}

// GetAuthorCollection implements CatalogService.GetAuthorCollection
func (s *catalogService) GetAuthorCollection(ctx context.Context, ids []uuid.UUID) ([]AuthorView, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyCollection
	}

	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	authors, err := s.authors.GetByIDs(ctx, ids)
	if err != nil {
		return nil, wrapStoreError("get_author_collection", "failed to load authors", err)
	}
	if len(authors) != len(unique) {
		return nil, fmt.Errorf("%w: found %d of %d authors", ErrAuthorNotFound, len(authors), len(unique))
	}
	return authorViews(authors, s.now()), nil
}

// ListBooks implements CatalogService.ListBooks
func (s *catalogService) ListBooks(ctx context.Context, authorID uuid.UUID, orderBy, fields string) (BookList, error) {
	sort, sortErr := s.registry.CompileSort(BookViewToBook, orderBy)
	if errors.Is(sortErr, projection.ErrUnregisteredMapping) {
		return BookList{}, &ServiceError{Operation: "list_books", Message: "mapping lookup failed", Err: sortErr}
	}
	sel, fieldErr := BookShape.Resolve(fields)
	if err := projection.Combine(sortErr, fieldErr); err != nil {
		return BookList{}, err
	}

	if err := s.requireAuthor(ctx, authorID); err != nil {
		return BookList{}, err
	}

	books, err := s.books.ListByAuthor(ctx, authorID, sort)
	if err != nil {
		return BookList{}, wrapStoreError("list_books", "failed to query books", err)
	}
	return BookList{Books: bookViews(books), Fields: sel}, nil
}

// GetBook implements CatalogService.GetBook
func (s *catalogService) GetBook(ctx context.Context, authorID, bookID uuid.UUID, fields string) (BookView, projection.Selection[BookView], error) {
	sel, err := BookShape.Resolve(fields)
	if err != nil {
		return BookView{}, sel, err
	}
	if err := s.requireAuthor(ctx, authorID); err != nil {
		return BookView{}, sel, err
	}

	book, err := s.books.GetForAuthor(ctx, authorID, bookID)
	if err != nil {
		return BookView{}, sel, wrapStoreError("get_book", "failed to load book", err)
	}
	return NewBookView(book), sel, nil
}

// CreateBook implements CatalogService.CreateBook. Content is validated
// before the author is looked up.
func (s *catalogService) CreateBook(ctx context.Context, authorID uuid.UUID, in BookInput) (BookView, error) {
	book, err := domain.NewBook(in.ID, authorID, in.Title, in.Description)
	if err != nil {
		return BookView{}, err
	}
	if err := s.books.Create(ctx, book); err != nil {
		return BookView{}, wrapStoreError("create_book", "failed to save book", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("book created",
		slog.String("book_id", book.ID.String()),
		slog.String("author_id", authorID.String()))
	return NewBookView(book), nil
}

// UpsertBook implements CatalogService.UpsertBook
func (s *catalogService) UpsertBook(ctx context.Context, authorID, bookID uuid.UUID, in BookUpdate) (BookView, bool, error) {
	if err := s.requireAuthor(ctx, authorID); err != nil {
		return BookView{}, false, err
	}

	_, err := s.books.GetForAuthor(ctx, authorID, bookID)
	switch {
	case errors.Is(err, store.ErrBookNotFound):
		return s.saveBook(ctx, authorID, bookID, in, true)
	case err != nil:
		return BookView{}, false, wrapStoreError("upsert_book", "failed to load book", err)
	}
	return s.saveBook(ctx, authorID, bookID, in, false)
}

// PatchBook implements CatalogService.PatchBook
func (s *catalogService) PatchBook(
	ctx context.Context,
	authorID, bookID uuid.UUID,
	patch func(*BookUpdate) error,
) (BookView, bool, error) {
	if err := s.requireAuthor(ctx, authorID); err != nil {
		return BookView{}, false, err
	}

	var (
		current BookUpdate
		create  bool
	)
	existing, err := s.books.GetForAuthor(ctx, authorID, bookID)
	switch {
	case errors.Is(err, store.ErrBookNotFound):
		create = true
	case err != nil:
		return BookView{}, false, wrapStoreError("patch_book", "failed to load book", err)
	default:
		current = BookUpdate{Title: existing.Title, Description: existing.Description}
	}

	if err := patch(&current); err != nil {
		return BookView{}, false, err
	}
	return s.saveBook(ctx, authorID, bookID, current, create)
}

func (s *catalogService) saveBook(ctx context.Context, authorID, bookID uuid.UUID, in BookUpdate, create bool) (BookView, bool, error) {
	book, err := in.toDomain(authorID, bookID)
	if err != nil {
		return BookView{}, false, err
	}

	if create {
		err = s.books.Create(ctx, book)
	} else {
		err = s.books.Update(ctx, book)
	}
	if err != nil {
		return BookView{}, false, wrapStoreError("save_book", "failed to save book", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("book saved",
		slog.String("book_id", bookID.String()),
		slog.Bool("created", create))
	return NewBookView(book), create, nil
}

// DeleteBook implements CatalogService.DeleteBook
func (s *catalogService) DeleteBook(ctx context.Context, authorID, bookID uuid.UUID) error {
	if err := s.requireAuthor(ctx, authorID); err != nil {
		return err
	}
	if err := s.books.Delete(ctx, authorID, bookID); err != nil {
		return wrapStoreError("delete_book", "failed to delete book", err)
	}
	return nil
}

func (s *catalogService) requireAuthor(ctx context.Context, authorID uuid.UUID) error {
	exists, err := s.authors.Exists(ctx, authorID)
	if err != nil {
		return wrapStoreError("author_exists", "failed to check author", err)
	}
	if !exists {
		return ErrAuthorNotFound
	}
	return nil
}

func isValidation(err error) bool {
	return errors.Is(err, domain.ErrValidation)
}
