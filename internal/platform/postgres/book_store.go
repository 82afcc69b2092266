package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/projection"
	"github.com/phrazzld/library-api/internal/store"
)

const bookSelect = `SELECT id, author_id, title, description FROM books`

var byTitle = projection.SortClause{{Attribute: "Title", Ascending: true}}

// PostgresBookStore implements the store.BookStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a new PostgreSQL implementation of the BookStore interface.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse is a wiring bug
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

var _ store.BookStore = (*PostgresBookStore)(nil)

// WithTx returns a store that runs every statement in tx.
func (s *PostgresBookStore) WithTx(tx *sql.Tx) *PostgresBookStore {
	return &PostgresBookStore{db: tx, logger: s.logger}
}

// ListByAuthor implements store.BookStore.ListByAuthor.
func (s *PostgresBookStore) ListByAuthor(ctx context.Context, authorID uuid.UUID, sort projection.SortClause) ([]*domain.Book, error) {
	if sort.IsEmpty() {
		sort = byTitle
	}
	order, err := orderClause(sort, bookColumns)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, bookSelect+` WHERE author_id = $1 ORDER BY `+order, authorID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list books",
			slog.String("error", err.Error()),
			slog.String("author_id", authorID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	books := []*domain.Book{}
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.AuthorID, &b.Title, &b.Description); err != nil {
			return nil, MapError(err)
		}
		books = append(books, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return books, nil
}

// GetForAuthor implements store.BookStore.GetForAuthor.
func (s *PostgresBookStore) GetForAuthor(ctx context.Context, authorID, bookID uuid.UUID) (*domain.Book, error) {
	var b domain.Book
	err := s.db.QueryRowContext(ctx, bookSelect+` WHERE id = $1 AND author_id = $2`, bookID, authorID).
		Scan(&b.ID, &b.AuthorID, &b.Title, &b.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBookNotFound
		}
		return nil, MapError(err)
	}
	return &b, nil
}

// Create implements store.BookStore.Create. A missing author surfaces as a
// foreign key violation and is reported as store.ErrAuthorNotFound.
func (s *PostgresBookStore) Create(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		return err
	}
	if err := insertBook(ctx, s.db, book); err != nil {
		log.Warn("failed to create book",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()),
			slog.String("author_id", book.AuthorID.String()))
		return err
	}

	log.Info("book created",
		slog.String("book_id", book.ID.String()),
		slog.String("author_id", book.AuthorID.String()))
	return nil
}

func insertBook(ctx context.Context, db store.DBTX, b *domain.Book) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO books (id, author_id, title, description) VALUES ($1, $2, $3, $4)`,
		b.ID, b.AuthorID, b.Title, b.Description)
	if err != nil {
		return mapWriteError(err, store.ErrBookExists, store.ErrAuthorNotFound)
	}
	return nil
}

// Update implements store.BookStore.Update.
func (s *PostgresBookStore) Update(ctx context.Context, book *domain.Book) error {
	if err := book.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE books SET title = $1, description = $2 WHERE id = $3 AND author_id = $4`,
		book.Title, book.Description, book.ID, book.AuthorID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrBookNotFound)
}

// Delete implements store.BookStore.Delete.
func (s *PostgresBookStore) Delete(ctx context.Context, authorID, bookID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1 AND author_id = $2`, bookID, authorID)
	if err != nil {
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrBookNotFound); err != nil {
		return err
	}

	log.Info("book deleted",
		slog.String("book_id", bookID.String()),
		slog.String("author_id", authorID.String()))
	return nil
}
