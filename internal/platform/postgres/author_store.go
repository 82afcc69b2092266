package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/projection"
	"github.com/phrazzld/library-api/internal/store"
)

const authorSelect = `SELECT id, first_name, last_name, date_of_birth, date_of_death, genre FROM authors`

// PostgresAuthorStore implements the store.AuthorStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAuthorStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAuthorStore creates a new PostgreSQL implementation of the AuthorStore interface.
// db may be a *sql.DB or a *sql.Tx. If logger is nil, a default logger will be used.
func NewPostgresAuthorStore(db store.DBTX, logger *slog.Logger) *PostgresAuthorStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse is a wiring bug
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAuthorStore{
		db:     db,
		logger: logger.With(slog.String("component", "author_store")),
	}
}

var _ store.AuthorStore = (*PostgresAuthorStore)(nil)

// WithTx returns a store that runs every statement in tx.
func (s *PostgresAuthorStore) WithTx(tx *sql.Tx) *PostgresAuthorStore {
	return &PostgresAuthorStore{db: tx, logger: s.logger}
}

// inTx runs fn in a transaction. A store already bound to a transaction
// reuses it; a store bound to a *sql.DB opens one.
func (s *PostgresAuthorStore) inTx(ctx context.Context, fn func(tx store.DBTX) error) error {
	switch db := s.db.(type) {
	case *sql.DB:
		return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			return fn(tx)
		})
	default:
		return fn(db)
	}
}

// Create implements store.AuthorStore.Create. The author and its books are
// inserted in one transaction.
func (s *PostgresAuthorStore) Create(ctx context.Context, author *domain.Author) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := author.Validate(); err != nil {
		log.Warn("author validation failed during create",
			slog.String("error", err.Error()),
			slog.String("author_id", author.ID.String()))
		return err
	}

	err := s.inTx(ctx, func(tx store.DBTX) error {
		return insertAuthor(ctx, tx, author)
	})
	if err != nil {
		log.Error("failed to create author",
			slog.String("error", err.Error()),
			slog.String("author_id", author.ID.String()))
		return err
	}

	log.Info("author created",
		slog.String("author_id", author.ID.String()),
		slog.Int("book_count", len(author.Books)))
	return nil
}

// CreateMultiple implements store.AuthorStore.CreateMultiple.
func (s *PostgresAuthorStore) CreateMultiple(ctx context.Context, authors []*domain.Author) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, a := range authors {
		if err := a.Validate(); err != nil {
			return err
		}
	}

	err := s.inTx(ctx, func(tx store.DBTX) error {
		for _, a := range authors {
			if err := insertAuthor(ctx, tx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create author collection",
			slog.String("error", err.Error()),
			slog.Int("count", len(authors)))
		return err
	}

	log.Info("author collection created", slog.Int("count", len(authors)))
	return nil
}

func insertAuthor(ctx context.Context, db store.DBTX, a *domain.Author) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO authors (id, first_name, last_name, date_of_birth, date_of_death, genre)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.FirstName, a.LastName, a.DateOfBirth, a.DateOfDeath, a.Genre)
	if err != nil {
		return mapWriteError(err, store.ErrAuthorExists, nil)
	}

	for i := range a.Books {
		b := a.Books[i]
		b.AuthorID = a.ID
		if err := insertBook(ctx, db, &b); err != nil {
			return err
		}
	}
	return nil
}

// GetByID implements store.AuthorStore.GetByID.
func (s *PostgresAuthorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	a, err := scanAuthor(s.db.QueryRowContext(ctx, authorSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("author not found", slog.String("author_id", id.String()))
			return nil, store.ErrAuthorNotFound
		}
		log.Error("failed to get author by ID",
			slog.String("error", err.Error()),
			slog.String("author_id", id.String()))
		return nil, MapError(err)
	}
	return a, nil
}

// GetByIDs implements store.AuthorStore.GetByIDs.
func (s *PostgresAuthorStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Author, error) {
	if len(ids) == 0 {
		return []*domain.Author{}, nil
	}

	var p params
	placeholders := make([]string, len(ids))
	for i, id := range ids {
		placeholders[i] = p.add(id)
	}
	query := authorSelect + ` WHERE id IN (` + strings.Join(placeholders, ", ") + `)` +
		` ORDER BY lower(first_name), lower(last_name), id`

	return s.queryAuthors(ctx, query, p.args...)
}

// Exists implements store.AuthorStore.Exists.
func (s *PostgresAuthorStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// Delete implements store.AuthorStore.Delete. Books are removed by the
// ON DELETE CASCADE constraint of the books table.
func (s *PostgresAuthorStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete author",
			slog.String("error", err.Error()),
			slog.String("author_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrAuthorNotFound); err != nil {
		return err
	}

	log.Info("author deleted", slog.String("author_id", id.String()))
	return nil
}

// List implements store.AuthorStore.List with a COUNT over the filtered
// table followed by a LIMIT/OFFSET query.
func (s *PostgresAuthorStore) List(ctx context.Context, q store.AuthorQuery) (projection.Page[*domain.Author], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	order, err := orderClause(q.Sort, authorColumns)
	if err != nil {
		return projection.Page[*domain.Author]{}, fmt.Errorf("%w: %v", store.ErrInvalidQuery, err)
	}

	var p params
	where := authorFilter(&p, q)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM authors`+where, p.args...).Scan(&total); err != nil {
		log.Error("failed to count authors", slog.String("error", err.Error()))
		return projection.Page[*domain.Author]{}, MapError(err)
	}

	query := authorSelect + where + ` ORDER BY ` + order +
		` LIMIT ` + p.add(q.PageSize) + ` OFFSET ` + p.add(projection.Offset(q.PageNumber, q.PageSize))
	authors, err := s.queryAuthors(ctx, query, p.args...)
	if err != nil {
		return projection.Page[*domain.Author]{}, err
	}

	log.Debug("authors listed",
		slog.Int("total", total),
		slog.Int("returned", len(authors)),
		slog.String("order", q.Sort.String()))
	return projection.NewPage(authors, total, q.PageNumber, q.PageSize), nil
}

// authorFilter renders the WHERE clause of q, or "" when q has no filter.
func authorFilter(p *params, q store.AuthorQuery) string {
	var conds []string
	if genre := strings.ToLower(strings.TrimSpace(q.Genre)); genre != "" {
		conds = append(conds, `lower(genre) = `+p.add(genre))
	}
	if search := strings.ToLower(strings.TrimSpace(q.SearchQuery)); search != "" {
		ph := p.add(search)
		conds = append(conds, `(strpos(lower(genre), `+ph+`) > 0`+
			` OR strpos(lower(first_name), `+ph+`) > 0`+
			` OR strpos(lower(last_name), `+ph+`) > 0)`)
	}
	if len(conds) == 0 {
		return ""
	}
	return ` WHERE ` + strings.Join(conds, ` AND `)
}

func (s *PostgresAuthorStore) queryAuthors(ctx context.Context, query string, args ...any) ([]*domain.Author, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	authors := []*domain.Author{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, MapError(err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return authors, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAuthor(row scanner) (*domain.Author, error) {
	var (
		a     domain.Author
		death sql.NullTime
	)
	if err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.DateOfBirth, &death, &a.Genre); err != nil {
		return nil, err
	}
	if death.Valid {
		t := death.Time
		a.DateOfDeath = &t
	}
	return &a, nil
}
