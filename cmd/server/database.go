package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/library-api/internal/config"
	"github.com/phrazzld/library-api/internal/platform/memstore"
	"github.com/phrazzld/library-api/internal/platform/postgres"
	"github.com/phrazzld/library-api/internal/store"
)

// storage is the catalog persistence selected by configuration. db is nil
// for the memory driver.
type storage struct {
	db      *sql.DB
	authors store.AuthorStore
	books   store.BookStore
}

// setupStorage opens the configured catalog storage.
func setupStorage(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*storage, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		catalog := memstore.New(logger)
		logger.Info("using in-memory catalog storage")
		return &storage{authors: catalog.Authors(), books: catalog.Books()}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &storage{
			db:      db,
			authors: postgres.NewPostgresAuthorStore(db, logger),
			books:   postgres.NewPostgresBookStore(db, logger),
		}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// requireDB returns the SQL connection, failing for storage without one.
func (s *storage) requireDB(command string) (*sql.DB, error) {
	if s.db == nil {
		return nil, fmt.Errorf("%s requires the %s database driver", command, config.DriverPostgres)
	}
	return s.db, nil
}

// Close releases the database connection, if any.
func (s *storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
