package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/library-api/internal/api"
	"github.com/phrazzld/library-api/internal/config"
	"github.com/phrazzld/library-api/internal/service"
)

// application holds the shared dependencies of every command and releases
// them on cleanup.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	storage *storage
	catalog service.CatalogService
}

// newApplication opens the configured storage and builds the catalog
// service on top of it. A memory store is seeded with the sample catalog
// when Database.Seed is set.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	st, err := setupStorage(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up storage: %w", err)
	}

	app := &application{config: cfg, logger: logger, storage: st}

	registry, err := service.NewMappingRegistry()
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to build property mappings: %w", err)
	}

	app.catalog, err = service.NewCatalogService(st.authors, st.books, registry, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create catalog service: %w", err)
	}

	if cfg.Database.Seed && cfg.Database.Driver == config.DriverMemory {
		if _, err := app.seed(ctx); err != nil {
			app.cleanup()
			return nil, err
		}
	}

	logger.Debug("application initialized")
	return app, nil
}

// router builds the HTTP handler of the API.
func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Catalog:   app.catalog,
		Paging:    app.config.Paging,
		RateLimit: app.config.RateLimit,
		Cache:     app.config.Cache,
		Logger:    app.logger,
	})
}

// seed stores the sample catalog unless authors already exist.
func (app *application) seed(ctx context.Context) (int, error) {
	n, err := service.Seed(ctx, app.storage.authors, app.logger)
	if err != nil {
		return 0, fmt.Errorf("failed to seed catalog: %w", err)
	}
	return n, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if err := app.storage.Close(); err != nil {
		app.logger.Error("error closing database connection", slog.String("error", err.Error()))
	}
}
