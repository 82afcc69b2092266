package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/phrazzld/library-api/internal/platform/postgres"
)

// runMigrations executes a goose command against the configured database.
func (app *application) runMigrations(ctx context.Context, command string) error {
	if !slices.Contains(postgres.MigrationCommands, command) {
		return fmt.Errorf("unknown migration command %q (expected one of %v)", command, postgres.MigrationCommands)
	}

	db, err := app.storage.requireDB("migrate")
	if err != nil {
		return err
	}

	app.logger.Info("executing migrations", slog.String("command", command))
	return postgres.Migrate(ctx, db, command, app.logger)
}
