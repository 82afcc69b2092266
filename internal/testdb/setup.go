package testdb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/phrazzld/library-api/internal/config"
	"github.com/phrazzld/library-api/internal/platform/postgres"
	"github.com/phrazzld/library-api/internal/redact"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds the setup and teardown of the test database.
const TestTimeout = 30 * time.Second

// Open connects to the integration database and resets its schema to the
// latest migration. The schema is reset again and the connection closed when
// the test finishes. The test is skipped when no database is configured.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := DatabaseURL()
	if url == "" {
		t.Skipf("%s not set", EnvTestDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		URL:             url,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}, nil)
	require.NoError(t, err, "test database %s", redact.DatabaseURL(url))

	if isCIEnvironment() {
		var version string
		if err := db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
			t.Logf("CI debug: failed to query database version: %v", err)
		} else {
			t.Logf("CI debug: connected to %s", version)
		}
	}

	resetSchema(ctx, t, db)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
		defer cancel()
		if err := postgres.Migrate(ctx, db, postgres.MigrateReset, nil); err != nil {
			t.Logf("failed to reset test database: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})
	return db
}

func resetSchema(ctx context.Context, t *testing.T, db *sql.DB) {
	t.Helper()
	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateReset, nil), "reset schema")
	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateUp, nil), "apply migrations")
}
