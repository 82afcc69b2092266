package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/library-api/internal/config"
)

// loadAppConfig loads the application configuration from the given dotenv
// file, config.yaml search paths and the environment.
func loadAppConfig(opts config.Options) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// logAppConfig logs the configuration that shapes the server.
func logAppConfig(cfg *config.Config, logger *slog.Logger) {
	logger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver))

	logger.Debug("request policies",
		slog.Int("default_page_size", cfg.Paging.DefaultPageSize),
		slog.Int("max_page_size", cfg.Paging.MaxPageSize),
		slog.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		slog.Int("rate_limit_rules", len(cfg.RateLimit.Rules)),
		slog.Duration("cache_max_age", cfg.Cache.MaxAge))
}
