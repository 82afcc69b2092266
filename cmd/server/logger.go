package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/library-api/internal/config"
	"github.com/phrazzld/library-api/internal/platform/logger"
)

// setupAppLogger configures the application logger from config and installs
// it as the slog default.
func setupAppLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	l, err := logger.SetupWithWriter(cfg.Server, w)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return l, nil
}
