package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/library-api/internal/config"
	"github.com/phrazzld/library-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	envFile     string
	configPaths []string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "library-api",
		Short:        "Author and book catalog REST API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runServe(cmd)
		},
	}

	defaults := config.DefaultOptions()
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", defaults.EnvFile,
		"dotenv file loaded before reading the environment (ignored when missing)")
	root.PersistentFlags().StringSliceVar(&opts.configPaths, "config-path", defaults.ConfigPaths,
		"directories searched for config.yaml")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newSeedCommand(opts),
	)
	return root
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runServe(cmd)
		},
	}
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|reset|status|version]",
		Short:     "Run database migrations (default: up)",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := postgres.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}
			return opts.withApplication(cmd, func(ctx context.Context, app *application) error {
				return app.runMigrations(ctx, command)
			})
		},
	}
}

func newSeedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample authors and books into an empty catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApplication(cmd, func(ctx context.Context, app *application) error {
				n, err := app.seed(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d authors\n", n)
				return err
			})
		},
	}
}

// runServe serves the API until SIGINT or SIGTERM.
func (o *rootOptions) runServe(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return o.withContextApplication(ctx, cmd, func(ctx context.Context, app *application) error {
		logAppConfig(app.config, app.logger)
		return app.Run(ctx)
	})
}

// withApplication loads configuration, builds the application and runs fn
// with it, cleaning up afterwards.
func (o *rootOptions) withApplication(cmd *cobra.Command, fn func(context.Context, *application) error) error {
	return o.withContextApplication(cmd.Context(), cmd, fn)
}

func (o *rootOptions) withContextApplication(
	ctx context.Context,
	cmd *cobra.Command,
	fn func(context.Context, *application) error,
) error {
	cfg, err := loadAppConfig(config.Options{EnvFile: o.envFile, ConfigPaths: o.configPaths})
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", slog.String("error", err.Error()))
		return err
	}
	defer app.cleanup()

	return fn(ctx, app)
}
