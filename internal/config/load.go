package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. LIBRARY_SERVER_PORT.
const EnvPrefix = "LIBRARY"

// Options controls where Load looks for configuration.
type Options struct {
	// EnvFile is an optional dotenv file loaded before reading the environment.
	// Variables already set in the environment win.
	EnvFile string
	// ConfigPaths are searched for config.yaml.
	ConfigPaths []string
}

// DefaultOptions reads .env and config.yaml from the working directory.
func DefaultOptions() Options {
	return Options{EnvFile: ".env", ConfigPaths: []string{"."}}
}

// Load reads configuration using DefaultOptions.
func Load() (*Config, error) {
	return LoadWithOptions(DefaultOptions())
}

// LoadWithOptions builds the configuration from defaults, an optional
// config.yaml, an optional dotenv file and LIBRARY_ environment variables, in
// increasing order of precedence. The result is validated before it is
// returned.
func LoadWithOptions(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range opts.ConfigPaths {
		v.AddConfigPath(p)
	}
	if len(opts.ConfigPaths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.seed", false)

	v.SetDefault("paging.default_page_size", 10)
	v.SetDefault("paging.max_page_size", 20)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rules", []map[string]any{
		{"limit": 10, "period": "5m"},
		{"limit": 2, "period": "10s"},
	})

	v.SetDefault("cache.max_age", "600s")
}
