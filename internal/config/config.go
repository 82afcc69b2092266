package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Paging    PagingConfig    `mapstructure:"paging" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig selects and configures the catalog storage.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"required,oneof=postgres memory"`
	URL             string        `mapstructure:"url" validate:"required_if=Driver postgres"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	// Seed loads the sample catalog into an empty memory store at startup.
	Seed bool `mapstructure:"seed"`
}

// PagingConfig bounds author collection pages.
type PagingConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size" validate:"gt=0,ltefield=MaxPageSize"`
	MaxPageSize     int `mapstructure:"max_page_size" validate:"gt=0"`
}

// RateLimitConfig configures per-client request throttling. Every rule must
// admit a request for it to pass.
type RateLimitConfig struct {
	Enabled bool            `mapstructure:"enabled"`
	Rules   []RateLimitRule `mapstructure:"rules" validate:"required_if=Enabled true,dive"`
}

// RateLimitRule allows Limit requests per Period.
type RateLimitRule struct {
	Limit  int           `mapstructure:"limit" validate:"gt=0"`
	Period time.Duration `mapstructure:"period" validate:"gt=0"`
}

// CacheConfig sets the Cache-Control policy of GET and HEAD responses.
type CacheConfig struct {
	MaxAge time.Duration `mapstructure:"max_age" validate:"gte=0"`
}
