// Package config loads and validates the application configuration
// from defaults, an optional config.yaml, an optional .env file and
// LIBRARY_-prefixed environment variables.
package config
