// Package testdb provides a migrated PostgreSQL database for integration
// tests. Tests using it are skipped unless LIBRARY_TEST_DB_URL is set.
package testdb
