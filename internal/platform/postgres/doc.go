// Package postgres implements the catalog stores of internal/store on
// PostgreSQL through database/sql and the pgx driver. It also owns the
// embedded schema migrations, applied with goose.
//
// Sort clauses are translated into ORDER BY through a fixed column whitelist,
// so request input never reaches the query text.
package postgres
