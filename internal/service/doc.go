// Package service contains the catalog use cases. It resolves the client's
// field and sort expressions against the registered property mappings,
// runs the store queries and returns the view models the API layer shapes
// into responses.
//
// The service depends on the store interfaces only, so the same use cases
// run against PostgreSQL or the in-memory catalog.
package service
