// Package projection implements the resource-projection pipeline shared by every
// collection endpoint: the registry that maps client-facing field and sort names
// onto backing attributes, the compiler that turns an orderBy expression into a
// typed sort clause, the shaper that reduces entities to a requested subset of
// fields, and the paginator that cuts an ordered collection into pages.
//
// Everything in this package is pure and synchronous. A Registry is built once
// during application bootstrap and is safe for concurrent reads afterwards.
package projection
