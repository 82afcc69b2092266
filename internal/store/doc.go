// Package store defines interfaces for catalog persistence.
// These interfaces abstract the underlying data storage mechanism from
// the service layer, so the same request pipeline runs against PostgreSQL
// or the in-memory catalog.
package store
