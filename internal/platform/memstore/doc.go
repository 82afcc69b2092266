// Package memstore implements the catalog stores in memory.
//
// Authors and books are kept in B-trees ordered by ID (books by author, then
// ID) so that iteration order is deterministic. The catalog is safe for
// concurrent use; reads share a lock, writes are exclusive.
package memstore
