package memstore

import (
	"bytes"
	"log/slog"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
)

const btreeDegree = 16

type authorItem struct {
	id     uuid.UUID
	author domain.Author // stored without books
}

type bookItem struct {
	authorID uuid.UUID
	id       uuid.UUID
	book     domain.Book
}

func compareUUID(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

func authorLess(a, b authorItem) bool {
	return compareUUID(a.id, b.id) < 0
}

func bookLess(a, b bookItem) bool {
	if c := compareUUID(a.authorID, b.authorID); c != 0 {
		return c < 0
	}
	return compareUUID(a.id, b.id) < 0
}

// Catalog holds authors and their books. Use Authors and Books to obtain the
// store views.
type Catalog struct {
	mu      sync.RWMutex
	authors *btree.BTreeG[authorItem]
	books   *btree.BTreeG[bookItem]
	logger  *slog.Logger
}

// New creates an empty catalog. If logger is nil, slog.Default() is used.
func New(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		authors: btree.NewG[authorItem](btreeDegree, authorLess),
		books:   btree.NewG[bookItem](btreeDegree, bookLess),
		logger:  logger.With(slog.String("component", "memstore")),
	}
}

// Authors returns the author store view of the catalog.
func (c *Catalog) Authors() *AuthorStore {
	return &AuthorStore{c: c}
}

// Books returns the book store view of the catalog.
func (c *Catalog) Books() *BookStore {
	return &BookStore{c: c}
}

// Len returns the number of stored authors and books.
func (c *Catalog) Len() (authors, books int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authors.Len(), c.books.Len()
}

// The helpers below expect the caller to hold the lock.

func (c *Catalog) getAuthor(id uuid.UUID) (domain.Author, bool) {
	item, ok := c.authors.Get(authorItem{id: id})
	a := item.author
	a.DateOfDeath = copyTime(a.DateOfDeath)
	return a, ok
}

func (c *Catalog) putAuthor(a *domain.Author) {
	stored := *a
	stored.Books = nil
	stored.DateOfDeath = copyTime(a.DateOfDeath)
	c.authors.ReplaceOrInsert(authorItem{id: a.ID, author: stored})
}

func (c *Catalog) putBook(b *domain.Book) {
	c.books.ReplaceOrInsert(bookItem{authorID: b.AuthorID, id: b.ID, book: *b})
}

func (c *Catalog) hasBook(id uuid.UUID) bool {
	found := false
	c.books.Ascend(func(item bookItem) bool {
		if item.id == id {
			found = true
			return false
		}
		return true
	})
	return found
}

// booksOf returns the books of authorID in ID order.
func (c *Catalog) booksOf(authorID uuid.UUID) []domain.Book {
	var out []domain.Book
	c.books.AscendGreaterOrEqual(bookItem{authorID: authorID}, func(item bookItem) bool {
		if item.authorID != authorID {
			return false
		}
		out = append(out, item.book)
		return true
	})
	return out
}

func (c *Catalog) deleteBooksOf(authorID uuid.UUID) int {
	books := c.booksOf(authorID)
	for _, b := range books {
		c.books.Delete(bookItem{authorID: authorID, id: b.ID})
	}
	return len(books)
}

// copyTime detaches an optional timestamp from the caller's value.
func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
