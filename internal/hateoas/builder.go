package hateoas

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// PageRef selects which page of a collection a URI points at.
type PageRef int

const (
	CurrentPage PageRef = iota
	NextPage
	PreviousPage
)

// CollectionParams are the query parameters that define a page of authors.
// They are echoed verbatim into every page link; only PageNumber changes.
type CollectionParams struct {
	Fields      string
	OrderBy     string
	SearchQuery string
	Genre       string
	PageNumber  int
	PageSize    int
}

// Builder creates the link sets of every resource.
type Builder struct {
	urls URLBuilder
}

// NewBuilder creates a Builder on top of urls.
func NewBuilder(urls URLBuilder) *Builder {
	return &Builder{urls: urls}
}

// AuthorsPageURL is the single routine for author collection page URIs. It
// backs both the hypermedia page links and the previous/next links of the
// X-Pagination header.
func (b *Builder) AuthorsPageURL(p CollectionParams, ref PageRef) string {
	page := p.PageNumber
	switch ref {
	case NextPage:
		page++
	case PreviousPage:
		page--
	}

	return b.urls.URL(RouteAuthors, url.Values{
		"fields":      {p.Fields},
		"orderBy":     {p.OrderBy},
		"searchQuery": {p.SearchQuery},
		"genre":       {p.Genre},
		"pageNumber":  {strconv.Itoa(page)},
		"pageSize":    {strconv.Itoa(p.PageSize)},
	})
}

// ForAuthor returns the links of a single author. The self link carries fields
// only when the caller supplied a selection.
func (b *Builder) ForAuthor(id uuid.UUID, fields string) []Link {
	self := url.Values{"id": {id.String()}}
	if strings.TrimSpace(fields) != "" {
		self.Set("fields", fields)
	}

	return []Link{
		NewLink(b.urls.URL(RouteAuthor, self), "self", http.MethodGet),
		NewLink(b.urls.URL(RouteDeleteAuthor, url.Values{"id": {id.String()}}), "delete_author", http.MethodDelete),
		NewLink(b.urls.URL(RouteCreateBookForAuthor, url.Values{"authorId": {id.String()}}), "create_book_for_author", http.MethodPost),
	}
}

// ForAuthors returns the collection-level links of an author page.
func (b *Builder) ForAuthors(p CollectionParams, hasNext, hasPrevious bool) []Link {
	links := []Link{NewLink(b.AuthorsPageURL(p, CurrentPage), "self", http.MethodGet)}
	if hasNext {
		links = append(links, NewLink(b.AuthorsPageURL(p, NextPage), "nextPage", http.MethodGet))
	}
	if hasPrevious {
		links = append(links, NewLink(b.AuthorsPageURL(p, PreviousPage), "previousPage", http.MethodGet))
	}
	return links
}

// ForBook returns the links of a single book.
func (b *Builder) ForBook(authorID, bookID uuid.UUID) []Link {
	params := url.Values{"authorId": {authorID.String()}, "id": {bookID.String()}}
	return []Link{
		NewLink(b.urls.URL(RouteBookForAuthor, params), "self", http.MethodGet),
		NewLink(b.urls.URL(RouteDeleteBookForAuthor, params), "delete_book", http.MethodDelete),
		NewLink(b.urls.URL(RouteUpdateBookForAuthor, params), "update_book", http.MethodPut),
		NewLink(b.urls.URL(RoutePartiallyUpdateBookForAuthor, params), "partially_update_book", "PATCH"),
	}
}

// ForBooks returns the collection-level links of an author's books.
func (b *Builder) ForBooks(authorID uuid.UUID) []Link {
	return []Link{
		NewLink(b.urls.URL(RouteBooksForAuthor, url.Values{"authorId": {authorID.String()}}), "self", http.MethodGet),
	}
}

// ForRoot returns the entry points of the API.
func (b *Builder) ForRoot() []Link {
	return []Link{
		NewLink(b.urls.URL(RouteRoot, nil), "self", http.MethodGet),
		NewLink(b.urls.URL(RouteAuthors, nil), "authors", http.MethodGet),
		NewLink(b.urls.URL(RouteCreateAuthor, nil), "create_author", http.MethodPost),
	}
}

// AuthorCollectionURL returns the location of a set of authors.
func (b *Builder) AuthorCollectionURL(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return b.urls.URL(RouteAuthorCollection, url.Values{"ids": {strings.Join(parts, ",")}})
}

// AuthorURL returns the location of a single author.
func (b *Builder) AuthorURL(id uuid.UUID) string {
	return b.urls.URL(RouteAuthor, url.Values{"id": {id.String()}})
}

// BookURL returns the location of a single book.
func (b *Builder) BookURL(authorID, bookID uuid.UUID) string {
	return b.urls.URL(RouteBookForAuthor, url.Values{"authorId": {authorID.String()}, "id": {bookID.String()}})
}
