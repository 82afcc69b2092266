package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/projection"
	"github.com/phrazzld/library-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func birth(year int) time.Time {
	return time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
}

func mustAuthor(t *testing.T, first, last, genre string, year int, books ...domain.Book) *domain.Author {
	t.Helper()
	a, err := domain.NewAuthor(first, last, genre, birth(year), nil, books)
	require.NoError(t, err)
	return a
}

// seedCatalog stores five authors and returns them by last name.
func seedCatalog(t *testing.T) (*Catalog, map[string]*domain.Author) {
	t.Helper()
	c := New(nil)
	authors := map[string]*domain.Author{
		"King":   mustAuthor(t, "Stephen", "King", "Horror", 1947, domain.Book{Title: "It"}, domain.Book{Title: "Carrie"}),
		"Martin": mustAuthor(t, "George", "Martin", "Fantasy", 1948),
		"Gaiman": mustAuthor(t, "Neil", "Gaiman", "Fantasy", 1960, domain.Book{Title: "Stardust"}),
		"Adams":  mustAuthor(t, "Douglas", "Adams", "Science fiction", 1952),
		"Lanoye": mustAuthor(t, "Tom", "Lanoye", "Various", 1958),
	}
	for _, a := range authors {
		require.NoError(t, c.Authors().Create(context.Background(), a))
	}
	return c, authors
}

func names(authors []*domain.Author) []string {
	out := make([]string, len(authors))
	for i, a := range authors {
		out[i] = a.Name()
	}
	return out
}

func TestAuthorStoreCreateAndGet(t *testing.T) {
	c, authors := seedCatalog(t)
	ctx := context.Background()

	got, err := c.Authors().GetByID(ctx, authors["King"].ID)
	require.NoError(t, err)
	assert.Equal(t, "Stephen King", got.Name())
	assert.Empty(t, got.Books, "authors are returned without books")

	_, err = c.Authors().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrAuthorNotFound)

	authorCount, bookCount := c.Len()
	assert.Equal(t, 5, authorCount)
	assert.Equal(t, 3, bookCount)
}

func TestAuthorStoreCreateRejectsDuplicatesAndInvalid(t *testing.T) {
	c, authors := seedCatalog(t)
	ctx := context.Background()

	err := c.Authors().Create(ctx, authors["King"])
	assert.ErrorIs(t, err, store.ErrAuthorExists)

	invalid := &domain.Author{ID: uuid.New()}
	err = c.Authors().Create(ctx, invalid)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthorStoreCreateMultipleIsAtomic(t *testing.T) {
	c, authors := seedCatalog(t)
	ctx := context.Background()

	fresh := mustAuthor(t, "Terry", "Pratchett", "Fantasy", 1948)
	err := c.Authors().CreateMultiple(ctx, []*domain.Author{fresh, authors["Adams"]})
	assert.ErrorIs(t, err, store.ErrAuthorExists)

	exists, err := c.Authors().Exists(ctx, fresh.ID)
	require.NoError(t, err)
	assert.False(t, exists, "no author is stored when one conflicts")

	other := mustAuthor(t, "Ursula", "Le Guin", "Fantasy", 1929)
	require.NoError(t, c.Authors().CreateMultiple(ctx, []*domain.Author{fresh, other}))

	got, err := c.Authors().GetByIDs(ctx, []uuid.UUID{other.ID, fresh.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, []string{"Terry Pratchett", "Ursula Le Guin"}, names(got))
}

func TestAuthorStoreDeleteCascades(t *testing.T) {
	c, authors := seedCatalog(t)
	ctx := context.Background()
	king := authors["King"]

	require.NoError(t, c.Authors().Delete(ctx, king.ID))

	exists, err := c.Authors().Exists(ctx, king.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	books, err := c.Books().ListByAuthor(ctx, king.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, books)

	assert.ErrorIs(t, c.Authors().Delete(ctx, king.ID), store.ErrAuthorNotFound)
}

func TestAuthorStoreList(t *testing.T) {
	c, _ := seedCatalog(t)
	ctx := context.Background()
	byName := projection.SortClause{
		{Attribute: "FirstName", Ascending: true},
		{Attribute: "LastName", Ascending: true},
	}

	tests := []struct {
		name      string
		query     store.AuthorQuery
		wantNames []string
		wantTotal int
		wantPages int
	}{
		{
			name:      "all by name",
			query:     store.AuthorQuery{Sort: byName, PageNumber: 1, PageSize: 10},
			wantNames: []string{"Douglas Adams", "George Martin", "Neil Gaiman", "Stephen King", "Tom Lanoye"},
			wantTotal: 5,
			wantPages: 1,
		},
		{
			name:      "second page",
			query:     store.AuthorQuery{Sort: byName, PageNumber: 2, PageSize: 2},
			wantNames: []string{"Neil Gaiman", "Stephen King"},
			wantTotal: 5,
			wantPages: 3,
		},
		{
			name:      "genre filter is trimmed and case insensitive",
			query:     store.AuthorQuery{Genre: "  fantasy ", Sort: byName, PageNumber: 1, PageSize: 10},
			wantNames: []string{"George Martin", "Neil Gaiman"},
			wantTotal: 2,
			wantPages: 1,
		},
		{
			name:      "search across names and genre",
			query:     store.AuthorQuery{SearchQuery: "AN", Sort: byName, PageNumber: 1, PageSize: 10},
			wantNames: []string{"George Martin", "Neil Gaiman", "Tom Lanoye"},
			wantTotal: 3,
			wantPages: 1,
		},
		{
			name: "youngest first",
			query: store.AuthorQuery{
				Sort:       projection.SortClause{{Attribute: "DateOfBirth", Ascending: false}},
				PageNumber: 1,
				PageSize:   3,
			},
			wantNames: []string{"Neil Gaiman", "Tom Lanoye", "Douglas Adams"},
			wantTotal: 5,
			wantPages: 2,
		},
		{
			name:      "page past the end",
			query:     store.AuthorQuery{Sort: byName, PageNumber: 9, PageSize: 10},
			wantNames: []string{},
			wantTotal: 5,
			wantPages: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, err := c.Authors().List(ctx, tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.wantNames, names(page.Items))
			assert.Equal(t, tc.wantTotal, page.TotalCount)
			assert.Equal(t, tc.wantPages, page.TotalPages)
		})
	}
}

func TestAuthorStoreListUnknownAttribute(t *testing.T) {
	c, _ := seedCatalog(t)

	_, err := c.Authors().List(context.Background(), store.AuthorQuery{
		Sort:       projection.SortClause{{Attribute: "Shoe size", Ascending: true}},
		PageNumber: 1,
		PageSize:   10,
	})
	assert.ErrorIs(t, err, store.ErrInvalidQuery)
}

func TestAuthorStoreReturnsCopies(t *testing.T) {
	c := New(nil)
	ctx := context.Background()
	death := time.Date(2001, time.May, 11, 0, 0, 0, 0, time.UTC)
	a, err := domain.NewAuthor("Douglas", "Adams", "Science fiction", birth(1952), &death, nil)
	require.NoError(t, err)
	require.NoError(t, c.Authors().Create(ctx, a))

	*a.DateOfDeath = time.Time{}
	a.Genre = "changed"

	got, err := c.Authors().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Science fiction", got.Genre)
	assert.Equal(t, 2001, got.DateOfDeath.Year())
}

func TestCatalogConcurrentAccess(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			a, err := domain.NewAuthor("First", "Last", "Genre", birth(1950), nil, []domain.Book{{Title: "Book"}})
			if err == nil {
				_ = c.Authors().Create(ctx, a)
			}
		}()
		go func() {
			defer wg.Done()
			_, _ = c.Authors().List(ctx, store.AuthorQuery{PageNumber: 1, PageSize: 5})
		}()
	}
	wg.Wait()

	authors, books := c.Len()
	assert.Equal(t, 20, authors)
	assert.Equal(t, 20, books)
}
