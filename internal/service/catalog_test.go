package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/memstore"
	"github.com/phrazzld/library-api/internal/projection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

var (
	kingID   = uuid.MustParse("25320c5e-f58a-4b1f-b63a-8ee07a840bdf")
	gaimanID = uuid.MustParse("412c3012-d891-4f5e-9613-ff7aa63e6bb3")
)

// newSeededService returns a service over an in-memory catalog holding the
// sample authors.
func newSeededService(t *testing.T) *catalogService {
	t.Helper()
	catalog := memstore.New(nil)
	n, err := Seed(context.Background(), catalog.Authors(), nil)
	require.NoError(t, err)
	require.Equal(t, len(SampleAuthors()), n)

	registry, err := NewMappingRegistry()
	require.NoError(t, err)
	svc, err := NewCatalogService(catalog.Authors(), catalog.Books(), registry, nil)
	require.NoError(t, err)

	impl := svc.(*catalogService)
	impl.now = func() time.Time { return fixedNow }
	return impl
}

func viewNames(views []AuthorView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Name
	}
	return out
}

func TestMappingRegistryCoversRequiredPairs(t *testing.T) {
	registry, err := NewMappingRegistry()
	require.NoError(t, err)

	for _, pair := range RequiredPairs {
		_, err := registry.Lookup(pair)
		assert.NoError(t, err, "pair %s", pair)
	}
	assert.ElementsMatch(t, RequiredPairs, registry.Pairs())
	assert.True(t, registry.IsValidField(AuthorViewToAuthor, "age"))
	assert.False(t, registry.IsValidField(AuthorViewToAuthor, "dateOfBirth"))
}

func TestNewCatalogService(t *testing.T) {
	catalog := memstore.New(nil)
	registry, err := NewMappingRegistry()
	require.NoError(t, err)
	empty, err := projection.NewRegistry()
	require.NoError(t, err)

	_, err = NewCatalogService(nil, catalog.Books(), registry, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewCatalogService(catalog.Authors(), nil, registry, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewCatalogService(catalog.Authors(), catalog.Books(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewCatalogService(catalog.Authors(), catalog.Books(), empty, nil)
	assert.ErrorIs(t, err, projection.ErrUnregisteredMapping)
}

func TestListAuthors(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		query     AuthorListQuery
		wantNames []string
		wantTotal int
		wantKeys  []string
	}{
		{
			name:      "by name",
			query:     AuthorListQuery{OrderBy: "Name", PageNumber: 1, PageSize: 3},
			wantNames: []string{"Douglas Adams", "George RR Martin", "Neil Gaiman"},
			wantTotal: 6,
			wantKeys:  []string{"id", "name", "age", "genre"},
		},
		{
			name:      "youngest first",
			query:     AuthorListQuery{OrderBy: "age", Fields: "Name, AGE", PageNumber: 1, PageSize: 2},
			wantNames: []string{"Neil Gaiman", "Tom Lanoye"},
			wantTotal: 6,
			wantKeys:  []string{"name", "age"},
		},
		{
			name:      "genre then name descending",
			query:     AuthorListQuery{OrderBy: "genre, name desc", Genre: "fantasy", PageNumber: 1, PageSize: 10},
			wantNames: []string{"Terry Pratchett", "Neil Gaiman", "George RR Martin"},
			wantTotal: 3,
			wantKeys:  []string{"id", "name", "age", "genre"},
		},
		{
			name:      "search",
			query:     AuthorListQuery{OrderBy: "Name", SearchQuery: "king", PageNumber: 1, PageSize: 10},
			wantNames: []string{"Stephen King"},
			wantTotal: 1,
			wantKeys:  []string{"id", "name", "age", "genre"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			list, err := svc.ListAuthors(ctx, tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.wantNames, viewNames(list.Page.Items))
			assert.Equal(t, tc.wantTotal, list.Page.TotalCount)
			assert.Equal(t, tc.wantKeys, list.Fields.Names())
		})
	}
}

func TestListAuthorsAgesAtDeath(t *testing.T) {
	svc := newSeededService(t)

	list, err := svc.ListAuthors(context.Background(), AuthorListQuery{
		SearchQuery: "adams", PageNumber: 1, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, list.Page.Items, 1)
	assert.Equal(t, 49, list.Page.Items[0].Age)
}

func TestListAuthorsReportsAllViolations(t *testing.T) {
	svc := newSeededService(t)

	_, err := svc.ListAuthors(context.Background(), AuthorListQuery{
		OrderBy:    "shoeSize, name sideways",
		Fields:     "id, email",
		PageNumber: 1,
		PageSize:   10,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, projection.ErrInvalidSort)
	assert.ErrorIs(t, err, projection.ErrInvalidField)
	assert.Len(t, projection.Violations(err), 3)
}

func TestGetAuthor(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	view, sel, err := svc.GetAuthor(ctx, kingID, "name")
	require.NoError(t, err)
	assert.Equal(t, "Stephen King", view.Name)
	assert.Equal(t, 78, view.Age)
	assert.Equal(t, []string{"name"}, sel.Names())

	_, _, err = svc.GetAuthor(ctx, uuid.New(), "")
	assert.ErrorIs(t, err, ErrAuthorNotFound)

	_, _, err = svc.GetAuthor(ctx, uuid.New(), "nickname")
	assert.ErrorIs(t, err, projection.ErrInvalidField, "fields are checked before the lookup")
}

func TestCreateAndDeleteAuthor(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	view, err := svc.CreateAuthor(ctx, AuthorInput{
		FirstName:   "Ursula",
		LastName:    "Le Guin",
		Genre:       "Fantasy",
		DateOfBirth: time.Date(1929, time.October, 21, 0, 0, 0, 0, time.UTC),
		Books:       []BookInput{{Title: "A Wizard of Earthsea"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ursula Le Guin", view.Name)

	books, err := svc.ListBooks(ctx, view.ID, "", "")
	require.NoError(t, err)
	require.Len(t, books.Books, 1)
	assert.Equal(t, view.ID, books.Books[0].AuthorID)

	require.NoError(t, svc.DeleteAuthor(ctx, view.ID))
	exists, err := svc.AuthorExists(ctx, view.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.ErrorIs(t, svc.DeleteAuthor(ctx, view.ID), ErrAuthorNotFound)

	_, err = svc.CreateAuthor(ctx, AuthorInput{FirstName: "Only"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthorCollections(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()
	born := time.Date(1950, time.June, 1, 0, 0, 0, 0, time.UTC)

	views, err := svc.CreateAuthorCollection(ctx, []AuthorInput{
		{FirstName: "Jane", LastName: "Doe", Genre: "Mystery", DateOfBirth: born},
		{FirstName: "Ann", LastName: "Roe", Genre: "Mystery", DateOfBirth: born},
	})
	require.NoError(t, err)
	require.Len(t, views, 2)

	got, err := svc.GetAuthorCollection(ctx, []uuid.UUID{views[0].ID, views[1].ID, views[0].ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann Roe", "Jane Doe"}, viewNames(got))

	_, err = svc.GetAuthorCollection(ctx, []uuid.UUID{views[0].ID, uuid.New()})
	assert.ErrorIs(t, err, ErrAuthorNotFound)

	_, err = svc.GetAuthorCollection(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyCollection)

	_, err = svc.CreateAuthorCollection(ctx, []AuthorInput{
		{FirstName: "Valid", LastName: "Author", Genre: "Mystery", DateOfBirth: born},
		{LastName: "Nameless", Genre: "Mystery", DateOfBirth: born},
	})
	require.Error(t, err)
	assert.Contains(t, domain.FieldErrors(err), "[1].firstName")

	list, err := svc.ListAuthors(ctx, AuthorListQuery{SearchQuery: "valid", PageNumber: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, list.Page.TotalCount, "no author of a rejected collection is stored")
}

func TestBooks(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	list, err := svc.ListBooks(ctx, kingID, "", "title")
	require.NoError(t, err)
	titles := make([]string, len(list.Books))
	for i, b := range list.Books {
		titles[i] = b.Title
	}
	assert.Equal(t, []string{"It", "Misery", "The Shining"}, titles)
	assert.Equal(t, []string{"title"}, list.Fields.Names())

	_, err = svc.ListBooks(ctx, kingID, "pages", "")
	assert.ErrorIs(t, err, projection.ErrInvalidSort)

	_, err = svc.ListBooks(ctx, uuid.New(), "", "")
	assert.ErrorIs(t, err, ErrAuthorNotFound)

	_, err = svc.CreateBook(ctx, uuid.New(), BookInput{Title: "Same", Description: "Same"})
	assert.ErrorIs(t, err, domain.ErrDescriptionMatchesTitle, "content is validated before the author lookup")

	_, err = svc.CreateBook(ctx, uuid.New(), BookInput{Title: "Orphan"})
	assert.ErrorIs(t, err, ErrAuthorNotFound)

	created, err := svc.CreateBook(ctx, gaimanID, BookInput{Title: "Coraline", Description: "A door to another world"})
	require.NoError(t, err)

	view, _, err := svc.GetBook(ctx, gaimanID, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Coraline", view.Title)

	_, _, err = svc.GetBook(ctx, kingID, created.ID, "")
	assert.ErrorIs(t, err, ErrBookNotFound)

	require.NoError(t, svc.DeleteBook(ctx, gaimanID, created.ID))
	assert.ErrorIs(t, svc.DeleteBook(ctx, gaimanID, created.ID), ErrBookNotFound)
}

func TestUpsertBook(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()
	bookID := uuid.New()

	view, created, err := svc.UpsertBook(ctx, gaimanID, bookID, BookUpdate{Title: "Neverwhere", Description: "London Below"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, bookID, view.ID)

	view, created, err = svc.UpsertBook(ctx, gaimanID, bookID, BookUpdate{Title: "Neverwhere", Description: "A novel"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "A novel", view.Description)

	_, _, err = svc.UpsertBook(ctx, gaimanID, bookID, BookUpdate{Title: "Neverwhere"})
	require.Error(t, err)
	assert.Contains(t, domain.FieldErrors(err), "description")

	_, _, err = svc.UpsertBook(ctx, uuid.New(), bookID, BookUpdate{Title: "A", Description: "B"})
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}

func TestPatchBook(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()
	shining := uuid.MustParse("c7ba6add-09c4-45f8-8dd0-eaca221e5d93")

	view, created, err := svc.PatchBook(ctx, kingID, shining, func(u *BookUpdate) error {
		assert.Equal(t, "The Shining", u.Title)
		u.Title = "The Shining (1977)"
		return nil
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "The Shining (1977)", view.Title)
	assert.NotEmpty(t, view.Description)

	newID := uuid.New()
	view, created, err = svc.PatchBook(ctx, kingID, newID, func(u *BookUpdate) error {
		assert.Empty(t, u.Title)
		u.Title, u.Description = "Carrie", "A telekinetic teenager"
		return nil
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, newID, view.ID)

	patchErr := errors.New("bad patch")
	_, _, err = svc.PatchBook(ctx, kingID, newID, func(u *BookUpdate) error { return patchErr })
	assert.ErrorIs(t, err, patchErr)

	_, _, err = svc.PatchBook(ctx, kingID, newID, func(u *BookUpdate) error {
		u.Description = u.Title
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrDescriptionMatchesTitle)
}

func TestSeedIsIdempotent(t *testing.T) {
	catalog := memstore.New(nil)
	ctx := context.Background()

	n, err := Seed(ctx, catalog.Authors(), nil)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	n, err = Seed(ctx, catalog.Authors(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	authors, books := catalog.Len()
	assert.Equal(t, 6, authors)
	assert.Equal(t, 9, books)
}
