package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/phrazzld/library-api/internal/api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseNames(authors []AuthorResponse) []string {
	out := make([]string, len(authors))
	for i, a := range authors {
		out[i] = a.Name
	}
	return out
}

func TestCreateAuthorCollection(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/authorcollections", `[
		{"firstName":"Ursula","lastName":"Le Guin","dateOfBirth":"1929-10-21T00:00:00Z","genre":"Science fiction",
		 "books":[{"title":"The Dispossessed"}]},
		{"firstName":"Octavia","lastName":"Butler","dateOfBirth":"1947-06-22T00:00:00Z","genre":"Science fiction"}
	]`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody[[]AuthorResponse](t, w)
	require.Len(t, created, 2)
	assert.Equal(t, []string{"Ursula Le Guin", "Octavia Butler"}, responseNames(created))

	location := w.Header().Get("Location")
	assert.Equal(t,
		"http://example.com/api/authorcollections/("+created[0].ID.String()+","+created[1].ID.String()+")",
		location)

	authors, books := api.catalog.Len()
	assert.Equal(t, 8, authors)
	assert.Equal(t, 10, books)

	get := api.do(t, http.MethodGet, strings.TrimPrefix(location, "http://example.com"), "")
	require.Equal(t, http.StatusOK, get.Code, get.Body.String())
	assert.ElementsMatch(t, []string{"Ursula Le Guin", "Octavia Butler"}, responseNames(decodeBody[[]AuthorResponse](t, get)))
}

func TestCreateAuthorCollectionRejectsWholeBatch(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
		wantFields []string
	}{
		{
			name: "invalid member",
			body: `[
				{"firstName":"Ursula","lastName":"Le Guin","dateOfBirth":"1929-10-21T00:00:00Z","genre":"Science fiction"},
				{"lastName":"Butler","dateOfBirth":"1947-06-22T00:00:00Z","genre":"Science fiction","books":[{"title":""}]}
			]`,
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "Validation failed",
			wantFields: []string{"[1].firstName", "[1].books[0].title"},
		},
		{
			name: "domain rule on a nested book",
			body: `[
				{"firstName":"Ursula","lastName":"Le Guin","dateOfBirth":"1929-10-21T00:00:00Z","genre":"SF",
				 "books":[{"title":"Same","description":"Same"}]}
			]`,
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "Validation failed",
			wantFields: []string{"[0].books[0].description"},
		},
		{name: "empty", body: `[]`, wantStatus: http.StatusBadRequest, wantError: "Author collection cannot be empty"},
		{name: "null", body: `null`, wantStatus: http.StatusBadRequest, wantError: "Invalid request format"},
		{name: "object instead of array", body: `{"firstName":"Ursula"}`, wantStatus: http.StatusBadRequest, wantError: "Invalid request format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := newTestAPI(t)

			w := api.do(t, http.MethodPost, "/api/authorcollections", tc.body)

			require.Equal(t, tc.wantStatus, w.Code, w.Body.String())
			body := decodeBody[shared.ErrorResponse](t, w)
			assert.Equal(t, tc.wantError, body.Error)
			for _, field := range tc.wantFields {
				assert.Contains(t, body.Errors, field)
			}

			authors, _ := api.catalog.Len()
			assert.Equal(t, 6, authors)
		})
	}
}

func TestGetAuthorCollection(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name       string
		ids        string
		wantStatus int
		wantNames  []string
	}{
		{name: "two authors", ids: "(" + kingID.String() + "," + gaimanID.String() + ")", wantStatus: http.StatusOK, wantNames: []string{"Stephen King", "Neil Gaiman"}},
		{name: "without parentheses", ids: martinID.String(), wantStatus: http.StatusOK, wantNames: []string{"George RR Martin"}},
		{name: "one unknown", ids: "(" + kingID.String() + "," + missingID.String() + ")", wantStatus: http.StatusNotFound},
		{name: "malformed", ids: "(" + kingID.String() + ",nope)", wantStatus: http.StatusBadRequest},
		{name: "empty", ids: "()", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := api.do(t, http.MethodGet, "/api/authorcollections/"+tc.ids, "")

			require.Equal(t, tc.wantStatus, w.Code, w.Body.String())
			if tc.wantStatus == http.StatusOK {
				assert.ElementsMatch(t, tc.wantNames, responseNames(decodeBody[[]AuthorResponse](t, w)))
			}
		})
	}
}
