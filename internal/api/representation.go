package api

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/phrazzld/library-api/internal/api/shared"
	"github.com/phrazzld/library-api/internal/hateoas"
	"github.com/phrazzld/library-api/internal/projection"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// linksKey is the name under which a shaped record carries its links.
const linksKey = "links"

// LinkedCollection wraps a collection together with its own links.
type LinkedCollection struct {
	Value []projection.Record `json:"value"`
	Links []hateoas.Link      `json:"links"`
}

// paginationMetadata is the X-Pagination header of a hypermedia response.
type paginationMetadata struct {
	TotalCount  int `json:"totalCount"`
	PageSize    int `json:"pageSize"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// plainPaginationMetadata is the X-Pagination header of a plain response,
// which carries the neighbouring page links instead of a links array.
type plainPaginationMetadata struct {
	paginationMetadata
	PreviousPageLink *string `json:"previousPageLink"`
	NextPageLink     *string `json:"nextPageLink"`
}

func newPaginationMetadata[T any](page projection.Page[T]) paginationMetadata {
	return paginationMetadata{
		TotalCount:  page.TotalCount,
		PageSize:    page.PageSize,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
	}
}

// setPaginationHeader writes meta as the X-Pagination header.
func setPaginationHeader(w http.ResponseWriter, meta interface{}) error {
	encoded, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	w.Header().Set("X-Pagination", string(encoded))
	return nil
}

// respond writes data in the negotiated representation.
func respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if wantsHypermedia(r) {
		shared.RespondWithContentType(w, r, status, hateoas.MediaTypeHateoas, data)
		return
	}
	shared.RespondWithJSON(w, r, status, data)
}

// withLinks attaches links to rec when the client asked for hypermedia.
func withLinks(r *http.Request, rec projection.Record, links func() []hateoas.Link) projection.Record {
	if !wantsHypermedia(r) {
		return rec
	}
	return rec.With(linksKey, links())
}
