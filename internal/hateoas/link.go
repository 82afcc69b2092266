package hateoas

import "strings"

// Media types negotiated by the API.
const (
	// MediaTypeHateoas selects the hypermedia representation of a resource.
	MediaTypeHateoas = "application/vnd.marvin.hateoas+json"

	// MediaTypeAuthorFull is the vendor content type for an author with optional books.
	MediaTypeAuthorFull = "application/vnd.marvin.author.full+json"

	// MediaTypeAuthorWithDateOfDeath is the vendor content type for a deceased author.
	MediaTypeAuthorWithDateOfDeath = "application/vnd.marvin.authorwithdateofdeath.full+json"

	// MediaTypeJSON is the plain representation.
	MediaTypeJSON = "application/json"
)

// Link is a single hypermedia control attached to a resource.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// NewLink creates a Link.
func NewLink(href, rel, method string) Link {
	return Link{Href: href, Rel: rel, Method: method}
}

// WantsHypermedia reports whether an Accept header value asks for the
// hypermedia representation. Parameters such as charset are ignored.
func WantsHypermedia(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, _ := strings.Cut(part, ";")
		if strings.EqualFold(strings.TrimSpace(mediaType), MediaTypeHateoas) {
			return true
		}
	}
	return false
}
