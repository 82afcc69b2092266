package hateoas

import (
	"fmt"
	"net/url"
	"strings"
)

// Route names understood by Routes.
const (
	RouteRoot                         = "GetRoot"
	RouteAuthors                      = "GetAuthors"
	RouteAuthor                       = "GetAuthor"
	RouteCreateAuthor                 = "CreateAuthor"
	RouteDeleteAuthor                 = "DeleteAuthor"
	RouteAuthorCollection             = "GetAuthorCollection"
	RouteBooksForAuthor               = "GetBooksForAuthor"
	RouteBookForAuthor                = "GetBookForAuthor"
	RouteCreateBookForAuthor          = "CreateBookForAuthor"
	RouteDeleteBookForAuthor          = "DeleteBookForAuthor"
	RouteUpdateBookForAuthor          = "UpdateBookForAuthor"
	RoutePartiallyUpdateBookForAuthor = "PartiallyUpdateBookForAuthor"
)

// routeTemplates maps route names to chi-style path templates. Several
// names share a template and differ only by HTTP method.
var routeTemplates = map[string]string{
	RouteRoot:                         "/api",
	RouteAuthors:                      "/api/authors",
	RouteAuthor:                       "/api/authors/{id}",
	RouteCreateAuthor:                 "/api/authors",
	RouteDeleteAuthor:                 "/api/authors/{id}",
	RouteAuthorCollection:             "/api/authorcollections/({ids})",
	RouteBooksForAuthor:               "/api/authors/{authorId}/books",
	RouteCreateBookForAuthor:          "/api/authors/{authorId}/books",
	RouteBookForAuthor:                "/api/authors/{authorId}/books/{id}",
	RouteDeleteBookForAuthor:          "/api/authors/{authorId}/books/{id}",
	RouteUpdateBookForAuthor:          "/api/authors/{authorId}/books/{id}",
	RoutePartiallyUpdateBookForAuthor: "/api/authors/{authorId}/books/{id}",
}

// URLBuilder turns a named route and its parameters into an absolute URL.
type URLBuilder interface {
	URL(route string, params url.Values) string
}

// Routes is the default URLBuilder. Path placeholders are filled from params;
// whatever params remain are appended as the query string. Empty values are
// dropped.
type Routes struct {
	base string
}

// NewRoutes creates a route table rooted at base, e.g. "https://example.com".
// A trailing slash on base is ignored.
func NewRoutes(base string) *Routes {
	return &Routes{base: strings.TrimRight(base, "/")}
}

var _ URLBuilder = (*Routes)(nil)

// URL implements URLBuilder.
func (r *Routes) URL(route string, params url.Values) string {
	tmpl, ok := routeTemplates[route]
	if !ok {
		// ALLOW-PANIC: route names are compile-time constants
		panic(fmt.Sprintf("hateoas: unknown route %q", route))
	}

	query := url.Values{}
	for key, values := range params {
		if len(values) == 0 || values[0] == "" {
			continue
		}
		query[key] = values
	}

	path := tmpl
	for key := range query {
		placeholder := "{" + key + "}"
		if strings.Contains(path, placeholder) {
			// commas separate ids in collection routes and stay literal
			value := strings.ReplaceAll(url.PathEscape(query.Get(key)), "%2C", ",")
			path = strings.ReplaceAll(path, placeholder, value)
			query.Del(key)
		}
	}

	u := r.base + path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// BaseURL derives the scheme and host a request was addressed to. Forwarded
// headers set by a reverse proxy take precedence.
func BaseURL(scheme, host, forwardedProto, forwardedHost string) string {
	if forwardedProto != "" {
		scheme = forwardedProto
	}
	if forwardedHost != "" {
		host = forwardedHost
	}
	if scheme == "" {
		scheme = "http"
	}
	return scheme + "://" + host
}
