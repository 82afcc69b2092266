package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/hateoas"
)

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// parseIDList parses a comma-separated list of UUIDs, optionally wrapped in
// parentheses as in "(id1,id2)". Empty items are skipped.
func parseIDList(raw string) ([]uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "(")
	raw = strings.TrimSuffix(raw, ")")

	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, domain.NewValidationError("ids", "has invalid format", domain.ErrInvalidID)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// queryInt reads a positive integer query parameter. Missing, malformed and
// non-positive values yield def.
func queryInt(r *http.Request, name string, def int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || value < 1 {
		return def
	}
	return value
}

// linkBuilder returns a hypermedia builder rooted at the address the request
// was sent to.
func linkBuilder(r *http.Request) *hateoas.Builder {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	base := hateoas.BaseURL(scheme, r.Host, r.Header.Get("X-Forwarded-Proto"), r.Header.Get("X-Forwarded-Host"))
	return hateoas.NewBuilder(hateoas.NewRoutes(base))
}

// wantsHypermedia reports whether the client negotiated the hypermedia representation.
func wantsHypermedia(r *http.Request) bool {
	return hateoas.WantsHypermedia(r.Header.Get("Accept"))
}
