package api

import (
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/phrazzld/library-api/internal/api/shared"
	"github.com/phrazzld/library-api/internal/config"
	"github.com/phrazzld/library-api/internal/hateoas"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/service"
)

// DefaultAuthorOrder is the orderBy expression applied when none is given.
const DefaultAuthorOrder = "Name"

// AuthorHandler handles author-related HTTP requests
type AuthorHandler struct {
	catalog service.CatalogService
	paging  config.PagingConfig
	logger  *slog.Logger
}

// NewAuthorHandler creates a new AuthorHandler
func NewAuthorHandler(catalog service.CatalogService, paging config.PagingConfig, logger *slog.Logger) *AuthorHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthorHandler")
	}
	if catalog == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("catalog service cannot be nil for AuthorHandler")
	}

	return &AuthorHandler{
		catalog: catalog,
		paging:  paging,
		logger:  logger.With(slog.String("component", "author_handler")),
	}
}

// collectionParams reads the author collection query. Page numbers start at
// 1 and page sizes are capped at the configured maximum.
func (h *AuthorHandler) collectionParams(r *http.Request) hateoas.CollectionParams {
	query := r.URL.Query()

	orderBy := query.Get("orderBy")
	if strings.TrimSpace(orderBy) == "" {
		orderBy = DefaultAuthorOrder
	}

	return hateoas.CollectionParams{
		Fields:      query.Get("fields"),
		OrderBy:     orderBy,
		SearchQuery: query.Get("searchQuery"),
		Genre:       query.Get("genre"),
		PageNumber:  queryInt(r, "pageNumber", 1),
		PageSize:    min(queryInt(r, "pageSize", h.paging.DefaultPageSize), h.paging.MaxPageSize),
	}
}

// ListAuthors handles GET and HEAD /api/authors.
func (h *AuthorHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	params := h.collectionParams(r)

	list, err := h.catalog.ListAuthors(r.Context(), service.AuthorListQuery{
		Fields:      params.Fields,
		OrderBy:     params.OrderBy,
		Genre:       params.Genre,
		SearchQuery: params.SearchQuery,
		PageNumber:  params.PageNumber,
		PageSize:    params.PageSize,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	page := list.Page
	links := linkBuilder(r)
	records := list.Fields.ApplyAll(page.Items)
	log.Debug("listed authors",
		slog.Int("count", len(records)),
		slog.Int("total", page.TotalCount))

	if !wantsHypermedia(r) {
		meta := plainPaginationMetadata{paginationMetadata: newPaginationMetadata(page)}
		if page.HasPrevious() {
			prev := links.AuthorsPageURL(params, hateoas.PreviousPage)
			meta.PreviousPageLink = &prev
		}
		if page.HasNext() {
			next := links.AuthorsPageURL(params, hateoas.NextPage)
			meta.NextPageLink = &next
		}
		if err := setPaginationHeader(w, meta); err != nil {
			HandleAPIError(w, r, err)
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, records)
		return
	}

	if err := setPaginationHeader(w, newPaginationMetadata(page)); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	for i, author := range page.Items {
		records[i] = records[i].With(linksKey, links.ForAuthor(author.ID, params.Fields))
	}
	respond(w, r, http.StatusOK, LinkedCollection{
		Value: records,
		Links: links.ForAuthors(params, page.HasNext(), page.HasPrevious()),
	})
}

// AuthorOptions handles OPTIONS /api/authors.
func (h *AuthorHandler) AuthorOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodOptions, http.MethodPost}, ","))
	w.WriteHeader(http.StatusOK)
}

// GetAuthor handles GET /api/authors/{id}.
func (h *AuthorHandler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	fields := r.URL.Query().Get("fields")
	author, sel, err := h.catalog.GetAuthor(r.Context(), id, fields)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	rec := withLinks(r, sel.Apply(author), func() []hateoas.Link {
		return linkBuilder(r).ForAuthor(id, fields)
	})
	respond(w, r, http.StatusOK, rec)
}

// CreateAuthor handles POST /api/authors. The request content type selects
// the body format: an author with optional books, or an author with a date
// of death.
func (h *AuthorHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	var input service.AuthorInput
	switch strings.ToLower(mediaType) {
	case hateoas.MediaTypeJSON, hateoas.MediaTypeAuthorFull:
		var req CreateAuthorRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		input = req.toInput()
	case hateoas.MediaTypeAuthorWithDateOfDeath:
		var req CreateAuthorWithDateOfDeathRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		input = req.toInput()
	default:
		shared.RespondWithError(w, r, http.StatusUnsupportedMediaType, "Unsupported content type")
		return
	}

	author, err := h.catalog.CreateAuthor(r.Context(), input)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("author created", slog.String("author_id", author.ID.String()))

	links := linkBuilder(r)
	w.Header().Set("Location", links.AuthorURL(author.ID))
	rec := withLinks(r, service.AuthorShape.All().Apply(author), func() []hateoas.Link {
		return links.ForAuthor(author.ID, "")
	})
	respond(w, r, http.StatusCreated, rec)
}

// BlockAuthorCreation handles POST /api/authors/{id}. Authors cannot be
// created under a chosen ID: an existing author is a conflict, anything else
// is not found.
func (h *AuthorHandler) BlockAuthorCreation(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	exists, err := h.catalog.AuthorExists(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if exists {
		HandleAPIError(w, r, service.ErrAuthorExists)
		return
	}
	HandleAPIError(w, r, service.ErrAuthorNotFound)
}

// DeleteAuthor handles DELETE /api/authors/{id}.
func (h *AuthorHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.catalog.DeleteAuthor(r.Context(), id); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeAndValidate reads a JSON body into dst and checks its constraints. It
// writes the error response and returns false when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := shared.DecodeJSON(r, dst); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(dst); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}
