package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/api/shared"
	"github.com/phrazzld/library-api/internal/hateoas"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/projection"
	"github.com/phrazzld/library-api/internal/service"
)

// DefaultBookOrder is the orderBy expression applied to book lists when none
// is given.
const DefaultBookOrder = "Title"

// BookHandler handles requests on the books of an author.
type BookHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(catalog service.CatalogService, logger *slog.Logger) *BookHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for BookHandler")
	}

	return &BookHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "book_handler")),
	}
}

// bookIDs reads the author and book IDs of a book route, writing the error
// response when either is malformed.
func bookIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	authorID, err := getPathUUID(r, "authorId")
	if err != nil {
		HandleAPIError(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}
	bookID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}
	return authorID, bookID, true
}

// ListBooks handles GET /api/authors/{authorId}/books.
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	authorID, err := getPathUUID(r, "authorId")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	orderBy := r.URL.Query().Get("orderBy")
	if strings.TrimSpace(orderBy) == "" {
		orderBy = DefaultBookOrder
	}

	list, err := h.catalog.ListBooks(r.Context(), authorID, orderBy, r.URL.Query().Get("fields"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	records := list.Fields.ApplyAll(list.Books)
	if !wantsHypermedia(r) {
		shared.RespondWithJSON(w, r, http.StatusOK, records)
		return
	}

	links := linkBuilder(r)
	for i, book := range list.Books {
		records[i] = records[i].With(linksKey, links.ForBook(authorID, book.ID))
	}
	respond(w, r, http.StatusOK, LinkedCollection{Value: records, Links: links.ForBooks(authorID)})
}

// GetBook handles GET /api/authors/{authorId}/books/{id}.
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	authorID, bookID, ok := bookIDs(w, r)
	if !ok {
		return
	}

	book, sel, err := h.catalog.GetBook(r.Context(), authorID, bookID, r.URL.Query().Get("fields"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, h.bookRecord(r, sel.Apply(book), book))
}

// CreateBook handles POST /api/authors/{authorId}/books. The body is
// validated before the author is looked up.
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	authorID, err := getPathUUID(r, "authorId")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req CreateBookRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	book, err := h.catalog.CreateBook(r.Context(), authorID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("book created", slog.String("book_id", book.ID.String()))
	h.respondCreated(w, r, book)
}

// UpdateBook handles PUT /api/authors/{authorId}/books/{id}. A missing book
// is created under the given ID.
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	authorID, bookID, ok := bookIDs(w, r)
	if !ok {
		return
	}

	var req UpdateBookRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	book, created, err := h.catalog.UpsertBook(r.Context(), authorID, bookID, req.toUpdate())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if created {
		h.respondCreated(w, r, book)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PatchBook handles PATCH /api/authors/{authorId}/books/{id} with a JSON
// Patch document. A missing book is patched from empty content and created.
func (h *BookHandler) PatchBook(w http.ResponseWriter, r *http.Request) {
	authorID, bookID, ok := bookIDs(w, r)
	if !ok {
		return
	}

	var ops []PatchOperation
	if err := shared.DecodeJSON(r, &ops); err != nil || ops == nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid patch document", err)
		return
	}
	for i := range ops {
		if err := shared.ValidateRequest(&ops[i]); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid patch document", err)
			return
		}
	}

	patch, err := bookPatch(ops)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	book, created, err := h.catalog.PatchBook(r.Context(), authorID, bookID, patch)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if created {
		h.respondCreated(w, r, book)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteBook handles DELETE /api/authors/{authorId}/books/{id}.
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	authorID, bookID, ok := bookIDs(w, r)
	if !ok {
		return
	}

	if err := h.catalog.DeleteBook(r.Context(), authorID, bookID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("book deleted",
		slog.String("book_id", bookID.String()),
		slog.String("author_id", authorID.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookHandler) respondCreated(w http.ResponseWriter, r *http.Request, book service.BookView) {
	w.Header().Set("Location", linkBuilder(r).BookURL(book.AuthorID, book.ID))
	respond(w, r, http.StatusCreated, h.bookRecord(r, service.BookShape.All().Apply(book), book))
}

func (h *BookHandler) bookRecord(r *http.Request, rec projection.Record, book service.BookView) projection.Record {
	return withLinks(r, rec, func() []hateoas.Link {
		return linkBuilder(r).ForBook(book.AuthorID, book.ID)
	})
}
