package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/phrazzld/library-api/internal/api/shared"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/service"
)

// AuthorCollectionHandler handles requests on sets of authors.
type AuthorCollectionHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewAuthorCollectionHandler creates a new AuthorCollectionHandler
func NewAuthorCollectionHandler(catalog service.CatalogService, logger *slog.Logger) *AuthorCollectionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthorCollectionHandler")
	}

	return &AuthorCollectionHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "author_collection_handler")),
	}
}

// CreateAuthorCollection handles POST /api/authorcollections. Every author is
// validated before any is stored, and either all or none are created.
func (h *AuthorCollectionHandler) CreateAuthorCollection(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var reqs []CreateAuthorRequest
	if err := shared.DecodeJSON(r, &reqs); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if reqs == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	inputs := make([]service.AuthorInput, len(reqs))
	var errs *multierror.Error
	for i := range reqs {
		if err := shared.ValidateRequest(&reqs[i]); err != nil {
			errs = multierror.Append(errs, indexRequestErrors(i, err))
			continue
		}
		inputs[i] = reqs[i].toInput()
	}
	if err := errs.ErrorOrNil(); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	authors, err := h.catalog.CreateAuthorCollection(r.Context(), inputs)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	ids := make([]uuid.UUID, len(authors))
	body := make([]AuthorResponse, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
		body[i] = authorResponse(a)
	}

	log.Info("author collection created", slog.Int("count", len(authors)))
	w.Header().Set("Location", linkBuilder(r).AuthorCollectionURL(ids))
	shared.RespondWithJSON(w, r, http.StatusCreated, body)
}

// GetAuthorCollection handles GET /api/authorcollections/({ids}).
func (h *AuthorCollectionHandler) GetAuthorCollection(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(chi.URLParam(r, "ids"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	authors, err := h.catalog.GetAuthorCollection(r.Context(), ids)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	body := make([]AuthorResponse, len(authors))
	for i, a := range authors {
		body[i] = authorResponse(a)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, body)
}

// indexRequestErrors turns the validator failures of the i-th element of a
// request collection into validation errors named "[i].field".
func indexRequestErrors(i int, err error) error {
	failures, ok := shared.ValidationFailures(err)
	if !ok {
		return err
	}

	var out *multierror.Error
	for _, f := range failures {
		out = multierror.Append(out, domain.NewValidationError(f.Field, f.Message, domain.ErrValidation))
	}
	return domain.IndexErrors("", i, out.ErrorOrNil())
}
