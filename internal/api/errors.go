package api

import (
	"errors"
	"net/http"
	"sort"

	"github.com/phrazzld/library-api/internal/api/shared"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/projection"
	"github.com/phrazzld/library-api/internal/service"
)

// MessageUnexpectedFault is the only message clients see for a server-side failure.
const MessageUnexpectedFault = "An unexpected fault did occur. Please try again later."

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	if _, ok := shared.ValidationFieldErrors(err); ok {
		return http.StatusUnprocessableEntity
	}

	switch {
	// Rejected query expressions
	case errors.Is(err, projection.ErrInvalidSort),
		errors.Is(err, projection.ErrInvalidField),
		errors.Is(err, service.ErrEmptyCollection),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, service.ErrAuthorNotFound),
		errors.Is(err, service.ErrBookNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrAuthorExists),
		errors.Is(err, service.ErrBookExists):
		return http.StatusConflict

	// Content that fails the catalog rules
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MessageUnexpectedFault
	}
	if _, ok := shared.ValidationFieldErrors(err); ok {
		return "Validation failed"
	}

	switch {
	case errors.Is(err, projection.ErrInvalidSort),
		errors.Is(err, projection.ErrInvalidField):
		return "Invalid query"
	case errors.Is(err, service.ErrEmptyCollection):
		return "Author collection cannot be empty"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"
	case errors.Is(err, service.ErrAuthorNotFound):
		return "Author not found"
	case errors.Is(err, service.ErrBookNotFound):
		return "Book not found"
	case errors.Is(err, service.ErrAuthorExists):
		return "Author already exists"
	case errors.Is(err, service.ErrBookExists):
		return "Book already exists"
	case errors.Is(err, domain.ErrValidation):
		return "Validation failed"
	default:
		return MessageUnexpectedFault
	}
}

// HandleAPIError writes the response for err. Query errors carry the list of
// rejected expressions, validation errors carry their messages grouped by
// field. Everything else is reduced to its safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	var opts []shared.ResponseOption
	switch {
	case errors.Is(err, projection.ErrInvalidSort), errors.Is(err, projection.ErrInvalidField):
		opts = append(opts, shared.WithDetails(queryDetails(err)))
	case status == http.StatusUnprocessableEntity:
		fields, ok := shared.ValidationFieldErrors(err)
		if !ok {
			fields = domain.FieldErrors(err)
		}
		opts = append(opts, shared.WithFieldErrors(fields), shared.WithDetails(flattenFieldErrors(fields)))
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// queryDetails lists every sort or field violation carried by err. These
// messages only echo the client's own input.
func queryDetails(err error) []string {
	var details []string
	for _, e := range projection.Unfold(err) {
		var (
			sortErr  *projection.SortError
			fieldErr *projection.FieldError
		)
		switch {
		case errors.As(e, &sortErr), errors.As(e, &fieldErr):
			details = append(details, e.Error())
		}
	}
	return details
}

func flattenFieldErrors(fields map[string][]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		out = append(out, fields[k]...)
	}
	return out
}
