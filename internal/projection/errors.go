package projection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrUnregisteredMapping is returned when no mapping exists for a resource pair.
	// It indicates a bootstrap configuration bug rather than a bad request.
	ErrUnregisteredMapping = errors.New("property mapping not registered")

	// ErrInvalidSort is returned when an orderBy expression references an unknown
	// field or is malformed.
	ErrInvalidSort = errors.New("invalid sort")

	// ErrInvalidField is returned when a fields expression names a field that does
	// not exist on the target shape.
	ErrInvalidField = errors.New("invalid field")
)

// SortError describes a single rejected orderBy clause.
type SortError struct {
	Resource string // mapping pair the clause was resolved against
	Clause   string // the clause as supplied by the caller
	Field    string // logical field name extracted from the clause
	Reason   string
}

// Error implements the error interface.
func (e *SortError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("sort clause %q: %s", e.Clause, e.Reason)
	}
	return fmt.Sprintf("sort clause %q on %s: %s", e.Clause, e.Resource, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidSort).
func (e *SortError) Unwrap() error {
	return ErrInvalidSort
}

// FieldError describes a single requested field that could not be resolved.
type FieldError struct {
	Resource string
	Field    string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q does not exist on %s", e.Field, e.Resource)
}

// Unwrap allows errors.Is(err, ErrInvalidField).
func (e *FieldError) Unwrap() error {
	return ErrInvalidField
}

// Combine merges validation failures into a single error that names every
// violation. It returns nil when no error is given.
func Combine(errs ...error) error {
	var result *multierror.Error
	for _, err := range errs {
		if err == nil {
			continue
		}
		result = multierror.Append(result, err)
	}
	if result == nil {
		return nil
	}
	result.ErrorFormat = joinFormat
	return result.ErrorOrNil()
}

// Unfold returns the individual violations carried by err. An error that is
// not an aggregate is returned as a single-element slice.
func Unfold(err error) []error {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return append([]error(nil), merr.Errors...)
	}
	return []error{err}
}

// Violations flattens an error produced by this package into one message per
// violation, suitable for a client-facing error body.
func Violations(err error) []string {
	errs := Unfold(err)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}

func joinFormat(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
