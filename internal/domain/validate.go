package domain

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
)

// checker accumulates validation errors for one entity.
type checker struct {
	errs *multierror.Error
}

func (c *checker) add(field, message string, cause error) {
	c.errs = multierror.Append(c.errs, NewValidationError(field, message, cause))
}

func (c *checker) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.add(field, "is required", ErrEmptyContent)
		return false
	}
	return true
}

func (c *checker) maxLen(field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		c.add(field, "cannot have more than "+strconv.Itoa(limit)+" characters", ErrTooLong)
	}
}

func (c *checker) err() error {
	return c.errs.ErrorOrNil()
}

// flatten returns the individual errors of a multierror, or err itself.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.Errors
	}
	return []error{err}
}

// IndexErrors prefixes the field of every validation error in err with the
// position of its entity in a collection, e.g. "books[1].title". Errors that
// are not ValidationErrors are kept as they are.
func IndexErrors(collection string, index int, err error) error {
	var out *multierror.Error
	for _, e := range flatten(err) {
		out = appendIndexed(out, collection, index, e)
	}
	return out.ErrorOrNil()
}
