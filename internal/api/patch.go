package api

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/service"
)

// ErrPatchTestFailed is the cause of a rejected "test" operation.
var ErrPatchTestFailed = fmt.Errorf("%w: patch test failed", domain.ErrValidation)

// bookPatchFields resolves JSON Pointer paths to the patchable book fields.
var bookPatchFields = map[string]func(*service.BookUpdate) *string{
	"/title":       func(b *service.BookUpdate) *string { return &b.Title },
	"/description": func(b *service.BookUpdate) *string { return &b.Description },
}

// bookPatch returns a function applying ops, in order, to a book. Operations
// are checked up front so a malformed document leaves the book untouched.
// "remove" clears a field; "test" compares it with the given value.
func bookPatch(ops []PatchOperation) (func(*service.BookUpdate) error, error) {
	var errs *multierror.Error
	for i, op := range ops {
		field := "operations[" + strconv.Itoa(i) + "]"
		if _, ok := bookPatchFields[op.Path]; !ok {
			errs = multierror.Append(errs, domain.NewValidationError(field+".path",
				fmt.Sprintf("%q is not a patchable field", op.Path), domain.ErrValidation))
		}
		switch op.Op {
		case "copy", "move":
			if _, ok := bookPatchFields[op.From]; !ok {
				errs = multierror.Append(errs, domain.NewValidationError(field+".from",
					fmt.Sprintf("%q is not a patchable field", op.From), domain.ErrValidation))
			}
		case "add", "replace", "test":
			if _, ok := op.Value.(string); !ok && op.Value != nil {
				errs = multierror.Append(errs, domain.NewValidationError(field+".value",
					"must be a string", domain.ErrValidation))
			}
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	return func(book *service.BookUpdate) error {
		for i, op := range ops {
			target := bookPatchFields[op.Path](book)
			value, _ := op.Value.(string)

			switch op.Op {
			case "add", "replace":
				*target = value
			case "remove":
				*target = ""
			case "copy":
				*target = *bookPatchFields[op.From](book)
			case "move":
				source := bookPatchFields[op.From](book)
				moved := *source
				*source = ""
				*target = moved
			case "test":
				if *target != value {
					return domain.NewValidationError("operations["+strconv.Itoa(i)+"]",
						fmt.Sprintf("value at %s does not match", op.Path), ErrPatchTestFailed)
				}
			}
		}
		return nil
	}, nil
}
