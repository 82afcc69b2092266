package shared

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes bounds the size of a decoded request body.
const MaxBodyBytes = 1 << 20

// Global validator instance for reuse. Field names in its errors are the
// JSON names of the request.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	return json.NewDecoder(body).Decode(v)
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}
	return validate.Struct(v)
}

// FieldFailure is one failed constraint of a request field.
type FieldFailure struct {
	Field   string // JSON path, e.g. "books[0].title"
	Message string
}

// ValidationFailures lists the failures of a validator error. The second
// result is false when err does not come from the validator.
func ValidationFailures(err error) ([]FieldFailure, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := make([]FieldFailure, len(verrs))
	for i, fe := range verrs {
		out[i] = FieldFailure{Field: fieldPath(fe.Namespace()), Message: tagMessage(fe)}
	}
	return out, true
}

// ValidationFieldErrors groups the failures of a validator error by field,
// each message prefixed with the field name.
func ValidationFieldErrors(err error) (map[string][]string, bool) {
	failures, ok := ValidationFailures(err)
	if !ok {
		return nil, false
	}

	out := make(map[string][]string, len(failures))
	for _, f := range failures {
		out[f.Field] = append(out[f.Field], fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return out, true
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "cannot have more than " + fe.Param() + " characters"
	case "gtfield":
		return "must be after " + fe.Param()
	default:
		return "failed on the '" + fe.Tag() + "' rule"
	}
}
