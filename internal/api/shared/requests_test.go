package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookRequest struct {
	Title       string `json:"title" validate:"required,max=5"`
	Description string `json:"description"`
}

type authorRequest struct {
	FirstName   string        `json:"firstName" validate:"required"`
	DateOfBirth time.Time     `json:"dateOfBirth" validate:"required"`
	Books       []bookRequest `json:"books" validate:"dive"`
}

type selfValidating struct{ err error }

func (s selfValidating) Validate() error { return s.err }

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     bool
		errContains string
	}{
		{name: "valid", body: `{"title":"It"}`},
		{name: "trailing comma", body: `{"title":"It",}`, wantErr: true},
		{name: "empty body", body: "", wantErr: true, errContains: "EOF"},
		{name: "wrong type", body: `{"title":5}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/authors", strings.NewReader(tc.body))
			var dst bookRequest

			err := DecodeJSON(req, &dst)

			if !tc.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "It", dst.Title)
				return
			}
			require.Error(t, err)
			if tc.errContains != "" {
				assert.Contains(t, err.Error(), tc.errContains)
			}
		})
	}
}

func TestDecodeJSONBodyLimit(t *testing.T) {
	body := `{"title":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/authors", strings.NewReader(body))

	var dst bookRequest
	assert.Error(t, DecodeJSON(req, &dst))
}

func TestValidateRequest(t *testing.T) {
	t.Run("uses Validate method when present", func(t *testing.T) {
		want := errors.New("custom")
		assert.Equal(t, want, ValidateRequest(selfValidating{err: want}))
	})

	t.Run("valid struct", func(t *testing.T) {
		req := authorRequest{FirstName: "Neil", DateOfBirth: time.Now()}
		assert.NoError(t, ValidateRequest(&req))
	})
}

func TestValidationFieldErrors(t *testing.T) {
	req := authorRequest{
		Books: []bookRequest{{Title: "Carrie"}, {}},
	}

	fields, ok := ValidationFieldErrors(ValidateRequest(&req))
	require.True(t, ok)

	assert.Equal(t, map[string][]string{
		"firstName":      {"firstName is required"},
		"dateOfBirth":    {"dateOfBirth is required"},
		"books[0].title": {"books[0].title cannot have more than 5 characters"},
		"books[1].title": {"books[1].title is required"},
	}, fields)
}

func TestValidationFieldErrorsForeignError(t *testing.T) {
	fields, ok := ValidationFieldErrors(errors.New("boom"))
	assert.False(t, ok)
	assert.Nil(t, fields)
}
