package shared

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogs routes the default logger into a buffer for the duration of a test.
func captureLogs(t *testing.T) *strings.Builder {
	t.Helper()
	var buf strings.Builder
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(old) })
	return &buf
}

func TestRespondWithJSON(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		data         interface{}
		expectedBody string
	}{
		{
			name:         "object",
			status:       http.StatusOK,
			data:         map[string]interface{}{"name": "Stephen King"},
			expectedBody: `{"name":"Stephen King"}`,
		},
		{
			name:         "empty array",
			status:       http.StatusOK,
			data:         []string{},
			expectedBody: `[]`,
		},
		{
			name:         "nil",
			status:       http.StatusCreated,
			data:         nil,
			expectedBody: `null`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/authors", nil)
			w := httptest.NewRecorder()

			RespondWithJSON(w, req, tc.status, tc.data)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedBody+"\n", w.Body.String())
		})
	}
}

func TestRespondWithContentType(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	w := httptest.NewRecorder()

	RespondWithContentType(w, req, http.StatusOK, "application/vnd.marvin.hateoas+json", map[string]int{"a": 1})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.marvin.hateoas+json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"a":1}`, w.Body.String())
}

func TestRespondWithJSONEncodingError(t *testing.T) {
	logs := captureLogs(t)
	req := httptest.NewRequest(http.MethodGet, "/api/authors", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]interface{}{"ch": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Contains(t, logs.String(), "failed to encode JSON response")
}

func TestRespondWithError(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, "test-trace-id")
	req := httptest.NewRequest(http.MethodGet, "/api/authors", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Invalid request")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Invalid request", response.Error)
	assert.Equal(t, "test-trace-id", response.TraceID)
	assert.Empty(t, response.Details)
	assert.NotContains(t, w.Body.String(), "details")
	assert.NotContains(t, w.Body.String(), "errors")
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name             string
		statusCode       int
		message          string
		err              error
		opts             []ResponseOption
		expectedLogLevel string
	}{
		{
			name:             "server error",
			statusCode:       http.StatusInternalServerError,
			message:          "An unexpected fault did occur. Please try again later.",
			err:              errors.New("database connection failed"),
			expectedLogLevel: "ERROR",
		},
		{
			name:             "client error",
			statusCode:       http.StatusBadRequest,
			message:          "Bad request",
			err:              errors.New("invalid input"),
			expectedLogLevel: "DEBUG",
		},
		{
			name:             "client error elevated",
			statusCode:       http.StatusBadRequest,
			message:          "Bad request",
			err:              errors.New("invalid input"),
			opts:             []ResponseOption{WithElevatedLogLevel()},
			expectedLogLevel: "WARN",
		},
		{
			name:             "rate limited",
			statusCode:       http.StatusTooManyRequests,
			message:          "Too many requests",
			err:              errors.New("quota exceeded"),
			expectedLogLevel: "WARN",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logs := captureLogs(t)
			ctx := context.WithValue(context.Background(), TraceIDKey, "test-trace-id")
			req := httptest.NewRequest(http.MethodGet, "/api/authors", nil).WithContext(ctx)
			w := httptest.NewRecorder()

			RespondWithErrorAndLog(w, req, tc.statusCode, tc.message, tc.err, tc.opts...)

			assert.Equal(t, tc.statusCode, w.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tc.message, response.Error)
			assert.Equal(t, "test-trace-id", response.TraceID)
			assert.NotContains(t, w.Body.String(), tc.err.Error())

			out := logs.String()
			assert.Contains(t, out, "level="+tc.expectedLogLevel)
			assert.Contains(t, out, "trace_id=test-trace-id")
			assert.Contains(t, out, "error_type=")
		})
	}
}

func TestRespondWithErrorAndLogDetails(t *testing.T) {
	captureLogs(t)
	req := httptest.NewRequest(http.MethodPost, "/api/authors", nil)
	w := httptest.NewRecorder()

	RespondWithErrorAndLog(w, req, http.StatusUnprocessableEntity, "Validation failed", nil,
		WithDetails([]string{"title is required"}),
		WithFieldErrors(map[string][]string{"title": {"title is required"}}))

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, []string{"title is required"}, response.Details)
	assert.Equal(t, map[string][]string{"title": {"title is required"}}, response.Errors)
}

func TestResponseOptions(t *testing.T) {
	opts := responseOptions{}
	WithElevatedLogLevel()(&opts)
	WithDetails([]string{"a"})(&opts)
	WithFieldErrors(map[string][]string{"f": {"m"}})(&opts)

	assert.True(t, opts.elevateLogLevel)
	assert.Equal(t, []string{"a"}, opts.details)
	assert.Len(t, opts.fieldErrors, 1)
}
