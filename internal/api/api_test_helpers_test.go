package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/phrazzld/library-api/internal/config"
	"github.com/phrazzld/library-api/internal/platform/memstore"
	"github.com/phrazzld/library-api/internal/service"
	"github.com/stretchr/testify/require"
)

// Sample catalog IDs.
var (
	kingID      = uuid.MustParse("25320c5e-f58a-4b1f-b63a-8ee07a840bdf")
	martinID    = uuid.MustParse("76053df4-6687-4353-8937-b45556748abe")
	gaimanID    = uuid.MustParse("412c3012-d891-4f5e-9613-ff7aa63e6bb3")
	shiningID   = uuid.MustParse("c7ba6add-09c4-45f8-8dd0-eaca221e5d93")
	missingID   = uuid.MustParse("00000000-0000-4000-8000-000000000001")
	sampleNames = []string{
		"Douglas Adams",
		"George RR Martin",
		"Neil Gaiman",
		"Stephen King",
		"Terry Pratchett",
		"Tom Lanoye",
	}
)

// testAPI is a router over a seeded in-memory catalog.
type testAPI struct {
	handler http.Handler
	catalog *memstore.Catalog
}

type routerOption func(*RouterConfig)

func newTestAPI(t *testing.T, opts ...routerOption) *testAPI {
	t.Helper()

	catalog := memstore.New(nil)
	_, err := service.Seed(context.Background(), catalog.Authors(), nil)
	require.NoError(t, err)

	registry, err := service.NewMappingRegistry()
	require.NoError(t, err)
	svc, err := service.NewCatalogService(catalog.Authors(), catalog.Books(), registry, nil)
	require.NoError(t, err)

	cfg := RouterConfig{
		Catalog: svc,
		Paging:  config.PagingConfig{DefaultPageSize: 10, MaxPageSize: 20},
		Cache:   config.CacheConfig{MaxAge: 600 * time.Second},
		Logger:  testLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &testAPI{handler: NewRouter(cfg), catalog: catalog}
}

// do sends a request with optional body and header pairs ("Accept", "...").
func (a *testAPI) do(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	require.Zero(t, len(headers)%2, "headers must come in pairs")

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// orderedKeys returns the keys of a JSON object in document order.
func orderedKeys(t *testing.T, raw []byte) []string {
	t.Helper()
	iter := json.BorrowIterator(raw)
	defer json.ReturnIterator(iter)

	var keys []string
	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		keys = append(keys, key)
		it.Skip()
		return true
	})
	require.NoError(t, iter.Error)
	return keys
}

func names(records []map[string]interface{}) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i], _ = r["name"].(string)
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const hateoasAccept = "application/vnd.marvin.hateoas+json"
