package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/library-api/internal/api/middleware"
	"github.com/phrazzld/library-api/internal/api/shared"
	"github.com/phrazzld/library-api/internal/config"
	"github.com/phrazzld/library-api/internal/service"
)

// RouterConfig carries the dependencies of the HTTP surface.
type RouterConfig struct {
	Catalog   service.CatalogService
	Paging    config.PagingConfig
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Logger    *slog.Logger
}

// NewRouter creates the application router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(log))
	r.Use(apiMiddleware.Recoverer)
	if cfg.RateLimit.Enabled {
		r.Use(apiMiddleware.NewRateLimiter(cfg.RateLimit.Rules).Middleware)
	}
	r.Use(apiMiddleware.CacheControl(cfg.Cache.MaxAge))

	authors := NewAuthorHandler(cfg.Catalog, cfg.Paging, log)
	collections := NewAuthorCollectionHandler(cfg.Catalog, log)
	books := NewBookHandler(cfg.Catalog, log)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", GetRoot)

		r.Route("/authors", func(r chi.Router) {
			r.Get("/", authors.ListAuthors)
			r.Head("/", authors.ListAuthors)
			r.Options("/", authors.AuthorOptions)
			r.Post("/", authors.CreateAuthor)

			r.Get("/{id}", authors.GetAuthor)
			r.Post("/{id}", authors.BlockAuthorCreation)
			r.Delete("/{id}", authors.DeleteAuthor)

			r.Route("/{authorId}/books", func(r chi.Router) {
				r.Get("/", books.ListBooks)
				r.Post("/", books.CreateBook)
				r.Get("/{id}", books.GetBook)
				r.Put("/{id}", books.UpdateBook)
				r.Patch("/{id}", books.PatchBook)
				r.Delete("/{id}", books.DeleteBook)
			})
		})

		r.Post("/authorcollections", collections.CreateAuthorCollection)
		r.Get("/authorcollections/{ids}", collections.GetAuthorCollection)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
