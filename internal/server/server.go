package server

import (
	"context"
	"net/http"
	"time"

	"github.com/AbdulWasayUl/country-cache-api/internal/logger"
	"github.com/AbdulWasayUl/country-cache-api/internal/store"
	"github.com/AbdulWasayUl/country-cache-api/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Refresher triggers one full refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// CountryReader is the query surface the handlers need from the store.
type CountryReader interface {
	List(ctx context.Context, f store.Filter) ([]models.Country, error)
	GetByName(ctx context.Context, name string) (*models.Country, error)
	DeleteByName(ctx context.Context, name string) error
	Status(ctx context.Context) (models.Status, error)
}

// ImageSource locates the generated summary artifact.
type ImageSource interface {
	Path() string
	Exists() bool
}

// Server wires the HTTP surface over the cache.
type Server struct {
	refresher Refresher
	countries CountryReader
	images    ImageSource
}

func New(refresher Refresher, countries CountryReader, images ImageSource) *Server {
	return &Server{
		refresher: refresher,
		countries: countries,
		images:    images,
	}
}

// Router assembles the chi router with middleware and all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/countries", func(r chi.Router) {
		r.Post("/refresh", s.handleRefresh)
		r.Get("/", s.handleListCountries)
		// Literal route must be registered alongside the name wildcard;
		// chi prefers it over {name}.
		r.Get("/image", s.handleSummaryImage)
		r.Get("/{name}", s.handleGetCountry)
		r.Delete("/{name}", s.handleDeleteCountry)
	})
	r.Get("/status", s.handleStatus)

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Info("[%s] %s %s -> %d (%s)",
			middleware.GetReqID(r.Context()), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
