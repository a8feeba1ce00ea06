package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/FACorreiaa/city-management-api/internal/api/city"
)

// Config contains dependencies needed for the router setup
type Config struct {
	CityHandler *city.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) is applied in main.go
// before this router is mounted.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Location", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/cities", CityRoutes(cfg.CityHandler))
	})

	return r
}

// CityRoutes mounts the city catalog. The static /search route takes
// precedence over /{id}.
func CityRoutes(h *city.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/search", h.SearchCities)
	r.Post("/", h.CreateCity)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetCity)
		r.Put("/", h.UpdateCity)
		r.Delete("/", h.DeleteCity)
	})
	return r
}
