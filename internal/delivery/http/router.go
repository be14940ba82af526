package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"courtfinder/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes.
// opsOnly wraps the operational cache endpoints.
func NewRouter(search *controllers.SearchController, events *controllers.EventsController, cache *controllers.CacheController, opsOnly func(http.HandlerFunc) http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()

	// API Routes
	mux.HandleFunc("GET /search", search.Search)
	mux.HandleFunc("POST /events", events.Process)

	// Operations
	mux.HandleFunc("GET /cache", opsOnly(cache.Stats))
	mux.HandleFunc("DELETE /cache", opsOnly(cache.Clear))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
