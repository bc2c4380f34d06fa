package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/go-api-template/internal/api"
	apiMiddleware "github.com/phrazzld/go-api-template/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// route binds a handler to a method and path.
type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
}

// routes returns the route table of the application.
func (app *application) routes() []route {
	return []route{
		{http.MethodGet, "/", app.demoHandler.Root},
		{http.MethodGet, "/hello", app.demoHandler.Hello},
		{http.MethodGet, "/sum", app.demoHandler.Sum},
		{http.MethodPost, "/sum-list", app.demoHandler.SumList},
		{http.MethodGet, "/health", app.health},
	}
}

// setupRouter creates and configures the application router with all routes and middleware.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// The request logger comes first so every response, errors and panics
	// included, carries X-Request-ID.
	r.Use(apiMiddleware.NewRequestLogger(app.registry.Get(loggerAccess)))
	r.Use(apiMiddleware.Recoverer)
	r.Use(app.httpMetrics.Handler)
	r.Use(apiMiddleware.NewCORS(app.config.CORS))
	r.Use(chimiddleware.RequestSize(app.config.Server.RequestSizeLimitBytes()))

	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.MethodNotAllowed)

	for _, rt := range app.routes() {
		r.Method(rt.method, rt.pattern, rt.handler)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(app.metricsRegistry, promhttp.HandlerOpts{}))

	return r
}

// health handles GET /health requests.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("Failed to write health check response", "error", err)
	}
}
