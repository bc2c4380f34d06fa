package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/phrazzld/go-api-template/internal/api/shared"
	"github.com/phrazzld/go-api-template/internal/config"
)

// CORS settings that do not depend on configuration.
var (
	corsMethods = []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodOptions,
		http.MethodPatch,
	}
	corsMaxAge = 600
)

// NewCORS returns middleware applying the cross-origin policy for the
// configured origins. Credentials are allowed and every request header is
// accepted.
//
// With the wildcard origin the request's Origin is echoed back, since
// browsers refuse "*" on credentialed responses.
func NewCORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   corsMethods,
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{shared.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}
	if cfg.AllowsAllOrigins() {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	}
	return cors.Handler(opts)
}
