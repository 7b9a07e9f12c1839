package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// corsMaxAge is how long browsers may cache a preflight response, in seconds.
const corsMaxAge = 300

// WithCORS wraps handler with a CORS policy for a single allowed origin.
// Credentials are only allowed when the origin is explicit.
func WithCORS(handler http.Handler, allowedOrigin string) http.Handler {
	origin := strings.TrimSpace(allowedOrigin)
	if origin == "" {
		origin = "*"
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: origin != "*",
		MaxAge:           corsMaxAge,
	})(handler)
}
