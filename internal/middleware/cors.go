// Package middleware holds the HTTP middleware shared by every live map route.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that lets the listed origins drive a
// map view from another page. Each entry must be a full origin (scheme and
// host, no trailing slash). An empty list disables cross-origin access.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		// rs/cors treats an empty list as "allow all".
		return func(next http.Handler) http.Handler { return next }
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Location", "X-Request-Id"},
	})
	return c.Handler
}
