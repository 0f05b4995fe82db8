// Package middleware is the HTTP middleware stack shared by all mounted
// modules. Most of it wraps chi's middleware so callers never import chi
// in service code
package middleware

import (
	stdhttp "net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RequestID assigns each request a unique id (X-Request-Id aware)
func RequestID(next stdhttp.Handler) stdhttp.Handler { return chimw.RequestID(next) }

// RealIP resolves the client IP from proxy headers
func RealIP(next stdhttp.Handler) stdhttp.Handler { return chimw.RealIP(next) }

// Timeout cancels the request context after d
func Timeout(d time.Duration) func(stdhttp.Handler) stdhttp.Handler {
	return chimw.Timeout(d)
}

// Heartbeat answers 200 on the given path before any other handler runs
func Heartbeat(path string) func(stdhttp.Handler) stdhttp.Handler {
	return chimw.Heartbeat(path)
}

// CORS builds a permissive-for-development CORS policy.
// Origins is the allowlist; "*" is acceptable behind a family-local app
func CORS(origins []string) func(stdhttp.Handler) stdhttp.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// Common is the default stack for the API binary, outermost first
func Common(origins []string, timeout time.Duration) []func(stdhttp.Handler) stdhttp.Handler {
	return []func(stdhttp.Handler) stdhttp.Handler{
		RequestID,
		RealIP,
		CORS(origins),
		AccessLog,
		RecoverJSON,
		Timeout(timeout),
	}
}
