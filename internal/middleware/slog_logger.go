// Package middleware provides HTTP middleware for the stay API server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type accessKey struct{}

// accessEntry collects fields that inner middleware learns about a request
// and that the access log line should carry.
type accessEntry struct {
	userID string
}

// NewSlogLogger returns a middleware that logs each request as a structured
// JSON line via the provided slog.Logger. It captures method, path, the chi
// route pattern, HTTP status, duration, the request ID set by chi's RequestID
// middleware and, when the request was authenticated, the user ID.
//
// Wire it after chimiddleware.RequestID so the request ID is available.
func NewSlogLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			entry := &accessEntry{}
			r = r.WithContext(context.WithValue(r.Context(), accessKey{}, entry))

			// WrapResponseWriter intercepts WriteHeader so we can read the
			// status code after the downstream handler has run.
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"route", routePattern(r),
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			}
			if entry.userID != "" {
				attrs = append(attrs, "user_id", entry.userID)
			}
			log.InfoContext(r.Context(), "request", attrs...)
		})
	}
}
