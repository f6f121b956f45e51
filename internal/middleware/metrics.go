package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GuyBarda/airbxb-backend/internal/metrics"
)

// NewRequestMetrics returns a middleware that records request count and
// latency. Routes are labelled by their chi pattern (e.g. /api/stay/{id}) so
// stay IDs do not explode label cardinality; unmatched requests are labelled
// "unmatched".
func NewRequestMetrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := routePattern(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			metrics.RecordRequest(r.Method, route, strconv.Itoa(status), time.Since(start).Seconds())
		})
	}
}

// routePattern returns the chi pattern that served r, or "unmatched".
// It is only meaningful after the router has run.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
