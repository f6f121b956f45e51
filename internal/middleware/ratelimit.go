package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// NewRateLimiter returns a middleware allowing requestLimit requests per
// window for each client. Authenticated callers are keyed by user ID, the
// rest by IP (wire it after chimiddleware.RealIP). A non-positive limit
// disables limiting.
func NewRateLimiter(requestLimit int, window time.Duration) func(http.Handler) http.Handler {
	if requestLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requestLimit,
		window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if user, ok := UserFromContext(r.Context()); ok {
				return "user:" + user.ID, nil
			}
			ip, err := httprate.KeyByIP(r)
			return "ip:" + ip, err
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"err":"Too many requests"}`))
		}),
	)
}
