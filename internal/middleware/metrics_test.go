package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuyBarda/airbxb-backend/internal/metrics"
	"github.com/GuyBarda/airbxb-backend/internal/middleware"
)

// TestRequestMetrics_LabelsByRoutePattern verifies that requests for different
// stay IDs share one series keyed by the chi route pattern.
func TestRequestMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.NewRequestMetrics())
	r.Get("/api/stay/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	series := metrics.RequestsTotal.WithLabelValues(http.MethodGet, "/api/stay/{id}", "404")
	before := testutil.ToFloat64(series)

	for _, id := range []string{"a1", "b2", "c3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stay/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, before+3, testutil.ToFloat64(series))
}

func TestRequestMetrics_ImplicitOKStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.NewRequestMetrics())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	series := metrics.RequestsTotal.WithLabelValues(http.MethodGet, "/healthz", "200")
	before := testutil.ToFloat64(series)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(series))
}
