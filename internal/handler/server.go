// Package handler implements the HTTP handlers for the stay API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, stay.go) but share the same Server struct so they can
// access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
	"github.com/GuyBarda/airbxb-backend/spec"
)

// StayServicer defines the business operations the stay handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching a store or the service layer.
type StayServicer interface {
	List(ctx context.Context, f domain.StayFilter) (domain.StayPage, error)
	GetByID(ctx context.Context, id string) (domain.Stay, error)
	Add(ctx context.Context, stay domain.Stay) (domain.Stay, error)
	Update(ctx context.Context, stay domain.Stay, fields []string) (domain.Stay, error)
	Remove(ctx context.Context, id string) (string, error)
	AddMessage(ctx context.Context, stayID, txt string, by *domain.MiniUser) (domain.Message, error)
	RemoveMessage(ctx context.Context, stayID, msgID string) (string, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	stays StayServicer
	log   *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(stays StayServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{stays: stays, log: log}
}

// Routes returns a chi router exposing the stay API, the health check and
// the embedded OpenAPI document. Cross-cutting middleware is applied by the
// caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Route("/api/stay", func(r chi.Router) {
		r.Get("/", s.ListStays)
		r.Post("/", s.AddStay)
		r.Get("/{id}", s.GetStay)
		r.Put("/{id}", s.UpdateStay)
		r.Delete("/{id}", s.RemoveStay)
		r.Post("/{id}/msg", s.AddStayMsg)
		r.Delete("/{id}/msg/{msgId}", s.RemoveStayMsg)
	})
	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
