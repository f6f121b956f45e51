package handler

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the envelope every failed operation answers with.
type errorResponse struct {
	Err string `json:"err"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeText answers with a bare identifier, as remove endpoints do.
func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// fail logs err with the request's operation context and answers 500 with
// the generic message. Store details never reach the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error, attrs ...any) {
	attrs = append([]any{"error", err, "method", r.Method, "path", r.URL.Path}, attrs...)
	s.log.ErrorContext(r.Context(), msg, attrs...)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Err: msg})
}
