package handler

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
	"github.com/GuyBarda/airbxb-backend/internal/middleware"
)

// msgRequest is the body of POST /api/stay/{id}/msg.
type msgRequest struct {
	Txt string           `json:"txt"`
	By  *domain.MiniUser `json:"by"`
}

// ListStays handles GET /api/stay.
func (s *Server) ListStays(w http.ResponseWriter, r *http.Request) {
	page, err := s.stays.List(r.Context(), stayFilterFromQuery(r.URL.Query()))
	if err != nil {
		s.fail(w, r, "Failed to get stays", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetStay handles GET /api/stay/{id}.
func (s *Server) GetStay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	stay, err := s.stays.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Err: "Stay not found"})
			return
		}
		s.fail(w, r, "Failed to get stay", err, "stay_id", id)
		return
	}
	writeJSON(w, http.StatusOK, stay)
}

// AddStay handles POST /api/stay.
func (s *Server) AddStay(w http.ResponseWriter, r *http.Request) {
	var stay domain.Stay
	if err := json.NewDecoder(r.Body).Decode(&stay); err != nil {
		s.fail(w, r, "Failed to add stay", err)
		return
	}
	added, err := s.stays.Add(r.Context(), stay)
	if err != nil {
		s.fail(w, r, "Failed to add stay", err)
		return
	}
	writeJSON(w, http.StatusOK, added)
}

// UpdateStay handles PUT /api/stay/{id}. Only the keys present in the body
// are updated, so {"price":0} sets the price to zero. The path identifier
// wins over any _id in the body.
func (s *Server) UpdateStay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.fail(w, r, "Failed to update stay", err, "stay_id", id)
		return
	}
	stay, fields, err := decodeStayPatch(raw)
	if err != nil {
		s.fail(w, r, "Failed to update stay", err, "stay_id", id)
		return
	}
	stay.ID = id
	updated, err := s.stays.Update(r.Context(), stay, fields)
	if err != nil {
		s.fail(w, r, "Failed to update stay", err, "stay_id", id)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// RemoveStay handles DELETE /api/stay/{id}.
func (s *Server) RemoveStay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed, err := s.stays.Remove(r.Context(), id)
	if err != nil {
		s.fail(w, r, "Failed to remove stay", err, "stay_id", id)
		return
	}
	writeText(w, removed)
}

// AddStayMsg handles POST /api/stay/{id}/msg. The author is the
// authenticated user when there is one, otherwise the body's "by".
func (s *Server) AddStayMsg(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req msgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, "Failed to add stay msg", err, "stay_id", id)
		return
	}
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		req.By = &user
	}
	msg, err := s.stays.AddMessage(r.Context(), id, req.Txt, req.By)
	if err != nil {
		s.fail(w, r, "Failed to add stay msg", err, "stay_id", id)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// RemoveStayMsg handles DELETE /api/stay/{id}/msg/{msgId}.
func (s *Server) RemoveStayMsg(w http.ResponseWriter, r *http.Request) {
	id, msgID := chi.URLParam(r, "id"), chi.URLParam(r, "msgId")
	removed, err := s.stays.RemoveMessage(r.Context(), id, msgID)
	if err != nil {
		s.fail(w, r, "Failed to remove stay msg", err, "stay_id", id, "msg_id", msgID)
		return
	}
	writeText(w, removed)
}

// decodeStayPatch decodes an update body into a Stay and the list of
// top-level keys it carried.
func decodeStayPatch(raw map[string]json.RawMessage) (domain.Stay, []string, error) {
	var stay domain.Stay
	body, err := json.Marshal(raw)
	if err != nil {
		return domain.Stay{}, nil, err
	}
	if err := json.Unmarshal(body, &stay); err != nil {
		return domain.Stay{}, nil, err
	}
	return stay, domain.UpdatableFields(slices.Collect(maps.Keys(raw))), nil
}
