package server

import (
	"net/http"

	"go.uber.org/zap"

	"librarium/internal/models"
)

// memberRequest is the loosely typed body of member mutations. Field
// presence is checked explicitly after decoding.
type memberRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// handleMembers serves GET /members (list, optional ?name= filter) and
// POST /members (create).
func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		views, err := s.svc.ListMembers(r.Context(), r.URL.Query().Get("name"))
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, views)

	case http.MethodPost:
		var req memberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.logger.Warn("Failed to decode member body", zap.Error(err))
			s.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		view, err := s.svc.CreateMember(r.Context(), req.Name, req.Phone, req.Email, req.Address)
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		s.respondJSON(w, http.StatusCreated, view)

	default:
		s.notFound(w, r)
	}
}

// handleMember serves GET /member?id=, PUT /member and DELETE /member.
func (s *Server) handleMember(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		id := r.URL.Query().Get("id")
		if id == "" {
			s.respondError(w, http.StatusBadRequest, "id required")
			return
		}

		view, err := s.svc.GetMember(r.Context(), models.ID(id))
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, view)

	case http.MethodPut:
		var req memberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.logger.Warn("Failed to decode member body", zap.Error(err))
			s.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		view, err := s.svc.UpdateMember(r.Context(), models.ID(req.ID), req.Name, req.Phone, req.Email, req.Address)
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, view)

	case http.MethodDelete:
		var req memberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.logger.Warn("Failed to decode member body", zap.Error(err))
			s.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ID == "" {
			s.respondError(w, http.StatusBadRequest, "id required")
			return
		}

		if err := s.svc.DeleteMember(r.Context(), models.ID(req.ID)); err != nil {
			s.respondServiceError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, map[string]string{"message": "member deleted"})

	default:
		s.notFound(w, r)
	}
}
