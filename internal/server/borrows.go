package server

import (
	"net/http"

	"go.uber.org/zap"

	"librarium/internal/models"
)

type borrowRequest struct {
	ID        string `json:"id"`
	MemberID  string `json:"memberId"`
	BookID    string `json:"bookId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// handleBorrows serves GET /borrows (list) and POST /borrows (schedule).
func (s *Server) handleBorrows(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		views, err := s.svc.ListBorrows(r.Context())
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, views)

	case http.MethodPost:
		var req borrowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.logger.Warn("Failed to decode borrow body", zap.Error(err))
			s.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.MemberID == "" || req.BookID == "" || req.StartDate == "" || req.EndDate == "" {
			s.respondError(w, http.StatusBadRequest, "missing required fields")
			return
		}

		start, err := parseDate(req.StartDate)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid start date")
			return
		}
		end, err := parseDate(req.EndDate)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid end date")
			return
		}

		view, err := s.svc.CreateBorrow(r.Context(), models.ID(req.MemberID), models.ID(req.BookID), start, end)
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		s.respondJSON(w, http.StatusCreated, view)

	default:
		s.notFound(w, r)
	}
}

// handleBorrow serves DELETE /borrow. The delete is idempotent: a missing
// id is reported as {"deleted": false} with status 200.
func (s *Server) handleBorrow(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodDelete:
		var req borrowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.logger.Warn("Failed to decode borrow body", zap.Error(err))
			s.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ID == "" {
			s.respondError(w, http.StatusBadRequest, "id required")
			return
		}

		deleted, err := s.svc.DeleteBorrow(r.Context(), models.ID(req.ID))
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})

	default:
		s.notFound(w, r)
	}
}
