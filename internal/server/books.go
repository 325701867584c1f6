package server

import (
	"net/http"

	"go.uber.org/zap"
)

type bookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
	Year   int    `json:"year"`
}

// handleBooks serves GET /books (list) and POST /books (create).
func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		books, err := s.svc.ListBooks(r.Context())
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, books)

	case http.MethodPost:
		var req bookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.logger.Warn("Failed to decode book body", zap.Error(err))
			s.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		book, err := s.svc.CreateBook(r.Context(), req.Title, req.Author, req.ISBN, req.Year)
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		s.respondJSON(w, http.StatusCreated, book)

	default:
		s.notFound(w, r)
	}
}
