package server

import (
	"errors"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"librarium/internal/library"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDate accepts RFC 3339 timestamps or plain calendar dates.
func parseDate(value string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}

// respondServiceError maps a service error onto an HTTP status. The borrow
// conflict is surfaced as a plain 400 rather than 409 for compatibility
// with existing consumers.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, library.ErrMemberNotFound),
		errors.Is(err, library.ErrBookNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, library.ErrMissingFields),
		errors.Is(err, library.ErrInvalidPhone),
		errors.Is(err, library.ErrInvalidEmail),
		errors.Is(err, library.ErrDuplicateContact),
		errors.Is(err, library.ErrInvalidRange),
		errors.Is(err, library.ErrBookAlreadyBorrowed):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("Request failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
