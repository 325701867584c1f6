// Package server exposes the library operations over HTTP with JSON bodies.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"librarium/internal/library"
)

// Server routes HTTP requests to the library service
type Server struct {
	svc    *library.Service
	logger *zap.Logger
}

// New creates an HTTP server around the given service.
func New(svc *library.Service, logger *zap.Logger) *Server {
	return &Server{svc: svc, logger: logger}
}

// RegisterRoutes registers all API routes on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/members", s.instrument("/members", s.handleMembers))
	mux.HandleFunc("/member", s.instrument("/member", s.handleMember))
	mux.HandleFunc("/books", s.instrument("/books", s.handleBooks))
	mux.HandleFunc("/borrows", s.instrument("/borrows", s.handleBorrows))
	mux.HandleFunc("/borrow", s.instrument("/borrow", s.handleBorrow))

	// Everything else is a terminal 404.
	mux.HandleFunc("/", s.instrument("other", s.notFound))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte("Not found"))
}
