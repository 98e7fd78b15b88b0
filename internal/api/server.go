// Package api provides the JSON API for looking up and fixing documents.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hugo-lorenzo-mato/docfix/internal/fix"
	"github.com/hugo-lorenzo-mato/docfix/internal/present"
	"github.com/hugo-lorenzo-mato/docfix/internal/service"
)

// DocumentService is the part of service.DocumentService the API uses.
type DocumentService interface {
	Search(ctx context.Context, document string) (*present.DisplayRecord, error)
	Updatable(ctx context.Context, document string) (service.UpdatableResult, error)
	Plan(ctx context.Context, document string) (*present.DisplayRecord, fix.Plan, bool, error)
	Fix(ctx context.Context, document string) (fix.Outcome, error)
	Candidates(ctx context.Context, query string) ([]service.Candidate, error)
	Health(ctx context.Context) error
	Metrics() *service.MetricsCollector
}

// Server provides the JSON endpoints. It is mounted by the web server under
// /api/v1.
type Server struct {
	router chi.Router
	docs   DocumentService
	logger *slog.Logger
}

// ServerOption configures the server.
type ServerOption func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new API server.
func NewServer(docs DocumentService, opts ...ServerOption) *Server {
	s := &Server{
		docs:   docs,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router = s.setupRouter()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.handleAPIRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.Get("/candidates", s.handleListCandidates)

	r.Route("/documents/{document}", func(r chi.Router) {
		r.Get("/", s.handleGetDocument)
		r.Get("/updatable", s.handleGetUpdatable)
		r.Get("/plan", s.handleGetPlan)
		r.Post("/fix", s.handleFixDocument)
	})

	return r
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// respondError sends a JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleAPIRoot(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"version": "v1", "name": "docfix-api"})
}

// handleHealth reports whether the database answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	if err := s.docs.Health(r.Context()); err != nil {
		s.logger.Warn("health check failed", slog.String("error", err.Error()))
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]string{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

type metricsResponse struct {
	Service    service.ServiceMetrics      `json:"service"`
	Statements []*service.StatementMetrics `json:"statements"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	m := s.docs.Metrics()
	respondJSON(w, http.StatusOK, metricsResponse{
		Service:    m.GetServiceMetrics(),
		Statements: m.GetAllStatementMetrics(),
	})
}
