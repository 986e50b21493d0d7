// Package http exposes the triage assistant over a JSON HTTP API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/triage"
	"github.com/aretw0/triage/internal/logging"
	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var _ ports.Assistant = (*triage.Assistant)(nil)

// StatsFunc returns a JSON-encodable counter snapshot.
type StatsFunc func(ctx context.Context) (any, error)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Assistant ports.Assistant
	logger    *slog.Logger
	metrics   http.Handler
	stats     StatsFunc
}

// Option configures the handler built by NewHandler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithStats enables GET /api/stats.
func WithStats(fn StatsFunc) Option {
	return func(s *Server) {
		s.stats = fn
	}
}

// NewHandler creates a new HTTP handler for the assistant.
func NewHandler(a ports.Assistant, opts ...Option) (http.Handler, error) {
	s := &Server{Assistant: a, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	router, err := newRouter()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(validateRequests(router, s.rejectInvalid))
		r.Post("/symptom_check", s.SymptomCheck)
		r.Post("/answer", s.Answer)
		r.Get("/tree", s.GetTree)
		r.Get("/stats", s.GetStats)
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Triage API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// SymptomCheckRequest is the body of POST /api/symptom_check.
type SymptomCheckRequest struct {
	Symptoms string `json:"symptoms"`
}

// AnswerRequest is the body of POST /api/answer.
// CurrentQID may be absent or null when Answer is "initial".
type AnswerRequest struct {
	CurrentQID string `json:"current_q_id"`
	Answer     string `json:"answer"`
}

// StepResponse is returned by both session endpoints.
type StepResponse struct {
	Status      string `json:"status"`
	NextQID     string `json:"next_q_id,omitempty"`
	Question    string `json:"question,omitempty"`
	Diagnosis   string `json:"diagnosis,omitempty"`
	DiagnosisID string `json:"diagnosis_id,omitempty"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TreeResponse is returned by GET /api/tree.
type TreeResponse struct {
	Root        string              `json:"root"`
	Depth       int                 `json:"depth"`
	Nodes       []domain.Node       `json:"nodes"`
	EntryPoints []domain.EntryPoint `json:"entry_points"`
}

// SymptomCheck handles the POST /api/symptom_check request.
func (s *Server) SymptomCheck(w http.ResponseWriter, r *http.Request) {
	var body SymptomCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("SymptomCheck: invalid request body", "err", err)
		return
	}

	step, err := s.Assistant.StartFromSymptoms(r.Context(), body.Symptoms)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stepResponse(step))
}

// Answer handles the POST /api/answer request.
func (s *Server) Answer(w http.ResponseWriter, r *http.Request) {
	var body AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("Answer: invalid request body", "err", err)
		return
	}

	step, err := s.Assistant.Advance(r.Context(), body.CurrentQID, body.Answer)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stepResponse(step))
}

// GetTree handles the GET /api/tree request.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	t := s.Assistant.Tree()
	s.writeJSON(w, http.StatusOK, TreeResponse{
		Root:        t.Root(),
		Depth:       t.Depth(),
		Nodes:       t.Nodes(),
		EntryPoints: t.EntryPoints(),
	})
}

// GetStats handles the GET /api/stats request.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		s.writeError(w, http.StatusServiceUnavailable, "stats are not enabled")
		return
	}
	stats, err := s.stats(r.Context())
	if err != nil {
		s.logger.Error("GetStats failed", "err", err)
		s.writeError(w, http.StatusServiceUnavailable, "stats are unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if spec, err := GetSpec(); err == nil && spec.Info != nil {
		apiVersion = spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "triage-http",
		"version":     strings.TrimSpace(triage.Version),
		"api_version": apiVersion,
	})
}

func stepResponse(step domain.Step) StepResponse {
	if step.Terminal() {
		return StepResponse{
			Status:      "diagnosis",
			Diagnosis:   step.Text,
			DiagnosisID: step.NodeID,
		}
	}
	return StepResponse{
		Status:   "question",
		NextQID:  step.NodeID,
		Question: step.Text,
	}
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptySymptoms):
		s.writeError(w, http.StatusBadRequest, "No symptoms provided.")
	case errors.Is(err, domain.ErrInvalidAnswer), errors.Is(err, domain.ErrInvalidInput):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnknownNode):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) rejectInvalid(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.WarnContext(r.Context(), "request rejected by contract", "path", r.URL.Path, "err", err)
	s.writeError(w, http.StatusBadRequest, validationMessage(err))
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Status: "error", Message: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
