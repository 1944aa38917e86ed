// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/agegrade/internal/adapters/repository"
	"github.com/okian/agegrade/internal/domain/standards"
	"github.com/okian/agegrade/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	GradeDependencies
	EditionDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	gradeHandler    *GradeHandler
	editionsHandler *EditionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		gradeHandler:    NewGradeHandler(deps),
		editionsHandler: NewEditionsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/grade", MetricsMiddleware(s.gradeHandler.HandleGrade, "grade"))
	mux.HandleFunc("/editions", MetricsMiddleware(s.editionsHandler.HandleList, "editions"))
	mux.HandleFunc("/editions/", MetricsMiddleware(s.editionsHandler.HandleEdition, "edition"))
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: RequestIDFromContext(r.Context())})
}

// writeLoadError maps store errors to responses. Load failures are reported
// generically; the cause is logged by the service and the cache.
func writeLoadError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrUnknownEdition):
		writeError(w, r, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, repository.ErrInvalidSex):
		writeError(w, r, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	default:
		writeError(w, r, http.StatusServiceUnavailable, "data_unavailable", NewKind(op, ErrUnavailable))
	}
}

// parseSex reads an optional sex parameter, defaulting to male.
func parseSex(raw string) (standards.Sex, bool) {
	if raw == "" {
		return standards.Male, true
	}
	return standards.ParseSex(raw)
}

// Query and Result mirror the shared request and response shapes.
type (
	Query  = types.Query
	Result = types.Result
)
