// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/okian/fitscore/internal/adapters/repository"
	service "github.com/okian/fitscore/internal/app"
	"github.com/okian/fitscore/internal/domain/analytics"
	"github.com/okian/fitscore/internal/domain/diagnosis"
	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/reference"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	DiagnosisDependencies
	AnalyticsDependencies
}

// DiagnosisDependencies defines the diagnosis operations.
type DiagnosisDependencies interface {
	Diagnose(ctx context.Context, r model.Record) (diagnosis.Result, error)
	DiagnoseStored(ctx context.Context, id string) (diagnosis.Result, error)
}

// AnalyticsDependencies defines the population analytics operation.
type AnalyticsDependencies interface {
	Analytics(ctx context.Context, q analytics.Query) (service.AnalyticsResult, error)
}

// Default analytics rate limit.
const (
	DefaultAnalyticsRPS   = 10
	DefaultAnalyticsBurst = 20
)

// Option configures a Server.
type Option func(*Server)

// WithAnalyticsLimit throttles GET /analytics to rps requests per second
// with the given burst. A non-positive rps disables throttling.
func WithAnalyticsLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.analyticsLimiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.analyticsLimiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	diagnosisHandler *DiagnosisHandler
	analyticsHandler *AnalyticsHandler
	analyticsLimiter *rate.Limiter
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:    NewHealthHandler(statsProvider),
		statsHandler:     NewStatsHandler(statsProvider),
		diagnosisHandler: NewDiagnosisHandler(deps),
		analyticsHandler: NewAnalyticsHandler(deps),
		analyticsLimiter: rate.NewLimiter(DefaultAnalyticsRPS, DefaultAnalyticsBurst),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	analyticsHandler := s.analyticsHandler.HandleGetAnalytics
	if s.analyticsLimiter != nil {
		analyticsHandler = RateLimitMiddleware(analyticsHandler, s.analyticsLimiter, "analytics")
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/diagnosis", MetricsMiddleware(s.diagnosisHandler.HandlePostDiagnosis, "diagnosis"))
	mux.HandleFunc("/diagnosis/", MetricsMiddleware(s.diagnosisHandler.HandleGetDiagnosis, "diagnosis_by_id"))
	mux.HandleFunc("/analytics", MetricsMiddleware(analyticsHandler, "analytics"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates a service error into a status and code.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, analytics.ErrUnknownType),
		errors.Is(err, analytics.ErrInvalidQuery),
		errors.Is(err, model.ErrInvalidRecord):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, reference.ErrMissingReference):
		return http.StatusUnprocessableEntity, "missing_reference"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrDuplicateID):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "processing_error"
	}
}
