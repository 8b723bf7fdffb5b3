// Package api exposes the assessment service over HTTP with JSON bodies.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	service "github.com/okian/competency/internal/app"
	"github.com/okian/competency/internal/domain/competency"
	"github.com/okian/competency/pkg/logger"
)

// Identity headers set by the upstream proxy.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const defaultMaxRequestBytes = 1 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Catalog() *competency.Catalog
	Questionnaire(ctx context.Context) (service.Questionnaire, error)
	Submit(ctx context.Context, sub service.Submission) (service.SubmitOutcome, error)
	Result(ctx context.Context, viewer service.Viewer, id string) (service.ResultView, error)
	ResultsByUser(ctx context.Context, viewer service.Viewer, userID string) ([]service.ResultView, error)
	Stats(ctx context.Context, viewer service.Viewer) (service.StatsView, error)
	Overview(ctx context.Context, viewer service.Viewer) (service.Overview, error)
}

// Server wires HTTP routes for the assessment API.
type Server struct {
	healthHandler      *HealthHandler
	catalogHandler     *CatalogHandler
	questionsHandler   *QuestionsHandler
	submissionsHandler *SubmissionsHandler
	resultsHandler     *ResultsHandler
	statsHandler       *StatsHandler
}

// Option configures the Server.
type Option func(*options)

type options struct {
	log             logger.Logger
	maxRequestBytes int64
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMaxRequestBytes caps request bodies.
func WithMaxRequestBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRequestBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	o := options{log: logger.Nop(), maxRequestBytes: defaultMaxRequestBytes}
	for _, opt := range opts {
		opt(&o)
	}
	rw := responder{log: o.log}
	return &Server{
		healthHandler:      NewHealthHandler(),
		catalogHandler:     NewCatalogHandler(deps),
		questionsHandler:   &QuestionsHandler{deps: deps, responder: rw},
		submissionsHandler: &SubmissionsHandler{deps: deps, responder: rw, maxBytes: o.maxRequestBytes},
		resultsHandler:     &ResultsHandler{deps: deps, responder: rw},
		statsHandler:       &StatsHandler{deps: deps, responder: rw},
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /competencies", MetricsMiddleware(s.catalogHandler.HandleCompetencies, "competencies"))
	mux.HandleFunc("GET /questions", MetricsMiddleware(s.questionsHandler.HandleQuestions, "questions"))
	mux.HandleFunc("POST /submissions", MetricsMiddleware(s.submissionsHandler.HandleSubmit, "submissions"))
	mux.HandleFunc("GET /results/{id}", MetricsMiddleware(s.resultsHandler.HandleResult, "result"))
	mux.HandleFunc("GET /users/{id}/results", MetricsMiddleware(s.resultsHandler.HandleUserResults, "user_results"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /overview", MetricsMiddleware(s.statsHandler.HandleOverview, "overview"))
}

// viewerFrom reads the caller identity from the proxy headers.
func viewerFrom(r *http.Request) service.Viewer {
	return service.Viewer{
		UserID: strings.TrimSpace(r.Header.Get(HeaderUserID)),
		Role:   service.ParseRole(r.Header.Get(HeaderUserRole)),
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

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

// responder maps service errors onto responses and logs server faults.
type responder struct {
	log logger.Logger
}

func (rs responder) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		rs.log.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
		// internal details stay in the log
		writeError(w, status, code, errors.New(http.StatusText(status)))
		return
	}
	writeError(w, status, code, err)
}
