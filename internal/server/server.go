// Package server exposes the activity registry over HTTP.
package server

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/common/observability"
	"mergington-activities/internal/events"
	"mergington-activities/internal/registry"
)

// Publisher receives roster events after successful mutations.
type Publisher interface {
	Publish(event events.RosterEvent) bool
}

// Check is a named readiness probe.
type Check struct {
	Name  string
	Check func(ctx context.Context) error
}

type Options struct {
	Registry      *registry.Registry
	Events        Publisher
	Logger        logger.Logger
	Observability *observability.Observability
	Tracer        trace.Tracer
	Static        fs.FS
	CORSOrigins   []string
	// MetricsPath serves Prometheus metrics when non-empty.
	MetricsPath string
	Checks      []Check
}

type Server struct {
	registry *registry.Registry
	events   Publisher
	logger   logger.Logger
	obs      *observability.Observability
	tracer   trace.Tracer
	errors   *apperrors.ErrorHandler
	static   fs.FS
	checks   []Check
	handler  http.Handler
}

type nopPublisher struct{}

func (nopPublisher) Publish(events.RosterEvent) bool { return true }

func New(opts Options) *Server {
	s := &Server{
		registry: opts.Registry,
		events:   opts.Events,
		logger:   opts.Logger,
		obs:      opts.Observability,
		tracer:   opts.Tracer,
		static:   opts.Static,
		checks:   opts.Checks,
	}
	if s.events == nil {
		s.events = nopPublisher{}
	}
	if s.logger == nil {
		s.logger = logger.NewNoOpLogger()
	}
	if s.tracer == nil {
		s.tracer = observability.NoopTracing().Tracer()
	}
	s.errors = apperrors.NewErrorHandler(s.logger)

	mux := http.NewServeMux()
	s.routes(mux, opts.MetricsPath)

	var h http.Handler = captureRoute(mux)
	h = CORS(opts.CORSOrigins, h)
	h = Tracing(s.tracer, h)
	h = Metrics(s.obs, h)
	h = RequestLogger(s.logger, h)
	h = Recovery(s.logger, s.errors, h)
	s.handler = h
	return s
}

func (s *Server) routes(mux *http.ServeMux, metricsPath string) {
	mux.HandleFunc("GET /activities", s.handleListActivities)
	mux.HandleFunc("POST /activities/{activity_name}/signup", s.handleSignup)
	mux.HandleFunc("DELETE /activities/{activity_name}/unregister", s.handleUnregister)

	mux.HandleFunc("GET /{$}", handleRoot)
	if s.static != nil {
		// FileServer would redirect index.html to the directory.
		mux.HandleFunc("GET /static/index.html", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFileFS(w, r, s.static, "index.html")
		})
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(s.static)))
	}

	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	if metricsPath != "" {
		mux.Handle("GET "+metricsPath, promhttp.Handler())
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}
