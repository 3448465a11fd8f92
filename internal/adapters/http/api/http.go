// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/okian/careertrack/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PlanReader
	PlanWriter
	PlanGenerator
	Pinger
	StatsProvider
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithAuthenticator sets the request authenticator.
func WithAuthenticator(a *Authenticator) Option {
	return func(s *Server) {
		if a != nil {
			s.auth = a
		}
	}
}

// WithCORSOrigins sets the browser origins allowed to call the API.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithRequestTimeout bounds each request context.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	plansHandler  *PlansHandler

	auth        *Authenticator
	corsOrigins []string
	timeout     time.Duration
	log         logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		auth:    NewAuthenticator("", true),
		timeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("api")
	}
	s.healthHandler = NewHealthHandler(deps, s.log)
	s.statsHandler = NewStatsHandler(deps)
	s.plansHandler = NewPlansHandler(deps, deps, deps, s.log)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return AuthMiddleware(s.auth, s.log, h)
	}
	p := s.plansHandler

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.Handle("GET /metrics", HandleMetrics())

	mux.HandleFunc("GET /plans/list", MetricsMiddleware(authed(p.HandleList), "plans_list"))
	mux.HandleFunc("GET /plans/{id}", MetricsMiddleware(authed(p.HandleDetail), "plans_detail"))
	mux.HandleFunc("DELETE /plans/{id}", MetricsMiddleware(authed(p.HandleDelete), "plans_delete"))
	mux.HandleFunc("POST /plans/complete-task", MetricsMiddleware(authed(p.HandleComplete), "plans_complete_task"))
	mux.HandleFunc("POST /plans/add", MetricsMiddleware(authed(p.HandleAdd), "plans_add"))
	mux.HandleFunc("POST /plans/generate", MetricsMiddleware(authed(p.HandleGenerate), "plans_generate"))
}

// Wrap applies the cross-cutting middleware: request id, CORS and the
// request timeout.
func (s *Server) Wrap(h http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", StudentHeader, RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           600,
	})
	return RequestIDMiddleware(c.Handler(TimeoutMiddleware(h, s.timeout)))
}
