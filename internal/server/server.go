// Package server exposes the solver over HTTP.
//
// Routes:
//
//	POST /v1/solve                  solve a project list (text or JSON body)
//	GET  /v1/solves                 list archived solves, newest first
//	GET  /v1/solves/{id}            fetch one archived solve
//	GET  /v1/solves/{id}/render     draw an archived solve as dot or svg
//	GET  /healthz                   liveness and build info
//	GET  /metrics                   Prometheus metrics
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/bilateral/pkg/pipeline"
	"github.com/matzehuels/bilateral/pkg/store"
)

const (
	defaultMaxBody  = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Config holds the server's dependencies.
type Config struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Defaults seeds every request's solve options. Query parameters
	// override Friend and Refresh.
	Defaults pipeline.Options

	// Gatherer backs /metrics. Nil selects the default registry.
	Gatherer prometheus.Gatherer

	MaxBodyBytes int64
}

// Server is the HTTP front end.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults pipeline.Options
	gatherer prometheus.Gatherer
	maxBody  int64
}

// New creates a server. A nil Store keeps records in memory.
func New(cfg Config) *Server {
	s := &Server{
		runner:   cfg.Runner,
		store:    cfg.Store,
		logger:   cfg.Logger,
		defaults: cfg.Defaults,
		gatherer: cfg.Gatherer,
		maxBody:  cfg.MaxBodyBytes,
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.maxBody <= 0 {
		s.maxBody = defaultMaxBody
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID(s.logger))
	r.Use(requestLogger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(instrument)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.With(maxBodySize(s.maxBody)).Post("/solve", s.handleSolve)
		r.Get("/solves", s.handleListSolves)
		r.Get("/solves/{id}", s.handleGetSolve)
		r.Get("/solves/{id}/render", s.handleRenderSolve)
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, readTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
