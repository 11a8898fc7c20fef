/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package server exposes the evaluation pipeline over HTTP: synchronous and
// streaming evaluation, job and result lookup, schema discovery, health and
// metrics.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/readmescope/readmescope/evaluate/pipeline"
	"github.com/readmescope/readmescope/readmefetch"
	"github.com/readmescope/readmescope/resultstore"
)

const gracefulShutdownTimeout = 5 * time.Second

// Config assembles a Server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// Pipeline runs evaluations. Required.
	Pipeline *pipeline.Pipeline
	// Store persists completed evaluations. Required.
	Store resultstore.Store
	// Fetcher resolves repo_url requests. Nil disables repo_url support.
	Fetcher *readmefetch.Fetcher
	// AllowedOrigins configures CORS. Empty allows any origin.
	AllowedOrigins []string
}

// Server is the HTTP surface. Build with New, then Run.
type Server struct {
	cfg    Config
	router chi.Router
}

// New wires the router.
func New(cfg Config) *Server {
	s := &Server{cfg: cfg}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowedHeaders: []string{"*"},
			MaxAge:         300,
		}),
		chimiddleware.Recoverer,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/evaluate", s.handleEvaluate)
		r.Post("/evaluate/stream", s.handleEvaluateStream)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Get("/jobs", s.handleListJobs)
		r.Get("/evaluations", s.handleListEvaluations)
		r.Get("/evaluations/{id}", s.handleGetEvaluation)
		r.Get("/schema/taxonomy", s.handleTaxonomySchema)
		r.Get("/schema/events", s.handleEventsSchema)
	})
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	log := clog.FromContext(ctx)
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		log.Infof("shutdown signal received: %v", ctx.Err())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()
		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infof("listening on %s", s.cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
