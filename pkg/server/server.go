// Package server exposes the pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz
//	POST /v1/pack
//	POST /v1/pack/batch
//	POST /v1/cards
//	POST /v1/keywords
//
// Every response carries an X-Request-ID header. Errors are returned as
// {"error": {"code": ..., "message": ...}} with a status derived from the
// error code. Work under /v1 stops when the client goes away or WriteTimeout
// elapses, and is answered with 503 CANCELED.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/circlepack/pkg/pipeline"
)

const (
	// maxBodyBytes caps request bodies.
	maxBodyBytes = 4 << 20

	// maxBatchJobs caps the number of jobs in one batch request.
	maxBatchJobs = 64
)

// Options configures a Server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// BatchLimit caps concurrent packings per batch request.
	BatchLimit int

	// Defaults are applied to every request before its own fields.
	Defaults pipeline.Options
}

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
	router chi.Router
}

// New creates a Server backed by runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.BatchLimit <= 0 {
		opts.BatchLimit = pipeline.DefaultBatchLimit
	}
	s := &Server{runner: runner, logger: logger, opts: opts}
	s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Use(deadline(s.opts.WriteTimeout))
		r.Post("/pack", s.pack)
		r.Post("/pack/batch", s.packBatch)
		r.Post("/cards", s.cards)
		r.Post("/keywords", s.keywords)
	})
	s.router = r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
