// Package server exposes a preview shell over HTTP so that a browser or a
// script can resize, click and fetch frames.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pianoxl/pkg/buildinfo"
	"github.com/matzehuels/pianoxl/pkg/httputil"
	"github.com/matzehuels/pianoxl/pkg/pipeline"
	"github.com/matzehuels/pianoxl/pkg/preview"
)

const shutdownTimeout = 5 * time.Second

// Server routes HTTP requests to a preview shell and a pipeline runner.
type Server struct {
	shell  *preview.Shell
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRunner sets the runner used for stateless /render requests.
func WithRunner(r *pipeline.Runner) Option {
	return func(s *Server) {
		if r != nil {
			s.runner = r
		}
	}
}

// New creates a server around shell.
func New(shell *preview.Shell, opts ...Option) *Server {
	s := &Server{shell: shell, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(httputil.ServerHeader(buildinfo.UserAgent()))

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Post("/resize", s.handleResize)
	r.Get("/layout", s.handleLayout)
	r.Get("/frame.{format}", s.handleFrame)
	r.Get("/render.{format}", s.handleRender)
	r.Get("/hit", s.handleHit)
	r.Post("/click", s.handleClick)

	r.Get("/state", s.handleGetState)
	r.Put("/state", s.handlePutState)

	r.Get("/plan.{format}", s.handlePlan)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
