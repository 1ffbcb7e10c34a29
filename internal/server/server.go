// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET /health
//	GET /api/v1/trees/{rootID}/layout
//	GET /api/v1/trees/{rootID}/render.{format}
//	GET /api/v1/persons/{id}/generations/{n}
//
// JSON responses use the envelope {"success", "data", "error", "code"}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/kintree/pkg/observability"
	"github.com/matzehuels/kintree/pkg/pipeline"
	"github.com/matzehuels/kintree/pkg/source"
)

// DefaultTimeout bounds one request, rendering included.
const DefaultTimeout = 60 * time.Second

// Options configures a Server.
type Options struct {
	Addr    string
	Timeout time.Duration
	// Defaults supplies style, decorations, generations and layout
	// dimensions for requests that do not set them.
	Defaults pipeline.Options
}

// Server serves layouts and rendered trees of one source.
type Server struct {
	Addr string

	router *chi.Mux
	server *http.Server
	runner *pipeline.Runner
	src    source.Source
	opts   Options
	logger *log.Logger
}

// New creates a server. It does not start listening.
func New(runner *pipeline.Runner, src source.Source, opts Options, logger *log.Logger) *Server {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		Addr:   opts.Addr,
		router: chi.NewRouter(),
		runner: runner,
		src:    src,
		opts:   opts,
		logger: logger.WithPrefix("http"),
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      opts.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.opts.Timeout))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/trees/{rootID}/layout", s.handleLayout)
		r.Get("/trees/{rootID}/render.{format}", s.handleRender)
		r.Get("/persons/{id}/generations/{n}", s.handleGenerations)
	})
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.Addr, "source", s.src.String())
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// requestLogger logs each request with charmbracelet/log and reports it to
// the HTTP hooks under its route pattern.
func requestLogger(logger *log.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			d := time.Since(start)
			observability.HTTP().OnRequest(r.Context(), r.Method, route, status, d)

			keyvals := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", d,
				"request_id", middleware.GetReqID(r.Context()),
			}
			if status >= 500 {
				logger.Error("request", keyvals...)
			} else {
				logger.Info("request", keyvals...)
			}
		})
	}
}
