// Package web serves cached comparison results over a read-only HTTP API.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/saliency-bias/internal/constants"
	"github.com/kozaktomas/saliency-bias/internal/database"
	"github.com/kozaktomas/saliency-bias/internal/web/middleware"
)

// Options configures the server.
type Options struct {
	Host           string
	Port           int
	AllowedOrigins []string
	// GroupCounts maps trait to label to dataset rows. Nil when no dataset is loaded.
	GroupCounts map[string]map[string]int
}

// Server represents the web server
type Server struct {
	reader     database.ResultReader
	opts       Options
	router     *chi.Mux
	httpServer *http.Server
}

// NewServer creates a new web server
func NewServer(reader database.ResultReader, opts Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		reader: reader,
		opts:   opts,
		router: r,
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(constants.ServerWriteTimeout))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler:      r,
		ReadTimeout:  constants.ServerReadTimeout,
		WriteTimeout: constants.ServerWriteTimeout,
		IdleTimeout:  constants.ServerIdleTimeout,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	slog.Info("starting web server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down web server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
