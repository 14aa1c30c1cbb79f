// Package server provides the HTTP presentation layer for Pheddit: HTML
// pages for browsers and a JSON API. The engine hands it plain ordered post
// references; all markup (HTML escaping, markdown rendering) happens here.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/pheddit/internal/config"
	"github.com/hyperjump/pheddit/internal/metrics"
	"github.com/hyperjump/pheddit/internal/search"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the HTTP server for the Pheddit API and pages.
type Server struct {
	engine *search.Engine
	config *config.ServerConfig
	logger *zap.Logger
	pages  *pages
	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(engine *search.Engine, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		engine: engine,
		config: cfg,
		logger: logger,
		pages:  newPages(),
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// router assembles the chi router with middleware and all routes.
func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(metrics.Middleware())

	r.Get("/", s.handleIndex)
	r.Get("/style.css", s.handleStyle)
	r.Get("/search", s.handleSearchPage)
	r.Get("/post/{id}", s.handlePostPage)
	r.Get("/candidates/{n}", s.handleCandidatesPage)

	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/candidates/{n}", s.handleCandidates)
	r.Get("/api/v1/posts/{id}", s.handleGetPost)
	r.Get("/api/v1/status", s.handleStatus)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
