// Package server provides the HTTP surface of the process: health status,
// Prometheus metrics and graph diagnostics, with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/giygas/medicaments-graph/config"
	"github.com/giygas/medicaments-graph/handlers"
	"github.com/giygas/medicaments-graph/interfaces"
	"github.com/giygas/medicaments-graph/logging"
	"github.com/giygas/medicaments-graph/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server
type Server struct {
	server    *http.Server
	router    chi.Router
	handler   *handlers.HTTPHandlerImpl
	limiter   *RateLimiter
	config    *config.Config
	cleanCtx  context.Context
	stopClean context.CancelFunc
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, dataStore interfaces.DataStore, health interfaces.HealthChecker) *Server {
	router := chi.NewRouter()
	cleanCtx, stopClean := context.WithCancel(context.Background())

	server := &Server{
		server: &http.Server{
			Handler:        router,
			Addr:           net.JoinHostPort(cfg.Address, cfg.Port),
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		router:    router,
		handler:   handlers.NewHTTPHandler(dataStore, health),
		limiter:   NewRateLimiter(),
		config:    cfg,
		cleanCtx:  cleanCtx,
		stopClean: stopClean,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.Logger()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Metrics)
	s.router.Use(RequestSizeMiddleware(s.config.MaxRequestBody))
	s.router.Use(s.limiter.Handler)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handler.HealthCheck)
	s.router.Get("/stats", s.handler.ServeStats)
	s.router.Get("/quality", s.handler.ServeQualityReport)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// Handler returns the router, used by tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server and blocks until it is shut down
func (s *Server) Start() error {
	s.limiter.Cleanup(s.cleanCtx)

	logging.Info(fmt.Sprintf("Starting server at: %s", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.stopClean()

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}
