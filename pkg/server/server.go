package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crednova/polaris/pkg/config"
	"crednova/polaris/pkg/decision/engine"
	"crednova/polaris/pkg/storage"
	"crednova/polaris/pkg/telemetry/health"
)

// Server is the decision service HTTP server.
type Server struct {
	cfg    config.ServerConfig
	store  storage.Store
	health *health.Checker
	logger *slog.Logger

	registry *prometheus.Registry

	mu         sync.RWMutex
	orch       *engine.Orchestrator
	httpServer *http.Server

	shutdownOnce sync.Once
	isRunning    bool
}

// New creates a Server. The registry may be nil to disable the metrics
// endpoint.
func New(cfg config.ServerConfig, orch *engine.Orchestrator, store storage.Store, checker *health.Checker, registry *prometheus.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if checker == nil {
		checker = health.New(0)
	}
	return &Server{
		cfg:      cfg,
		orch:     orch,
		store:    store,
		health:   checker,
		registry: registry,
		logger:   logger.With(slog.String("component", "server")),
	}
}

// SwapEngine replaces the orchestrator, used when configuration is
// reloaded. In-flight requests finish on the old engine.
func (s *Server) SwapEngine(orch *engine.Orchestrator) {
	s.mu.Lock()
	s.orch = orch
	s.mu.Unlock()
	s.logger.Info("decision engine swapped")
}

func (s *Server) engine() *engine.Orchestrator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orch
}

// Routes builds the router with all endpoints and middleware mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/decisions", s.handleCreateDecision)
		r.Get("/decisions", s.handleListDecisions)
		r.Get("/decisions/{id}", s.handleGetDecision)
	})

	r.Get("/healthz", s.handleLiveness)
	r.Get("/readyz", s.handleReadiness)

	if s.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// Start runs the HTTP server and blocks until the context is cancelled
// or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.httpServer = &http.Server{
		Addr:         s.cfg.ListenAddress,
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting decision server", "address", s.cfg.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		srv := s.httpServer
		s.isRunning = false
		s.mu.Unlock()
		if srv == nil {
			return
		}

		s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout.String())
		shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			shutdownErr = fmt.Errorf("graceful shutdown failed: %w", err)
		}
	})
	return shutdownErr
}
