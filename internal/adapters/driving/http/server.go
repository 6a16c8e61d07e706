package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
	"github.com/brandloop-labs/brandloop-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// TokenVerifier validates a service bearer token.
type TokenVerifier interface {
	ParseToken(token string) (*domain.ServiceClaims, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	logger     *slog.Logger

	// Services
	tokenService driving.TokenService
	stateService driving.AuthStateService

	// ConfiguredPlatforms is the set of platforms with app credentials,
	// computed once at startup.
	configuredPlatforms map[domain.Platform]bool

	// Infrastructure
	verifier    TokenVerifier
	db          Pinger // PostgreSQL health check
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	ConfiguredPlatforms []domain.Platform

	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	tokenService driving.TokenService,
	stateService driving.AuthStateService,
	verifier TokenVerifier,
	db Pinger,
	redisClient Pinger, // can be nil
) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	configured := make(map[domain.Platform]bool, len(cfg.ConfiguredPlatforms))
	for _, p := range cfg.ConfiguredPlatforms {
		configured[p] = true
	}

	s := &Server{
		router:              http.NewServeMux(),
		version:             cfg.Version,
		logger:              logger,
		tokenService:        tokenService,
		stateService:        stateService,
		configuredPlatforms: configured,
		verifier:            verifier,
		db:                  db,
		redisClient:         redisClient,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.verifier)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Platform catalog
	s.router.Handle("GET /api/v1/platforms",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListPlatforms)))

	// Connection endpoints
	s.router.Handle("GET /api/v1/connections/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetConnection)))
	s.router.Handle("POST /api/v1/connections/{id}/token",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleIssueToken)))
	s.router.Handle("POST /api/v1/connections/{id}/refresh",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleForceRefresh)))

	// Authorization-flow support: state/PKCE generation for the outer
	// web layer that runs the actual redirect dance.
	s.router.Handle("POST /api/v1/oauth/state",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleAuthState)))
}

// Handler returns the full middleware-wrapped handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	logging := NewLoggingMiddleware(s.logger)
	recovery := NewRecoveryMiddleware(s.logger)
	return recovery.Handler(logging.Handler(s.router))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	s.httpServer.Handler = s.Handler()

	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or listen failure
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	s.logger.Info("shutting down server")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
