package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ren-ben/HelikonProject/internal/logger"
	"github.com/ren-ben/HelikonProject/pkg/api/auth"
	"github.com/ren-ben/HelikonProject/pkg/authflow"
	"github.com/ren-ben/HelikonProject/pkg/llm"
	"github.com/ren-ben/HelikonProject/pkg/metrics"
	"github.com/ren-ben/HelikonProject/pkg/store"
)

// Server provides the HTTP server for the REST API.
//
// The server exposes health check endpoints, authentication APIs and the
// CLIL material generation APIs.
//
// The server supports graceful shutdown with configurable timeout.
type Server struct {
	server       *http.Server
	store        store.Store
	tokens       *auth.TokenService
	config       APIConfig
	shutdownOnce sync.Once
}

// NewServer creates a new API HTTP server.
//
// The server is created in a stopped state. Call Start() to begin serving requests.
//
// The token service is created internally from the config. The JWT secret must
// be configured via config.JWT.Secret or the HELIKON_JWT_SECRET environment
// variable and be at least 32 characters long.
//
// Parameters:
//   - config: Server configuration (port, timeouts, JWT config)
//   - s: Backing store for accounts, materials and subjects
//   - ollama: Ollama upstream client for plain generation
//   - rag: RAG upstream client for document-grounded generation
//
// Returns a configured but not yet started Server, or an error if the JWT
// configuration is invalid.
func NewServer(config APIConfig, s store.Store, ollama *llm.OllamaClient, rag *llm.RAGClient) (*Server, error) {
	config.applyDefaults()

	// Get JWT secret from config (prefers env var)
	jwtSecret := config.GetJWTSecret()
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT secret is not configured; set via %s env var or config", EnvJWTSecret)
	}

	tokens, err := auth.NewTokenService(auth.Config{
		Secret:               jwtSecret,
		AccessTokenDuration:  config.JWT.AccessTokenDuration,
		RefreshTokenDuration: config.JWT.RefreshTokenDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	flow := authflow.NewService(s, tokens)

	// Metrics collectors are nil (no-op) when metrics are disabled
	httpMetrics := metrics.NewHTTPMetrics()
	authMetrics := metrics.NewAuthMetrics()

	router := NewRouter(config, s, tokens, flow, ollama, rag, httpMetrics, authMetrics)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		server: server,
		store:  s,
		tokens: tokens,
		config: config,
	}, nil
}

// Start starts the API HTTP server and blocks until the context is cancelled
// or an error occurs.
//
// When the context is cancelled, Start initiates graceful shutdown and returns.
//
// Returns:
//   - nil on graceful shutdown
//   - error if the server fails to start or shutdown encounters an error
func (s *Server) Start(ctx context.Context) error {
	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "port", s.config.Port)
		logger.Debug("API endpoints available",
			"health", fmt.Sprintf("http://localhost:%d/health", s.config.Port),
			"ready", fmt.Sprintf("http://localhost:%d/health/ready", s.config.Port),
			"api", fmt.Sprintf("http://localhost:%d/api/v1", s.config.Port),
		)

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
				// Context was cancelled, error is not needed
			}
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		logger.Info("API server shutdown signal received")
		// Create new context with timeout for graceful shutdown
		// Don't use the cancelled ctx as it would cause immediate shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("API server failed: %w", err)
	}
}

// Stop initiates graceful shutdown of the API server.
//
// Stop is safe to call multiple times and safe to call concurrently with Start().
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		logger.Debug("API server shutdown initiated")

		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("API server shutdown error: %w", err)
			logger.Error("API server shutdown error", logger.KeyError, err)
		} else {
			logger.Info("API server stopped gracefully")
		}
	})
	return shutdownErr
}

// Port returns the TCP port the server is listening on.
func (s *Server) Port() int {
	return s.config.Port
}

// TokenService returns the server's token service.
// Exposed for tests that need to mint tokens directly.
func (s *Server) TokenService() *auth.TokenService {
	return s.tokens
}
