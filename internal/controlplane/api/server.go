package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/marmos91/nfs4state/internal/controlplane/api/auth"
	"github.com/marmos91/nfs4state/internal/controlplane/api/handlers"
	"github.com/marmos91/nfs4state/internal/logger"
)

// Server provides the admin HTTP API over the NFSv4 state authority.
//
// Endpoints:
//   - GET /health, GET /health/ready: probes
//   - GET /api/v1/grace: grace period status
//   - GET /api/v1/clients[/{id}[/sessions]]: client inspection
//   - DELETE /api/v1/clients/{id}: client eviction (admin only)
//   - DELETE /api/v1/sessions/{sid}: session destruction (admin only)
//
// The server supports graceful shutdown with configurable timeout.
type Server struct {
	server       *http.Server
	jwtService   *auth.JWTService
	config       APIConfig
	shutdownOnce sync.Once
}

// NewJWTService builds the token service described by config.
// Returns (nil, nil) when no secret is configured.
func NewJWTService(config APIConfig) (*auth.JWTService, error) {
	config.ApplyDefaults()

	secret := config.GetJWTSecret()
	if secret == "" {
		return nil, nil
	}
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("JWT secret must be at least %d characters; set via %s env var or config",
			MinSecretLength, EnvControlPlaneSecret)
	}

	svc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:        secret,
		Issuer:        "nfs4state",
		TokenDuration: config.JWT.TokenDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	return svc, nil
}

// NewServer creates a new API HTTP server in a stopped state. Call Start()
// to begin serving requests.
//
// Without a JWT secret the server only exposes read-only routes.
func NewServer(config APIConfig, sm handlers.StateAuthority) (*Server, error) {
	config.ApplyDefaults()

	jwtService, err := NewJWTService(config)
	if err != nil {
		return nil, err
	}
	if jwtService == nil {
		logger.Warn("No JWT secret configured, admin API is read-only",
			"env_var", EnvControlPlaneSecret)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      NewRouter(sm, jwtService),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		server:     server,
		jwtService: jwtService,
		config:     config,
	}, nil
}

// Start starts the API HTTP server and blocks until the context is cancelled
// or an error occurs. Cancellation triggers a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "port", s.config.Port, "read_only", s.jwtService == nil)
		logger.Debug("API endpoints available",
			"health", fmt.Sprintf("http://localhost:%d/health", s.config.Port),
			"clients", fmt.Sprintf("http://localhost:%d/api/v1/clients", s.config.Port),
		)

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("API server shutdown signal received")
		// ctx is already cancelled, shut down on a fresh one.
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
			logger.Error("API server shutdown error", logger.Err(err))
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

// ReadOnly reports whether mutating routes are disabled.
func (s *Server) ReadOnly() bool {
	return s.jwtService == nil
}
