package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/utsabduwadi/bank-management-system/internal/auth"
	"github.com/utsabduwadi/bank-management-system/internal/bank"
	"github.com/utsabduwadi/bank-management-system/internal/config"
	"github.com/utsabduwadi/bank-management-system/internal/http/handlers"
	"github.com/utsabduwadi/bank-management-system/internal/middleware"
	"github.com/utsabduwadi/bank-management-system/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires the account service, middleware, and routes, and returns a ready
// server. backend names the store for the health endpoint.
func New(cfg config.Config, store storage.DocumentStore, backend string) (*Server, error) {
	hasher, err := auth.NewHasher(cfg.PasswordHasher)
	if err != nil {
		return nil, err
	}
	svc := bank.NewService(store, hasher, bank.WithAdmin(cfg.AdminUsername, cfg.AdminPasswordDigest))
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Routes(cfg, svc, tokens, backend),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}, nil
}

// Routes builds the full handler chain around svc.
func Routes(cfg config.Config, svc handlers.Bank, tokens *auth.TokenManager, backend string) http.Handler {
	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now(), backend).Register(mux)
	handlers.NewAuthHandler(svc, tokens).Register(mux)
	handlers.NewAccountHandler(svc, tokens).Register(mux)
	handlers.NewAdminHandler(svc, tokens).Register(mux)

	return middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))
}

// Addr reports the listen address.
func (s *Server) Addr() string { return s.inner.Addr }

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	if err := s.inner.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
