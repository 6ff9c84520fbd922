// Package api provides the HTTP surface of TaskVault.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskvault/taskvault/internal/identity/application/auth"
	identityDomain "github.com/taskvault/taskvault/internal/identity/domain"
	"github.com/taskvault/taskvault/internal/tasks/domain/task"
	"github.com/taskvault/taskvault/internal/tasks/domain/value_objects"
	"github.com/taskvault/taskvault/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux          *http.ServeMux
	server       *http.Server
	logger       *slog.Logger
	authHandler  *AuthHandler
	taskHandler  *TaskHandler
	statsHandler *StatsHandler
	authService  *auth.Service
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, authHandler *AuthHandler, taskHandler *TaskHandler, statsHandler *StatsHandler, authService *auth.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		authHandler:  authHandler,
		taskHandler:  taskHandler,
		statsHandler: statsHandler,
		authService:  authService,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      requestID(s.mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes. Every task route runs behind the
// authentication gate.
func (s *Server) registerRoutes() {
	gate := RequireAuth(s.authService, s.logger)

	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	s.mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	s.mux.HandleFunc("POST /api/auth/refresh", s.authHandler.Refresh)

	s.mux.Handle("POST /api/tasks", gate(http.HandlerFunc(s.taskHandler.Create)))
	s.mux.Handle("GET /api/tasks", gate(http.HandlerFunc(s.taskHandler.List)))
	s.mux.Handle("PATCH /api/tasks/{id}", gate(http.HandlerFunc(s.taskHandler.Update)))
	s.mux.Handle("DELETE /api/tasks/{id}", gate(http.HandlerFunc(s.taskHandler.Delete)))

	s.mux.Handle("GET /api/tasks/statistics", gate(http.HandlerFunc(s.statsHandler.Summary)))
	s.mux.Handle("GET /api/tasks/pending-tasks", gate(http.HandlerFunc(s.statsHandler.PendingBreakdown)))
	s.mux.Handle("GET /api/tasks/priority-pending-tasks", gate(http.HandlerFunc(s.statsHandler.PriorityBreakdown)))
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// requestID attaches a request id to every request context so handler logs
// can be correlated.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.WithRequestID(r.Context(), r.Header.Get("X-Request-ID"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// writeDomainError maps a service error onto the HTTP error taxonomy:
// validation failures are 400, missing/not-owned tasks are 404, credential
// failures are 401, anything else is a 500.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, task.ErrEmptyTitle),
		errors.Is(err, task.ErrInvalidSchedule),
		errors.Is(err, task.ErrInvalidStatus),
		errors.Is(err, value_objects.ErrInvalidPriority):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrPasswordTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, identityDomain.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		logger.Error("unexpected error", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
