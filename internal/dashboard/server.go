// Package dashboard serves a small JSON status API over the latest trading
// cycle summary.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/eddiefleurent/optioneer/internal/models"
)

// Config holds dashboard server settings.
type Config struct {
	Port      int
	AuthToken string
}

// Server exposes the latest cycle summary over HTTP.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	logger    *logrus.Logger
	port      int
	authToken string

	mu      sync.RWMutex
	summary *models.ExecutionSummary
}

// NewServer creates a dashboard server. A nil logger falls back to the
// logrus standard logger.
func NewServer(cfg Config, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger,
		port:      cfg.Port,
		authToken: cfg.AuthToken,
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(s.authMiddleware)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/summary", s.handleSummary)
}

// authMiddleware checks the auth token when one is configured. The health
// endpoint stays open for probes.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" || r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}
		token := r.Header.Get("X-Auth-Token")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token != s.authToken {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetSummary publishes the latest cycle summary.
func (s *Server) SetSummary(summary *models.ExecutionSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = summary
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		s.logger.WithError(err).Error("Failed to encode health response")
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	summary := s.summary
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if summary == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		s.logger.WithError(err).Error("Failed to encode summary response")
	}
}

// Start serves HTTP until the server is shut down.
func (s *Server) Start() error {
	s.logger.Infof("Dashboard listening on port %d", s.port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
