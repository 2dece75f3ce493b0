// Package server is the HTTP sidecar: a keep-alive root endpoint, a
// health check that pings the database, and Prometheus metrics.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"streakbot/internal/metrics"
)

// Pinger is the health-check surface. pgxpool.Pool implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wraps the sidecar http.Server.
type Server struct {
	httpServer *http.Server
}

// New builds the sidecar with its three routes.
func New(port int, db Pinger, gatherer prometheus.Gatherer) *Server {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Bot is running!"))
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(ctx); err != nil {
			log.WithError(err).Warn("healthz: database ping failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded","database":"down"}`))
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", metrics.Handler(gatherer))

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("HTTP sidecar listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
