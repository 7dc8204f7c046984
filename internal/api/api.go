// Package api provides HTTP handlers and the main API server logic for
// SafeSpace.
//
// It exposes JSON endpoints for mood analysis, playlist and affirmation
// generation, and the mood history trail. The API integrates the
// pipeline orchestrator, the content generator, and the history store.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/safespace-app/safespace/internal/content"
	"github.com/safespace-app/safespace/internal/history"
	"github.com/safespace-app/safespace/internal/pipeline"
)

// Default server configuration
const (
	// DefaultAddr is the default API server listen address.
	DefaultAddr = ":8000"
	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
	// DefaultUserID is used when a request carries no X-User-ID header.
	// Authentication lives outside this service; the header is a pure
	// passthrough boundary.
	DefaultUserID = "anonymous"
)

// Opts holds API server configuration.
type Opts struct {
	Addr string
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the server listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Server hosts the SafeSpace HTTP API.
type Server struct {
	addr         string
	orchestrator *pipeline.Orchestrator
	generator    *content.Generator
	store        history.Store
	httpServer   *http.Server
}

// NewServer creates a Server around the core components.
func NewServer(orch *pipeline.Orchestrator, gen *content.Generator, st history.Store, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &Server{
		addr:         cfg.Addr,
		orchestrator: orch,
		generator:    gen,
		store:        st,
	}
}

// routes builds the HTTP mux for the API surface.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/mood/analyze", s.analyzeHandler)
	mux.HandleFunc("/music/playlist", s.playlistHandler)
	mux.HandleFunc("/ai/affirmations", s.affirmationsHandler)
	mux.HandleFunc("/mood/history", s.historyHandler)
	mux.HandleFunc("/health", s.healthHandler)
	return mux
}

// Run starts the server and blocks until ctx is canceled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server.Run: SafeSpace API listening", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("Server.Run: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// userID extracts the caller identity header, defaulting when absent.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return DefaultUserID
}
