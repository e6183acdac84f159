package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"qrsafe/internal/config"
	"qrsafe/internal/history"
	"qrsafe/internal/logging"
	"qrsafe/internal/pipeline"
	"qrsafe/internal/services"
)

// Server exposes the generation pipeline and history store over HTTP.
type Server struct {
	bind     string
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
	store    *history.Store

	listener net.Listener
	server   *http.Server
}

// New builds the HTTP server. The store may be nil when history is disabled.
func New(cfg *config.Config, logger *slog.Logger, p *pipeline.Pipeline, store *history.Store) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	srv := &Server{
		bind:     cfg.Server.Bind,
		logger:   logging.NewComponentLogger(logger, "api-server"),
		pipeline: p,
		store:    store,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/templates", srv.handleTemplates)
	mux.HandleFunc("/api/generate", srv.handleGenerate)
	mux.HandleFunc("/api/generate/confirm", srv.handleConfirm)
	mux.HandleFunc("/api/view", srv.handleView)
	mux.HandleFunc("/api/view/unlock", srv.handleUnlock)
	mux.HandleFunc("/api/history", srv.handleHistory)
	mux.HandleFunc("/api/history/", srv.handleHistoryEntry)

	srv.server = &http.Server{
		Handler:           srv.withRequestID(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler exposes the configured handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens on the configured bind address and serves until ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound address once the server is started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// withRequestID tags every request with a correlation id carried through the
// context and echoed in the response headers.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := services.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
