package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Ayash13/Antivity/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server wraps http.Server with graceful shutdown on context cancellation.
type Server struct {
	srv    *http.Server
	logger logging.Logger
}

func NewServer(addr string, handler *Handler, logger logging.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:    addr,
			Handler: withRequestID(handler.Routes()),
		},
		logger: logger,
	}
}

// Run starts the server and blocks until ctx is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "HTTP server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "Server shutdown failed", "error", err)
			return err
		}
		s.logger.Info(ctx, "Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}
