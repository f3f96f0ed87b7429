package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// shutdownTimeout bounds how long in-flight requests may take to finish.
const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server until an interrupt or terminate signal arrives,
// then shuts it down gracefully.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", s.Cfg.GetServerAddr())
		if err := s.E.Start(s.Cfg.GetServerAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.Close()
			return err
		}
	case <-waitForShutdown():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("Shutting down server")
	err := s.E.Shutdown(ctx)
	s.Close()
	return err
}

// Close stops the background subscribers and closes the event bus.
func (s *Server) Close() {
	s.cancel()
	if err := s.bus.Close(); err != nil {
		slog.Error("Failed to close event bus", "error", err)
	}
}
