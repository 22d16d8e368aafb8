// Package server constructs, starts and stops the relay's HTTP service.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// CreateServer creates and configures an HTTP server with the specified address and handler.
// It sets reasonable timeout values for production use. Upgraded WebSocket
// connections manage their own deadlines.
func CreateServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Start launches the hub event loop. It should be called before serving.
func (s *Server) Start() {
	go s.hub.Run(s.ctx)
	s.log.Info().Msg("hub started and ready to manage websocket connections")
}

// ListenAndServe blocks serving HTTP on the configured address. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("websocket server is running a chat")
	return s.http.ListenAndServe()
}

// Shutdown stops accepting requests, closes every session, then stops the
// hub. It returns once everything has stopped or ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down")

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.sessions.shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	s.cancel()
	select {
	case <-s.hub.Done():
	case <-ctx.Done():
		errs = append(errs, ctx.Err())
	}

	if err := errors.Join(errs...); err != nil {
		s.log.Error().Err(err).Msg("shutdown incomplete")
		return err
	}
	s.log.Info().Msg("shutdown completed")
	return nil
}
