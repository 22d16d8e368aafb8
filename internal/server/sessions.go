// Package server tracks live WebSocket sessions so that shutdown can close
// them and wait for their pumps to finish.
package server

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// sessions owns the pump goroutines of every live Client.
type sessions struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	wg      sync.WaitGroup
	log     zerolog.Logger
}

func newSessions(log zerolog.Logger) *sessions {
	return &sessions{
		clients: make(map[*Client]struct{}),
		log:     log,
	}
}

// start launches the read and write pumps of c.
func (s *sessions) start(ctx context.Context, c *Client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	count := len(s.clients)
	s.mu.Unlock()
	s.log.Debug().Str("conn", c.ID()).Int("sessions", count).Msg("session started")

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		c.writePump()
	}()
	go func() {
		defer s.wg.Done()
		defer s.remove(c)
		c.readPump(ctx)
	}()
}

func (s *sessions) remove(c *Client) {
	s.mu.Lock()
	delete(s.clients, c)
	count := len(s.clients)
	s.mu.Unlock()
	s.log.Debug().Str("conn", c.ID()).Int("sessions", count).Msg("session ended")
}

func (s *sessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// shutdown sends a going-away close frame to every session, closes the
// sockets and waits for the pumps until ctx expires.
func (s *sessions) shutdown(ctx context.Context) error {
	s.mu.Lock()
	clients := make([]*Client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	s.log.Info().Int("sessions", len(clients)).Msg("closing client connections")
	for _, c := range clients {
		if c.conn == nil {
			continue
		}
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.closeConnection()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info().Msg("all sessions finished")
		return nil
	case <-ctx.Done():
		s.log.Warn().Msg("shutdown deadline reached, some sessions may still be running")
		return ctx.Err()
	}
}
