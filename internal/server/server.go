// Package server assembles the relay: configuration, chat hub, session
// tracking and HTTP routing behind a single Server value.
package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Tyrowin/chatguard/internal/chat"
)

// Server is one relay instance. Each Server owns its own hub, so several can
// run side by side in one process.
type Server struct {
	cfg      *Config
	log      zerolog.Logger
	hub      *chat.Hub
	hubOpts  []chat.Option
	upgrader websocket.Upgrader
	origins  originPolicy
	newID    func() string
	sessions *sessions
	http     *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

// Option customizes a Server.
type Option func(*Server)

// WithIDGenerator replaces the UUID generator used for connection identifiers.
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) { s.newID = fn }
}

// WithHubOptions passes options through to the chat hub.
func WithHubOptions(opts ...chat.Option) Option {
	return func(s *Server) { s.hubOpts = append(s.hubOpts, opts...) }
}

// New builds a Server from cfg. Call Start before serving requests.
func New(cfg *Config, log zerolog.Logger, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:    cfg,
		log:    log.With().Str("module", "server.http").Logger(),
		newID:  uuid.NewString,
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(s)
	}

	hubOpts := append([]chat.Option{chat.WithLogger(log)}, s.hubOpts...)
	s.hub = chat.NewHub(hubOpts...)
	s.origins = newOriginPolicy(cfg.Origins(), s.log)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.sessions = newSessions(log.With().Str("module", "server.sessions").Logger())
	s.http = CreateServer(cfg.Addr(), s.Routes())
	return s
}

// Hub returns the chat hub of this server.
func (s *Server) Hub() *chat.Hub {
	return s.hub
}
