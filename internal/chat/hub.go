package chat

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const defaultQueueSize = 256

type eventKind int

const (
	connectEvent eventKind = iota
	payloadEvent
	closeEvent
)

type event struct {
	kind    eventKind
	conn    Conn
	payload []byte
}

// Hub owns the connection registry and the room store. All mutation happens
// on the goroutine running Run, one event at a time.
type Hub struct {
	registry *Registry
	rooms    *Store
	rand     Rand
	log      zerolog.Logger

	events chan event
	mu     sync.RWMutex
	done   chan struct{}
	once   sync.Once
}

// Option customizes a Hub.
type Option func(*Hub)

// WithRand sets the randomness used for default names and join phrases.
func WithRand(r Rand) Option {
	return func(h *Hub) { h.rand = r }
}

// WithLogger sets the hub logger.
func WithLogger(log zerolog.Logger) Option {
	return func(h *Hub) { h.log = log }
}

// WithQueueSize sets how many events may wait for the Run loop.
func WithQueueSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.events = make(chan event, n)
		}
	}
}

// NewHub creates a hub with an empty registry and room store. Call Run to
// start processing events.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		rand:   globalRand{},
		log:    zerolog.Nop(),
		events: make(chan event, defaultQueueSize),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With().Str("module", "chat.hub").Logger()
	h.registry = NewRegistry(h.rand)
	h.rooms = NewStore()
	return h
}

// Run processes queued events until ctx is cancelled. It must be called at
// most once.
func (h *Hub) Run(ctx context.Context) {
	defer h.once.Do(func() { close(h.done) })

	h.log.Info().Msg("hub started")
	for {
		select {
		case <-ctx.Done():
			h.log.Info().Int("rooms", h.Stats().Rooms).Msg("hub stopped")
			return
		case ev := <-h.events:
			h.handle(ev)
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Connect registers a new session under a default display name.
func (h *Hub) Connect(ctx context.Context, c Conn) error {
	return h.enqueue(ctx, event{kind: connectEvent, conn: c})
}

// Deliver queues one inbound frame from c.
func (h *Hub) Deliver(ctx context.Context, c Conn, payload []byte) error {
	return h.enqueue(ctx, event{kind: payloadEvent, conn: c, payload: payload})
}

// Disconnect removes c from its room and from the registry.
func (h *Hub) Disconnect(ctx context.Context, c Conn) error {
	return h.enqueue(ctx, event{kind: closeEvent, conn: c})
}

func (h *Hub) enqueue(ctx context.Context, ev event) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}

	select {
	case h.events <- ev:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) handle(ev event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch ev.kind {
	case connectEvent:
		h.connect(ev.conn)
	case payloadEvent:
		h.route(ev.conn, ev.payload)
	case closeEvent:
		h.disconnect(ev.conn)
	}
}

func (h *Hub) connect(c Conn) {
	name := h.registry.Register(c.ID())
	h.log.Info().Str("conn", c.ID()).Str("name", name).Int("connections", h.registry.Len()).Msg("client connected")
}

func (h *Hub) disconnect(c Conn) {
	roomID, deleted, inRoom := h.rooms.Remove(c.ID())
	h.registry.Unregister(c.ID())

	ev := h.log.Info().Str("conn", c.ID()).Int("connections", h.registry.Len())
	if inRoom {
		ev = ev.Str("room", roomID).Bool("room_deleted", deleted)
	}
	ev.Msg("client disconnected")
}

// RoomSnapshot is a point-in-time copy of a room.
type RoomSnapshot struct {
	ID      string
	Members []string
	History []Message
}

// Snapshot copies the current state of roomID.
func (h *Hub) Snapshot(roomID string) (RoomSnapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms.Room(roomID)
	if !ok {
		return RoomSnapshot{}, false
	}
	members := make([]string, 0, len(room.members))
	for _, m := range room.members {
		members = append(members, m.ID())
	}
	return RoomSnapshot{ID: room.ID, Members: members, History: room.History()}, true
}

// Stats summarizes the hub for health reporting.
type Stats struct {
	Connections int      `json:"connections"`
	Rooms       int      `json:"rooms"`
	RoomIDs     []string `json:"roomIds"`
}

// Stats returns current counts.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return Stats{
		Connections: h.registry.Len(),
		Rooms:       h.rooms.Len(),
		RoomIDs:     h.rooms.RoomIDs(),
	}
}
