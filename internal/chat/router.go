package chat

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformedPayload marks an inbound frame that is not a usable event.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrHubStopped is returned when an event is offered to a stopped hub.
	ErrHubStopped = errors.New("hub stopped")
)

// inbound is the union of every field a client may send. Message fields are
// kept raw so they reach other members unchanged.
type inbound struct {
	Type     EventType       `json:"type"`
	RoomID   *string         `json:"roomId"`
	Username string          `json:"username"`
	Sender   json.RawMessage `json:"sender"`
	Str      json.RawMessage `json:"str"`
	Style    json.RawMessage `json:"style"`
	Emoji    json.RawMessage `json:"emoji"`
}

func decode(raw []byte) (inbound, error) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return inbound{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if in.Type == EventJoin && in.RoomID == nil {
		return inbound{}, fmt.Errorf("%w: join without roomId", ErrMalformedPayload)
	}
	return in, nil
}

// route classifies one inbound frame and runs its handler. Every failure is
// local: the frame is dropped and the connection stays open.
func (h *Hub) route(c Conn, raw []byte) {
	in, err := decode(raw)
	if err != nil {
		h.log.Warn().Err(err).Str("conn", c.ID()).Msg("dropping payload")
		return
	}

	switch in.Type {
	case EventJoin:
		h.handleJoin(c, *in.RoomID, in.Username)
	case EventMessage:
		h.handleInRoom(c, EventMessage, textMessage(in.Sender, in.Str, in.Style))
	case EventEmoji:
		h.handleInRoom(c, EventEmoji, emojiMessage(in.Sender, in.Emoji, in.Style))
	default:
		h.log.Debug().Str("conn", c.ID()).Str("type", string(in.Type)).Msg("ignoring unknown event type")
	}
}

func (h *Hub) handleJoin(c Conn, roomID, username string) {
	name := username
	if name != "" {
		h.registry.SetName(c.ID(), name)
	} else {
		name = h.registry.NameOf(c.ID())
	}

	if previous, ok := h.rooms.CurrentRoomOf(c.ID()); ok && previous.ID != roomID {
		h.log.Info().Str("conn", c.ID()).Str("from", previous.ID).Str("to", roomID).Msg("moving to another room")
	}

	room, outcome := h.rooms.Join(roomID, c)
	h.log.Info().Str("conn", c.ID()).Str("room", roomID).Str("name", name).
		Stringer("outcome", outcome).Int("members", len(room.members)).Msg("join")

	if outcome != Joined {
		return
	}

	notice := JoinNotice(pickJoinPhrase(h.rand, name))
	h.rooms.Append(room.ID, notice)
	broadcast(h.log, room, Envelope{Type: EventJoin, Message: notice})
}

// handleInRoom appends msg to the sender's current room and echoes it to every
// member. Connections that never joined are ignored.
func (h *Hub) handleInRoom(c Conn, typ EventType, msg Message) {
	room, ok := h.rooms.CurrentRoomOf(c.ID())
	if !ok {
		h.log.Debug().Str("conn", c.ID()).Str("type", string(typ)).Msg("sender is not in a room")
		return
	}
	h.rooms.Append(room.ID, msg)
	broadcast(h.log, room, Envelope{Type: typ, Message: msg})
}
