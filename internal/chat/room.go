package chat

import (
	"slices"

	"github.com/samber/lo"
)

// JoinOutcome describes what Store.Join did.
type JoinOutcome int

const (
	// Created means the room did not exist and was seeded with a welcome notice.
	Created JoinOutcome = iota + 1
	// Joined means the connection was appended to an existing room.
	Joined
	// AlreadyMember means the connection already occupied the room.
	AlreadyMember
)

func (o JoinOutcome) String() string {
	switch o {
	case Created:
		return "created"
	case Joined:
		return "joined"
	case AlreadyMember:
		return "already_member"
	default:
		return "unknown"
	}
}

// Room is a named broadcast scope with its member list and message history.
type Room struct {
	ID      string
	members []Conn
	history []Message
}

// Members returns a copy of the member list in join order.
func (r *Room) Members() []Conn {
	return slices.Clone(r.members)
}

// History returns a copy of the message history in append order.
func (r *Room) History() []Message {
	return slices.Clone(r.history)
}

// Store holds every live room. A room with no members is never kept, and a
// connection belongs to at most one room, tracked by the byConn index.
// Store is not safe for concurrent use.
type Store struct {
	rooms  map[string]*Room
	byConn map[string]string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		rooms:  make(map[string]*Room),
		byConn: make(map[string]string),
	}
}

// Join places c in roomID, creating the room when it does not exist yet. A
// connection that occupies another room is removed from it first, which
// deletes that room if c was its last member.
func (s *Store) Join(roomID string, c Conn) (*Room, JoinOutcome) {
	if current, ok := s.byConn[c.ID()]; ok {
		if current == roomID {
			return s.rooms[roomID], AlreadyMember
		}
		s.Remove(c.ID())
	}

	s.byConn[c.ID()] = roomID

	room, ok := s.rooms[roomID]
	if !ok {
		room = &Room{
			ID:      roomID,
			members: []Conn{c},
			history: []Message{WelcomeNotice(roomID)},
		}
		s.rooms[roomID] = room
		return room, Created
	}

	room.members = append(room.members, c)
	return room, Joined
}

// CurrentRoomOf returns the room connID occupies.
func (s *Store) CurrentRoomOf(connID string) (*Room, bool) {
	roomID, ok := s.byConn[connID]
	if !ok {
		return nil, false
	}
	room, ok := s.rooms[roomID]
	return room, ok
}

// Append adds msg to the history of roomID. It reports false when the room
// does not exist.
func (s *Store) Append(roomID string, msg Message) (*Room, bool) {
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, false
	}
	room.history = append(room.history, msg)
	return room, true
}

// Remove takes connID out of its room and deletes the room, history included,
// once it has no members left. It returns the room it left, whether that room
// was deleted, and false when connID was in no room.
func (s *Store) Remove(connID string) (roomID string, deleted, ok bool) {
	roomID, ok = s.byConn[connID]
	if !ok {
		return "", false, false
	}
	delete(s.byConn, connID)

	room, exists := s.rooms[roomID]
	if !exists {
		return roomID, false, true
	}
	room.members = lo.Reject(room.members, func(m Conn, _ int) bool {
		return m.ID() == connID
	})
	if len(room.members) == 0 {
		delete(s.rooms, roomID)
		return roomID, true, true
	}
	return roomID, false, true
}

// Room looks up a room by identifier.
func (s *Store) Room(roomID string) (*Room, bool) {
	room, ok := s.rooms[roomID]
	return room, ok
}

// Len returns the number of live rooms.
func (s *Store) Len() int {
	return len(s.rooms)
}

// RoomIDs returns the identifiers of all live rooms in sorted order.
func (s *Store) RoomIDs() []string {
	ids := lo.Keys(s.rooms)
	slices.Sort(ids)
	return ids
}
