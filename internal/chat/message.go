package chat

import (
	"encoding/json"
	"fmt"
)

// EventType is the discriminant carried by inbound payloads and outbound
// envelopes.
type EventType string

const (
	EventJoin    EventType = "join"
	EventMessage EventType = "message"
	EventEmoji   EventType = "emoji"
)

const (
	systemUsername = "Chatguard"
	systemColor    = "#9b39d5"
	noticeColor    = "#22283b"
)

// Kind tells which variant a Message holds.
type Kind int

const (
	KindNotice Kind = iota
	KindText
	KindEmoji
)

// Sender identifies the system author of notices. Client senders are never
// decoded; they travel as raw JSON in Message.Author.
type Sender struct {
	Username string  `json:"username"`
	UUID     *string `json:"uuid"`
	Color    string  `json:"color,omitempty"`
}

// Style is an opaque bag of presentation hints attached to notices.
type Style map[string]any

// Message is one history entry. Notices carry Sender, Text and Style. Text
// and emoji messages carry the client's sender, content and style exactly as
// received: Content holds the str value of a text message or the emoji value
// of an emoji message.
type Message struct {
	Kind   Kind
	Sender Sender
	Text   string
	Style  Style

	Author     json.RawMessage
	Content    json.RawMessage
	ClientLook json.RawMessage
}

type noticeWire struct {
	Sender Sender `json:"sender"`
	Str    string `json:"str"`
	Style  Style  `json:"style"`
}

// Absent client fields stay absent on the way out.
type textWire struct {
	Sender json.RawMessage `json:"sender,omitempty"`
	Str    json.RawMessage `json:"str,omitempty"`
	Style  json.RawMessage `json:"style,omitempty"`
}

type emojiWire struct {
	Sender json.RawMessage `json:"sender,omitempty"`
	Emoji  json.RawMessage `json:"emoji,omitempty"`
	Style  json.RawMessage `json:"style,omitempty"`
}

// MarshalJSON encodes the message in the wire shape clients expect:
// {sender, str, style} for notices and text, {sender, emoji, style} for emoji.
func (m Message) MarshalJSON() ([]byte, error) {
	switch m.Kind {
	case KindText:
		return json.Marshal(textWire{Sender: m.Author, Str: m.Content, Style: m.ClientLook})
	case KindEmoji:
		return json.Marshal(emojiWire{Sender: m.Author, Emoji: m.Content, Style: m.ClientLook})
	default:
		return json.Marshal(noticeWire{Sender: m.Sender, Str: m.Text, Style: m.Style})
	}
}

// Envelope is the outbound frame delivered to room members.
type Envelope struct {
	Type    EventType `json:"type"`
	Message Message   `json:"message"`
}

func systemSender() Sender {
	return Sender{Username: systemUsername, Color: systemColor}
}

// WelcomeNotice is the first history entry of every new room.
func WelcomeNotice(roomID string) Message {
	return Message{
		Kind:   KindNotice,
		Sender: systemSender(),
		Text:   fmt.Sprintf("Welcome in room %s\nPlease be kind and follow the guidelines", roomID),
		Style:  Style{"color": noticeColor},
	}
}

// JoinNotice announces a member joining an existing room.
func JoinNotice(text string) Message {
	return Message{
		Kind:   KindNotice,
		Sender: systemSender(),
		Text:   text,
		Style:  Style{"color": noticeColor},
	}
}

func textMessage(sender, str, style json.RawMessage) Message {
	return Message{Kind: KindText, Author: sender, Content: str, ClientLook: style}
}

func emojiMessage(sender, emoji, style json.RawMessage) Message {
	return Message{Kind: KindEmoji, Author: sender, Content: emoji, ClientLook: style}
}
