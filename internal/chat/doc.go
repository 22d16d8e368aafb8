// Package chat implements the room membership and broadcast engine behind the
// Chatguard relay.
//
// A Hub owns the connection registry and the room store and processes one
// connection event at a time: connects, inbound payloads and closes are queued
// and drained by a single Run loop, so no handler ever observes a half-applied
// change made by another event. Outbound delivery goes through the Conn
// interface, whose Send must never block.
package chat
