// Package server implements the HTTP and WebSocket transport for the Chatguard
// relay.
//
// It upgrades HTTP requests to WebSocket sessions, runs a read and a write pump
// per session, and hands every session to the chat hub through the chat.Conn
// interface. Configuration, origin policy, health reporting and graceful
// shutdown live here too; room semantics do not.
package server
