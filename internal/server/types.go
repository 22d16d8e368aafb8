// Package server defines shared response types and utility helpers reused
// across client and handler logic.
package server

import "strings"

// healthResponse is the JSON body of the health endpoint.
type healthResponse struct {
	Status      string   `json:"status"`
	Connections int      `json:"connections"`
	Sessions    int      `json:"sessions"`
	Rooms       int      `json:"rooms"`
	RoomIDs     []string `json:"roomIds"`
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
