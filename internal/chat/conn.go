//go:generate go run go.uber.org/mock/mockgen -source=conn.go -destination=../../mocks/mock_conn.go -package=mocks

package chat

// Conn is the hub's view of a live transport session. The transport owns the
// underlying connection; the hub only references it.
type Conn interface {
	// ID returns the identifier assigned when the session was accepted.
	ID() string

	// Send queues payload for delivery and reports whether it was accepted.
	// It must not block: a saturated or closed session returns false.
	Send(payload []byte) bool

	// IsOpen reports whether the session can still receive frames.
	IsOpen() bool
}
