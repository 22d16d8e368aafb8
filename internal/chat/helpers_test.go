package chat

import (
	"encoding/json"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixedRand always draws the same value, modulo n.
type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

type fakeConn struct {
	id string

	mu     sync.Mutex
	closed bool
	full   bool
	frames [][]byte
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.full {
		return false
	}
	c.frames = append(c.frames, append([]byte(nil), payload...))
	return true
}

func (c *fakeConn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *fakeConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) frameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func (c *fakeConn) rawFrames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.frames)
}

type wireEnvelope struct {
	Type    string         `json:"type"`
	Message map[string]any `json:"message"`
}

func (c *fakeConn) envelopes(t *testing.T) []wireEnvelope {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]wireEnvelope, 0, len(c.frames))
	for _, frame := range c.frames {
		var env wireEnvelope
		require.NoError(t, json.Unmarshal(frame, &env))
		out = append(out, env)
	}
	return out
}

func newTestHub() *Hub {
	return NewHub(WithRand(fixedRand(7)))
}

func connect(h *Hub, c Conn) {
	h.handle(event{kind: connectEvent, conn: c})
}

func deliver(h *Hub, c Conn, payload string) {
	h.handle(event{kind: payloadEvent, conn: c, payload: []byte(payload)})
}

func disconnect(h *Hub, c Conn) {
	h.handle(event{kind: closeEvent, conn: c})
}
