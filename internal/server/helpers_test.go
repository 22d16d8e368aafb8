package server

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/chatguard/internal/chat"
)

const readTimeout = 2 * time.Second

type envelope struct {
	Type    string         `json:"type"`
	Message map[string]any `json:"message"`
}

// startTestServer runs a relay behind httptest and tears it down with the test.
func startTestServer(t *testing.T, cfg *Config) (*Server, *httptest.Server) {
	t.Helper()
	if cfg == nil {
		cfg = NewConfig()
	}

	srv := New(cfg, zerolog.Nop(),
		WithIDGenerator(sequentialIDs()),
		WithHubOptions(chat.WithRand(rand.New(rand.NewPCG(1, 2)))),
	)
	srv.Start()
	ts := httptest.NewServer(srv.Routes())

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		ts.Close()
	})
	return srv, ts
}

// sequentialIDs names connections conn-1, conn-2, ... in accept order.
func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("conn-%d", n.Add(1))
	}
}

func wsURL(ts *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + path
}

// dial opens a WebSocket connection, optionally with an Origin header.
func dial(t *testing.T, url, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}

	headers := http.Header{}
	if origin != "" {
		headers.Set("Origin", origin)
	}
	conn, resp, err := dialer.Dial(url, headers)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if conn != nil {
		t.Cleanup(func() { _ = conn.Close() })
	}
	return conn, resp, err
}

func mustDial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := dial(t, wsURL(ts, "/ws"), "")
	require.NoError(t, err)
	return conn
}

func sendJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))
	var env envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

// waitForRoom blocks until roomID has the given member count. A count of zero
// waits for the room to disappear.
func waitForRoom(t *testing.T, srv *Server, roomID string, members int) {
	t.Helper()
	require.Eventually(t, func() bool {
		snap, ok := srv.Hub().Snapshot(roomID)
		if members == 0 {
			return !ok
		}
		return ok && len(snap.Members) == members
	}, readTimeout, 5*time.Millisecond)
}
