// Package server exposes HTTP handlers, including WebSocket upgrades, health
// checks, and the built-in test page.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

// handleWebSocket upgrades the request, registers the session with the hub
// and starts its pumps.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("addr", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(s.newID(), conn, s.hub, r.RemoteAddr, s.cfg, s.log)
	s.log.Info().Str("conn", client.ID()).Str("addr", r.RemoteAddr).Msg("websocket upgraded")

	// The hub must know the session before its first payload arrives.
	if err := s.hub.Connect(s.ctx, client); err != nil {
		s.log.Warn().Err(err).Str("conn", client.ID()).Msg("hub rejected connection")
		client.markClosed()
		client.closeConnection()
		return
	}
	s.sessions.start(s.ctx, client)
}

// handleRoot serves WebSocket upgrades on the root path and the health
// document otherwise.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if websocket.IsWebSocketUpgrade(r) {
		s.handleWebSocket(w, r)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.handleHealth(w, r)
}

// handleHealth reports hub and session counts as JSON.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	stats := s.hub.Stats()
	body := healthResponse{
		Status:      "ok",
		Connections: stats.Connections,
		Sessions:    s.sessions.count(),
		Rooms:       stats.Rooms,
		RoomIDs:     stats.RoomIDs,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn().Err(err).Msg("write health response")
	}
}

// TestPageHandler serves an HTML page for trying the relay from a browser:
// pick a room and a name, join, then send text or emoji.
func TestPageHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = fmt.Fprint(w, testPage)
}

const testPage = `<!DOCTYPE html>
<html>
<head>
    <title>Chatguard WebSocket Test</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        #messages {
            border: 1px solid #ccc;
            height: 300px;
            padding: 10px;
            overflow-y: scroll;
            margin: 10px 0;
            background-color: #f9f9f9;
        }
        input[type="text"] { width: 200px; padding: 5px; margin-right: 10px; }
        button { padding: 5px 15px; background-color: #007cba; color: white; border: none; cursor: pointer; }
        button:hover { background-color: #005a87; }
        button:disabled { background-color: #999; cursor: default; }
        .status { margin: 10px 0; padding: 5px; border-radius: 3px; }
        .connected { background-color: #d4edda; color: #155724; }
        .disconnected { background-color: #f8d7da; color: #721c24; }
    </style>
</head>
<body>
    <h1>Chatguard WebSocket Test</h1>

    <div id="status" class="status disconnected">Disconnected</div>

    <div>
        <input type="text" id="roomInput" placeholder="Room" value="lobby">
        <input type="text" id="nameInput" placeholder="Username">
        <button id="joinButton" onclick="join()">Join</button>
    </div>
    <div style="margin-top: 10px">
        <input type="text" id="messageInput" placeholder="Type a message..." disabled>
        <button id="sendButton" onclick="sendMessage()" disabled>Send</button>
        <button id="emojiButton" onclick="sendEmoji()" disabled>&#127881;</button>
    </div>

    <div id="messages"></div>

    <script>
        let ws = null;
        const messagesDiv = document.getElementById('messages');
        const statusDiv = document.getElementById('status');
        const messageInput = document.getElementById('messageInput');
        const controls = ['messageInput', 'sendButton', 'emojiButton'].map(id => document.getElementById(id));

        function addLine(text, color) {
            const el = document.createElement('div');
            el.style.margin = '5px 0';
            el.style.color = color || 'black';
            el.textContent = text;
            messagesDiv.appendChild(el);
            messagesDiv.scrollTop = messagesDiv.scrollHeight;
        }

        function setJoined(joined) {
            statusDiv.textContent = joined ? 'Connected' : 'Disconnected';
            statusDiv.className = 'status ' + (joined ? 'connected' : 'disconnected');
            controls.forEach(el => el.disabled = !joined);
        }

        function username() {
            return document.getElementById('nameInput').value.trim();
        }

        function join() {
            if (ws) {
                ws.close();
            }
            const scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
            ws = new WebSocket(scheme + location.host + '/ws');
            ws.onopen = () => {
                ws.send(JSON.stringify({
                    type: 'join',
                    roomId: document.getElementById('roomInput').value,
                    username: username()
                }));
                setJoined(true);
            };
            ws.onmessage = (event) => {
                const env = JSON.parse(event.data);
                const msg = env.message;
                const who = msg.sender && msg.sender.username ? msg.sender.username : '?';
                const body = env.type === 'emoji' ? JSON.stringify(msg.emoji) : msg.str;
                addLine(who + ': ' + body, msg.style && msg.style.color);
            };
            ws.onclose = () => {
                addLine('Connection closed', 'gray');
                setJoined(false);
                ws = null;
            };
        }

        function sendMessage() {
            const text = messageInput.value.trim();
            if (text && ws && ws.readyState === WebSocket.OPEN) {
                ws.send(JSON.stringify({ type: 'message', sender: { username: username() }, str: text, style: {} }));
                messageInput.value = '';
            }
        }

        function sendEmoji() {
            if (ws && ws.readyState === WebSocket.OPEN) {
                ws.send(JSON.stringify({ type: 'emoji', sender: { username: username() }, emoji: '\u{1F389}', style: {} }));
            }
        }

        messageInput.addEventListener('keypress', (e) => {
            if (e.key === 'Enter') {
                sendMessage();
            }
        });
    </script>
</body>
</html>`
