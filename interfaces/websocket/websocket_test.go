package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"fillai-backend/application/commands"
	"fillai-backend/application/commands/bus"
	"fillai-backend/application/ports"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu   sync.Mutex
	cmds []bus.Command
}

func (r *recordingSender) Send(_ context.Context, cmd bus.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmd)
	return nil
}

func (r *recordingSender) sent() []bus.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bus.Command(nil), r.cmds...)
}

type gauge struct {
	mu sync.Mutex
	n  int
}

func (g *gauge) ClientConnected(delta int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n += delta
}

func (g *gauge) value() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

func startServer(t *testing.T, sender CommandSender) (*Hub, *gauge, string) {
	t.Helper()
	g := &gauge{}
	hub := NewHub(g, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.Run(ctx) }()

	srv := httptest.NewServer(http.HandlerFunc(NewServer(hub, sender, nil, zap.NewNop()).HandleWebSocket))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, g, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil returns the first message of the given type.
func readUntil(t *testing.T, conn *websocket.Conn, messageType string) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == messageType {
			return msg
		}
	}
}

func TestHub_StreamsFrames(t *testing.T) {
	hub, g, url := startServer(t, nil)
	conn := dial(t, url)

	readUntil(t, conn, TypeConnectionEstablished)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, g.value())

	hub.PublishFrame(ports.Frame{Tick: 7, Version: 3, Mode: "radial"})

	msg := readUntil(t, conn, TypeGraphFrame)
	var frame ports.Frame
	require.NoError(t, json.Unmarshal(msg.Data, &frame))
	assert.Equal(t, uint64(7), frame.Tick)
	assert.Equal(t, "radial", frame.Mode)
}

func TestHub_LateClientGetsLastFrame(t *testing.T) {
	hub, _, url := startServer(t, nil)
	hub.PublishFrame(ports.Frame{Tick: 42})

	conn := dial(t, url)
	msg := readUntil(t, conn, TypeGraphFrame)

	var frame ports.Frame
	require.NoError(t, json.Unmarshal(msg.Data, &frame))
	assert.Equal(t, uint64(42), frame.Tick)
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub, g, url := startServer(t, nil)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, g.value())
}

func TestServer_ClientMessages(t *testing.T) {
	sender := &recordingSender{}
	_, _, url := startServer(t, sender)
	conn := dial(t, url)
	readUntil(t, conn, TypeConnectionEstablished)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type": TypeCursor,
		"data": map[string]float64{"x": 500, "y": 300, "viewportWidth": 800, "viewportHeight": 600},
	}))
	require.NoError(t, conn.WriteJSON(map[string]string{"type": TypeCursorLeave}))
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "SOMETHING_ELSE"}))

	require.Eventually(t, func() bool { return len(sender.sent()) == 2 }, time.Second, 10*time.Millisecond)
	cmds := sender.sent()
	assert.Equal(t, commands.SetCursorCommand{X: 500, Y: 300, ViewportWidth: 800, ViewportHeight: 600}, cmds[0])
	assert.Equal(t, commands.SetCursorCommand{Clear: true}, cmds[1])
}

func TestServer_InvalidMessage(t *testing.T) {
	_, _, url := startServer(t, &recordingSender{})
	conn := dial(t, url)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	msg := readUntil(t, conn, TypeError)
	assert.Contains(t, string(msg.Data), "invalid message")
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{name: "no origin header", allowed: []string{"https://fill.ai"}, want: true},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://evil.example", want: true},
		{name: "exact origin", allowed: []string{"https://fill.ai"}, origin: "https://fill.ai", want: true},
		{name: "host only", allowed: []string{"localhost:3000"}, origin: "http://localhost:3000", want: true},
		{name: "rejected", allowed: []string{"https://fill.ai"}, origin: "https://evil.example", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originChecker(tt.allowed)(r))
		})
	}
}
