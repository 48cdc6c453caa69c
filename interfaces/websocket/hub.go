// Package websocket streams simulation frames to browser clients.
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"fillai-backend/application/ports"

	"go.uber.org/zap"
)

// Message types.
const (
	TypeGraphFrame            = "GRAPH_FRAME"
	TypeConnectionEstablished = "CONNECTION_ESTABLISHED"
	TypeCursor                = "CURSOR"
	TypeCursorLeave           = "CURSOR_LEAVE"
	TypeError                 = "ERROR"
)

// Message is the envelope of everything sent over the socket.
type Message struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// ConnectionGauge is told whenever a client joins (+1) or leaves (-1).
type ConnectionGauge interface {
	ClientConnected(delta int)
}

// HubStats are counters since the hub started.
type HubStats struct {
	ActiveConnections int
	MessagesSent      int64
	MessagesDropped   int64
}

// Hub fans frames out to every connected client. It implements
// ports.FrameSink.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex
	last    []byte

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	sent    atomic.Int64
	dropped atomic.Int64

	gauge  ConnectionGauge
	logger *zap.Logger
}

// NewHub creates a hub. gauge may be nil.
func NewHub(gauge ConnectionGauge, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 100),
		unregister: make(chan *Client, 100),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		gauge:      gauge,
		logger:     logger,
	}
}

// Run starts the hub's main event loop and returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAllConnections()
			h.logger.Info("Hub stopped", zap.Int64("messagesSent", h.sent.Load()))
			return nil

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case data := <-h.broadcast:
			h.broadcastAll(data)
		}
	}
}

// PublishFrame queues frame for every client. When the queue is full the
// frame is dropped; the next one supersedes it anyway.
func (h *Hub) PublishFrame(frame ports.Frame) {
	data, err := encode(TypeGraphFrame, frame)
	if err != nil {
		h.logger.Error("Failed to marshal frame", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.last = data
	h.mu.Unlock()

	select {
	case h.broadcast <- data:
	default:
		h.dropped.Add(1)
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns the hub counters.
func (h *Hub) Stats() HubStats {
	return HubStats{
		ActiveConnections: h.ClientCount(),
		MessagesSent:      h.sent.Load(),
		MessagesDropped:   h.dropped.Load(),
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	last := h.last
	count := len(h.clients)
	h.mu.Unlock()

	// New clients get the latest frame right away instead of waiting for
	// the next change.
	if last != nil {
		h.deliver(client, last)
	}
	if h.gauge != nil {
		h.gauge.ClientConnected(1)
	}
	h.logger.Info("Client registered",
		zap.String("connectionID", client.id),
		zap.Int("connections", count),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		client.close()
	}
	count := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	if h.gauge != nil {
		h.gauge.ClientConnected(-1)
	}
	h.logger.Info("Client unregistered",
		zap.String("connectionID", client.id),
		zap.Int("remainingConnections", count),
	)
}

func (h *Hub) broadcastAll(data []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.deliver(c, data)
	}
}

// deliver must only be called from the Run goroutine.
func (h *Hub) deliver(c *Client, data []byte) {
	if c.trySend(data) {
		h.sent.Add(1)
	} else {
		h.dropped.Add(1)
		h.logger.Warn("Closing slow client", zap.String("connectionID", c.id))
		h.unregisterClient(c)
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()
	n := len(h.clients)
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
	h.mu.Unlock()

	if h.gauge != nil && n > 0 {
		h.gauge.ClientConnected(-n)
	}
}

func encode(messageType string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: messageType, Data: raw, Timestamp: time.Now().Unix()})
}
