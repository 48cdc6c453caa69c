package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Clients only send small cursor messages.
	maxMessageSize = 4 * 1024

	sendBufferSize = 16
)

// Client represents a WebSocket client connection
type Client struct {
	id        string
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	mu        sync.Mutex
	closed    bool
	onMessage func(c *Client, msg Message)
	logger    *zap.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, onMessage func(*Client, Message), logger *zap.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		id:        id,
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		onMessage: onMessage,
		logger:    logger.With(zap.String("connectionID", id)),
	}
}

// ID returns the client's connection ID
func (c *Client) ID() string {
	return c.id
}

// start registers with the hub and runs the pumps.
func (c *Client) start() {
	c.queue(TypeConnectionEstablished, map[string]string{"connectionId": c.id})
	c.hub.register <- c

	go c.writePump()
	go c.readPump()
}

// queue sends a message to this client only. It never blocks.
func (c *Client) queue(messageType string, data interface{}) {
	payload, err := encode(messageType, data)
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}
	if !c.trySend(payload) {
		c.logger.Warn("Dropped message for slow client", zap.String("type", messageType))
	}
}

// trySend queues data without blocking. It reports false only when the
// buffer is full; a closed client swallows the message.
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// close ends the write pump. It is safe to call more than once.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.queue(TypeError, map[string]string{"message": "invalid message"})
			continue
		}
		if c.onMessage != nil {
			c.onMessage(c, msg)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
