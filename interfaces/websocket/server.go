package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"fillai-backend/application/commands"
	"fillai-backend/application/commands/bus"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// CommandSender dispatches commands received from clients.
type CommandSender interface {
	Send(ctx context.Context, cmd bus.Command) error
}

// ServerConfig holds WebSocket server configuration
type ServerConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	AllowedOrigins  []string
	MaxConnections  int
}

// DefaultServerConfig returns default WebSocket server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		AllowedOrigins:  []string{"*"},
		MaxConnections:  100,
	}
}

// Server upgrades HTTP requests to frame streams.
type Server struct {
	hub            *Hub
	upgrader       websocket.Upgrader
	commands       CommandSender
	maxConnections int
	logger         *zap.Logger
}

// NewServer creates a new WebSocket server. commands may be nil, in which
// case client messages are ignored.
func NewServer(hub *Hub, commands CommandSender, config *ServerConfig, logger *zap.Logger) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	return &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     originChecker(config.AllowedOrigins),
		},
		commands:       commands,
		maxConnections: config.MaxConnections,
		logger:         logger,
	}
}

// HandleWebSocket handles WebSocket upgrade requests
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.maxConnections > 0 && s.hub.ClientCount() >= s.maxConnections {
		s.logger.Warn("Connection limit reached", zap.Int("limit", s.maxConnections))
		http.Error(w, "Connection limit exceeded", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Failed to upgrade connection",
			zap.Error(err),
			zap.String("remoteAddr", r.RemoteAddr),
		)
		return
	}

	client := newClient(s.hub, conn, s.handleMessage, s.logger)
	client.start()

	s.logger.Debug("WebSocket connection established",
		zap.String("connectionID", client.ID()),
		zap.String("remoteAddr", r.RemoteAddr),
	)
}

// cursorPayload is the data of a CURSOR message.
type cursorPayload struct {
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	ViewportWidth  float64 `json:"viewportWidth"`
	ViewportHeight float64 `json:"viewportHeight"`
}

func (s *Server) handleMessage(c *Client, msg Message) {
	if s.commands == nil {
		return
	}

	var cmd bus.Command
	switch msg.Type {
	case TypeCursor:
		var p cursorPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			c.queue(TypeError, map[string]string{"message": "invalid cursor payload"})
			return
		}
		cmd = commands.SetCursorCommand{
			X:              p.X,
			Y:              p.Y,
			ViewportWidth:  p.ViewportWidth,
			ViewportHeight: p.ViewportHeight,
		}
	case TypeCursorLeave:
		cmd = commands.SetCursorCommand{Clear: true}
	default:
		c.logger.Debug("Ignoring client message", zap.String("type", msg.Type))
		return
	}

	if err := s.commands.Send(context.Background(), cmd); err != nil {
		c.queue(TypeError, map[string]string{"message": err.Error()})
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) || strings.EqualFold(a, u.Host) {
				return true
			}
		}
		return false
	}
}
