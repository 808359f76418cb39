package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uuid.UUID
}

// WSEvent is the frame pushed to clients
type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebSocketManager tracks live connections per user and pushes change
// events to them. It implements domain.Notifier for this instance only.
type WebSocketManager struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	// userID -> active clients (one per device)
	userClients map[uuid.UUID]map[*Client]bool
	mu          sync.RWMutex
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

func NewWebSocketManager(logger *zap.Logger, allowedOrigins []string) *WebSocketManager {
	return &WebSocketManager{
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
		userClients: make(map[uuid.UUID]map[*Client]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		logger: logger,
	}
}

// checkOrigin allows any origin when the list is empty or contains "*"
func checkOrigin(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// Run owns client registration until ctx is cancelled, then closes every
// client.
func (m *WebSocketManager) Run(ctx context.Context) {
	defer close(m.done)

	for {
		select {
		case <-ctx.Done():
			m.mu.Lock()
			for userID, clients := range m.userClients {
				for client := range clients {
					close(client.Send)
				}
				delete(m.userClients, userID)
			}
			m.mu.Unlock()
			return

		case client := <-m.register:
			m.mu.Lock()
			if _, ok := m.userClients[client.UserID]; !ok {
				m.userClients[client.UserID] = make(map[*Client]bool)
			}
			m.userClients[client.UserID][client] = true
			m.mu.Unlock()
			m.logger.Debug("Client registered", zap.String("userID", client.UserID.String()))

		case client := <-m.unregister:
			m.mu.Lock()
			if userMap, ok := m.userClients[client.UserID]; ok && userMap[client] {
				delete(userMap, client)
				if len(userMap) == 0 {
					delete(m.userClients, client.UserID)
				}
				close(client.Send)
				m.logger.Debug("Client unregistered", zap.String("userID", client.UserID.String()))
			}
			m.mu.Unlock()
		}
	}
}

// ClientCount returns how many sockets userID has open
func (m *WebSocketManager) ClientCount(userID uuid.UUID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.userClients[userID])
}

// SendToUser sends a message to a specific user's connected clients.
// Slow clients miss the message rather than block the sender.
func (m *WebSocketManager) SendToUser(userID uuid.UUID, message interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clients, ok := m.userClients[userID]
	if !ok {
		return
	}

	jsonMsg, err := json.Marshal(message)
	if err != nil {
		m.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}

	for client := range clients {
		select {
		case client.Send <- jsonMsg:
		default:
			m.logger.Debug("Dropping message for slow client", zap.String("userID", userID.String()))
		}
	}
}

// Publish pushes ev to every recipient connected to this instance
func (m *WebSocketManager) Publish(_ context.Context, ev domain.ChangeEvent) error {
	frame := WSEvent{Type: string(ev.Kind), Payload: ev}
	for _, userID := range ev.Recipients {
		m.SendToUser(userID, frame)
	}
	return nil
}

// ServeWS handles GET /ws for an authenticated user
func (m *WebSocketManager) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		UserID: userID,
	}

	select {
	case m.register <- client:
	case <-m.done:
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump(m)
}

func (c *Client) ReadPump(manager *WebSocketManager) {
	defer func() {
		select {
		case manager.unregister <- c:
		case <-manager.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// Server to client only; reads just keep the deadline moving.
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				manager.logger.Debug("Websocket closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
