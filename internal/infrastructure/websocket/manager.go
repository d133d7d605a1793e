package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"adboard/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendQueueSize  = 64
)

// Client is one websocket connection for an authenticated user. A user may
// hold several connections (multiple tabs, devices); each gets its own
// client and session.
type Client struct {
	UserID  string
	Conn    *websocket.Conn
	Send    chan []byte
	Session *ChatSession

	manager *Manager

	// sendMu orders enqueues against closeSend: watcher callbacks may still
	// fire after the client unregisters, and a bare send would hit a closed
	// channel.
	sendMu     sync.Mutex
	sendClosed bool
}

type Manager struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Start(ctx context.Context) {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			if m.clients[client.UserID] == nil {
				m.clients[client.UserID] = make(map[*Client]bool)
			}
			m.clients[client.UserID][client] = true
			m.mu.Unlock()
			logger.Info("WebSocket client connected: user=%s", client.UserID)

		case client := <-m.unregister:
			m.mu.Lock()
			if conns, ok := m.clients[client.UserID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					client.closeSend()
					if len(conns) == 0 {
						delete(m.clients, client.UserID)
					}
				}
			}
			m.mu.Unlock()
			if client.Session != nil {
				client.Session.Close()
			}
			logger.Info("WebSocket client disconnected: user=%s", client.UserID)

		case <-ctx.Done():
			m.mu.Lock()
			for _, conns := range m.clients {
				for client := range conns {
					client.closeSend()
					if client.Session != nil {
						client.Session.Close()
					}
				}
			}
			m.clients = make(map[string]map[*Client]bool)
			m.mu.Unlock()
			return
		}
	}
}

func (m *Manager) Register(client *Client) {
	client.manager = m
	m.register <- client
}

func (m *Manager) Unregister(client *Client) {
	m.unregister <- client
}

// SendToUser delivers an event to every live connection of a user. Slow
// connections with a full send queue are skipped rather than blocked on.
func (m *Manager) SendToUser(userID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal websocket event: %v", err)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for client := range m.clients[userID] {
		if !client.enqueue(payload) {
			logger.Warn("Dropping event for user %s: send queue full", userID)
		}
	}
}

// IsOnline reports whether the user has at least one live connection.
func (m *Manager) IsOnline(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID]) > 0
}

func (c *Client) SendEvent(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal websocket event: %v", err)
		return
	}
	if !c.enqueue(payload) {
		logger.Warn("Dropping event for user %s: send queue full or connection gone", c.UserID)
	}
}

// enqueue places a payload on the send queue unless the client has been torn
// down or the queue is full. Never blocks.
func (c *Client) enqueue(payload []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return false
	}
	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// closeSend shuts the send queue exactly once. Late enqueue attempts after
// this are dropped instead of panicking.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return
	}
	c.sendClosed = true
	close(c.Send)
}

// ReadPump reads client events until the connection drops, dispatching each
// to the session. It owns the read side of the connection.
func (c *Client) ReadPump() {
	defer func() {
		c.manager.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Error("WebSocket read error for user %s: %v", c.UserID, err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			c.SendEvent(NewEvent(EventError, ErrorData{Message: "malformed event"}))
			continue
		}

		c.Session.Handle(event)
	}
}

// WritePump drains the send queue onto the connection and keeps it alive
// with pings. It owns the write side of the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
