package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"microtask/internal/domain/entity"
	"microtask/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 256
)

// Client represents one WebSocket connection of a signed in user. Send is
// never closed; done is closed once the hub drops the client.
type Client struct {
	UserEmail string
	Conn      *websocket.Conn
	Send      chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(email string, conn *websocket.Conn) *Client {
	return &Client{
		UserEmail: email,
		Conn:      conn,
		Send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
	}
}

// Done is closed when the hub stops serving the client.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// queue hands message to the writer without blocking. It reports false when
// the buffer is full or the client is gone.
func (c *Client) queue(message []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.Send <- message:
		return true
	default:
		return false
	}
}

// Manager tracks open connections per user and pushes ledger notifications
// to them. A user may hold several connections at once.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	stopped    chan struct{}
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopped:    make(chan struct{}),
	}
}

// Register adds client to the hub. After shutdown the client is closed
// straight away.
func (m *Manager) Register(client *Client) {
	select {
	case m.register <- client:
	case <-m.stopped:
		client.close()
	}
}

// Unregister removes client. It returns immediately once the hub has stopped.
func (m *Manager) Unregister(client *Client) {
	select {
	case m.unregister <- client:
	case <-m.stopped:
	}
}

// Start runs the registration loop until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.register:
				m.mutex.Lock()
				if m.clients[client.UserEmail] == nil {
					m.clients[client.UserEmail] = make(map[*Client]struct{})
				}
				m.clients[client.UserEmail][client] = struct{}{}
				m.mutex.Unlock()
				logger.Debug("WebSocket client registered: %s", client.UserEmail)

			case client := <-m.unregister:
				m.remove(client)
				logger.Debug("WebSocket client unregistered: %s", client.UserEmail)

			case <-ctx.Done():
				m.mutex.Lock()
				for email, conns := range m.clients {
					for client := range conns {
						client.close()
					}
					delete(m.clients, email)
				}
				close(m.stopped)
				m.mutex.Unlock()
				return
			}
		}
	}()
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	conns, ok := m.clients[client.UserEmail]
	if !ok {
		return
	}
	if _, ok := conns[client]; ok {
		delete(conns, client)
		client.close()
	}
	if len(conns) == 0 {
		delete(m.clients, client.UserEmail)
	}
}

// Connections returns the number of open connections for email.
func (m *Manager) Connections(email string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[email])
}

// SendToUser queues message on every connection of email. Connections
// whose buffer is full are dropped.
func (m *Manager) SendToUser(email string, message []byte) {
	m.mutex.RLock()
	var slow []*Client
	for client := range m.clients[email] {
		if !client.queue(message) {
			slow = append(slow, client)
		}
	}
	m.mutex.RUnlock()

	for _, client := range slow {
		logger.Warn("Dropping slow WebSocket client for %s", email)
		m.remove(client)
	}
}

// Publish pushes a committed ledger entry to the affected user.
func (m *Manager) Publish(ctx context.Context, event entity.LedgerEvent) error {
	payload, err := json.Marshal(WSMessage{
		Type:      MessageTypeLedgerEntry,
		Data:      event,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	m.SendToUser(event.UserEmail, payload)
	return nil
}

// ReadPump reads control messages from the connection until it closes.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error for %s: %v", c.UserEmail, err)
			}
			return
		}

		if reply := HandleMessage(message); reply != nil {
			c.queue(reply)
		}
	}
}

// WritePump sends queued messages and keepalive pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket write error for %s: %v", c.UserEmail, err)
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
