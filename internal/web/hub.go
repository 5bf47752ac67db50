package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/oddsboard/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 1024
	sendBufferSize = 16
)

// Message is the envelope pushed to websocket clients
type Message struct {
	Type string            `json:"type"`
	Data *models.BoardView `json:"data,omitempty"`
}

// ClientMessage is what a client may send: {"type":"select","league":"La Liga"}
type ClientMessage struct {
	Type   string `json:"type"`
	League string `json:"league,omitempty"`
}

// Hub fans rendered views out to websocket clients. It is a sink: every view
// the board renders is pushed to every connected client, and a client that
// connects late receives the most recent view first.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	last    []byte

	onSelect func(ctx context.Context, league string)
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

// Client is one websocket connection
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub
func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log.WithField("component", "ws_hub"),
	}
}

// OnSelect sets the handler for league selections sent by clients
func (h *Hub) OnSelect(fn func(ctx context.Context, league string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSelect = fn
}

// Name implements contracts.Sink
func (h *Hub) Name() string {
	return "websocket"
}

// Render implements contracts.Sink. Slow clients whose buffer is full are dropped.
func (h *Hub) Render(ctx context.Context, view models.BoardView) error {
	data, err := json.Marshal(Message{Type: "board", Data: &view})
	if err != nil {
		return fmt.Errorf("marshal board message: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Warn("client too slow, dropping")
			delete(h.clients, c)
			close(c.send)
		}
	}
	return nil
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and starts the client pumps
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.register(c)

	go c.writePump()
	go c.readPump()
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	h.log.WithField("clients", len(h.clients)).Debug("client registered")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.log.WithField("clients", len(h.clients)).Debug("client unregistered")
}

func (h *Hub) selectHandler() func(ctx context.Context, league string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.onSelect
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Warn("websocket read error")
			}
			return
		}
		c.handleMessage(message)
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
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.hub.log.WithError(err).Debug("ignoring malformed client message")
		return
	}

	switch msg.Type {
	case "select":
		if fn := c.hub.selectHandler(); fn != nil {
			fn(context.Background(), msg.League)
		}
	}
}
