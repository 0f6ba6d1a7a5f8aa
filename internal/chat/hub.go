// Package chat is the live chat relay. Clients connect over a websocket, and
// each message is stamped with the sender's authenticated handle before it is
// broadcast to every connected client.
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	sendBuffer = 32
	writeWait  = 10 * time.Second
	maxFrame   = 4096
)

// Identity resolves a session token to its account.
type Identity interface {
	Resolve(ctx context.Context, token string) (*store.Account, error)
}

// Relay carries messages between instances. Messages published through it
// must come back through Hub.Broadcast.
type Relay interface {
	Publish(ctx context.Context, msg Message) error
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	handle string
}

type Hub struct {
	identity Identity
	relay    Relay
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

type Option func(*Hub)

// WithRelay routes outgoing messages through r instead of broadcasting
// locally.
func WithRelay(r Relay) Option {
	return func(h *Hub) { h.relay = r }
}

func NewHub(identity Identity, opts ...Option) *Hub {
	h := &Hub{
		identity: identity,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  map[*client]struct{}{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) { h.HandleWS(w, r) }

func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	handle := h.authenticate(r)
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn.SetReadLimit(maxFrame)
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), handle: handle}
	h.register(c)

	go h.writeLoop(c)
	h.readLoop(r.Context(), c)
}

// authenticate returns the sender handle, or "" for a read-only client.
func (h *Hub) authenticate(r *http.Request) string {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		auth := r.Header.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
	}
	if token == "" || h.identity == nil {
		return ""
	}
	acct, err := h.identity.Resolve(r.Context(), token)
	if err != nil {
		return ""
	}
	return acct.Handle
}

func (h *Hub) readLoop(ctx context.Context, c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if c.handle == "" {
			continue
		}
		var in Inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			continue
		}
		text, ok := normalize(in)
		if !ok {
			continue
		}
		messagesTotal.Inc()
		h.publish(ctx, Message{Type: TypeChat, Username: c.handle, Message: text})
	}
}

func (h *Hub) writeLoop(c *client) {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			_ = c.conn.Close()
			return
		}
	}
}

func (h *Hub) publish(ctx context.Context, msg Message) {
	if h.relay == nil {
		h.Broadcast(msg)
		return
	}
	if err := h.relay.Publish(ctx, msg); err != nil {
		relayErrorsTotal.Inc()
		log.Warn().Err(err).Msg("chat relay publish failed, delivering locally")
		h.Broadcast(msg)
	}
}

// Broadcast delivers msg to every connected client. A client whose buffer is
// full misses the message.
func (h *Hub) Broadcast(msg Message) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			droppedTotal.Inc()
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client. Hijacked connections are not closed by
// http.Server.Shutdown.
func (h *Hub) Close() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c.conn)
	}
	h.mu.RUnlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	clientsGauge.Inc()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	if ok {
		close(c.send)
	}
	h.mu.Unlock()
	if ok {
		clientsGauge.Dec()
	}
}
