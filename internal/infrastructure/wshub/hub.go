// Package wshub broadcasts dispatcher calls to connected UI clients over
// WebSocket and accepts their action and dismissal reports.
package wshub

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-notify-links/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 5 * time.Second

// ClientHandler receives messages sent by UI clients.
type ClientHandler func(ctx context.Context, msg domain.ClientMessage)

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // gorilla allows one concurrent writer
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub holds WebSocket clients. It implements the dispatcher surface and
// http.Handler.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	onClient ClientHandler
	log      zerolog.Logger
}

// New creates a hub. checkOrigin may be nil to accept any origin.
func New(log zerolog.Logger, checkOrigin func(*http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		clients:  make(map[*client]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
		log:      log.With().Str("component", "wshub").Logger(),
	}
}

// OnClientMessage sets the handler for inbound client messages. Call before serving.
func (h *Hub) OnClientMessage(fn ClientHandler) { h.onClient = fn }

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Post(_ context.Context, d *domain.NotificationDescriptor) error {
	return h.broadcast(domain.SurfaceEnvelope{Op: domain.OpPost, ID: d.ID, Notification: d})
}

func (h *Hub) Cancel(_ context.Context, id domain.NotificationID) error {
	return h.broadcast(domain.SurfaceEnvelope{Op: domain.OpCancel, ID: id})
}

func (h *Hub) CancelAll(context.Context) error {
	return h.broadcast(domain.SurfaceEnvelope{Op: domain.OpCancelAll})
}

// broadcast sends env to every client. Delivery to a single client is best
// effort; a failed client is dropped.
func (h *Hub) broadcast(env domain.SurfaceEnvelope) error {
	payload, err := sonic.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", env.Op, err)
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(payload); err != nil {
			h.log.Debug().Err(err).Msg("dropping client")
			h.unregister(c)
			_ = c.conn.Close()
		}
	}
	return nil
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// ServeHTTP upgrades the request and reads client messages until the
// connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("upgrade failed")
		return
	}
	defer conn.Close()

	c := &client{conn: conn}
	h.register(c)
	defer h.unregister(c)
	h.log.Debug().Str("remote", r.RemoteAddr).Msg("client connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg domain.ClientMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.log.Warn().Err(err).Msg("bad client message")
			continue
		}
		if h.onClient != nil {
			h.onClient(r.Context(), msg)
		}
	}
}
