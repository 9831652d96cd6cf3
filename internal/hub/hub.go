// Package hub keeps the registry of connected sockets and fans lifecycle
// messages out to them.
package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/swingeats/swingeats/internal/transport"
	"github.com/swingeats/swingeats/pkg/logging"
)

// SnapshotFunc returns the payload pushed to every new socket.
type SnapshotFunc func(ctx context.Context) (any, error)

type Options struct {
	SendQueue   int
	WriteWait   time.Duration
	PongWait    time.Duration
	PingPeriod  time.Duration
	MaxMessage  int64
	CheckOrigin func(r *http.Request) bool
}

func DefaultOptions() Options {
	return Options{
		SendQueue:   64,
		WriteWait:   10 * time.Second,
		PongWait:    60 * time.Second,
		PingPeriod:  54 * time.Second,
		MaxMessage:  4096,
		CheckOrigin: func(*http.Request) bool { return true },
	}
}

type Hub struct {
	opts     Options
	log      *slog.Logger
	snapshot SnapshotFunc
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client
}

func New(log *slog.Logger, snapshot SnapshotFunc, opts Options) *Hub {
	def := DefaultOptions()
	if opts.SendQueue <= 0 {
		opts.SendQueue = def.SendQueue
	}
	if opts.WriteWait <= 0 {
		opts.WriteWait = def.WriteWait
	}
	if opts.PongWait <= 0 {
		opts.PongWait = def.PongWait
	}
	if opts.PingPeriod <= 0 || opts.PingPeriod >= opts.PongWait {
		opts.PingPeriod = opts.PongWait * 9 / 10
	}
	if opts.MaxMessage <= 0 {
		opts.MaxMessage = def.MaxMessage
	}
	if opts.CheckOrigin == nil {
		opts.CheckOrigin = def.CheckOrigin
	}
	return &Hub{
		opts:     opts,
		log:      logging.Component(log, "hub"),
		snapshot: snapshot,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
		clients: make(map[string]*client),
	}
}

// SetSnapshot replaces the snapshot source. The engine and the hub depend
// on each other, so main wires this after both exist.
func (h *Hub) SetSnapshot(fn SnapshotFunc) {
	h.mu.Lock()
	h.snapshot = fn
	h.mu.Unlock()
}

// ServeHTTP upgrades the request and serves the socket until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws_upgrade_failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newClient(uuid.NewString(), conn, h.opts.SendQueue)
	h.add(c)
	l := h.log.With("client_id", c.id, "remote", r.RemoteAddr)
	l.Info("ws_connected")

	go c.writeLoop(h.opts, l)

	if !c.prime(h.snapshotMessage(r.Context(), l)) {
		l.Warn("ws_client_pruned", "reason", "queue full after snapshot")
		h.remove(c)
	}

	reason := c.readLoop(h, h.opts)
	h.remove(c)
	l.Info("ws_disconnected", "reason", reason)
}

// snapshotMessage builds the connect snapshot, or nil when there is none.
func (h *Hub) snapshotMessage(ctx context.Context, l *slog.Logger) []byte {
	h.mu.RLock()
	snap := h.snapshot
	h.mu.RUnlock()
	if snap == nil {
		return nil
	}
	data, err := snap(ctx)
	if err != nil {
		l.Warn("ws_snapshot_failed", "error", err)
		return nil
	}
	msg, err := encode(transport.MsgOrdersUpdate, data)
	if err != nil {
		l.Error("ws_encode_failed", "type", transport.MsgOrdersUpdate, "error", err)
		return nil
	}
	return msg
}

func encode(msgType string, data any) ([]byte, error) {
	return json.Marshal(transport.Envelope{Type: msgType, Data: data})
}

// Broadcast queues the message for every socket.
func (h *Hub) Broadcast(msgType string, data any) {
	h.fanOut(msgType, data, func(*client) bool { return true })
}

// SendToBay queues the message for sockets tagged with bayID.
func (h *Hub) SendToBay(bayID uint, msgType string, data any) {
	h.fanOut(msgType, data, func(c *client) bool {
		id, ok := c.bay()
		return ok && id == bayID
	})
}

func (h *Hub) fanOut(msgType string, data any, match func(*client) bool) {
	msg, err := encode(msgType, data)
	if err != nil {
		h.log.Error("ws_encode_failed", "type", msgType, "error", err)
		return
	}

	var dead []*client
	h.mu.RLock()
	for _, c := range h.clients {
		if !match(c) {
			continue
		}
		if !c.enqueue(msg) {
			dead = append(dead, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range dead {
		h.log.Warn("ws_client_pruned", "client_id", c.id, "type", msgType)
		h.remove(c)
	}
}

func (h *Hub) add(c *client) {
	c.track()
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

// remove closes the socket and drops the client. Safe to call twice.
func (h *Hub) remove(c *client) {
	c.close()
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
}

// Len reports the number of registered sockets.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every socket.
func (h *Hub) Close() {
	h.mu.RLock()
	all := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		all = append(all, c)
	}
	h.mu.RUnlock()
	for _, c := range all {
		h.remove(c)
	}
}
