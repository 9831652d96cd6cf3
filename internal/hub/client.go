package hub

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/swingeats/swingeats/internal/metrics"
	"github.com/swingeats/swingeats/internal/transport"
)

var errProtocol = errors.New("protocol violation")

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	mu      sync.Mutex
	role    transport.ClientRole
	bayID   *uint
	closed  bool
	counted bool
	priming bool
	backlog [][]byte
	done    chan struct{}
}

func newClient(id string, conn *websocket.Conn, queue int) *client {
	return &client{
		id:   id,
		conn: conn,
		send:    make(chan []byte, queue),
		priming: true,
		done:    make(chan struct{}),
	}
}

// roleLabel is the gauge label for the current role. Callers hold c.mu.
func (c *client) roleLabel() string {
	if c.role == "" {
		return "unregistered"
	}
	return string(c.role)
}

// track counts the client in the connected gauge once.
func (c *client) track() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.counted {
		return
	}
	c.counted = true
	metrics.ClientConnected(c.roleLabel())
}

func (c *client) bay() (uint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bayID == nil {
		return 0, false
	}
	return *c.bayID, true
}

// enqueue never blocks. It reports false when the queue is full or the
// client is gone. Until the connect snapshot is queued, messages wait in a
// backlog of the same capacity.
func (c *client) enqueue(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	if c.priming {
		if len(c.backlog) >= cap(c.send) {
			return false
		}
		c.backlog = append(c.backlog, msg)
		return true
	}
	return c.push(msg)
}

func (c *client) push(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// prime queues the snapshot ahead of everything that arrived while it was
// being built. A nil snapshot just releases the backlog.
func (c *client) prime(snapshot []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.priming = false
	backlog := c.backlog
	c.backlog = nil
	if snapshot != nil && !c.push(snapshot) {
		return false
	}
	for _, msg := range backlog {
		if !c.push(msg) {
			return false
		}
	}
	return true
}

func (c *client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.backlog = nil
	if c.counted {
		c.counted = false
		metrics.ClientDisconnected(c.roleLabel())
	}
	close(c.done)
	c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *client) writeLoop(opts Options, l *slog.Logger) {
	ping := time.NewTicker(opts.PingPeriod)
	defer ping.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				l.Debug("ws_write_failed", "error", err)
				c.close()
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// readLoop handles client messages until the socket closes or the client
// breaks protocol. It returns the reason for logging.
func (c *client) readLoop(h *Hub, opts Options) string {
	c.conn.SetReadLimit(opts.MaxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(opts.PongWait))
	})

	for {
		kind, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return err.Error()
			}
			return "closed"
		}
		if kind != websocket.TextMessage {
			return c.violation(h, "binary frame")
		}
		if err := c.handle(raw); err != nil {
			return c.violation(h, err.Error())
		}
	}
}

func (c *client) violation(h *Hub, reason string) string {
	h.log.Warn("ws_protocol_violation", "client_id", c.id, "reason", reason)
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseProtocolError, "protocol violation"),
		time.Now().Add(time.Second))
	return "protocol violation"
}

func (c *client) handle(raw []byte) error {
	var in transport.InboundEnvelope
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("%w: malformed json: %v", errProtocol, err)
	}

	switch in.Type {
	case transport.MsgRegister:
		var msg transport.RegisterMessage
		if err := decodeData(in.Data, &msg); err != nil {
			return err
		}
		if !msg.ClientType.Valid() {
			return fmt.Errorf("%w: unknown client type %q", errProtocol, msg.ClientType)
		}
		c.register(msg.ClientType, msg.BayID)
	case transport.MsgSubscribeToBay:
		var msg transport.SubscribeToBayMessage
		if err := decodeData(in.Data, &msg); err != nil {
			return err
		}
		if msg.BayID == 0 {
			return fmt.Errorf("%w: bayId is required", errProtocol)
		}
		bay := msg.BayID
		c.mu.Lock()
		c.bayID = &bay
		c.mu.Unlock()
	default:
		return fmt.Errorf("%w: unknown message type %q", errProtocol, in.Type)
	}
	return nil
}

func decodeData(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing data", errProtocol)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: bad data: %v", errProtocol, err)
	}
	return nil
}

// register sets the role and bay tag. Kitchen sockets see every bay
// through broadcasts and carry no tag.
func (c *client) register(role transport.ClientRole, bayID *uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.counted && c.role != role {
		metrics.ClientDisconnected(c.roleLabel())
		metrics.ClientConnected(string(role))
	}
	c.role = role
	switch {
	case role == transport.RoleKitchen:
		c.bayID = nil
	case bayID != nil && *bayID > 0:
		id := *bayID
		c.bayID = &id
	}
}
