package liveview

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-ecg/ecg/session"
)

const (
	sendBuffer   = 16
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
	readLimit    = 4 << 10
)

// Hub fans messages out to connected clients. A slow client drops messages
// rather than blocking the playback scheduler.
type Hub struct {
	mu        sync.RWMutex
	clients   map[int64]*client
	closed    bool
	nextID    atomic.Int64
	maxPoints int
	logger    *zap.Logger
}

// NewHub returns a hub that trims each trace to maxPoints samples per frame.
func NewHub(maxPoints int, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:   make(map[int64]*client),
		maxPoints: maxPoints,
		logger:    logger,
	}
}

// PublishFrame broadcasts a playback frame. It is meant to be passed to
// session.WithFrameHandler.
func (h *Hub) PublishFrame(f session.Frame) {
	h.Broadcast(NewFrameMessage(f, h.maxPoints))
}

// Broadcast encodes msg once and queues it for every client.
func (h *Hub) Broadcast(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.send(data)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// add registers conn. It reports false and closes conn once closeAll ran.
func (h *Hub) add(conn *websocket.Conn) (*client, bool) {
	c := &client{
		id:     h.nextID.Add(1),
		conn:   conn,
		sendCh: make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		logger: h.logger,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return nil, false
	}
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("client connected", zap.Int64("client", c.id), zap.Int("clients", n))
	return c, true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()

	c.close()
	h.logger.Debug("client disconnected", zap.Int64("client", c.id))
}

// closeAll disconnects every client and refuses new ones.
func (h *Hub) closeAll() {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[int64]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

type client struct {
	id        int64
	conn      *websocket.Conn
	sendCh    chan []byte
	done      chan struct{}
	closeOnce sync.Once
	logger    *zap.Logger
}

func (c *client) send(data []byte) {
	select {
	case c.sendCh <- data:
	case <-c.done:
	default:
		c.logger.Debug("dropping message, client too slow", zap.Int64("client", c.id))
	}
}

func (c *client) sendJSON(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("encode message", zap.Error(err))
		return
	}
	c.send(data)
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case data := <-c.sendCh:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("write failed", zap.Int64("client", c.id), zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
