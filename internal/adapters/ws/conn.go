package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/estimathon/pkg/logger"
)

// Conn is one subscriber connection.
type Conn struct {
	id   string
	sock *websocket.Conn
	send chan []byte
	hub  *Hub

	mu      sync.Mutex
	lastSeq uint64
	closed  bool
}

// trySend queues data for delivery if seq is not older than anything
// already queued for this connection. Returns false when the send buffer
// is full; stale snapshots are silently skipped and report success.
func (c *Conn) trySend(seq uint64, data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return true
	}
	if seq < c.lastSeq {
		// A newer snapshot is already on its way; delivering this one
		// would violate per-subscriber recency.
		return true
	}

	select {
	case c.send <- data:
		c.lastSeq = seq
		return true
	default:
		return false
	}
}

// shutdown closes the send channel exactly once. Guarded by the same
// mutex as trySend so no send can race the close.
func (c *Conn) shutdown() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

// writePump delivers queued messages and keepalive pings until the send
// channel closes or a write fails.
func (c *Conn) writePump() {
	cfg := c.hub.config
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.sock.Close()
		c.hub.unregister(c)
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.sock.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if !ok {
				c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.sock.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.log.Debug(context.Background(), "write failed",
					logger.String("conn_id", c.id), logger.Error(err))
				return
			}
		case <-ticker.C:
			c.sock.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes client frames. Subscribers send nothing meaningful;
// reading keeps pong handling alive and detects closed peers.
func (c *Conn) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.sock.Close()
	}()

	cfg := c.hub.config
	c.sock.SetReadLimit(cfg.MaxMessageSize)
	c.sock.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	c.sock.SetPongHandler(func(string) error {
		c.sock.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		return nil
	})

	for {
		if _, _, err := c.sock.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug(context.Background(), "unexpected close",
					logger.String("conn_id", c.id), logger.Error(err))
			}
			return
		}
		c.sock.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	}
}
