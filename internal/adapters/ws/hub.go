// Package ws implements the scoreboard broadcast channel: a websocket
// hub that fans each snapshot out to every connected subscriber and
// serves a fresh snapshot to each subscriber on (re)connect.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/okian/estimathon/internal/domain/model"
	"github.com/okian/estimathon/pkg/logger"
	"github.com/okian/estimathon/pkg/metrics"
)

// SnapshotSource supplies the current snapshot for catch-up delivery.
type SnapshotSource interface {
	Snapshot(ctx context.Context) model.Snapshot
}

// SnapshotStream supplies the change-triggered snapshot feed.
type SnapshotStream interface {
	Dequeue(ctx context.Context) <-chan model.Snapshot
}

// Hub manages subscriber connections and snapshot fan-out.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Conn]bool

	upgrader websocket.Upgrader
	config   Config
	source   SnapshotSource
	clock    clockwork.Clock
	log      logger.Logger
}

// NewHub creates a hub that serves catch-up snapshots from source.
func NewHub(source SnapshotSource, opts ...Option) *Hub {
	h := &Hub{
		subscribers: make(map[*Conn]bool),
		config:      DefaultConfig(),
		source:      source,
		clock:       clockwork.NewRealClock(),
		log:         logger.Get().Named("ws"),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  h.config.ReadBufferSize,
		WriteBufferSize: h.config.WriteBufferSize,
		CheckOrigin:     h.config.CheckOrigin,
	}
	return h
}

// Run consumes the snapshot stream and fans each snapshot out to all
// current subscribers. It returns when ctx is cancelled or the stream
// closes.
func (h *Hub) Run(ctx context.Context, stream SnapshotStream) {
	h.log.Info(ctx, "broadcast hub started")
	feed := stream.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			h.log.Info(ctx, "broadcast hub shutting down")
			h.closeAll()
			return
		case snap, ok := <-feed:
			if !ok {
				h.log.Info(ctx, "snapshot stream closed")
				h.closeAll()
				return
			}
			h.broadcast(ctx, snap)
		}
	}
}

// ServeWS upgrades an HTTP request to a subscriber connection and
// immediately queues the current snapshot so the subscriber catches up
// without waiting for the next mutation.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	c := &Conn{
		id:   uuid.New().String(),
		sock: conn,
		send: make(chan []byte, h.config.SendBuffer),
		hub:  h,
	}

	catchup := h.source.Snapshot(r.Context())
	data, err := h.marshal(catchup)
	if err != nil {
		h.log.Error(r.Context(), "marshal catch-up snapshot failed", logger.Error(err))
		conn.Close()
		return
	}

	h.mu.Lock()
	h.subscribers[c] = true
	// First message in the send channel; broadcasts only reach this
	// connection after the lock is released.
	c.trySend(catchup.Seq, data)
	total := len(h.subscribers)
	h.mu.Unlock()

	metrics.RecordCatchupSnapshot()
	metrics.UpdateSubscriberCount(total)

	go c.writePump()
	go c.readPump()

	h.log.Info(r.Context(), "subscriber connected",
		logger.String("conn_id", c.id),
		logger.Uint64("catchup_seq", catchup.Seq),
		logger.Int("subscribers", total),
	)
}

// RegisterRoutes attaches the subscription endpoint to mux.
func (h *Hub) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/scoreboard", h.ServeWS)
}

// SubscriberCount returns the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// broadcast marshals the snapshot once and delivers it to every
// subscriber connected at this moment. Subscribers whose send buffer is
// full are dropped rather than allowed to stall the fan-out.
func (h *Hub) broadcast(ctx context.Context, snap model.Snapshot) {
	data, err := h.marshal(snap)
	if err != nil {
		h.log.Error(ctx, "marshal snapshot failed", logger.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*Conn, 0, len(h.subscribers))
	for c := range h.subscribers {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.trySend(snap.Seq, data) {
			h.log.Warn(ctx, "subscriber send buffer full, dropping connection",
				logger.String("conn_id", c.id),
			)
			metrics.RecordSubscriberDrop()
			h.unregister(c)
			c.sock.Close()
		}
	}

	metrics.RecordSnapshotBroadcast()
	h.log.Debug(ctx, "snapshot broadcast",
		logger.Uint64("seq", snap.Seq),
		logger.Int("subscribers", len(targets)),
	)
}

func (h *Hub) marshal(snap model.Snapshot) ([]byte, error) {
	return json.Marshal(model.NewEvent(snap, h.clock.Now()))
}

func (h *Hub) unregister(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[c]; !ok {
		return
	}
	delete(h.subscribers, c)
	c.shutdown()
	metrics.UpdateSubscriberCount(len(h.subscribers))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.subscribers {
		delete(h.subscribers, c)
		c.shutdown()
		c.sock.Close()
	}
	metrics.UpdateSubscriberCount(0)
}
