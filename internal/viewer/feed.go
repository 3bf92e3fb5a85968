// Package viewer provides the client-side pieces shared by both viewer
// variants: the snapshot subscription feed and the gateway HTTP client.
package viewer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/estimathon/internal/domain/model"
	"github.com/okian/estimathon/pkg/logger"
)

// Default feed configuration constants.
const (
	defaultReconnectWait = 2 * time.Second
	defaultReadTimeout   = 90 * time.Second
)

// Handler receives each accepted snapshot.
type Handler func(model.Snapshot)

// FeedOption applies a configuration option to the Feed.
type FeedOption func(*Feed)

// WithReconnectWait sets the delay between reconnect attempts.
func WithReconnectWait(d time.Duration) FeedOption {
	return func(f *Feed) {
		if d > 0 {
			f.reconnectWait = d
		}
	}
}

// WithFeedLogger sets the feed logger.
func WithFeedLogger(l logger.Logger) FeedOption {
	return func(f *Feed) {
		if l != nil {
			f.log = l
		}
	}
}

// Feed subscribes to the scoreboard channel and hands each snapshot to
// its handler. A dropped connection is recovered by reconnecting; the
// server then serves a fresh snapshot immediately, so no backlog replay
// is needed. Snapshots older than the last delivered one are discarded.
type Feed struct {
	url           string
	handler       Handler
	dialer        *websocket.Dialer
	reconnectWait time.Duration
	readTimeout   time.Duration
	lastSeq       uint64
	delivered     bool
	log           logger.Logger
}

// NewFeed creates a feed for the given websocket URL.
func NewFeed(url string, handler Handler, opts ...FeedOption) *Feed {
	f := &Feed{
		url:           url,
		handler:       handler,
		dialer:        websocket.DefaultDialer,
		reconnectWait: defaultReconnectWait,
		readTimeout:   defaultReadTimeout,
		log:           logger.Get().Named("feed"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run subscribes and processes snapshots until ctx is cancelled.
func (f *Feed) Run(ctx context.Context) error {
	for {
		if err := f.runOnce(ctx); err != nil {
			f.log.Warn(ctx, "subscription lost, reconnecting",
				logger.Error(err),
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.reconnectWait):
		}
	}
}

// runOnce dials, reads and dispatches until the connection fails.
func (f *Feed) runOnce(ctx context.Context) error {
	conn, _, err := f.dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Close the socket when ctx is cancelled so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		conn.SetReadDeadline(time.Now().Add(f.readTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var evt model.Event
		if err := json.Unmarshal(data, &evt); err != nil {
			f.log.Warn(ctx, "undecodable event, skipping", logger.Error(err))
			continue
		}
		if evt.Type != model.EventTypeAllTeamStats {
			continue
		}
		if f.delivered && evt.Seq < f.lastSeq {
			// Stale snapshot after a newer one; never rendered.
			continue
		}
		f.lastSeq = evt.Seq
		f.delivered = true
		f.handler(evt.Snapshot())
	}
}
