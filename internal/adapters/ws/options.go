package ws

import (
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/okian/estimathon/pkg/logger"
)

// Config holds websocket connection configuration.
type Config struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBuffer      int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConfig returns the default websocket configuration.
func DefaultConfig() Config {
	return Config{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		SendBuffer:      64,
		// The scoreboard is public; any origin may subscribe.
		CheckOrigin: func(r *http.Request) bool { return true },
	}
}

// Option applies a configuration option to the Hub.
type Option func(*Hub)

// WithConfig replaces the connection configuration.
func WithConfig(cfg Config) Option {
	return func(h *Hub) {
		h.config = cfg
	}
}

// WithSendBuffer sets the per-subscriber send buffer size.
func WithSendBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.config.SendBuffer = n
		}
	}
}

// WithClock sets the clock used to stamp broadcast events.
func WithClock(c clockwork.Clock) Option {
	return func(h *Hub) {
		if c != nil {
			h.clock = c
		}
	}
}

// WithLogger sets the hub logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.log = l
		}
	}
}
