// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SnapshotQueueSize bounds the queue between mutations and fan-out.
	SnapshotQueueSize int `koanf:"snapshot_queue_size"`

	// SubscriberSendBuffer bounds each subscriber's outbound buffer; a
	// subscriber that falls this far behind is disconnected.
	SubscriberSendBuffer int `koanf:"subscriber_send_buffer"`

	// Problems optionally replaces the built-in problem catalog. Exactly
	// 13 entries with id, description and answer.
	Problems []ProblemConfig `koanf:"problems"`
}

// ProblemConfig is one catalog entry as loaded from YAML.
type ProblemConfig struct {
	ID          int     `koanf:"id"`
	Description string  `koanf:"description"`
	Answer      float64 `koanf:"answer"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		SnapshotQueueSize:    1024,
		SubscriberSendBuffer: 64,
	}
}
