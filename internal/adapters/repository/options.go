package repository

import "github.com/jonboulle/clockwork"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithClock sets the clock used for submission timestamps. Tests pass a
// fake clock.
func WithClock(c clockwork.Clock) Option {
	return func(s *MemStore) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithBudget overrides the per-team submission budget.
func WithBudget(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.budget = n
		}
	}
}
