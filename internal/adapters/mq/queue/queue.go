// Package queue carries snapshots from the mutation path to the
// broadcaster, decoupling state correctness from fan-out delivery.
package queue

import (
	"context"
	"sync"

	"github.com/okian/estimathon/internal/domain/model"
	"github.com/okian/estimathon/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 1024
)

// Snapshot is the payload type flowing through the queue.
type Snapshot = model.Snapshot

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a snapshot to the queue.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, s Snapshot) bool

	// Dequeue returns a channel that receives snapshots in enqueue order.
	// The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Snapshot

	// Len returns the current number of queued snapshots.
	Len(ctx context.Context) int

	// Close shuts down the queue. After closing, Enqueue returns false
	// and the dequeue channel drains then closes.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	snapshots chan Snapshot
	capacity  int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.snapshots = make(chan Snapshot, q.capacity)
	metrics.UpdateSnapshotQueueSize(0)
	return q
}

// Enqueue adds a snapshot to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Snapshot) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordSnapshotQueueDrop()
		return false
	}

	select {
	case q.snapshots <- s:
		metrics.UpdateSnapshotQueueSize(len(q.snapshots))
		return true
	case <-ctx.Done():
		metrics.RecordSnapshotQueueDrop()
		return false
	default:
		metrics.RecordSnapshotQueueDrop()
		return false
	}
}

// Dequeue returns a channel that receives snapshots as they arrive.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Snapshot {
	out := make(chan Snapshot)
	go func() {
		defer close(out)
		for s := range q.snapshots {
			select {
			case out <- s:
				metrics.UpdateSnapshotQueueSize(len(q.snapshots))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued snapshots.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.snapshots)
}

// Close shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.snapshots)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
