package device

import "sync"

// CleanupQueue collects retired resources until the owning context knows
// the GPU has finished with them. Draining is the context's decision; the
// queue only holds ownership in the meantime.
type CleanupQueue[T any] struct {
	mu      sync.Mutex
	pending []T
}

// Append transfers a resource into the queue.
func (q *CleanupQueue[T]) Append(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, item)
}

// Drain removes all pending resources, invoking destroy on each, and
// returns how many were released.
func (q *CleanupQueue[T]) Drain(destroy func(T)) int {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, item := range pending {
		destroy(item)
	}
	return len(pending)
}

// Len returns the number of resources awaiting destruction.
func (q *CleanupQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
