package utils

import (
	"sync"
)

// BatchBuffer is a mutex guarded slice that is drained in whole batches.
// When limit is set, the oldest items are discarded to stay within it.
type BatchBuffer[T any] struct {
	buffer     []T
	capacity   int
	limit      int
	bufferLock sync.Mutex
}

func NewBatchBuffer[T any](capacity int) *BatchBuffer[T] {
	return NewBoundedBatchBuffer[T](capacity, 0)
}

// NewBoundedBatchBuffer holds at most limit items. A limit of zero means unbounded,
// a limit below capacity is raised to capacity.
func NewBoundedBatchBuffer[T any](capacity, limit int) *BatchBuffer[T] {
	if capacity <= 0 {
		capacity = 1
	}
	if limit > 0 && limit < capacity {
		limit = capacity
	}
	return &BatchBuffer[T]{
		buffer:   make([]T, 0, capacity),
		capacity: capacity,
		limit:    limit,
	}
}

// Add appends items and returns the buffer size afterwards together with the
// number of old items dropped to respect the limit.
func (b *BatchBuffer[T]) Add(items ...T) (size, dropped int) {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	b.buffer = append(b.buffer, items...)
	if b.limit > 0 && len(b.buffer) > b.limit {
		dropped = len(b.buffer) - b.limit
		kept := make([]T, b.limit, max(b.limit, b.capacity))
		copy(kept, b.buffer[dropped:])
		b.buffer = kept
	}
	return len(b.buffer), dropped
}

// GetAndClear returns everything buffered so far, or nil when empty.
func (b *BatchBuffer[T]) GetAndClear() []T {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	if len(b.buffer) == 0 {
		return nil
	}

	batch := b.buffer
	b.buffer = make([]T, 0, b.capacity)
	return batch
}

func (b *BatchBuffer[T]) Size() int {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return len(b.buffer)
}

func (b *BatchBuffer[T]) Full() bool {
	return b.Size() >= b.capacity
}
