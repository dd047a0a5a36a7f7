package fxpipe

import (
	"errors"
	"math/bits"
	"sync/atomic"
)

var errInvalidCapacity = errors.New("fxpipe: capacity must be > 0")

// Ring is a bounded single-producer/single-consumer queue.
//
// Exactly one goroutine may call Push and exactly one goroutine may call
// Pop. Neither blocks nor allocates after construction.
type Ring[T any] struct {
	// head is the next slot to read; owned by the consumer.
	head atomic.Uint64
	_    [56]byte
	// tail is the next slot to write; owned by the producer.
	tail atomic.Uint64
	_    [56]byte

	mask  uint64
	slots []T
}

// NewRing returns a ring holding at least capacity elements. The capacity is
// rounded up to a power of two.
func NewRing[T any](capacity int) (*Ring[T], error) {
	if capacity <= 0 {
		return nil, errInvalidCapacity
	}

	size := uint64(1) << bits.Len64(uint64(capacity-1))

	return &Ring[T]{
		mask:  size - 1,
		slots: make([]T, size),
	}, nil
}

// Push appends v. It returns false if the ring is full.
func (r *Ring[T]) Push(v T) bool {
	tail := r.tail.Load()
	if tail-r.head.Load() > r.mask {
		return false
	}

	r.slots[tail&r.mask] = v
	r.tail.Store(tail + 1)

	return true
}

// Pop removes the oldest element into dst. It returns false if the ring is
// empty. The vacated slot is zeroed so the ring does not retain references.
func (r *Ring[T]) Pop(dst *T) bool {
	head := r.head.Load()
	if head == r.tail.Load() {
		return false
	}

	var zero T

	slot := &r.slots[head&r.mask]
	*dst = *slot
	*slot = zero
	r.head.Store(head + 1)

	return true
}

// Len returns the number of queued elements. The value is a snapshot when
// called concurrently with Push or Pop.
func (r *Ring[T]) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Cap returns the number of elements the ring can hold.
func (r *Ring[T]) Cap() int {
	return len(r.slots)
}
