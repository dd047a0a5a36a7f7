package fxproto

// MaxChannels is the default number of channel handles a ChannelHandleMap
// reserves.
const MaxChannels = 64

// ChannelHandle is an opaque index identifying a logical audio channel.
type ChannelHandle int

// Valid reports whether h can key a ChannelHandleMap.
func (h ChannelHandle) Valid() bool {
	return h >= 0
}

// ChannelHandlePair identifies the input channel being rendered and the
// output bus it is rendered for.
type ChannelHandlePair struct {
	Input  ChannelHandle
	Output ChannelHandle
}

// ChannelHandleMap is a slice-backed map keyed by ChannelHandle.
// Storage is reserved at construction; Set and Get never allocate, so the
// map can be used from the audio thread. Handles beyond the reserved
// capacity are rejected.
type ChannelHandleMap[T any] struct {
	values  []T
	present []bool
	count   int
}

// NewChannelHandleMap reserves storage for handles in [0, capacity).
// A non-positive capacity reserves MaxChannels entries.
func NewChannelHandleMap[T any](capacity int) *ChannelHandleMap[T] {
	if capacity <= 0 {
		capacity = MaxChannels
	}

	return &ChannelHandleMap[T]{
		values:  make([]T, capacity),
		present: make([]bool, capacity),
	}
}

func (m *ChannelHandleMap[T]) inRange(h ChannelHandle) bool {
	return h.Valid() && int(h) < len(m.values)
}

// Get returns the value stored for h.
func (m *ChannelHandleMap[T]) Get(h ChannelHandle) (T, bool) {
	if !m.inRange(h) || !m.present[h] {
		var zero T
		return zero, false
	}

	return m.values[h], true
}

// Ptr returns a pointer to the slot for h, or nil if h is out of range.
// The slot is marked present.
func (m *ChannelHandleMap[T]) Ptr(h ChannelHandle) *T {
	if !m.inRange(h) {
		return nil
	}

	if !m.present[h] {
		m.present[h] = true
		m.count++
	}

	return &m.values[h]
}

// Set stores v for h. It returns false if h is out of range.
func (m *ChannelHandleMap[T]) Set(h ChannelHandle, v T) bool {
	p := m.Ptr(h)
	if p == nil {
		return false
	}

	*p = v

	return true
}

// Delete removes the value stored for h.
func (m *ChannelHandleMap[T]) Delete(h ChannelHandle) {
	if !m.inRange(h) || !m.present[h] {
		return
	}

	var zero T
	m.values[h] = zero
	m.present[h] = false
	m.count--
}

// Len returns the number of stored handles.
func (m *ChannelHandleMap[T]) Len() int {
	return m.count
}

// Cap returns the number of reserved handles.
func (m *ChannelHandleMap[T]) Cap() int {
	return len(m.values)
}
