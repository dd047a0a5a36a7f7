package buffer

// Buffer is a float64 sample slice with a capacity fixed at construction.
// Resizing within the capacity never allocates.
type Buffer struct {
	samples []float64
}

// New returns a zero-filled Buffer with the given capacity and length.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}

	return &Buffer{samples: make([]float64, capacity)}
}

// Len returns the current number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Cap returns the fixed capacity.
func (b *Buffer) Cap() int {
	return cap(b.samples)
}

// Resize sets the length to n, clamped to the capacity, and returns the
// resized slice. Newly exposed samples are zeroed.
func (b *Buffer) Resize(n int) []float64 {
	n = max(0, min(n, cap(b.samples)))

	oldLen := len(b.samples)
	b.samples = b.samples[:n]

	if n > oldLen {
		clear(b.samples[oldLen:])
	}

	return b.samples
}

// Same reports whether a and b start at the same sample, i.e. processing
// from a into b happens in place.
func Same(a, b []float64) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}
