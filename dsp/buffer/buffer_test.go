package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferResizeWithinCapacity(t *testing.T) {
	t.Parallel()

	b := New(8)
	require.Equal(t, 8, b.Len())

	s := b.Resize(4)
	assert.Len(t, s, 4)

	s[0] = 3
	b.samples[:8][6] = 9

	s = b.Resize(8)
	assert.Equal(t, 3.0, s[0])
	assert.Zero(t, s[6], "newly exposed samples are zeroed")

	s = b.Resize(100)
	assert.Len(t, s, 8, "resize is clamped to capacity")

	assert.Len(t, b.Resize(-1), 0)
}

func TestNewNegativeCapacity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, New(-5).Cap())
}

func TestSame(t *testing.T) {
	t.Parallel()

	a := make([]float64, 4)
	b := make([]float64, 4)

	assert.True(t, Same(a, a))
	assert.True(t, Same(a, a[:2]))
	assert.False(t, Same(a, b))
	assert.False(t, Same(a[1:], a))
	assert.False(t, Same(nil, a))
}
