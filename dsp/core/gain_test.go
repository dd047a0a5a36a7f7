package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/algo-fxengine/internal/testutil"
)

func TestApplyGain(t *testing.T) {
	t.Parallel()

	t.Run("unity leaves buffer untouched", func(t *testing.T) {
		t.Parallel()

		buf := testutil.DeterministicNoise(1, 1, 64)
		want := testutil.Clone(buf)

		ApplyGain(buf, GainUnity)
		testutil.RequireUnchanged(t, buf, want)
	})

	t.Run("zero clears", func(t *testing.T) {
		t.Parallel()

		buf := testutil.DC(0.7, 16)
		ApplyGain(buf, 0)
		testutil.RequireSliceNearlyEqual(t, buf, make([]float64, 16), 0)
	})

	t.Run("scales", func(t *testing.T) {
		t.Parallel()

		buf := []float64{1, -2, 0.5}
		ApplyGain(buf, 0.5)
		testutil.RequireSliceNearlyEqual(t, buf, []float64{0.5, -1, 0.25}, 1e-15)
	})
}

func TestApplyRampingGain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		oldGain  float64
		newGain  float64
		channels int
		length   int
	}{
		{"stereo fade in", 0, 1, 2, 64},
		{"stereo fade out", 1, 0.25, 2, 128},
		{"mono ramp", 0.5, 2, 1, 33},
		{"quad ramp", 1, 0, 4, 32},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := testutil.DeterministicNoise(7, 1, tc.length)
			want := testutil.Ramped(in, tc.oldGain, tc.newGain, tc.channels)

			buf := testutil.Clone(in)
			ApplyRampingGain(buf, tc.oldGain, tc.newGain, tc.channels)
			testutil.RequireSliceNearlyEqual(t, buf, want, 1e-12)

			dst := make([]float64, tc.length)
			CopyWithRampingGain(dst, in, tc.oldGain, tc.newGain, tc.channels)
			testutil.RequireSliceNearlyEqual(t, dst, want, 1e-12)
		})
	}
}

func TestRampWithEqualGainsIsConstant(t *testing.T) {
	t.Parallel()

	in := testutil.DeterministicSine(440, 48000, 1, 32)

	buf := testutil.Clone(in)
	ApplyRampingGain(buf, 0.5, 0.5, 2)

	dst := make([]float64, len(in))
	CopyWithRampingGain(dst, in, 0.5, 0.5, 2)

	for i := range in {
		assert.InDelta(t, in[i]*0.5, buf[i], 1e-15)
		assert.InDelta(t, in[i]*0.5, dst[i], 1e-15)
	}
}

func TestCopyWithUnityGainCopies(t *testing.T) {
	t.Parallel()

	in := testutil.DeterministicNoise(2, 1, 20)
	dst := make([]float64, 20)

	CopyWithRampingGain(dst, in, GainUnity, GainUnity, 2)
	assert.Equal(t, in, dst)
}

func TestAddInto(t *testing.T) {
	t.Parallel()

	dst := []float64{1, 2, 3, 4}
	AddInto(dst, []float64{0.5, 0.5, 0.5})
	assert.Equal(t, []float64{1.5, 2.5, 3.5, 4}, dst)

	AddInto(dst, nil)
	assert.Equal(t, []float64{1.5, 2.5, 3.5, 4}, dst)
}

func TestGainKernelsDoNotAllocate(t *testing.T) {
	in := testutil.DeterministicNoise(3, 1, 256)
	buf := make([]float64, 256)

	allocs := testing.AllocsPerRun(50, func() {
		CopyWithRampingGain(buf, in, 0.2, 0.8, 2)
		ApplyRampingGain(buf, 1, 0.5, 2)
		AddInto(buf, in)
	})

	assert.Zero(t, allocs)
}

func TestIsUnity(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUnity(1, 1))
	assert.False(t, IsUnity(1, 0.999))
	assert.False(t, IsUnity(0, 1))
}
