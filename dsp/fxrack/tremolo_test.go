package fxrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
	"github.com/cwbudde/algo-fxengine/internal/testutil"
)

func newTremolo(t *testing.T, channels int) *Effect {
	t.Helper()

	e, err := DefaultRegistryFor(channels).NewEffect(1, TypeTremolo)
	require.NoError(t, err)

	return e
}

func TestTremoloZeroDepthIsTransparent(t *testing.T) {
	t.Parallel()

	e := newTremolo(t, 2)
	e.params[TremoloParamDepth] = 0

	in := testutil.DeterministicNoise(2, 1, 256)
	out := make([]float64, len(in))
	require.True(t, e.Process(testHandles, in, out, testSampleRate, nil))
	testutil.RequireSliceNearlyEqual(t, out, in, 1e-12)
}

func TestTremoloBlockSplitMatchesSingleBlock(t *testing.T) {
	t.Parallel()

	in := testutil.DeterministicSine(220, testSampleRate, 0.7, 512)

	whole := newTremolo(t, 2)
	want := make([]float64, len(in))
	whole.Process(testHandles, in, want, testSampleRate, nil)

	split := newTremolo(t, 2)
	got := make([]float64, len(in))
	split.Process(testHandles, in[:256], got[:256], testSampleRate, nil)
	split.Process(testHandles, in[256:], got[256:], testSampleRate, nil)

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestTremoloStatePerInputChannel(t *testing.T) {
	t.Parallel()

	e := newTremolo(t, 1)
	in := testutil.DC(1, 128)

	first := make([]float64, len(in))
	e.Process(fxproto.ChannelHandlePair{Input: 1}, in, first, testSampleRate, nil)

	// Advancing input 1 must not move the LFO of input 2.
	scratch := make([]float64, len(in))
	e.Process(fxproto.ChannelHandlePair{Input: 1}, in, scratch, testSampleRate, nil)

	other := make([]float64, len(in))
	e.Process(fxproto.ChannelHandlePair{Input: 2}, in, other, testSampleRate, nil)

	assert.Equal(t, first, other)
	assert.NotEqual(t, first, scratch)
}

func TestTremoloStereoFramesShareModulation(t *testing.T) {
	t.Parallel()

	e := newTremolo(t, 2)
	in := testutil.DC(1, 64)
	out := make([]float64, len(in))
	e.Process(testHandles, in, out, testSampleRate, nil)

	for f := 0; f < len(out); f += 2 {
		assert.Equal(t, out[f], out[f+1])
	}
}

func TestTremoloDoesNotAllocate(t *testing.T) {
	e := newTremolo(t, 2)
	buf := testutil.DeterministicNoise(4, 1, 512)

	allocs := testing.AllocsPerRun(50, func() {
		e.Process(testHandles, buf, buf, testSampleRate, nil)
	})

	assert.Zero(t, allocs)
}
