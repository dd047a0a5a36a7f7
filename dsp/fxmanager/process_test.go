package fxmanager

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
	"github.com/cwbudde/algo-fxengine/internal/testutil"
)

func withPostFader(m *Manager, racks ...fxproto.Rack) {
	m.postFader = append(m.postFader, racks...)
}

func TestProcessInPlace(t *testing.T) {
	t.Parallel()

	in := testutil.DeterministicNoise(11, 0.8, 256)

	t.Run("pass-through without racks", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		buf := testutil.Clone(in)

		require.NoError(t, m.ProcessPostFaderInPlace(testHandles, buf, testSampleRate, nil, 1, 1))
		assert.Equal(t, in, buf)

		require.NoError(t, m.ProcessPreFaderInPlace(testHandles, buf, testSampleRate, nil))
		assert.Equal(t, in, buf)
	})

	t.Run("gain ramp only without racks", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		buf := testutil.Clone(in)

		require.NoError(t, m.ProcessPostFaderInPlace(testHandles, buf, testSampleRate, nil, 0.2, 0.9))
		testutil.RequireSliceNearlyEqual(t, buf, testutil.Ramped(in, 0.2, 0.9, 2), testutil.DefaultTolerance)
	})

	t.Run("racks run in place after the ramp", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		a := &stubRack{id: 1, modify: true, factor: 2}
		b := &stubRack{id: 2}
		c := &stubRack{id: 3, modify: true, factor: 3}
		withPostFader(m, a, nil, b, c)

		buf := testutil.Clone(in)
		require.NoError(t, m.ProcessPostFaderInPlace(testHandles, buf, testSampleRate, nil, 1, 0.5))

		want := testutil.Ramped(in, 1, 0.5, 2)
		for i := range want {
			want[i] *= 6
		}

		testutil.RequireSliceNearlyEqual(t, buf, want, testutil.DefaultTolerance)
		assert.True(t, a.aliased)
		assert.True(t, b.aliased)
		assert.Equal(t, 1, b.calls)
	})
}

func TestProcessMix(t *testing.T) {
	t.Parallel()

	in := testutil.DeterministicNoise(12, 0.8, 256)
	before := testutil.DeterministicNoise(13, 0.3, 256)

	t.Run("non-processing rack adds the ramped input", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		idle := &stubRack{id: 1}
		withPostFader(m, idle)

		src := testutil.Clone(in)
		out := testutil.Clone(before)
		require.NoError(t, m.ProcessPostFaderAndMix(testHandles, src, out, testSampleRate, nil, 0.1, 0.7))

		want := testutil.Sum(before, testutil.Ramped(in, 0.1, 0.7, 2))
		testutil.RequireSliceNearlyEqual(t, out, want, testutil.DefaultTolerance)
		testutil.RequireUnchanged(t, src, in)
		assert.Equal(t, 1, idle.calls)
		assert.False(t, idle.aliased)
	})

	t.Run("modified then not-modified keeps the first result", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		a := &stubRack{id: 1, modify: true, factor: 2}
		b := &stubRack{id: 2}
		withPostFader(m, a, b)

		src := testutil.Clone(in)
		out := testutil.Clone(before)
		require.NoError(t, m.ProcessPostFaderAndMix(testHandles, src, out, testSampleRate, nil, 1, 1))

		want := make([]float64, len(in))
		for i := range want {
			want[i] = before[i] + 2*in[i]
		}

		testutil.RequireSliceNearlyEqual(t, out, want, testutil.DefaultTolerance)
		testutil.RequireUnchanged(t, src, in)
		assert.False(t, a.aliased)
		assert.False(t, b.aliased)
	})

	t.Run("racks alternate scratch buffers", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		withPostFader(m,
			&stubRack{id: 1, modify: true, factor: 2},
			&stubRack{id: 2, modify: true, factor: 0.25},
			&stubRack{id: 3, modify: true, factor: 3},
		)

		out := make([]float64, len(in))
		require.NoError(t, m.ProcessPostFaderAndMix(testHandles, in, out, testSampleRate, nil, 0.5, 0.5))

		for i, x := range in {
			assert.InDelta(t, x*0.5*1.5, out[i], 1e-12)
		}
	})

	t.Run("null entries behave like an empty list", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		withPostFader(m, nil, nil)

		out := testutil.Clone(before)
		require.NoError(t, m.ProcessPostFaderAndMix(testHandles, in, out, testSampleRate, nil, 1, 1))
		testutil.RequireSliceNearlyEqual(t, out, testutil.Sum(before, in), 0)
	})

	t.Run("output longer than input", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)

		out := testutil.DC(1, len(in)+4)
		require.NoError(t, m.ProcessPostFaderAndMix(testHandles, in, out, testSampleRate, nil, 1, 1))
		assert.Equal(t, []float64{1, 1, 1, 1}, out[len(in):])
	})

	t.Run("aliased buffers process in place", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		buf := testutil.Clone(in)

		require.NoError(t, m.ProcessPostFaderAndMix(testHandles, buf, buf, testSampleRate, nil, 1, 0))
		testutil.RequireSliceNearlyEqual(t, buf, testutil.Ramped(in, 1, 0, 2), testutil.DefaultTolerance)
	})
}

func TestProcessErrors(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, WithMaxBlockSize(64))
	assert.Equal(t, 64, m.MaxBlockSize())

	big := testutil.DC(1, 65)
	out := testutil.DC(2, 65)

	assert.ErrorIs(t, m.ProcessPreFaderInPlace(testHandles, big, testSampleRate, nil), ErrBlockTooLarge)
	assert.ErrorIs(t, m.ProcessPostFaderInPlace(testHandles, big, testSampleRate, nil, 0, 0), ErrBlockTooLarge)
	assert.ErrorIs(t, m.ProcessPostFaderAndMix(testHandles, big, out, testSampleRate, nil, 0, 0), ErrBlockTooLarge)
	testutil.RequireUnchanged(t, big, testutil.DC(1, 65))
	testutil.RequireUnchanged(t, out, testutil.DC(2, 65))

	short := make([]float64, 8)
	assert.ErrorIs(t, m.ProcessPostFaderAndMix(testHandles, testutil.DC(1, 16), short, testSampleRate, nil, 1, 1), ErrShortOutput)
	assert.Equal(t, make([]float64, 8), short)

	assert.NoError(t, m.ProcessPostFaderAndMix(testHandles, nil, nil, testSampleRate, nil, 1, 1))
}

func TestProcessFeatures(t *testing.T) {
	t.Parallel()

	block := testutil.DeterministicSine(1000, testSampleRate, 0.5, 2048)

	t.Run("pre-fader refreshes level features", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		pre := &stubRack{id: 1}
		m.preFader = append(m.preFader, pre)

		var features fxproto.GroupFeatureState
		features.SetBeat(0.5, 0.25)
		features.HasPeak, features.Peak = true, 99

		require.NoError(t, m.ProcessPreFaderInPlace(testHandles, block, testSampleRate, &features))

		assert.True(t, features.HasGain)
		assert.InDelta(t, 0.5/math.Sqrt2, features.Gain, 2e-3)
		assert.InDelta(t, 0.5, features.Peak, 1e-3)
		assert.True(t, features.HasBeatLength)
		assert.Equal(t, 0.5, features.BeatLengthSec)
		assert.Same(t, &features, pre.features)
	})

	t.Run("analysis can be disabled", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t, WithFeatureAnalyzer(nil))

		features := fxproto.GroupFeatureState{HasGain: true, Gain: 3}
		require.NoError(t, m.ProcessPreFaderInPlace(testHandles, block, testSampleRate, &features))
		assert.False(t, features.HasGain)
	})

	t.Run("post-fader racks see the pre-fader features", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		post := &stubRack{id: 1, modify: true, factor: 1}
		withPostFader(m, post)

		features := fxproto.GroupFeatureState{HasGain: true, Gain: 0.3}
		out := make([]float64, len(block))
		require.NoError(t, m.ProcessPostFaderAndMix(testHandles, block, out, testSampleRate, &features, 1, 1))

		assert.Same(t, &features, post.features)
		assert.Equal(t, 0.3, features.Gain)
	})
}

func TestProcessDoesNotAllocate(t *testing.T) {
	m, _ := newTestManager(t, WithFeatureAnalyzer(nil))
	withPostFader(m, &stubRack{id: 1, modify: true, factor: 0.5}, &stubRack{id: 2})
	m.preFader = append(m.preFader, &stubRack{id: 3, modify: true, factor: 1})

	in := testutil.DeterministicNoise(1, 1, 512)
	out := make([]float64, len(in))
	buf := testutil.Clone(in)

	var features fxproto.GroupFeatureState

	allocs := testing.AllocsPerRun(50, func() {
		_ = m.ProcessPreFaderInPlace(testHandles, buf, testSampleRate, &features)
		_ = m.ProcessPostFaderInPlace(testHandles, buf, testSampleRate, &features, 1, 0.9)
		_ = m.ProcessPostFaderAndMix(testHandles, in, out, testSampleRate, &features, 0.9, 1)
		_ = m.ProcessPostFaderAndMix(testHandles, in, out, testSampleRate, &features, 1, 1)
	})

	assert.Zero(t, allocs)
}
