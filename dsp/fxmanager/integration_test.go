package fxmanager

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fxengine/dsp/core"
	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
	"github.com/cwbudde/algo-fxengine/dsp/fxrack"
	"github.com/cwbudde/algo-fxengine/internal/testutil"
)

func TestTopologyThroughProtocol(t *testing.T) {
	t.Parallel()

	m, pipe := newTestManager(t)
	ids := fxproto.NewIDSource()
	reg := fxrack.DefaultRegistry()

	rack := fxrack.NewRack(ids.NextRack())
	chain := fxrack.NewChain(ids.NextChain(), "post")
	gain, err := reg.NewEffect(ids.NextEffect(), fxrack.TypeGain)
	require.NoError(t, err)

	for _, req := range []fxproto.Request{
		fxproto.NewAddEffectRack(rack, false),
		fxproto.NewAddChainToRack(rack.ID(), chain, fxproto.AppendIndex),
		fxproto.NewAddEffectToChain(chain.ID(), gain, fxproto.AppendIndex),
		fxproto.NewSetParameterParameters(gain.ID(), fxrack.GainParamDB, -6),
	} {
		resp := exchange(t, m, pipe, req)
		require.True(t, resp.Success, "%s: %s", req.Type, resp.Status)
	}

	in := testutil.DeterministicNoise(21, 0.5, 128)
	out := make([]float64, len(in))

	// The chain is not enabled for any channel yet: dry pass-through.
	require.NoError(t, m.ProcessPostFaderAndMix(testHandles, in, out, testSampleRate, nil, 1, 1))
	testutil.RequireSliceNearlyEqual(t, out, in, 0)

	resp := exchange(t, m, pipe, fxproto.NewEnableEffectChainForInputChannel(chain.ID(), testHandles.Input))
	require.True(t, resp.Success)

	clear(out)
	require.NoError(t, m.ProcessPostFaderAndMix(testHandles, in, out, testSampleRate, nil, 1, 1))

	g := core.DBToLinear(-6)
	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = x * g
	}

	testutil.RequireSliceNearlyEqual(t, out, want, testutil.DefaultTolerance)

	// Disabling the effect leaves the chain with nothing to do.
	resp = exchange(t, m, pipe, fxproto.NewSetEffectParameters(gain.ID(), fxproto.EffectParameters{Enabled: false}))
	require.True(t, resp.Success)

	buf := testutil.Clone(in)
	require.NoError(t, m.ProcessPostFaderInPlace(testHandles, buf, testSampleRate, nil, 1, 1))
	testutil.RequireSliceNearlyEqual(t, buf, in, 0)
}
