package fxrack

import (
	"math"

	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
)

// TypeTremolo is the LFO amplitude modulation effect.
const TypeTremolo = "tremolo"

// Parameter indices of the tremolo.
const (
	TremoloParamRate      = 0
	TremoloParamDepth     = 1
	TremoloParamSmoothing = 2
)

// TremoloManifest describes the tremolo.
var TremoloManifest = Manifest{
	Type: TypeTremolo,
	Name: "Tremolo",
	Parameters: []ParameterSpec{
		{Name: "rateHz", Min: 0.05, Max: 20, Default: 4},
		{Name: "depth", Min: 0, Max: 1, Default: 0.6},
		{Name: "smoothingMs", Min: 0, Max: 50, Default: 5},
	},
}

type tremoloState struct {
	started bool
	phase   float64
	mod     float64
}

// tremoloKernel keeps one LFO per input channel, so a chain enabled for
// several inputs modulates each of them independently.
type tremoloKernel struct {
	channels int
	states   *fxproto.ChannelHandleMap[tremoloState]
}

func newTremoloKernel(channels int) *tremoloKernel {
	return &tremoloKernel{
		channels: max(channels, 1),
		states:   fxproto.NewChannelHandleMap[tremoloState](fxproto.MaxChannels),
	}
}

func smoothingCoefficient(smoothingMs, sampleRate float64) float64 {
	if smoothingMs <= 0 || sampleRate <= 0 {
		return 1
	}

	coef := 1 - math.Exp(-1/(smoothingMs/1000*sampleRate))

	return min(max(coef, 0), 1)
}

func (k *tremoloKernel) Process(handles fxproto.ChannelHandlePair, in, out []float64, params Params, sampleRate float64, _ *fxproto.GroupFeatureState) {
	st := k.states.Ptr(handles.Input)
	if st == nil || sampleRate <= 0 {
		copy(out, in)
		return
	}

	if !st.started {
		st.started, st.phase, st.mod = true, 0, 1
	}

	depth := params.Get(TremoloParamDepth, 0.6)
	step := 2 * math.Pi * params.Get(TremoloParamRate, 4) / sampleRate
	coef := smoothingCoefficient(params.Get(TremoloParamSmoothing, 5), sampleRate)

	n := min(len(in), len(out))
	frames := n / k.channels

	for f := range frames {
		target := (1 - depth) + depth*0.5*(1+math.Sin(st.phase))
		if coef >= 1 {
			st.mod = target
		} else {
			st.mod += (target - st.mod) * coef
		}

		for i := f * k.channels; i < (f+1)*k.channels; i++ {
			out[i] = in[i] * st.mod
		}

		st.phase += step
		if st.phase >= 2*math.Pi {
			st.phase -= 2 * math.Pi
		}
	}

	for i := frames * k.channels; i < n; i++ {
		out[i] = in[i] * st.mod
	}
}
