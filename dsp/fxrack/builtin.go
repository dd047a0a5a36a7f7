package fxrack

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fxengine/dsp/core"
	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
)

// Built-in effect types.
const (
	TypeGain   = "gain"
	TypeMute   = "mute"
	TypeDucker = "ducker"
)

// Parameter indices of the built-in effects.
const (
	GainParamDB = 0

	DuckerParamThreshold = 0
	DuckerParamDepth     = 1
)

// GainManifest describes the gain effect.
var GainManifest = Manifest{
	Type: TypeGain,
	Name: "Gain",
	Parameters: []ParameterSpec{
		{Name: "gainDB", Min: -60, Max: 24, Default: 0},
	},
}

// MuteManifest describes the mute effect.
var MuteManifest = Manifest{Type: TypeMute, Name: "Mute"}

// DuckerManifest describes the ducker, which attenuates while the pre-fader
// level of the group exceeds a threshold.
var DuckerManifest = Manifest{
	Type: TypeDucker,
	Name: "Ducker",
	Parameters: []ParameterSpec{
		{Name: "threshold", Min: 0, Max: 1, Default: 0.1},
		{Name: "depth", Min: 0, Max: 1, Default: 0.5},
	},
}

const defaultRegistryChannels = 2

// DefaultRegistry returns a registry holding the built-in effects for
// interleaved stereo blocks.
func DefaultRegistry() *Registry {
	return DefaultRegistryFor(defaultRegistryChannels)
}

// DefaultRegistryFor returns a registry holding the built-in effects for
// blocks with the given number of interleaved channels.
func DefaultRegistryFor(channels int) *Registry {
	r := NewRegistry()

	r.MustRegister(GainManifest, func(Manifest) (Kernel, error) {
		return KernelFunc(processGain), nil
	})
	r.MustRegister(MuteManifest, func(Manifest) (Kernel, error) {
		return KernelFunc(processMute), nil
	})
	r.MustRegister(DuckerManifest, func(Manifest) (Kernel, error) {
		return KernelFunc(processDucker), nil
	})
	r.MustRegister(TremoloManifest, func(Manifest) (Kernel, error) {
		return newTremoloKernel(channels), nil
	})

	return r
}

func scaleInto(out, in []float64, gain float64) {
	n := min(len(in), len(out))
	vecmath.ScaleBlock(out[:n], in[:n], gain)
}

func processGain(_ fxproto.ChannelHandlePair, in, out []float64, params Params, _ float64, _ *fxproto.GroupFeatureState) {
	scaleInto(out, in, core.DBToLinear(params.Get(GainParamDB, 0)))
}

func processMute(_ fxproto.ChannelHandlePair, _, out []float64, _ Params, _ float64, _ *fxproto.GroupFeatureState) {
	clear(out)
}

func processDucker(_ fxproto.ChannelHandlePair, in, out []float64, params Params, _ float64, features *fxproto.GroupFeatureState) {
	gain := 1.0
	if features != nil && features.HasGain && features.Gain > params.Get(DuckerParamThreshold, 0.1) {
		gain = 1 - params.Get(DuckerParamDepth, 0.5)
	}

	scaleInto(out, in, gain)
}
