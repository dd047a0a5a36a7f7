package fxrack

import (
	"github.com/cwbudde/algo-fxengine/dsp/core"
	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
)

// Effect is a leaf processing unit: a Kernel plus its parameter values.
type Effect struct {
	id       fxproto.EffectID
	manifest Manifest
	kernel   Kernel
	params   Params
	enabled  bool
}

var _ fxproto.Effect = (*Effect)(nil)

// NewEffect creates an enabled effect with default parameter values.
func NewEffect(id fxproto.EffectID, manifest Manifest, kernel Kernel) *Effect {
	return &Effect{
		id:       id,
		manifest: manifest,
		kernel:   kernel,
		params:   manifest.Defaults(),
		enabled:  true,
	}
}

// ID returns the effect identity.
func (e *Effect) ID() fxproto.EffectID { return e.id }

// Manifest returns the effect type description.
func (e *Effect) Manifest() Manifest { return e.manifest }

// Enabled reports whether the effect processes audio.
func (e *Effect) Enabled() bool { return e.enabled }

// Parameter returns the current value of parameter index.
func (e *Effect) Parameter(index int) (float64, bool) {
	if index < 0 || index >= len(e.params) {
		return 0, false
	}

	return e.params[index], true
}

// ProcessRequest handles SET_EFFECT_PARAMETERS and SET_PARAMETER_PARAMETERS.
func (e *Effect) ProcessRequest(req *fxproto.Request, w fxproto.ResponseWriter) fxproto.Outcome {
	switch req.Type {
	case fxproto.SetEffectParameters:
		e.enabled = req.EffectParameters.Enabled
		return respond(req, w, fxproto.StatusSuccess)

	case fxproto.SetParameterParameters:
		idx := req.Parameter.Index
		if idx < 0 || idx >= len(e.params) || !core.IsFinite(req.Parameter.Value) {
			return reject(req, w)
		}

		e.params[idx] = e.manifest.Parameters[idx].Clamp(req.Parameter.Value)

		return respond(req, w, fxproto.StatusSuccess)

	default:
		return fxproto.OutcomeNotHandled
	}
}

// Process runs the kernel. A disabled effect reports no output.
func (e *Effect) Process(handles fxproto.ChannelHandlePair, in, out []float64, sampleRate float64, features *fxproto.GroupFeatureState) bool {
	if !e.enabled || e.kernel == nil {
		return false
	}

	e.kernel.Process(handles, in, out, e.params, sampleRate, features)

	return true
}
