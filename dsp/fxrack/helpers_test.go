package fxrack

import (
	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
)

const testSampleRate = 48000.0

var testHandles = fxproto.ChannelHandlePair{Input: 1, Output: 0}

// recorder collects responses written by collaborators.
type recorder struct {
	responses []fxproto.Response
}

func (r *recorder) WriteResponse(resp fxproto.Response) bool {
	r.responses = append(r.responses, resp)
	return true
}

func (r *recorder) last() fxproto.Response {
	return r.responses[len(r.responses)-1]
}

// scaleKernel multiplies by a fixed factor.
type scaleKernel struct {
	factor float64
	calls  int
}

func (k *scaleKernel) Process(_ fxproto.ChannelHandlePair, in, out []float64, _ Params, _ float64, _ *fxproto.GroupFeatureState) {
	k.calls++
	for i := range in {
		out[i] = in[i] * k.factor
	}
}

func newScaleEffect(id fxproto.EffectID, factor float64) (*Effect, *scaleKernel) {
	k := &scaleKernel{factor: factor}
	return NewEffect(id, Manifest{Type: "scale"}, k), k
}

// idleChain is a chain stub that never produces output.
type idleChain struct {
	id    fxproto.ChainID
	calls int
}

func (c *idleChain) ID() fxproto.ChainID { return c.id }
func (c *idleChain) Effects() []fxproto.Effect { return nil }
func (c *idleChain) ProcessRequest(*fxproto.Request, fxproto.ResponseWriter) fxproto.Outcome {
	return fxproto.OutcomeNotHandled
}

func (c *idleChain) Process(fxproto.ChannelHandlePair, []float64, []float64, float64, *fxproto.GroupFeatureState) bool {
	c.calls++
	return false
}

func enabledChain(id fxproto.ChainID, effects ...fxproto.Effect) *Chain {
	c := NewChain(id, "test", WithChainMaxBlockSize(256))

	w := &recorder{}
	for _, e := range effects {
		req := fxproto.NewAddEffectToChain(id, e, fxproto.AppendIndex)
		c.ProcessRequest(&req, w)
	}

	req := fxproto.NewEnableEffectChainForInputChannel(id, testHandles.Input)
	c.ProcessRequest(&req, w)

	return c
}
