package fxmanager

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fxengine/dsp/fxpipe"
	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
)

const testSampleRate = 48000.0

var testHandles = fxproto.ChannelHandlePair{Input: 2, Output: 0}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, *fxpipe.Pipe) {
	t.Helper()

	pipe, err := fxpipe.New(64)
	require.NoError(t, err)

	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	m, err := New(pipe, opts...)
	require.NoError(t, err)

	return m, pipe
}

// exchange sends req, runs one drain and returns the single response.
func exchange(t *testing.T, m *Manager, pipe *fxpipe.Pipe, req fxproto.Request) fxproto.Response {
	t.Helper()

	require.NoError(t, pipe.Send(req))
	require.Equal(t, 1, m.HandleRequests())

	var resp fxproto.Response
	require.True(t, pipe.ReadResponse(&resp), "no response for %s", req.Type)
	require.Zero(t, pipe.PendingResponses(), "more than one response for %s", req.Type)

	return resp
}

// stubRack is a rack that scales its input when modify is set and otherwise
// declines to process.
type stubRack struct {
	id       fxproto.RackID
	chains   []fxproto.Chain
	modify   bool
	factor   float64
	outcome  fxproto.Outcome
	calls    int
	aliased  bool
	features *fxproto.GroupFeatureState
}

func (r *stubRack) ID() fxproto.RackID { return r.id }

func (r *stubRack) Chains() []fxproto.Chain { return r.chains }

func (r *stubRack) ProcessRequest(req *fxproto.Request, w fxproto.ResponseWriter) fxproto.Outcome {
	if r.outcome.Responded() {
		resp := fxproto.NewResponse(req)
		if r.outcome == fxproto.OutcomeRejected {
			resp.Fail(fxproto.StatusInvalidRequest)
		}

		w.WriteResponse(resp)
	}

	return r.outcome
}

func (r *stubRack) Process(_ fxproto.ChannelHandlePair, in, out []float64, _ float64, features *fxproto.GroupFeatureState) bool {
	r.calls++
	r.features = features

	if len(in) > 0 && len(out) > 0 && &in[0] == &out[0] {
		r.aliased = true
	}

	if !r.modify {
		return false
	}

	for i, x := range in {
		out[i] = x * r.factor
	}

	return true
}

// stubChain is a passive chain used for membership tests.
type stubChain struct {
	id      fxproto.ChainID
	effects []fxproto.Effect
}

func (c *stubChain) ID() fxproto.ChainID { return c.id }

func (c *stubChain) Effects() []fxproto.Effect { return c.effects }

func (c *stubChain) ProcessRequest(*fxproto.Request, fxproto.ResponseWriter) fxproto.Outcome {
	return fxproto.OutcomeNotHandled
}

func (c *stubChain) Process(fxproto.ChannelHandlePair, []float64, []float64, float64, *fxproto.GroupFeatureState) bool {
	return false
}
