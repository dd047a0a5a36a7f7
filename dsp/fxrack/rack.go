package fxrack

import (
	"github.com/cwbudde/algo-fxengine/dsp/buffer"
	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
)

// RackOption mutates rack construction parameters.
type RackOption func(*rackConfig)

type rackConfig struct {
	capacity     int
	maxBlockSize int
}

// WithRackCapacity sets the maximum number of chains.
func WithRackCapacity(n int) RackOption {
	return func(cfg *rackConfig) {
		if n > 0 {
			cfg.capacity = n
		}
	}
}

// WithRackMaxBlockSize sets the largest block the rack can process out of
// place. Larger blocks are reported as not modified.
func WithRackMaxBlockSize(n int) RackOption {
	return func(cfg *rackConfig) {
		if n > 0 {
			cfg.maxBlockSize = n
		}
	}
}

// Rack runs its chains in series and forms one processing stage.
type Rack struct {
	id     fxproto.RackID
	chains []fxproto.Chain
	arena  *buffer.PingPong
}

var _ fxproto.Rack = (*Rack)(nil)

// NewRack creates an empty rack.
func NewRack(id fxproto.RackID, opts ...RackOption) *Rack {
	cfg := rackConfig{capacity: defaultMemberCapacity, maxBlockSize: defaultMaxBlockSize}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Rack{
		id:     id,
		chains: make([]fxproto.Chain, 0, cfg.capacity),
		arena:  buffer.NewPingPong(cfg.maxBlockSize),
	}
}

// ID returns the rack identity.
func (r *Rack) ID() fxproto.RackID { return r.id }

// Chains returns the rack's chains in processing order.
func (r *Rack) Chains() []fxproto.Chain { return r.chains }

func (r *Rack) indexOf(id fxproto.ChainID) int {
	for i, c := range r.chains {
		if c.ID() == id {
			return i
		}
	}

	return -1
}

// ProcessRequest handles ADD_CHAIN_TO_RACK and REMOVE_CHAIN_FROM_RACK.
func (r *Rack) ProcessRequest(req *fxproto.Request, w fxproto.ResponseWriter) fxproto.Outcome {
	switch req.Type {
	case fxproto.AddChainToRack:
		m := req.ChainMember
		if m.Attach == nil || m.Attach.ID() != m.Chain || r.indexOf(m.Chain) >= 0 {
			return reject(req, w)
		}

		chains, ok := insertAt(r.chains, m.Index, m.Attach)
		if !ok {
			return reject(req, w)
		}

		r.chains = chains

		return respond(req, w, fxproto.StatusSuccess)

	case fxproto.RemoveChainFromRack:
		idx := r.indexOf(req.ChainMember.Chain)
		if idx < 0 {
			return reject(req, w)
		}

		r.chains = removeAt(r.chains, idx)

		return respond(req, w, fxproto.StatusSuccess)

	default:
		return fxproto.OutcomeNotHandled
	}
}

// Process runs the chains in series and reports whether any chain modified
// the signal. Out of place, in is never written and out is only written
// when true is returned.
func (r *Rack) Process(handles fxproto.ChannelHandlePair, in, out []float64, sampleRate float64, features *fxproto.GroupFeatureState) bool {
	if len(in) == 0 || len(out) < len(in) {
		return false
	}

	if buffer.Same(in, out) {
		modified := false
		for _, c := range r.chains {
			if c.Process(handles, in, in, sampleRate, features) {
				modified = true
			}
		}

		return modified
	}

	if len(in) > r.arena.Cap() {
		return false
	}

	r.arena.Begin(in)
	defer r.arena.End()

	for _, c := range r.chains {
		stageIn, stageOut := r.arena.Stage()
		if c.Process(handles, stageIn, stageOut, sampleRate, features) {
			r.arena.Advance()
		}
	}

	if r.arena.External() {
		return false
	}

	copy(out, r.arena.Current())

	return true
}
