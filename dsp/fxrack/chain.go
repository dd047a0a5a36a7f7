package fxrack

import (
	"github.com/cwbudde/algo-fxengine/dsp/buffer"
	"github.com/cwbudde/algo-fxengine/dsp/core"
	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
)

const (
	defaultMemberCapacity = 32
	defaultMaxBlockSize   = 8192
)

// ChainOption mutates chain construction parameters.
type ChainOption func(*chainConfig)

type chainConfig struct {
	capacity     int
	maxBlockSize int
	maxChannels  int
	enabled      bool
	insertion    fxproto.InsertionType
	mix          float64
}

func defaultChainConfig() chainConfig {
	return chainConfig{
		capacity:     defaultMemberCapacity,
		maxBlockSize: defaultMaxBlockSize,
		maxChannels:  fxproto.MaxChannels,
		enabled:      true,
		insertion:    fxproto.InsertionInsert,
		mix:          1,
	}
}

// WithChainCapacity sets the maximum number of effects.
func WithChainCapacity(n int) ChainOption {
	return func(cfg *chainConfig) {
		if n > 0 {
			cfg.capacity = n
		}
	}
}

// WithChainMaxBlockSize sets the largest block the chain can process.
// Larger blocks are reported as not modified.
func WithChainMaxBlockSize(n int) ChainOption {
	return func(cfg *chainConfig) {
		if n > 0 {
			cfg.maxBlockSize = n
		}
	}
}

// WithChainMaxChannels sets how many input channel handles can be enabled.
func WithChainMaxChannels(n int) ChainOption {
	return func(cfg *chainConfig) {
		if n > 0 {
			cfg.maxChannels = n
		}
	}
}

// WithChainParameters sets the initial enabled flag, insertion type and mix.
func WithChainParameters(p fxproto.ChainParameters) ChainOption {
	return func(cfg *chainConfig) {
		cfg.enabled = p.Enabled
		cfg.insertion = p.InsertionType
		cfg.mix = core.Clamp(p.Mix, 0, 1)
	}
}

// Chain runs its effects in series for the input channels it is enabled for.
type Chain struct {
	id   fxproto.ChainID
	name string

	enabled   bool
	insertion fxproto.InsertionType
	mix       float64

	effects  []fxproto.Effect
	channels *fxproto.ChannelHandleMap[bool]
	arena    *buffer.PingPong
}

var _ fxproto.Chain = (*Chain)(nil)

// NewChain creates an empty, enabled chain that is active for no input
// channel yet.
func NewChain(id fxproto.ChainID, name string, opts ...ChainOption) *Chain {
	cfg := defaultChainConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Chain{
		id:        id,
		name:      name,
		enabled:   cfg.enabled,
		insertion: cfg.insertion,
		mix:       cfg.mix,
		effects:   make([]fxproto.Effect, 0, cfg.capacity),
		channels:  fxproto.NewChannelHandleMap[bool](cfg.maxChannels),
		arena:     buffer.NewPingPong(cfg.maxBlockSize),
	}
}

// ID returns the chain identity.
func (c *Chain) ID() fxproto.ChainID { return c.id }

// Name returns the chain's display name.
func (c *Chain) Name() string { return c.name }

// Effects returns the chain's effects in processing order.
func (c *Chain) Effects() []fxproto.Effect { return c.effects }

// Enabled reports whether the chain processes audio at all.
func (c *Chain) Enabled() bool { return c.enabled }

// Mix returns the dry/wet amount in [0, 1].
func (c *Chain) Mix() float64 { return c.mix }

// InsertionType returns how the wet signal is combined with the dry signal.
func (c *Chain) InsertionType() fxproto.InsertionType { return c.insertion }

// EnabledFor reports whether the chain is active for the input channel.
func (c *Chain) EnabledFor(input fxproto.ChannelHandle) bool {
	on, _ := c.channels.Get(input)
	return on
}

func (c *Chain) indexOf(id fxproto.EffectID) int {
	for i, e := range c.effects {
		if e.ID() == id {
			return i
		}
	}

	return -1
}

// ProcessRequest handles effect membership, chain parameters and
// per-channel activation.
func (c *Chain) ProcessRequest(req *fxproto.Request, w fxproto.ResponseWriter) fxproto.Outcome {
	switch req.Type {
	case fxproto.AddEffectToChain:
		return c.addEffect(req, w)

	case fxproto.RemoveEffectFromChain:
		idx := c.indexOf(req.EffectMember.Effect)
		if idx < 0 {
			return reject(req, w)
		}

		c.effects = removeAt(c.effects, idx)

		return respond(req, w, fxproto.StatusSuccess)

	case fxproto.SetEffectChainParameters:
		p := req.ChainParameters
		if !core.IsFinite(p.Mix) || (p.InsertionType != fxproto.InsertionInsert && p.InsertionType != fxproto.InsertionSend) {
			return reject(req, w)
		}

		c.enabled = p.Enabled
		c.insertion = p.InsertionType
		c.mix = core.Clamp(p.Mix, 0, 1)

		return respond(req, w, fxproto.StatusSuccess)

	case fxproto.EnableEffectChainForInputChannel:
		if !c.channels.Set(req.Channel, true) {
			return reject(req, w)
		}

		return respond(req, w, fxproto.StatusSuccess)

	case fxproto.DisableEffectChainForInputChannel:
		if _, ok := c.channels.Get(req.Channel); !ok {
			return reject(req, w)
		}

		c.channels.Delete(req.Channel)

		return respond(req, w, fxproto.StatusSuccess)

	default:
		return fxproto.OutcomeNotHandled
	}
}

func (c *Chain) addEffect(req *fxproto.Request, w fxproto.ResponseWriter) fxproto.Outcome {
	m := req.EffectMember
	if m.Attach == nil || m.Attach.ID() != m.Effect || c.indexOf(m.Effect) >= 0 {
		return reject(req, w)
	}

	effects, ok := insertAt(c.effects, m.Index, m.Attach)
	if !ok {
		return reject(req, w)
	}

	c.effects = effects

	return respond(req, w, fxproto.StatusSuccess)
}

// Process runs the effects in series and blends the wet result with in
// according to the insertion type. It reports false, leaving out untouched,
// when the chain is disabled, inactive for the input channel, or when no
// effect produced output.
func (c *Chain) Process(handles fxproto.ChannelHandlePair, in, out []float64, sampleRate float64, features *fxproto.GroupFeatureState) bool {
	if !c.enabled || !c.EnabledFor(handles.Input) || len(in) > c.arena.Cap() || len(out) < len(in) {
		return false
	}

	c.arena.Begin(in)
	defer c.arena.End()

	for _, e := range c.effects {
		stageIn, stageOut := c.arena.Stage()
		if e.Process(handles, stageIn, stageOut, sampleRate, features) {
			c.arena.Advance()
		}
	}

	if c.arena.External() {
		return false
	}

	wet := c.arena.Current()
	mix := c.mix

	switch c.insertion {
	case fxproto.InsertionSend:
		for i, x := range wet {
			out[i] = in[i] + x*mix
		}
	default:
		dry := 1 - mix
		for i, x := range wet {
			out[i] = in[i]*dry + x*mix
		}
	}

	return true
}
