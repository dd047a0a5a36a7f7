package fxmanager

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-fxengine/dsp/buffer"
	"github.com/cwbudde/algo-fxengine/dsp/feature"
	"github.com/cwbudde/algo-fxengine/dsp/fxpipe"
	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
)

var errNilPipe = errors.New("fxmanager: nil pipe")

type rackEntry struct {
	rack     fxproto.Rack
	preFader bool
}

type chainEntry struct {
	chain fxproto.Chain
	rack  fxproto.RackID
}

type effectEntry struct {
	effect fxproto.Effect
	chain  fxproto.ChainID
}

// Manager owns the pre-fader and post-fader rack lists and the master lists
// of live chains and effects.
//
// HandleRequests and the Process methods must be called from the audio
// thread only, never concurrently with each other.
type Manager struct {
	pipe     *fxpipe.Pipe
	log      logrus.FieldLogger
	debug    bool
	metrics  *Metrics
	analyzer *feature.Analyzer
	channels int

	preFader  []fxproto.Rack
	postFader []fxproto.Rack

	racks   map[fxproto.RackID]rackEntry
	chains  map[fxproto.ChainID]chainEntry
	effects map[fxproto.EffectID]effectEntry

	arena *buffer.PingPong

	// req is the drain slot; it lives here so dispatch does not allocate.
	req  fxproto.Request
	sink responseSink
}

// New creates a manager serving the audio end of pipe.
func New(pipe *fxpipe.Pipe, opts ...Option) (*Manager, error) {
	if pipe == nil {
		return nil, errNilPipe
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	analyzer := cfg.analyzer
	if !cfg.analyzerSet {
		a, err := feature.NewAnalyzer(feature.DefaultSize, cfg.processor.Channels)
		if err != nil {
			return nil, fmt.Errorf("fxmanager: feature analyzer: %w", err)
		}

		analyzer = a
	}

	m := &Manager{
		pipe:      pipe,
		log:       cfg.logger.WithField("component", "fxmanager"),
		debug:     cfg.debug,
		metrics:   cfg.metrics,
		analyzer:  analyzer,
		channels:  cfg.processor.Channels,
		preFader:  make([]fxproto.Rack, 0, cfg.capacity),
		postFader: make([]fxproto.Rack, 0, cfg.capacity),
		racks:     make(map[fxproto.RackID]rackEntry, cfg.capacity),
		chains:    make(map[fxproto.ChainID]chainEntry, cfg.capacity),
		effects:   make(map[fxproto.EffectID]effectEntry, cfg.capacity),
		arena:     buffer.NewPingPong(cfg.processor.MaxBlockSize),
	}
	m.sink.m = m

	m.log.WithFields(logrus.Fields{
		"max_block_size": cfg.processor.MaxBlockSize,
		"channels":       cfg.processor.Channels,
		"capacity":       cfg.capacity,
		"debug":          cfg.debug,
	}).Debug("effects manager created")

	return m, nil
}

// MaxBlockSize returns the largest block the processing entry points accept.
func (m *Manager) MaxBlockSize() int {
	return m.arena.Cap()
}

// responseSink is the ResponseWriter handed to collaborators. It counts and
// optionally logs every response before it enters the pipe.
type responseSink struct {
	m *Manager
}

func (s *responseSink) WriteResponse(resp fxproto.Response) bool {
	m := s.m
	m.metrics.observeResponse(resp)

	if m.debug {
		m.log.WithFields(logrus.Fields{
			"request_id": resp.RequestID,
			"type":       resp.Type.String(),
			"rack":       resp.Rack,
			"chain":      resp.Chain,
			"effect":     resp.Effect,
			"status":     resp.Status.String(),
		}).Debug("effects response")
	}

	if !m.pipe.WriteResponse(resp) {
		m.metrics.observeDropped()
		return false
	}

	return true
}

// PreFaderRacks returns the identities of the pre-fader racks in processing
// order.
func (m *Manager) PreFaderRacks() []fxproto.RackID {
	return rackIDs(m.preFader)
}

// PostFaderRacks returns the identities of the post-fader racks in
// processing order.
func (m *Manager) PostFaderRacks() []fxproto.RackID {
	return rackIDs(m.postFader)
}

func rackIDs(racks []fxproto.Rack) []fxproto.RackID {
	ids := make([]fxproto.RackID, 0, len(racks))
	for _, r := range racks {
		if r != nil {
			ids = append(ids, r.ID())
		}
	}

	return ids
}

// HasRack reports whether the rack is in either rack list.
func (m *Manager) HasRack(id fxproto.RackID) bool {
	_, ok := m.racks[id]
	return ok
}

// HasChain reports whether the chain is in the master chain list.
func (m *Manager) HasChain(id fxproto.ChainID) bool {
	_, ok := m.chains[id]
	return ok
}

// HasEffect reports whether the effect is in the master effect list.
func (m *Manager) HasEffect(id fxproto.EffectID) bool {
	_, ok := m.effects[id]
	return ok
}

// ChainRack returns the rack the chain is attached to.
func (m *Manager) ChainRack(id fxproto.ChainID) (fxproto.RackID, bool) {
	e, ok := m.chains[id]
	return e.rack, ok
}

// EffectChain returns the chain the effect is attached to.
func (m *Manager) EffectChain(id fxproto.EffectID) (fxproto.ChainID, bool) {
	e, ok := m.effects[id]
	return e.chain, ok
}

// ChainCount returns the number of live chains.
func (m *Manager) ChainCount() int { return len(m.chains) }

// EffectCount returns the number of live effects.
func (m *Manager) EffectCount() int { return len(m.effects) }
