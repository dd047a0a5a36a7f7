package fxmanager

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
)

// HandleRequests drains the request pipe and dispatches every pending
// request. It returns the number of requests handled. Call it once per
// block, before any processing.
func (m *Manager) HandleRequests() int {
	n := 0
	for m.pipe.ReadRequest(&m.req) {
		m.dispatch(&m.req)
		m.req = fxproto.Request{}
		n++
	}

	return n
}

func (m *Manager) dispatch(req *fxproto.Request) {
	m.metrics.observeRequest()

	if m.debug {
		m.logRequest(req)
	}

	var (
		outcome  fxproto.Outcome
		notFound fxproto.Status
	)

	switch req.Type {
	case fxproto.AddEffectRack:
		m.addRack(req)
		return

	case fxproto.RemoveEffectRack:
		m.removeRack(req)
		return

	case fxproto.AddChainToRack, fxproto.RemoveChainFromRack:
		outcome, notFound = m.forwardToRack(req), fxproto.StatusNoSuchRack

	case fxproto.AddEffectToChain,
		fxproto.RemoveEffectFromChain,
		fxproto.SetEffectChainParameters,
		fxproto.EnableEffectChainForInputChannel,
		fxproto.DisableEffectChainForInputChannel:
		outcome, notFound = m.forwardToChain(req), fxproto.StatusNoSuchChain

	case fxproto.SetEffectParameters, fxproto.SetParameterParameters:
		outcome, notFound = m.forwardToEffect(req), fxproto.StatusNoSuchEffect

	default:
		m.respond(req, fxproto.StatusUnhandledMessageType)
		return
	}

	switch outcome {
	case fxproto.OutcomeNotFound:
		m.respond(req, notFound)
	case fxproto.OutcomeNotHandled:
		m.respond(req, fxproto.StatusInvalidRequest)
	}
}

func (m *Manager) respond(req *fxproto.Request, status fxproto.Status) {
	resp := fxproto.NewResponse(req)
	if status != fxproto.StatusSuccess {
		resp.Fail(status)
	}

	m.sink.WriteResponse(resp)
}

func (m *Manager) logRequest(req *fxproto.Request) {
	m.log.WithFields(logrus.Fields{
		"request_id": req.ID,
		"type":       req.Type.String(),
		"rack":       req.TargetRack,
		"chain":      req.TargetChain,
		"effect":     req.TargetEffect,
		"pre_fader":  req.EffectRack.PreFader,
	}).Debug("effects request")
}

func (m *Manager) rackList(preFader bool) *[]fxproto.Rack {
	if preFader {
		return &m.preFader
	}

	return &m.postFader
}

func (m *Manager) addRack(req *fxproto.Request) {
	p := req.EffectRack
	list := m.rackList(p.PreFader)

	if p.Attach == nil || p.Attach.ID() != p.Rack || !m.canRegisterRack(p.Attach) || len(*list) == cap(*list) {
		m.respond(req, fxproto.StatusInvalidRequest)
		return
	}

	*list = append(*list, p.Attach)
	m.racks[p.Rack] = rackEntry{rack: p.Attach, preFader: p.PreFader}

	for _, c := range p.Attach.Chains() {
		m.registerChain(c, p.Rack)
	}

	m.respond(req, fxproto.StatusSuccess)
}

func (m *Manager) removeRack(req *fxproto.Request) {
	p := req.EffectRack

	entry, ok := m.racks[p.Rack]
	if !ok || entry.preFader != p.PreFader {
		m.respond(req, fxproto.StatusNoSuchRack)
		return
	}

	list := m.rackList(p.PreFader)
	for i, r := range *list {
		if r != nil && r.ID() == p.Rack {
			*list = removeRackAt(*list, i)
			break
		}
	}

	for _, c := range entry.rack.Chains() {
		m.unregisterChain(c.ID())
	}

	delete(m.racks, p.Rack)

	m.respond(req, fxproto.StatusSuccess)
}

func removeRackAt(racks []fxproto.Rack, i int) []fxproto.Rack {
	copy(racks[i:], racks[i+1:])
	racks[len(racks)-1] = nil

	return racks[:len(racks)-1]
}

func (m *Manager) forwardToRack(req *fxproto.Request) fxproto.Outcome {
	entry, ok := m.racks[req.TargetRack]
	if !ok {
		return fxproto.OutcomeNotFound
	}

	if req.Type == fxproto.AddChainToRack && !m.canRegisterChain(req.ChainMember.Attach) {
		return fxproto.OutcomeNotHandled
	}

	outcome := entry.rack.ProcessRequest(req, &m.sink)
	if outcome != fxproto.OutcomeApplied {
		return outcome
	}

	// The master list changes in the same dispatch step as the rack.
	if req.Type == fxproto.AddChainToRack {
		m.registerChain(req.ChainMember.Attach, req.TargetRack)
	} else {
		m.unregisterChain(req.ChainMember.Chain)
	}

	return outcome
}

func (m *Manager) forwardToChain(req *fxproto.Request) fxproto.Outcome {
	entry, ok := m.chains[req.TargetChain]
	if !ok {
		return fxproto.OutcomeNotFound
	}

	if req.Type == fxproto.AddEffectToChain && !m.canRegisterEffect(req.EffectMember.Attach) {
		return fxproto.OutcomeNotHandled
	}

	outcome := entry.chain.ProcessRequest(req, &m.sink)
	if outcome != fxproto.OutcomeApplied {
		return outcome
	}

	switch req.Type {
	case fxproto.AddEffectToChain:
		m.registerEffect(req.EffectMember.Attach, req.TargetChain)
	case fxproto.RemoveEffectFromChain:
		delete(m.effects, req.EffectMember.Effect)
	}

	return outcome
}

func (m *Manager) forwardToEffect(req *fxproto.Request) fxproto.Outcome {
	entry, ok := m.effects[req.TargetEffect]
	if !ok {
		return fxproto.OutcomeNotFound
	}

	return entry.effect.ProcessRequest(req, &m.sink)
}

// canRegisterRack reports whether rack and all of its members are new to the
// manager and no chain or effect appears twice inside the rack.
func (m *Manager) canRegisterRack(rack fxproto.Rack) bool {
	if _, exists := m.racks[rack.ID()]; exists {
		return false
	}

	chains := rack.Chains()
	for i, c := range chains {
		if !m.canRegisterChain(c) {
			return false
		}

		for _, prev := range chains[:i] {
			if prev.ID() == c.ID() || sharesEffect(prev, c) {
				return false
			}
		}
	}

	return true
}

// canRegisterChain reports whether chain and its effects are new to the
// manager and no effect appears twice inside the chain.
func (m *Manager) canRegisterChain(chain fxproto.Chain) bool {
	if chain == nil {
		return false
	}

	if _, exists := m.chains[chain.ID()]; exists {
		return false
	}

	effects := chain.Effects()
	for i, e := range effects {
		if !m.canRegisterEffect(e) {
			return false
		}

		for _, prev := range effects[:i] {
			if prev.ID() == e.ID() {
				return false
			}
		}
	}

	return true
}

func (m *Manager) canRegisterEffect(effect fxproto.Effect) bool {
	if effect == nil {
		return false
	}

	_, exists := m.effects[effect.ID()]

	return !exists
}

// sharesEffect reports whether a and b hold an effect with the same identity.
// Member lists are bounded by chain capacity, so a scan does not allocate.
func sharesEffect(a, b fxproto.Chain) bool {
	for _, x := range a.Effects() {
		for _, y := range b.Effects() {
			if x.ID() == y.ID() {
				return true
			}
		}
	}

	return false
}

func (m *Manager) registerChain(chain fxproto.Chain, rack fxproto.RackID) {
	m.chains[chain.ID()] = chainEntry{chain: chain, rack: rack}

	for _, e := range chain.Effects() {
		m.registerEffect(e, chain.ID())
	}
}

func (m *Manager) registerEffect(effect fxproto.Effect, chain fxproto.ChainID) {
	m.effects[effect.ID()] = effectEntry{effect: effect, chain: chain}
}

// unregisterChain drops the chain and its effects from the master lists.
func (m *Manager) unregisterChain(id fxproto.ChainID) {
	entry, ok := m.chains[id]
	if !ok {
		return
	}

	for _, e := range entry.chain.Effects() {
		delete(m.effects, e.ID())
	}

	delete(m.chains, id)
}
