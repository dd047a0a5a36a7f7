package fxproto

import "sync/atomic"

// RackID identifies an effect rack. The zero value is never issued.
type RackID uint32

// ChainID identifies an effect chain. The zero value is never issued.
type ChainID uint32

// EffectID identifies an effect. The zero value is never issued.
type EffectID uint32

// IDSource issues identities for racks, chains and effects.
// It is safe for concurrent use; create one per engine and pass it to the
// code that constructs collaborators.
type IDSource struct {
	next atomic.Uint32
}

// NewIDSource returns an IDSource whose first identity is 1.
func NewIDSource() *IDSource {
	return &IDSource{}
}

func (s *IDSource) issue() uint32 {
	return s.next.Add(1)
}

// NextRack returns a fresh rack identity.
func (s *IDSource) NextRack() RackID { return RackID(s.issue()) }

// NextChain returns a fresh chain identity.
func (s *IDSource) NextChain() ChainID { return ChainID(s.issue()) }

// NextEffect returns a fresh effect identity.
func (s *IDSource) NextEffect() EffectID { return EffectID(s.issue()) }
