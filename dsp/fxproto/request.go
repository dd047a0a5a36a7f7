package fxproto

import "fmt"

// RequestType is the closed set of requests the audio thread understands.
type RequestType int

const (
	AddEffectRack RequestType = iota + 1
	RemoveEffectRack
	AddChainToRack
	RemoveChainFromRack
	AddEffectToChain
	RemoveEffectFromChain
	SetEffectChainParameters
	EnableEffectChainForInputChannel
	DisableEffectChainForInputChannel
	SetEffectParameters
	SetParameterParameters
)

var requestTypeNames = [...]string{
	AddEffectRack:                     "ADD_EFFECT_RACK",
	RemoveEffectRack:                  "REMOVE_EFFECT_RACK",
	AddChainToRack:                    "ADD_CHAIN_TO_RACK",
	RemoveChainFromRack:               "REMOVE_CHAIN_FROM_RACK",
	AddEffectToChain:                  "ADD_EFFECT_TO_CHAIN",
	RemoveEffectFromChain:             "REMOVE_EFFECT_FROM_CHAIN",
	SetEffectChainParameters:          "SET_EFFECT_CHAIN_PARAMETERS",
	EnableEffectChainForInputChannel:  "ENABLE_EFFECT_CHAIN_FOR_INPUT_CHANNEL",
	DisableEffectChainForInputChannel: "DISABLE_EFFECT_CHAIN_FOR_INPUT_CHANNEL",
	SetEffectParameters:               "SET_EFFECT_PARAMETERS",
	SetParameterParameters:            "SET_PARAMETER_PARAMETERS",
}

// NumRequestTypes is one past the largest valid RequestType.
const NumRequestTypes = int(SetParameterParameters) + 1

// IsValid reports whether t belongs to the closed set of request types.
func (t RequestType) IsValid() bool {
	return t >= AddEffectRack && t <= SetParameterParameters
}

func (t RequestType) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("RequestType(%d)", int(t))
	}

	return requestTypeNames[t]
}

// InsertionType selects how a chain combines its wet signal with the dry
// input.
type InsertionType int

const (
	// InsertionInsert crossfades dry and wet by the chain mix.
	InsertionInsert InsertionType = iota
	// InsertionSend adds the wet signal scaled by the chain mix to the dry input.
	InsertionSend
)

// AppendIndex asks for a member to be appended instead of inserted.
const AppendIndex = -1

// EffectRackPayload carries the rack of ADD_EFFECT_RACK and REMOVE_EFFECT_RACK.
type EffectRackPayload struct {
	Rack RackID
	// Attach is the rack being added. It is nil for removals.
	Attach   Rack
	PreFader bool
}

// ChainMemberPayload carries the chain of ADD_CHAIN_TO_RACK and
// REMOVE_CHAIN_FROM_RACK.
type ChainMemberPayload struct {
	Chain  ChainID
	Attach Chain
	Index  int
}

// EffectMemberPayload carries the effect of ADD_EFFECT_TO_CHAIN and
// REMOVE_EFFECT_FROM_CHAIN.
type EffectMemberPayload struct {
	Effect EffectID
	Attach Effect
	Index  int
}

// ChainParameters is the payload of SET_EFFECT_CHAIN_PARAMETERS.
type ChainParameters struct {
	Enabled       bool
	InsertionType InsertionType
	Mix           float64
}

// EffectParameters is the payload of SET_EFFECT_PARAMETERS.
type EffectParameters struct {
	Enabled bool
}

// ParameterValue is the payload of SET_PARAMETER_PARAMETERS.
type ParameterValue struct {
	Index int
	Value float64
}

// Request is a single control-thread instruction for the audio thread.
// Only the target field and payload matching Type are meaningful.
type Request struct {
	// ID correlates the request with its response. It is assigned by the
	// control side and never interpreted by the audio thread.
	ID   int64
	Type RequestType

	TargetRack   RackID
	TargetChain  ChainID
	TargetEffect EffectID

	EffectRack       EffectRackPayload
	ChainMember      ChainMemberPayload
	EffectMember     EffectMemberPayload
	ChainParameters  ChainParameters
	Channel          ChannelHandle
	EffectParameters EffectParameters
	Parameter        ParameterValue
}

// NewAddEffectRack requests that rack be appended to the pre-fader or
// post-fader rack list.
func NewAddEffectRack(rack Rack, preFader bool) Request {
	req := Request{Type: AddEffectRack}
	req.EffectRack = EffectRackPayload{Attach: rack, PreFader: preFader}

	if rack != nil {
		req.EffectRack.Rack = rack.ID()
	}

	return req
}

// NewRemoveEffectRack requests that the rack be removed from the pre-fader
// or post-fader rack list.
func NewRemoveEffectRack(rack RackID, preFader bool) Request {
	return Request{
		Type:       RemoveEffectRack,
		EffectRack: EffectRackPayload{Rack: rack, PreFader: preFader},
	}
}

// NewAddChainToRack requests that chain be inserted into rack at index.
// Use AppendIndex to append.
func NewAddChainToRack(rack RackID, chain Chain, index int) Request {
	req := Request{Type: AddChainToRack, TargetRack: rack}
	req.ChainMember = ChainMemberPayload{Attach: chain, Index: index}

	if chain != nil {
		req.ChainMember.Chain = chain.ID()
	}

	return req
}

// NewRemoveChainFromRack requests that chain be removed from rack.
func NewRemoveChainFromRack(rack RackID, chain ChainID) Request {
	return Request{
		Type:        RemoveChainFromRack,
		TargetRack:  rack,
		ChainMember: ChainMemberPayload{Chain: chain, Index: AppendIndex},
	}
}

// NewAddEffectToChain requests that effect be inserted into chain at index.
// Use AppendIndex to append.
func NewAddEffectToChain(chain ChainID, effect Effect, index int) Request {
	req := Request{Type: AddEffectToChain, TargetChain: chain}
	req.EffectMember = EffectMemberPayload{Attach: effect, Index: index}

	if effect != nil {
		req.EffectMember.Effect = effect.ID()
	}

	return req
}

// NewRemoveEffectFromChain requests that effect be removed from chain.
func NewRemoveEffectFromChain(chain ChainID, effect EffectID) Request {
	return Request{
		Type:         RemoveEffectFromChain,
		TargetChain:  chain,
		EffectMember: EffectMemberPayload{Effect: effect, Index: AppendIndex},
	}
}

// NewSetEffectChainParameters updates the chain's enabled flag, insertion
// type and mix.
func NewSetEffectChainParameters(chain ChainID, params ChainParameters) Request {
	return Request{
		Type:            SetEffectChainParameters,
		TargetChain:     chain,
		ChainParameters: params,
	}
}

// NewEnableEffectChainForInputChannel activates chain for the input channel.
func NewEnableEffectChainForInputChannel(chain ChainID, channel ChannelHandle) Request {
	return Request{
		Type:        EnableEffectChainForInputChannel,
		TargetChain: chain,
		Channel:     channel,
	}
}

// NewDisableEffectChainForInputChannel deactivates chain for the input channel.
func NewDisableEffectChainForInputChannel(chain ChainID, channel ChannelHandle) Request {
	return Request{
		Type:        DisableEffectChainForInputChannel,
		TargetChain: chain,
		Channel:     channel,
	}
}

// NewSetEffectParameters updates the effect's enabled flag.
func NewSetEffectParameters(effect EffectID, params EffectParameters) Request {
	return Request{
		Type:             SetEffectParameters,
		TargetEffect:     effect,
		EffectParameters: params,
	}
}

// NewSetParameterParameters sets one parameter of an effect.
func NewSetParameterParameters(effect EffectID, index int, value float64) Request {
	return Request{
		Type:         SetParameterParameters,
		TargetEffect: effect,
		Parameter:    ParameterValue{Index: index, Value: value},
	}
}
