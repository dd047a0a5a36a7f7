package fxproto

// Outcome is the result of handing a request to a collaborator or of the
// manager's own identity check. It settles who answers the request.
type Outcome int

const (
	// OutcomeNotHandled means the collaborator did not process the request
	// and did not respond. The manager answers with invalid-request.
	OutcomeNotHandled Outcome = iota
	// OutcomeApplied means the collaborator applied the change and responded
	// with success.
	OutcomeApplied
	// OutcomeRejected means the collaborator understood the request, declined
	// it and responded with a failure.
	OutcomeRejected
	// OutcomeNotFound means the target identity is not live. The manager
	// answers with the matching not-found status.
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotHandled:
		return "not-handled"
	case OutcomeApplied:
		return "applied"
	case OutcomeRejected:
		return "rejected"
	case OutcomeNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Responded reports whether the collaborator already sent the response.
func (o Outcome) Responded() bool {
	return o == OutcomeApplied || o == OutcomeRejected
}

// Processor is the buffer-processing half of the collaborator contract.
//
// Process renders in into out for the channel pair and reports whether out
// now holds a processed signal. When in and out are the same slice the
// processing happens in place. A processor that returns false must leave out
// untouched unless in and out alias. features is read-only.
type Processor interface {
	Process(handles ChannelHandlePair, in, out []float64, sampleRate float64, features *GroupFeatureState) bool
}

// RequestHandler is the request half of the collaborator contract. A handler
// that returns OutcomeApplied or OutcomeRejected has written exactly one
// response to w.
type RequestHandler interface {
	ProcessRequest(req *Request, w ResponseWriter) Outcome
}

// Effect is a leaf processing unit.
type Effect interface {
	RequestHandler
	Processor
	ID() EffectID
}

// Chain is an ordered group of effects.
type Chain interface {
	RequestHandler
	Processor
	ID() ChainID
	// Effects returns the chain's current members. The slice must not be
	// modified.
	Effects() []Effect
}

// Rack is an ordered group of chains forming one processing stage.
type Rack interface {
	RequestHandler
	Processor
	ID() RackID
	// Chains returns the rack's current members. The slice must not be
	// modified.
	Chains() []Chain
}
