package fxproto

import (
	"errors"
	"fmt"
)

// Status describes the outcome of a request.
type Status int

const (
	StatusSuccess Status = iota
	StatusNoSuchRack
	StatusNoSuchChain
	StatusNoSuchEffect
	StatusInvalidRequest
	StatusUnhandledMessageType
)

// NumStatuses is the number of Status values.
const NumStatuses = int(StatusUnhandledMessageType) + 1

var (
	ErrNoSuchRack             = errors.New("no such effect rack")
	ErrNoSuchChain            = errors.New("no such effect chain")
	ErrNoSuchEffect           = errors.New("no such effect")
	ErrInvalidRequest         = errors.New("invalid request")
	ErrUnhandledMessageType   = errors.New("unhandled message type")
	errUnknownResponseFailure = errors.New("request failed")
)

var statusNames = [...]string{
	StatusSuccess:              "success",
	StatusNoSuchRack:           "no-such-rack",
	StatusNoSuchChain:          "no-such-chain",
	StatusNoSuchEffect:         "no-such-effect",
	StatusInvalidRequest:       "invalid-request",
	StatusUnhandledMessageType: "unhandled-message-type",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}

	return statusNames[s]
}

// Err returns the sentinel error for a failure status, or nil for
// StatusSuccess.
func (s Status) Err() error {
	switch s {
	case StatusSuccess:
		return nil
	case StatusNoSuchRack:
		return ErrNoSuchRack
	case StatusNoSuchChain:
		return ErrNoSuchChain
	case StatusNoSuchEffect:
		return ErrNoSuchEffect
	case StatusInvalidRequest:
		return ErrInvalidRequest
	case StatusUnhandledMessageType:
		return ErrUnhandledMessageType
	default:
		return errUnknownResponseFailure
	}
}

// Response answers exactly one Request.
type Response struct {
	RequestID int64
	Type      RequestType

	Rack   RackID
	Chain  ChainID
	Effect EffectID

	Success bool
	Status  Status
}

// NewResponse mirrors the identity and kind of req. The response starts out
// successful; callers mark failures with Fail.
func NewResponse(req *Request) Response {
	resp := Response{
		RequestID: req.ID,
		Type:      req.Type,
		Rack:      req.TargetRack,
		Chain:     req.TargetChain,
		Effect:    req.TargetEffect,
		Success:   true,
		Status:    StatusSuccess,
	}

	if resp.Rack == 0 {
		resp.Rack = req.EffectRack.Rack
	}

	if resp.Chain == 0 {
		resp.Chain = req.ChainMember.Chain
	}

	if resp.Effect == 0 {
		resp.Effect = req.EffectMember.Effect
	}

	return resp
}

// Fail marks the response as failed with status.
func (r *Response) Fail(status Status) {
	r.Success = false
	r.Status = status
}

// Err returns nil for a successful response and the status sentinel
// otherwise.
func (r Response) Err() error {
	if r.Success {
		return nil
	}

	return r.Status.Err()
}

// ResponseWriter accepts responses on the audio thread. WriteResponse must
// not block; it reports false if the response could not be queued.
type ResponseWriter interface {
	WriteResponse(resp Response) bool
}
