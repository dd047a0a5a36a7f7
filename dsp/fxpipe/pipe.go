// Package fxpipe provides the non-blocking transport between the control
// thread and the audio thread of the effects engine.
//
// A Pipe carries fxproto.Request values towards the audio thread and
// fxproto.Response values back. Both directions are lock-free SPSC rings, so
// the audio thread can drain requests and post responses without blocking or
// allocating.
package fxpipe

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
)

// ErrPipeFull is returned by Send when the request ring has no free slot.
var ErrPipeFull = errors.New("fxpipe: request pipe full")

// Pipe is the two-way request/response channel.
//
// The control end (Send, ReadResponse, DrainResponses) must be used by one
// goroutine and the audio end (ReadRequest, Drain, WriteResponse) by another.
type Pipe struct {
	requests  *Ring[fxproto.Request]
	responses *Ring[fxproto.Response]

	droppedResponses atomic.Uint64
}

// New creates a pipe whose request and response rings hold at least capacity
// messages each.
func New(capacity int) (*Pipe, error) {
	requests, err := NewRing[fxproto.Request](capacity)
	if err != nil {
		return nil, fmt.Errorf("request ring: %w", err)
	}

	responses, err := NewRing[fxproto.Response](capacity)
	if err != nil {
		return nil, fmt.Errorf("response ring: %w", err)
	}

	return &Pipe{requests: requests, responses: responses}, nil
}

// Send enqueues req for the audio thread. It never blocks and returns
// ErrPipeFull when the ring is full.
func (p *Pipe) Send(req fxproto.Request) error {
	if !p.requests.Push(req) {
		return ErrPipeFull
	}

	return nil
}

// ReadResponse dequeues the oldest response into dst.
func (p *Pipe) ReadResponse(dst *fxproto.Response) bool {
	return p.responses.Pop(dst)
}

// DrainResponses dequeues up to len(dst) responses and returns how many were
// written.
func (p *Pipe) DrainResponses(dst []fxproto.Response) int {
	n := 0
	for n < len(dst) && p.responses.Pop(&dst[n]) {
		n++
	}

	return n
}

// ReadRequest dequeues the oldest request into dst. Audio thread only.
func (p *Pipe) ReadRequest(dst *fxproto.Request) bool {
	return p.requests.Pop(dst)
}

// Drain dequeues up to len(dst) requests and returns how many were written.
// Audio thread only.
func (p *Pipe) Drain(dst []fxproto.Request) int {
	n := 0
	for n < len(dst) && p.requests.Pop(&dst[n]) {
		n++
	}

	return n
}

// WriteResponse enqueues resp for the control thread. If the response ring
// is full the response is counted as dropped and false is returned.
// Audio thread only.
func (p *Pipe) WriteResponse(resp fxproto.Response) bool {
	if !p.responses.Push(resp) {
		p.droppedResponses.Add(1)
		return false
	}

	return true
}

// PendingRequests returns the number of queued requests.
func (p *Pipe) PendingRequests() int {
	return p.requests.Len()
}

// PendingResponses returns the number of queued responses.
func (p *Pipe) PendingResponses() int {
	return p.responses.Len()
}

// Capacity returns the per-direction message capacity.
func (p *Pipe) Capacity() int {
	return p.requests.Cap()
}

// DroppedResponses returns how many responses could not be queued.
func (p *Pipe) DroppedResponses() uint64 {
	return p.droppedResponses.Load()
}
