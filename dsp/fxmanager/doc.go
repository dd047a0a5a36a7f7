// Package fxmanager implements the effects manager: the audio-thread owner of
// the effect topology.
//
// Once per audio block the manager drains the request side of an fxpipe.Pipe
// (HandleRequests), validates every request against its master membership
// lists and forwards it to the addressed rack, chain or effect. Every request
// is answered exactly once: either by the collaborator it was forwarded to or
// by the manager itself when the target is not live or the request was not
// handled.
//
// The three processing entry points thread a block through the pre-fader or
// post-fader racks in series. In-place processing hands the same buffer to
// every rack; the mix path keeps the caller's input untouched, alternates
// between two preallocated scratch buffers and adds the result into the
// output bus.
//
// Apart from the debug logging enabled by WithDebugOutput, HandleRequests and
// the processing entry points neither lock nor log, and processing does not
// allocate.
package fxmanager
