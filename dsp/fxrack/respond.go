package fxrack

import "github.com/cwbudde/algo-fxengine/dsp/fxproto"

// respond answers req with status and reports the matching outcome.
func respond(req *fxproto.Request, w fxproto.ResponseWriter, status fxproto.Status) fxproto.Outcome {
	resp := fxproto.NewResponse(req)
	if status != fxproto.StatusSuccess {
		resp.Fail(status)
		w.WriteResponse(resp)

		return fxproto.OutcomeRejected
	}

	w.WriteResponse(resp)

	return fxproto.OutcomeApplied
}

func reject(req *fxproto.Request, w fxproto.ResponseWriter) fxproto.Outcome {
	return respond(req, w, fxproto.StatusInvalidRequest)
}

// insertAt inserts v at index into s without growing its capacity.
// Negative or out-of-range indices append. It reports false when s is full.
func insertAt[T any](s []T, index int, v T) ([]T, bool) {
	if len(s) == cap(s) {
		return s, false
	}

	if index < 0 || index > len(s) {
		index = len(s)
	}

	s = s[:len(s)+1]
	copy(s[index+1:], s[index:])
	s[index] = v

	return s, true
}

// removeAt removes the element at index, preserving order, and zeroes the
// vacated tail slot.
func removeAt[T any](s []T, index int) []T {
	var zero T

	copy(s[index:], s[index+1:])
	s[len(s)-1] = zero

	return s[:len(s)-1]
}
