// Package core holds the sample-level kernels used on the audio thread of the
// effects engine: gain ramps, additive mixing and small numeric helpers.
//
// Buffers are interleaved float64 frames. None of the functions in this
// package allocate.
package core
