// Package testutil provides shared helpers for the engine's tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise generates white noise with a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// Clone returns a copy of buf.
func Clone(buf []float64) []float64 {
	return append([]float64(nil), buf...)
}

// Ramped is the reference gain ramp: frame i of the interleaved input is
// scaled by oldGain + (newGain-oldGain)*(i+1)/frames.
func Ramped(in []float64, oldGain, newGain float64, channels int) []float64 {
	out := make([]float64, len(in))
	frames := len(in) / channels

	for f := 0; f < frames; f++ {
		g := oldGain + (newGain-oldGain)*float64(f+1)/float64(frames)
		for c := 0; c < channels; c++ {
			out[f*channels+c] = in[f*channels+c] * g
		}
	}

	return out
}

// Sum returns a[i] + b[i] for each index.
func Sum(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}

	return out
}
