package fxrack

import (
	"math"

	"github.com/cwbudde/algo-fxengine/dsp/core"
)

// ParameterSpec describes one effect parameter.
type ParameterSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// Clamp limits v to the parameter range.
func (p ParameterSpec) Clamp(v float64) float64 {
	return core.Clamp(v, p.Min, p.Max)
}

// Manifest describes an effect type and its parameters.
type Manifest struct {
	Type       string
	Name       string
	Parameters []ParameterSpec
}

// Defaults returns the default value of every parameter.
func (m Manifest) Defaults() []float64 {
	out := make([]float64, len(m.Parameters))
	for i, p := range m.Parameters {
		out[i] = p.Clamp(p.Default)
	}

	return out
}

// Index returns the index of the named parameter.
func (m Manifest) Index(name string) (int, bool) {
	for i, p := range m.Parameters {
		if p.Name == name {
			return i, true
		}
	}

	return -1, false
}

// Params holds the current parameter values handed to a Kernel.
type Params []float64

// Get safely extracts a parameter, returning def if missing or invalid.
func (p Params) Get(index int, def float64) float64 {
	if index < 0 || index >= len(p) {
		return def
	}

	v := p[index]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}
