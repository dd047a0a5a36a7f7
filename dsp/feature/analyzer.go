// Package feature computes the per-block GroupFeatureState during pre-fader
// processing.
package feature

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
)

// DefaultSize is the default analysis frame length.
const DefaultSize = 1024

// silenceFloor is the RMS level below which a block counts as silent.
const silenceFloor = 1e-9

var errInvalidSize = errors.New("feature: analysis size must be a power of two >= 16")

// Analyzer extracts level and spectral features from interleaved blocks.
// All storage is reserved at construction; Analyze does not allocate.
type Analyzer struct {
	size     int
	channels int

	plan   *algofft.Plan[complex128]
	window []float64
	in     []complex128
	out    []complex128
	re     []float64
	im     []float64
	power  []float64
}

// NewAnalyzer creates an analyzer with the given frame size (a power of two)
// for interleaved blocks with channels channels.
func NewAnalyzer(size, channels int) (*Analyzer, error) {
	if size < 16 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", errInvalidSize, size)
	}

	if channels < 1 {
		channels = 1
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("feature: fft plan: %w", err)
	}

	bins := size/2 + 1

	a := &Analyzer{
		size:     size,
		channels: channels,
		plan:     plan,
		window:   hann(size),
		in:       make([]complex128, size),
		out:      make([]complex128, size),
		re:       make([]float64, bins),
		im:       make([]float64, bins),
		power:    make([]float64, bins),
	}

	return a, nil
}

// Size returns the analysis frame length in frames.
func (a *Analyzer) Size() int {
	return a.size
}

// hann returns a periodic Hann window.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}

	return w
}

// Analyze fills the level and spectral features of state from block.
// Beat features already present in state are left untouched.
func (a *Analyzer) Analyze(block []float64, sampleRate float64, state *fxproto.GroupFeatureState) {
	state.ResetAnalysis()

	if len(block) == 0 {
		return
	}

	var sumSq, peak float64
	for _, x := range block {
		sumSq += x * x
		peak = math.Max(peak, math.Abs(x))
	}

	rms := math.Sqrt(sumSq / float64(len(block)))
	state.HasGain, state.Gain = true, rms
	state.HasPeak, state.Peak = true, peak

	if rms < silenceFloor || sampleRate <= 0 {
		return
	}

	if centroid, ok := a.centroid(block, sampleRate); ok {
		state.HasSpectralCentroid = true
		state.SpectralCentroidHz = centroid
	}
}

// centroid downmixes the most recent frames of block to mono, windows them
// and returns the power-weighted mean frequency.
func (a *Analyzer) centroid(block []float64, sampleRate float64) (float64, bool) {
	frames := len(block) / a.channels
	start := max(0, frames-a.size)
	used := frames - start
	scale := 1 / float64(a.channels)

	for i := 0; i < a.size; i++ {
		if i >= used {
			a.in[i] = 0
			continue
		}

		frame := block[(start+i)*a.channels : (start+i+1)*a.channels]

		var mono float64
		for _, x := range frame {
			mono += x
		}

		a.in[i] = complex(mono*scale*a.window[i], 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return 0, false
	}

	for k := range a.re {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}

	vecmath.Power(a.power, a.re, a.im)

	binHz := sampleRate / float64(a.size)

	var weighted, total float64
	for k, p := range a.power {
		weighted += float64(k) * binHz * p
		total += p
	}

	if total <= 0 {
		return 0, false
	}

	return weighted / total, true
}
