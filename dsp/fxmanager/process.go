package fxmanager

import (
	"errors"

	"github.com/cwbudde/algo-fxengine/dsp/buffer"
	"github.com/cwbudde/algo-fxengine/dsp/core"
	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
)

var (
	// ErrBlockTooLarge is returned when a block exceeds the scratch capacity.
	// The buffers are left untouched.
	ErrBlockTooLarge = errors.New("fxmanager: block exceeds max block size")
	// ErrShortOutput is returned by ProcessPostFaderAndMix when out is
	// shorter than in.
	ErrShortOutput = errors.New("fxmanager: output shorter than input")
)

// ProcessPreFaderInPlace runs the pre-fader racks over buf at unity gain and
// refreshes the level and spectral features of features from the processed
// block. Beat features set by the caller are kept. features may be nil.
func (m *Manager) ProcessPreFaderInPlace(handles fxproto.ChannelHandlePair, buf []float64, sampleRate float64, features *fxproto.GroupFeatureState) error {
	if len(buf) > m.arena.Cap() {
		return ErrBlockTooLarge
	}

	if features != nil {
		features.ResetAnalysis()
	}

	m.process(m.preFader, handles, buf, buf, sampleRate, features, core.GainUnity, core.GainUnity)

	if features != nil && m.analyzer != nil {
		m.analyzer.Analyze(buf, sampleRate, features)
	}

	return nil
}

// ProcessPostFaderInPlace applies the fader ramp from oldGain to newGain to
// buf and then runs the post-fader racks over it in place.
func (m *Manager) ProcessPostFaderInPlace(handles fxproto.ChannelHandlePair, buf []float64, sampleRate float64, features *fxproto.GroupFeatureState, oldGain, newGain float64) error {
	if len(buf) > m.arena.Cap() {
		return ErrBlockTooLarge
	}

	m.process(m.postFader, handles, buf, buf, sampleRate, features, oldGain, newGain)

	return nil
}

// ProcessPostFaderAndMix runs the ramped input through the post-fader racks
// and adds the result into out. in is never written unless it aliases out, in
// which case the call behaves like ProcessPostFaderInPlace.
func (m *Manager) ProcessPostFaderAndMix(handles fxproto.ChannelHandlePair, in, out []float64, sampleRate float64, features *fxproto.GroupFeatureState, oldGain, newGain float64) error {
	if len(in) > m.arena.Cap() {
		return ErrBlockTooLarge
	}

	if len(out) < len(in) {
		return ErrShortOutput
	}

	m.process(m.postFader, handles, in, out[:len(in)], sampleRate, features, oldGain, newGain)

	return nil
}

// process threads in through racks. When in and out are the same slice the
// racks work in place; otherwise the result is added into out.
func (m *Manager) process(racks []fxproto.Rack, handles fxproto.ChannelHandlePair, in, out []float64, sampleRate float64, features *fxproto.GroupFeatureState, oldGain, newGain float64) {
	if len(in) == 0 {
		return
	}

	if buffer.Same(in, out) {
		core.ApplyRampingGain(in, oldGain, newGain, m.channels)

		for _, r := range racks {
			if r != nil {
				r.Process(handles, in, in, sampleRate, features)
			}
		}

		return
	}

	if core.IsUnity(oldGain, newGain) {
		// Racks never write their input when processing out of place.
		m.arena.Begin(in)
	} else {
		core.CopyWithRampingGain(m.arena.BeginCopy(len(in)), in, oldGain, newGain, m.channels)
	}
	defer m.arena.End()

	for _, r := range racks {
		if r == nil {
			continue
		}

		// A rack that did not modify the signal leaves the current buffer
		// in place for the next rack.
		stageIn, stageOut := m.arena.Stage()
		if r.Process(handles, stageIn, stageOut, sampleRate, features) {
			m.arena.Advance()
		}
	}

	core.AddInto(out, m.arena.Current())
}
