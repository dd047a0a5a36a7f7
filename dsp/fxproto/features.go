package fxproto

// GroupFeatureState carries per-block features computed during pre-fader
// processing. Post-fader processing receives it read-only.
//
// Features derived from post-fader signal changes are not available to
// effects that run before the stage producing them.
type GroupFeatureState struct {
	HasGain bool
	// Gain is the RMS level of the pre-fader signal.
	Gain float64

	HasPeak bool
	Peak    float64

	HasSpectralCentroid bool
	SpectralCentroidHz  float64

	// Beat features are supplied by the caller, who knows the tempo.
	HasBeatLength bool
	BeatLengthSec float64

	HasBeatFraction bool
	BeatFraction    float64
}

// Reset clears every feature.
func (s *GroupFeatureState) Reset() {
	*s = GroupFeatureState{}
}

// ResetAnalysis clears the features derived from the signal and keeps the
// caller-supplied beat features.
func (s *GroupFeatureState) ResetAnalysis() {
	s.HasGain, s.Gain = false, 0
	s.HasPeak, s.Peak = false, 0
	s.HasSpectralCentroid, s.SpectralCentroidHz = false, 0
}

// SetBeat records the beat length and the position within the beat.
func (s *GroupFeatureState) SetBeat(lengthSec, fraction float64) {
	s.HasBeatLength, s.BeatLengthSec = lengthSec > 0, lengthSec
	s.HasBeatFraction, s.BeatFraction = lengthSec > 0, fraction
}
