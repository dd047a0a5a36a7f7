package core

import "github.com/cwbudde/algo-vecmath"

// IsUnity reports whether a ramp from oldGain to newGain leaves the signal
// unchanged.
func IsUnity(oldGain, newGain float64) bool {
	return oldGain == GainUnity && newGain == GainUnity
}

// ApplyGain multiplies buf by gain. Unity is a no-op and zero clears.
func ApplyGain(buf []float64, gain float64) {
	switch gain {
	case GainUnity:
		return
	case 0:
		clear(buf)
	default:
		vecmath.ScaleBlockInPlace(buf, gain)
	}
}

// rampStep returns the per-frame gain increment of a linear ramp across buf.
func rampStep(n, channels int, oldGain, newGain float64) (frames int, delta float64) {
	if channels < 1 {
		channels = 1
	}

	frames = n / channels
	if frames == 0 {
		return 0, 0
	}

	return frames, (newGain - oldGain) / float64(frames)
}

// ApplyRampingGain scales buf with a gain ramping linearly from oldGain to
// newGain across the interleaved frames of buf. Frame i receives
// oldGain + delta*(i+1), so the final frame reaches newGain.
func ApplyRampingGain(buf []float64, oldGain, newGain float64, channels int) {
	frames, delta := rampStep(len(buf), channels, oldGain, newGain)
	if delta == 0 {
		ApplyGain(buf, oldGain)
		return
	}

	if channels < 1 {
		channels = 1
	}

	gain := oldGain
	for f := 0; f < frames; f++ {
		gain = oldGain + delta*float64(f+1)

		frame := buf[f*channels : (f+1)*channels]
		for i := range frame {
			frame[i] *= gain
		}
	}

	// Trailing samples of a partial frame keep the final gain.
	for i := frames * channels; i < len(buf); i++ {
		buf[i] *= gain
	}
}

// CopyWithRampingGain writes src scaled by the ramp from oldGain to newGain
// into dst. Only min(len(dst), len(src)) samples are written.
func CopyWithRampingGain(dst, src []float64, oldGain, newGain float64, channels int) {
	n := min(len(dst), len(src))
	dst, src = dst[:n], src[:n]

	frames, delta := rampStep(n, channels, oldGain, newGain)
	if delta == 0 {
		switch oldGain {
		case GainUnity:
			copy(dst, src)
		case 0:
			clear(dst)
		default:
			vecmath.ScaleBlock(dst, src, oldGain)
		}

		return
	}

	if channels < 1 {
		channels = 1
	}

	gain := oldGain
	for f := 0; f < frames; f++ {
		gain = oldGain + delta*float64(f+1)

		for i := f * channels; i < (f+1)*channels; i++ {
			dst[i] = src[i] * gain
		}
	}

	for i := frames * channels; i < n; i++ {
		dst[i] = src[i] * gain
	}
}

// AddInto mixes src additively into dst: dst[i] += src[i].
// Only min(len(dst), len(src)) samples are mixed.
func AddInto(dst, src []float64) {
	n := min(len(dst), len(src))
	if n == 0 {
		return
	}

	vecmath.AddBlockInPlace(dst[:n], src[:n])
}
