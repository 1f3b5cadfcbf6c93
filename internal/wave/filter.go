package wave

import "math"

// biquad is a single second-order IIR section in direct form II transposed.
type biquad struct {
	b0, b1, b2, a1, a2 float64
}

func (s *biquad) apply(data []float64) {
	var z1, z2 float64
	for i, x := range data {
		y := s.b0*x + z1
		z1 = s.b1*x - s.a1*y + z2
		z2 = s.b2*x - s.a2*y
		data[i] = y
	}
}

// butterworthQ is the pole quality factor of a 2-pole Butterworth section.
const butterworthQ = math.Sqrt2 / 2

// lowpassSection designs a 2-pole Butterworth low-pass biquad at cutoff fc
// for sample rate sr.
func lowpassSection(fc, sr float64) biquad {
	w0 := 2 * math.Pi * fc / sr
	sinW0, cosW0 := math.Sincos(w0)
	alpha := sinW0 / (2 * butterworthQ)

	a0 := 1 + alpha
	return biquad{
		b0: (1 - cosW0) / 2 / a0,
		b1: (1 - cosW0) / a0,
		b2: (1 - cosW0) / 2 / a0,
		a1: -2 * cosW0 / a0,
		a2: (1 - alpha) / a0,
	}
}

// highpassSection designs a 2-pole Butterworth high-pass biquad at cutoff fc
// for sample rate sr.
func highpassSection(fc, sr float64) biquad {
	w0 := 2 * math.Pi * fc / sr
	sinW0, cosW0 := math.Sincos(w0)
	alpha := sinW0 / (2 * butterworthQ)

	a0 := 1 + alpha
	return biquad{
		b0: (1 + cosW0) / 2 / a0,
		b1: -(1 + cosW0) / a0,
		b2: (1 + cosW0) / 2 / a0,
		a1: -2 * cosW0 / a0,
		a2: (1 - alpha) / a0,
	}
}

// Bandpass applies a Butterworth band-pass between fmin and fmax to the
// trace in place, as a cascade of corners-pole high-pass and low-pass
// stages. With zerophase the cascade is run forward and then backward over
// the reversed signal, doubling the effective order and cancelling the
// phase distortion.
func (t *Trace) Bandpass(fmin, fmax float64, corners int, zerophase bool) {
	if len(t.Data) == 0 {
		return
	}
	sections := make([]biquad, 0, corners)
	for n := 0; n < corners; n += 2 {
		sections = append(sections,
			highpassSection(fmin, t.SampleRate),
			lowpassSection(fmax, t.SampleRate))
	}

	for _, s := range sections {
		s.apply(t.Data)
	}
	if zerophase {
		reverse(t.Data)
		for _, s := range sections {
			s.apply(t.Data)
		}
		reverse(t.Data)
	}
}

func reverse(data []float64) {
	for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
		data[i], data[j] = data[j], data[i]
	}
}
