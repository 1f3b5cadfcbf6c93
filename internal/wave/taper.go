package wave

import "math"

// Hanning returns the symmetric Hann window of the given size,
// w[i] = 0.5 - 0.5*cos(2*pi*i/(n-1)).
func Hanning(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// TaperWindow returns a window of nt ones with half-Hann ramps of ns samples
// applied at both ends. The ramps are the two halves of a Hann window of
// length 2*ns, so the taper reaches unity at the ramp boundary.
func TaperWindow(nt, ns int) []float64 {
	tap := make([]float64, nt)
	for i := range tap {
		tap[i] = 1
	}
	if ns <= 0 || 2*ns > nt {
		return tap
	}
	win := Hanning(2 * ns)
	copy(tap[:ns], win[:ns])
	copy(tap[nt-ns:], win[ns:])
	return tap
}
