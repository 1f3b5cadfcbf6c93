package wave

import "math"

// RotateNERT rotates the horizontal component pair (N, E) into radial and
// transverse components using the back-azimuth in degrees. The rotation is
// orthogonal, so it preserves horizontal-plane energy sample by sample.
func RotateNERT(n, e []float64, baz float64) (r, t []float64) {
	sinBa, cosBa := math.Sincos(baz * math.Pi / 180)
	r = make([]float64, len(n))
	t = make([]float64, len(n))
	for i := range n {
		r[i] = -e[i]*sinBa - n[i]*cosBa
		t[i] = -e[i]*cosBa + n[i]*sinBa
	}
	return r, t
}

// RotateZNELQT rotates the (Z, N, E) triple into the ray-based (L, Q, T)
// frame using the back-azimuth and the surface incidence angle, both in
// degrees. L points along the ray, Q lies in the vertical plane of
// propagation and T completes the right-handed frame.
func RotateZNELQT(z, n, e []float64, baz, inc float64) (l, q, t []float64) {
	sinBa, cosBa := math.Sincos(baz * math.Pi / 180)
	sinInc, cosInc := math.Sincos(inc * math.Pi / 180)
	l = make([]float64, len(z))
	q = make([]float64, len(z))
	t = make([]float64, len(z))
	for i := range z {
		l[i] = z[i]*cosInc - n[i]*sinInc*cosBa - e[i]*sinInc*sinBa
		q[i] = z[i]*sinInc + n[i]*cosInc*cosBa + e[i]*cosInc*sinBa
		t[i] = n[i]*sinBa - e[i]*cosBa
	}
	return l, q, t
}
