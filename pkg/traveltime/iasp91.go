package traveltime

import "math"

// IASP91 is a table-backed model of first-arriving teleseismic P waves in
// the iasp91 radial Earth model. Travel times are tabulated for a surface
// focus on a regular distance grid and corrected for source depth using the
// vertical slowness at the source; horizontal slowness comes from the
// distance derivative of the travel-time curve.
//
// The model covers the teleseismic P window of 30-100 degrees and source
// depths down to 700 km. Outside that window Arrivals returns no arrival,
// the expected-rejection path of the analysis pipeline.
type IASP91 struct {
	dist  []float64 // degrees
	slow  []float64 // s/deg at each dist node
	time0 []float64 // surface-focus travel time (s) at each dist node
}

const (
	minDistanceDeg = 30.0
	maxDistanceDeg = 100.0
	maxDepthKm     = 700.0

	// P velocity of the uppermost crustal layer (km/s), used for the
	// surface incidence angle.
	surfaceVelocity = 5.8

	// Conversion between s/degree and s/km ray parameters.
	kmPerDegree = 111.195
)

// NewIASP91 builds the travel-time table. Surface-focus times are obtained
// by integrating the tabulated slowness curve from the 30-degree anchor.
func NewIASP91() *IASP91 {
	dist := []float64{30, 35, 40, 45, 50, 55, 60, 65, 70, 75, 80, 85, 90, 95, 100}
	slow := []float64{8.85, 8.70, 8.30, 7.90, 7.65, 7.35, 6.95, 6.60, 6.25,
		5.90, 5.55, 5.15, 4.75, 4.50, 4.40}

	time0 := make([]float64, len(dist))
	time0[0] = 372.0 // iasp91 surface-focus P at 30 degrees
	for i := 1; i < len(dist); i++ {
		dd := dist[i] - dist[i-1]
		time0[i] = time0[i-1] + 0.5*(slow[i]+slow[i-1])*dd
	}

	return &IASP91{dist: dist, slow: slow, time0: time0}
}

// Arrivals returns the first P arrival for the given source geometry, or an
// empty slice when the geometry falls outside the tabulated range or the
// phase is not modeled.
func (m *IASP91) Arrivals(distanceDeg, depthKm float64, phase string) ([]Arrival, error) {
	if phase != "P" {
		return nil, nil
	}
	if distanceDeg < minDistanceDeg || distanceDeg > maxDistanceDeg {
		return nil, nil
	}
	if depthKm < 0 || depthKm > maxDepthKm {
		return nil, nil
	}

	t0 := interpolate(m.dist, m.time0, distanceDeg)
	p := interpolate(m.dist, m.slow, distanceDeg)
	pKm := p / kmPerDegree

	// A deeper source skips the near-vertical leg between the surface and
	// the hypocenter, so the arrival is earlier by depth times the vertical
	// slowness at the source.
	vSrc := sourceVelocity(depthKm)
	q2 := 1/(vSrc*vSrc) - pKm*pKm
	if q2 < 0 {
		q2 = 0
	}
	t := t0 - depthKm*math.Sqrt(q2)

	inc := math.Asin(pKm*surfaceVelocity) * 180 / math.Pi

	return []Arrival{{
		Time:      t,
		Phase:     "P",
		RayParam:  p,
		Incidence: inc,
	}}, nil
}

// sourceVelocity returns the iasp91 P velocity (km/s) at the source depth.
func sourceVelocity(depthKm float64) float64 {
	switch {
	case depthKm < 20:
		return 5.8
	case depthKm < 35:
		return 6.5
	case depthKm < 120:
		return 8.05
	case depthKm < 210:
		return 8.3
	case depthKm < 410:
		return 8.8
	case depthKm < 660:
		return 9.6
	default:
		return 10.2
	}
}

// interpolate performs piecewise-linear interpolation of y over the sorted
// abscissa grid x. The query is assumed to lie within [x[0], x[len-1]].
func interpolate(x, y []float64, q float64) float64 {
	n := len(x)
	if q <= x[0] {
		return y[0]
	}
	if q >= x[n-1] {
		return y[n-1]
	}
	i := 1
	for i < n-1 && x[i] < q {
		i++
	}
	frac := (q - x[i-1]) / (x[i] - x[i-1])
	return y[i-1] + frac*(y[i]-y[i-1])
}
