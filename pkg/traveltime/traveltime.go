// Package traveltime predicts teleseismic P-wave arrivals from an embedded
// 1-D Earth model travel-time table.
package traveltime

// Arrival describes one predicted seismic phase arrival at a station.
type Arrival struct {
	// Time is the travel time from origin to station in seconds.
	Time float64
	// Phase is the seismic phase name (e.g. "P").
	Phase string
	// RayParam is the horizontal slowness in s/degree.
	RayParam float64
	// Incidence is the angle between the incoming ray and vertical at the
	// surface, in degrees.
	Incidence float64
}

// Model predicts phase arrivals for a source at the given angular distance
// (degrees) and depth (km). An empty slice with a nil error means the model
// has no prediction for that geometry, which callers treat as an expected
// rejection rather than a fault.
type Model interface {
	Arrivals(distanceDeg, depthKm float64, phase string) ([]Arrival, error)
}
