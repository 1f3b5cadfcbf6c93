package geo

import (
	"math"
	"testing"
)

func TestDistAzimuth(t *testing.T) {
	tests := []struct {
		name                 string
		lat1, lon1           float64
		lat2, lon2           float64
		wantDistKm           float64 // tolerance ±10 km
		wantAz               float64 // tolerance ±0.5 deg
		wantBaz              float64 // tolerance ±0.5 deg
	}{
		{
			name: "quarter circle along the equator",
			lat1: 0, lon1: 90, lat2: 0, lon2: 0,
			wantDistKm: 10018.75,
			wantAz:     270,
			wantBaz:    90,
		},
		{
			name: "quarter circle reversed",
			lat1: 0, lon1: 0, lat2: 0, lon2: 90,
			wantDistKm: 10018.75,
			wantAz:     90,
			wantBaz:    270,
		},
		{
			name: "meridian arc to 45 north",
			lat1: 0, lon1: 0, lat2: 45, lon2: 0,
			wantDistKm: 4984.94,
			wantAz:     0,
			wantBaz:    180,
		},
		{
			name: "oblique teleseismic path",
			lat1: -1.5827, lon1: 145.3149, lat2: 62.618919, lon2: -131.262466,
			wantDistKm: 9824.0,
			wantAz:     27.3,
			wantBaz:    263.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, az, baz := DistAzimuth(tt.lat1, tt.lon1, tt.lat2, tt.lon2)

			if diff := math.Abs(dist/1000 - tt.wantDistKm); diff > 10 {
				t.Errorf("distance = %.2f km, expected %.2f km", dist/1000, tt.wantDistKm)
			}
			if diff := angleDiff(az, tt.wantAz); diff > 0.5 {
				t.Errorf("azimuth = %.3f, expected %.3f", az, tt.wantAz)
			}
			if diff := angleDiff(baz, tt.wantBaz); diff > 0.5 {
				t.Errorf("back azimuth = %.3f, expected %.3f", baz, tt.wantBaz)
			}
		})
	}
}

func TestDistAzimuthCoincident(t *testing.T) {
	dist, az, baz := DistAzimuth(45.5, -120.25, 45.5, -120.25)
	if dist != 0 || az != 0 || baz != 0 {
		t.Errorf("coincident points: got dist=%g az=%g baz=%g, expected zeros", dist, az, baz)
	}
}

func TestKilometer2Degrees(t *testing.T) {
	tests := []struct {
		km   float64
		want float64
	}{
		{0, 0},
		{111.195, 1.0},
		{10007.5, 90.0},
	}

	for _, tt := range tests {
		got := Kilometer2Degrees(tt.km)
		if math.Abs(got-tt.want) > 0.01 {
			t.Errorf("Kilometer2Degrees(%g) = %g, expected %g", tt.km, got, tt.want)
		}
	}
}

func angleDiff(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}
