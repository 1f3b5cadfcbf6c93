// Package geo solves the inverse geodesic problem between a seismic station
// and an earthquake epicenter on the WGS84 ellipsoid.
package geo

import "math"

// WGS84 ellipsoid parameters
const (
	semiMajorAxis = 6378137.0
	flattening    = 1.0 / 298.257223563

	// Mean Earth radius used for the kilometer/degree conversion (km)
	meanRadiusKm = 6371.0
)

const maxVincentyIterations = 200

// DistAzimuth computes the distance in meters and the forward and back
// azimuths in degrees between two points given as (lat, lon) pairs in
// degrees. The forward azimuth points from the first point to the second;
// the back azimuth points from the second point to the first. Both are
// measured clockwise from north in [0, 360).
//
// The solution uses Vincenty's inverse formula. For the rare near-antipodal
// pairs where the iteration fails to converge, a spherical great-circle
// solution is used instead.
func DistAzimuth(lat1, lon1, lat2, lon2 float64) (distance, azimuth, backAzimuth float64) {
	if lat1 == lat2 && lon1 == lon2 {
		return 0, 0, 0
	}

	a := semiMajorAxis
	f := flattening
	b := a * (1 - f)

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	L := (lon2 - lon1) * math.Pi / 180

	u1 := math.Atan((1 - f) * math.Tan(phi1))
	u2 := math.Atan((1 - f) * math.Tan(phi2))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := L
	var sinSigma, cosSigma, sigma, cosSqAlpha, cos2SigmaM float64
	converged := false

	for i := 0; i < maxVincentyIterations; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)
		sinSigma = math.Sqrt(
			(cosU2*sinLambda)*(cosU2*sinLambda) +
				(cosU1*sinU2-sinU1*cosU2*cosLambda)*(cosU1*sinU2-sinU1*cosU2*cosLambda))
		if sinSigma == 0 {
			// coincident points
			return 0, 0, 0
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha == 0 {
			// equatorial geodesic
			cos2SigmaM = 0
		} else {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}

		c := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		lambdaPrev := lambda
		lambda = L + (1-c)*f*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.Abs(lambda-lambdaPrev) < 1e-12 {
			converged = true
			break
		}
	}

	if !converged {
		return sphericalDistAzimuth(lat1, lon1, lat2, lon2)
	}

	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
		(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	distance = b * bigA * (sigma - deltaSigma)

	sinLambda, cosLambda := math.Sincos(lambda)
	alpha1 := math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
	alpha2 := math.Atan2(cosU1*sinLambda, -sinU1*cosU2+cosU1*sinU2*cosLambda)

	azimuth = normalizeDeg(alpha1 * 180 / math.Pi)
	backAzimuth = normalizeDeg(alpha2*180/math.Pi + 180)
	return distance, azimuth, backAzimuth
}

// sphericalDistAzimuth is the great-circle fallback on a sphere of mean
// Earth radius.
func sphericalDistAzimuth(lat1, lon1, lat2, lon2 float64) (distance, azimuth, backAzimuth float64) {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	sinPhi1, cosPhi1 := math.Sincos(phi1)
	sinPhi2, cosPhi2 := math.Sincos(phi2)
	sinDLon, cosDLon := math.Sincos(dLon)

	central := math.Acos(clamp(sinPhi1*sinPhi2+cosPhi1*cosPhi2*cosDLon, -1, 1))
	distance = central * meanRadiusKm * 1000

	azimuth = normalizeDeg(math.Atan2(sinDLon*cosPhi2,
		cosPhi1*sinPhi2-sinPhi1*cosPhi2*cosDLon) * 180 / math.Pi)
	backAzimuth = normalizeDeg(math.Atan2(-sinDLon*cosPhi1,
		cosPhi2*sinPhi1-sinPhi2*cosPhi1*cosDLon) * 180 / math.Pi)
	return distance, azimuth, backAzimuth
}

// Kilometer2Degrees converts an epicentral distance in kilometers to degrees
// of arc on a sphere of mean Earth radius.
func Kilometer2Degrees(km float64) float64 {
	return km / (2 * math.Pi * meanRadiusKm / 360)
}

func normalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
