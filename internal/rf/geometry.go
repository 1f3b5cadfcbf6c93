package rf

import (
	"github.com/sayoUNL/rfproc/internal/log"
	"github.com/sayoUNL/rfproc/pkg/geo"
	"github.com/sayoUNL/rfproc/pkg/traveltime"
)

// Default assumed P and S velocities at the surface (km/s).
const (
	DefaultVP = 6.0
	DefaultVS = 3.6
)

// DefaultAlignment is the coordinate alignment used when the caller does not
// override it before rotation.
const DefaultAlignment = "ZRT"

// sdegToSkm converts a ray parameter from s/degree to s/km.
const sdegToSkm = 111.0

// Geometry holds the source-receiver geometry and predicted P arrival of one
// station-event pair, plus the analysis state that accumulates as the
// pipeline runs. It is append-only except for VP, VS and Align, which a
// caller may override before rotation.
type Geometry struct {
	// Event parameters
	Origin    EventRecord `msgpack:"origin"`
	EpiDist   float64     `msgpack:"epi_dist"` // epicentral distance (km)
	GAC       float64     `msgpack:"gac"`      // great-circle angular separation (deg)
	Az        float64     `msgpack:"az"`       // azimuth event -> station (deg)
	Baz       float64     `msgpack:"baz"`      // back-azimuth station -> event (deg)

	// First P arrival; defined only when Accept is true.
	TTime float64 `msgpack:"ttime"` // travel time (s)
	Phase string  `msgpack:"phase"`
	Slow  float64 `msgpack:"slow"` // horizontal slowness (s/km)
	Inc   float64 `msgpack:"inc"`  // surface incidence angle (deg)

	// Assumed surface velocities (km/s)
	VP float64 `msgpack:"vp"`
	VS float64 `msgpack:"vs"`

	// Analysis state
	Align   string  `msgpack:"align"`
	Rotated bool    `msgpack:"rotated"`
	Accept  bool    `msgpack:"accept"`
	SNR     float64 `msgpack:"snr"`
	SNRSet  bool    `msgpack:"snr_set"`
}

// resolveGeometry solves the inverse geodesic problem between station and
// epicenter and queries the travel-time model for the first P arrival. A
// failed or empty travel-time lookup is an expected rejection: the geometry
// comes back with Accept=false and undefined arrival fields, and every
// downstream stage must no-op. The arrival fields are resolved atomically;
// they are either all set or all left undefined.
func resolveGeometry(sta *StationDescriptor, event *EventRecord, model traveltime.Model) *Geometry {
	m := &Geometry{
		Origin: *event,
		VP:     DefaultVP,
		VS:     DefaultVS,
		Align:  DefaultAlignment,
	}

	distM, az, baz := geo.DistAzimuth(
		event.Latitude, event.Longitude, sta.Latitude, sta.Longitude)
	m.EpiDist = distM / 1000
	m.Az = az
	m.Baz = baz
	m.GAC = geo.Kilometer2Degrees(m.EpiDist)

	// The model wants the source depth in km; it is stored in meters.
	arrivals, err := model.Arrivals(m.GAC, event.Depth/1000, "P")
	if err != nil || len(arrivals) == 0 {
		if err != nil {
			log.Debugf("travel-time lookup failed for %s: %v", sta.Key(), err)
		}
		m.Accept = false
		return m
	}
	if len(arrivals) > 1 {
		log.Warnf("travel-time model returned %d arrivals; using the first", len(arrivals))
	}
	first := arrivals[0]

	m.TTime = first.Time
	m.Phase = first.Phase
	m.Slow = first.RayParam / sdegToSkm
	m.Inc = first.Incidence
	m.Accept = true
	return m
}
