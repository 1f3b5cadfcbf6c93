package rf

import (
	"fmt"
	"math"
	"time"
)

// StationDescriptor holds the immutable metadata of a seismic station for
// the duration of an analysis. The GORM tags map it onto the station
// metadata database.
type StationDescriptor struct {
	Network   string  `gorm:"primaryKey;column:network" msgpack:"network"`
	Code      string  `gorm:"primaryKey;column:code" msgpack:"code"`
	Latitude  float64 `gorm:"column:latitude" msgpack:"latitude"`
	Longitude float64 `gorm:"column:longitude" msgpack:"longitude"`
	Elevation float64 `gorm:"column:elevation" msgpack:"elevation"` // km
	Channel   string  `gorm:"column:channel" msgpack:"channel"`     // channel prefix, e.g. "HH"
	Location  string  `gorm:"column:location" msgpack:"location"`

	// Polarity is +1 or -1 and corrects stations with reversed sensors.
	Polarity float64 `gorm:"column:polarity;default:1" msgpack:"polarity"`
	// AzCorr is an azimuth correction in degrees applied to the sensor
	// orientation.
	AzCorr float64 `gorm:"column:azcorr;default:0" msgpack:"azcorr"`
	Status string  `gorm:"column:status" msgpack:"status"`
}

// TableName specifies the table name for StationDescriptor
func (StationDescriptor) TableName() string {
	return "stations"
}

// Validate checks the fields required by the analysis pipeline.
func (s *StationDescriptor) Validate() error {
	if s.Network == "" || s.Code == "" {
		return fmt.Errorf("rf: station descriptor missing network or code")
	}
	if s.Latitude < -90 || s.Latitude > 90 {
		return fmt.Errorf("rf: station %s.%s: latitude %g out of range", s.Network, s.Code, s.Latitude)
	}
	if s.Longitude < -180 || s.Longitude > 360 {
		return fmt.Errorf("rf: station %s.%s: longitude %g out of range", s.Network, s.Code, s.Longitude)
	}
	if s.Polarity != 1 && s.Polarity != -1 && s.Polarity != 0 {
		return fmt.Errorf("rf: station %s.%s: polarity must be +1 or -1", s.Network, s.Code)
	}
	return nil
}

// Key returns the network.code identifier of the station.
func (s *StationDescriptor) Key() string {
	return s.Network + "." + s.Code
}

// missingMagnitude is the sentinel stored when an event has no reported
// magnitude.
const missingMagnitude = -9.0

// EventRecord holds the hypocentral parameters of one earthquake, consumed
// read-only by the analysis.
type EventRecord struct {
	Origin    time.Time `msgpack:"origin"`
	Depth     float64   `msgpack:"depth"` // m
	Latitude  float64   `msgpack:"latitude"`
	Longitude float64   `msgpack:"longitude"`
	Magnitude float64   `msgpack:"magnitude"`
}

// NewEventRecord builds a validated event record. Depth is in meters. A NaN
// magnitude is normalized to the -9 sentinel.
func NewEventRecord(origin time.Time, depthM, lat, lon, mag float64) (*EventRecord, error) {
	ev := &EventRecord{
		Origin:    origin,
		Depth:     depthM,
		Latitude:  lat,
		Longitude: lon,
		Magnitude: mag,
	}
	if math.IsNaN(mag) {
		ev.Magnitude = missingMagnitude
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}

// Validate checks that the event record has a plausible shape.
func (e *EventRecord) Validate() error {
	if e.Origin.IsZero() {
		return fmt.Errorf("rf: event record has no origin time")
	}
	if e.Latitude < -90 || e.Latitude > 90 {
		return fmt.Errorf("rf: event latitude %g out of range", e.Latitude)
	}
	if e.Longitude < -180 || e.Longitude > 360 {
		return fmt.Errorf("rf: event longitude %g out of range", e.Longitude)
	}
	if e.Depth < 0 {
		return fmt.Errorf("rf: event depth %g is negative", e.Depth)
	}
	return nil
}
