package rf

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/sayoUNL/rfproc/internal/log"
	"github.com/sayoUNL/rfproc/internal/wave"
	"github.com/sayoUNL/rfproc/pkg/traveltime"
)

// WaveformSource acquires the three raw N/E/Z traces for a station and time
// window at a target sample rate. Implementations may block on network I/O;
// the numeric pipeline itself never does.
type WaveformSource interface {
	Waveforms(sta *StationDescriptor, start, end time.Time, sampleRate float64) (*wave.Set, error)
}

// RFData associates one station with one event and carries the analysis
// through geometry resolution, rotation, SNR estimation and deconvolution.
// Each record owns its geometry and waveform sets exclusively; nothing is
// shared across records, so independent records can be processed
// concurrently without coordination.
type RFData struct {
	ID  uuid.UUID
	Sta *StationDescriptor

	// Meta is the source-receiver geometry; nil until AddEvent runs.
	Meta *Geometry

	// Data holds the raw or rotated three-component seismograms.
	Data *wave.Set

	// RF holds the deconvolved receiver functions.
	RF *wave.Set

	// AcqErr records a per-channel acquisition fault. When set, the waveform
	// stages no-op without raising, mirroring the rejection path.
	AcqErr bool

	model traveltime.Model
}

// NewRFData creates an analysis record for the given station. The
// travel-time model is consumed as a black box when events are attached.
func NewRFData(sta *StationDescriptor, model traveltime.Model) (*RFData, error) {
	if err := sta.Validate(); err != nil {
		return nil, err
	}
	return &RFData{
		ID:    uuid.New(),
		Sta:   sta,
		model: model,
	}, nil
}

// AddEvent resolves the station-event geometry and the predicted P arrival.
// It returns whether the event is accepted for analysis; a false return is
// the expected rejection for events with no modeled arrival and is not an
// error.
func (r *RFData) AddEvent(event *EventRecord) (bool, error) {
	if err := event.Validate(); err != nil {
		return false, err
	}
	r.Meta = resolveGeometry(r.Sta, event, r.model)
	return r.Meta.Accept, nil
}

// AddWaveforms attaches an already-acquired set of N/E/Z seismograms. All
// three components must be present and must agree on sample count, sample
// rate and start time; a missing channel or an inconsistent set is a hard
// failure.
func (r *RFData) AddWaveforms(set *wave.Set) error {
	if r.Meta == nil {
		return ErrNoEvent
	}
	if !r.Meta.Accept {
		return nil
	}

	for _, comp := range []string{"N", "E", "Z"} {
		if _, err := set.Select(comp); err != nil {
			return fmt.Errorf("rf: not all channels are available: %w", err)
		}
	}
	if err := validateChannels(set); err != nil {
		return err
	}

	r.applySensorCorrections(set)
	r.Data = set
	return nil
}

// validateChannels checks that the three component traces line up sample for
// sample. Gappy acquisition can return one channel shorter or offset; the
// rotation math indexes the channels in lockstep, so the mismatch has to be
// caught here.
func validateChannels(set *wave.Set) error {
	trZ, _ := set.Select("Z")
	trN, _ := set.Select("N")
	trE, _ := set.Select("E")

	for _, tr := range []*wave.Trace{trN, trE} {
		if len(tr.Data) != len(trZ.Data) {
			return fmt.Errorf("rf: channel %s has %d samples, %s has %d: %w",
				tr.Channel, len(tr.Data), trZ.Channel, len(trZ.Data), ErrInconsistentWaveforms)
		}
		if tr.SampleRate != trZ.SampleRate {
			return fmt.Errorf("rf: channel %s at %g sps, %s at %g: %w",
				tr.Channel, tr.SampleRate, trZ.Channel, trZ.SampleRate, ErrInconsistentWaveforms)
		}
		if !tr.Start.Equal(trZ.Start) {
			return fmt.Errorf("rf: channel %s starts at %s, %s at %s: %w",
				tr.Channel, tr.Start.UTC().Format(time.RFC3339Nano),
				trZ.Channel, trZ.Start.UTC().Format(time.RFC3339Nano), ErrInconsistentWaveforms)
		}
	}
	return nil
}

// applySensorCorrections fixes known instrument issues recorded in the
// station metadata: a reversed vertical component and a misoriented
// horizontal pair.
func (r *RFData) applySensorCorrections(set *wave.Set) {
	trZ, _ := set.Select("Z")
	trN, _ := set.Select("N")
	trE, _ := set.Select("E")

	if r.Sta.Polarity == -1 {
		for i := range trZ.Data {
			trZ.Data[i] = -trZ.Data[i]
		}
	}
	if r.Sta.AzCorr != 0 {
		sinAz, cosAz := math.Sincos(r.Sta.AzCorr * math.Pi / 180)
		for i := range trN.Data {
			n, e := trN.Data[i], trE.Data[i]
			trN.Data[i] = n*cosAz + e*sinAz
			trE.Data[i] = -n*sinAz + e*cosAz
		}
	}
}

// Download acquires the N/E/Z seismograms around the predicted P arrival
// from the given source. The request window spans dts seconds on either
// side of the arrival. An acquisition failure is recorded on the record,
// not raised: subsequent stages no-op.
func (r *RFData) Download(src WaveformSource, dts float64, sampleRate float64) error {
	if r.Meta == nil {
		return ErrNoEvent
	}
	if !r.Meta.Accept {
		return nil
	}

	arrival := r.Meta.Origin.Origin.Add(secs(r.Meta.TTime))
	start := arrival.Add(secs(-dts))
	end := arrival.Add(secs(dts))

	log.Infof("requesting waveforms for %s: %s - %s",
		r.Sta.Key(),
		start.UTC().Format("2006-01-02 15:04:05"),
		end.UTC().Format("2006-01-02 15:04:05"))

	set, err := src.Waveforms(r.Sta, start, end, sampleRate)
	if err != nil {
		log.Warnf("waveform acquisition failed for %s: %v", r.Sta.Key(), err)
		r.AcqErr = true
		return nil
	}
	return r.AddWaveforms(set)
}

// skip reports whether the waveform stages should no-op: either the event
// was rejected at geometry resolution or acquisition reported a fault.
// Callers check for missing event metadata first; that is a sequencing error,
// not a rejection.
func (r *RFData) skip() bool {
	return !r.Meta.Accept || r.AcqErr
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
