package rf

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/sayoUNL/rfproc/internal/wave"
	"github.com/sayoUNL/rfproc/pkg/traveltime"
)

// snapshotVersion tags the on-disk snapshot schema. Bump it when the field
// layout changes so stale snapshots are rejected instead of misread.
const snapshotVersion = 1

// snapshot is the explicit, versioned serialization schema of a full
// analysis record.
type snapshot struct {
	Version int                `msgpack:"version"`
	ID      string             `msgpack:"id"`
	Sta     *StationDescriptor `msgpack:"sta"`
	Meta    *Geometry          `msgpack:"meta,omitempty"`
	Data    *snapshotSet       `msgpack:"data,omitempty"`
	RF      *snapshotSet       `msgpack:"rf,omitempty"`
	AcqErr  bool               `msgpack:"acq_err"`
}

type snapshotSet struct {
	Traces []snapshotTrace `msgpack:"traces"`
}

type snapshotTrace struct {
	Network    string       `msgpack:"network"`
	Station    string       `msgpack:"station"`
	Channel    string       `msgpack:"channel"`
	StartNS    int64        `msgpack:"start_ns"`
	SampleRate float64      `msgpack:"sample_rate"`
	Data       []float64    `msgpack:"data"`
	RF         *wave.RFInfo `msgpack:"rf,omitempty"`
}

// Save writes the analysis record to file as a versioned msgpack snapshot.
func (r *RFData) Save(path string) error {
	snap := snapshot{
		Version: snapshotVersion,
		ID:      r.ID.String(),
		Sta:     r.Sta,
		Meta:    r.Meta,
		Data:    setToSnapshot(r.Data),
		RF:      setToSnapshot(r.RF),
		AcqErr:  r.AcqErr,
	}

	buf, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("rf: encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("rf: writing snapshot: %w", err)
	}
	return nil
}

// Load restores an analysis record from a snapshot file. The restored
// record uses the given travel-time model for any further event attachment.
func Load(path string, model traveltime.Model) (*RFData, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rf: reading snapshot: %w", err)
	}

	var snap snapshot
	if err := msgpack.Unmarshal(buf, &snap); err != nil {
		return nil, fmt.Errorf("rf: decoding snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("rf: unsupported snapshot version %d (want %d)",
			snap.Version, snapshotVersion)
	}

	r := &RFData{
		Sta:    snap.Sta,
		Meta:   snap.Meta,
		Data:   snapshotToSet(snap.Data),
		RF:     snapshotToSet(snap.RF),
		AcqErr: snap.AcqErr,
		model:  model,
	}
	if id, err := uuid.Parse(snap.ID); err == nil {
		r.ID = id
	}
	return r, nil
}

func setToSnapshot(s *wave.Set) *snapshotSet {
	if s == nil {
		return nil
	}
	out := &snapshotSet{Traces: make([]snapshotTrace, len(s.Traces))}
	for i, tr := range s.Traces {
		out.Traces[i] = snapshotTrace{
			Network:    tr.Network,
			Station:    tr.Station,
			Channel:    tr.Channel,
			StartNS:    tr.Start.UnixNano(),
			SampleRate: tr.SampleRate,
			Data:       tr.Data,
			RF:         tr.RF,
		}
	}
	return out
}

func snapshotToSet(s *snapshotSet) *wave.Set {
	if s == nil {
		return nil
	}
	out := &wave.Set{Traces: make([]*wave.Trace, len(s.Traces))}
	for i, tr := range s.Traces {
		out.Traces[i] = &wave.Trace{
			Network:    tr.Network,
			Station:    tr.Station,
			Channel:    tr.Channel,
			Start:      time.Unix(0, tr.StartNS).UTC(),
			SampleRate: tr.SampleRate,
			Data:       tr.Data,
			RF:         tr.RF,
		}
	}
	return out
}
