// Package wave provides the waveform container primitives used by the
// receiver-function pipeline: uniformly sampled traces, channel selection,
// trimming, tapering, band-pass filtering and the standard geometric
// component rotations.
package wave

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrMissingChannel is returned when a required component is absent from a
// trace set.
var ErrMissingChannel = errors.New("wave: channel not found in set")

// RFInfo carries the scalar metadata attached to a receiver-function trace
// when the analysis record is exported.
type RFInfo struct {
	SNR  float64 `msgpack:"snr"`
	Slow float64 `msgpack:"slow"`
	Baz  float64 `msgpack:"baz"`
	IsRF bool    `msgpack:"is_rf"`
}

// Trace is a single uniformly sampled ground-motion channel.
type Trace struct {
	Network    string    `msgpack:"network"`
	Station    string    `msgpack:"station"`
	Channel    string    `msgpack:"channel"` // e.g. "HHZ", "HHR", "RFP"
	Start      time.Time `msgpack:"start"`
	SampleRate float64   `msgpack:"sample_rate"` // Hz
	Data       []float64 `msgpack:"data"`
	RF         *RFInfo   `msgpack:"rf,omitempty"`
}

// Component returns the single-letter component code, the last character of
// the channel name.
func (t *Trace) Component() string {
	if t.Channel == "" {
		return ""
	}
	return t.Channel[len(t.Channel)-1:]
}

// Delta returns the sampling interval in seconds.
func (t *Trace) Delta() float64 {
	return 1.0 / t.SampleRate
}

// End returns the time of the last sample.
func (t *Trace) End() time.Time {
	if len(t.Data) == 0 {
		return t.Start
	}
	return t.timeAt(len(t.Data) - 1)
}

func (t *Trace) timeAt(i int) time.Time {
	return t.Start.Add(time.Duration(float64(i) / t.SampleRate * float64(time.Second)))
}

// Copy returns a deep copy of the trace.
func (t *Trace) Copy() *Trace {
	c := *t
	c.Data = make([]float64, len(t.Data))
	copy(c.Data, t.Data)
	if t.RF != nil {
		rf := *t.RF
		c.RF = &rf
	}
	return &c
}

// Trim cuts the trace to the closed interval [start, end], snapping each
// bound to the nearest sample and clamping to the available data.
func (t *Trace) Trim(start, end time.Time) {
	if len(t.Data) == 0 {
		return
	}
	i0 := int(math.Round(start.Sub(t.Start).Seconds() * t.SampleRate))
	i1 := int(math.Round(end.Sub(t.Start).Seconds() * t.SampleRate))
	if i0 < 0 {
		i0 = 0
	}
	if i1 > len(t.Data)-1 {
		i1 = len(t.Data) - 1
	}
	if i0 > i1 {
		t.Data = nil
		return
	}
	t.Start = t.timeAt(i0)
	t.Data = t.Data[i0 : i1+1]
}

// Set is an ordered collection of traces sharing a time base, normally the
// three components of one station recording.
type Set struct {
	Traces []*Trace `msgpack:"traces"`
}

// NewSet builds a set from the given traces.
func NewSet(traces ...*Trace) *Set {
	return &Set{Traces: traces}
}

// Select returns the trace whose component code matches. Absence of a
// required component is a hard failure.
func (s *Set) Select(component string) (*Trace, error) {
	for _, tr := range s.Traces {
		if tr.Component() == component {
			return tr, nil
		}
	}
	return nil, fmt.Errorf("%w: component %q", ErrMissingChannel, component)
}

// Copy returns a deep copy of the set.
func (s *Set) Copy() *Set {
	c := &Set{Traces: make([]*Trace, len(s.Traces))}
	for i, tr := range s.Traces {
		c.Traces[i] = tr.Copy()
	}
	return c
}
