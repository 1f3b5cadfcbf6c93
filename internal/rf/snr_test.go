package rf

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestCalcSNR(t *testing.T) {
	// In-band 0.5 Hz oscillation: amplitude 1 before the signal window,
	// amplitude 10 from 5 s before the arrival onward. Both windows see
	// the same filter response, so the ratio survives filtering and the
	// SNR lands near 20*log10(10) = 20 dB.
	start := arrivalTime().Add(-120 * time.Second)
	boundary := arrivalTime().Add(-5 * time.Second)
	z := make([]float64, synthSamples())
	for i := range z {
		ts := start.Add(time.Duration(float64(i) / testSampleRate * float64(time.Second)))
		amp := 1.0
		if !ts.Before(boundary) {
			amp = 10.0
		}
		z[i] = amp * math.Sin(2*math.Pi*0.5*float64(i)/testSampleRate)
	}

	r := acceptedRecord(t, synthSet(z, zeros(), zeros()))
	if err := r.CalcSNR(DefaultSNRWindow, DefaultSNRFmin, DefaultSNRFmax); err != nil {
		t.Fatalf("CalcSNR: %v", err)
	}

	if !r.Meta.SNRSet {
		t.Fatal("SNRSet flag not set")
	}
	// The zero-phase filter smears the amplitude step across the window
	// boundary, so allow a generous tolerance around the ideal 20 dB.
	if math.Abs(r.Meta.SNR-20) > 5 {
		t.Errorf("SNR = %.2f dB, expected ~20 dB", r.Meta.SNR)
	}
}

func TestCalcSNRWithoutWaveforms(t *testing.T) {
	r := acceptedRecord(t, nil)

	if err := r.CalcSNR(DefaultSNRWindow, DefaultSNRFmin, DefaultSNRFmax); !errors.Is(err, ErrMissingWaveform) {
		t.Errorf("error = %v, expected ErrMissingWaveform", err)
	}
}

func TestCalcSNRUsesPrimaryChannel(t *testing.T) {
	// After a ZRT rotation the primary channel is still Z; the estimator
	// must follow the alignment tag, not a hardcoded label.
	z, n, e := randomGround(12)
	r := acceptedRecord(t, synthSet(z, n, e))
	if err := r.Rotate(0, 0, "ZRT"); err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	if err := r.CalcSNR(DefaultSNRWindow, DefaultSNRFmin, DefaultSNRFmax); err != nil {
		t.Fatalf("CalcSNR: %v", err)
	}
	if !r.Meta.SNRSet {
		t.Error("SNRSet flag not set after rotation")
	}
}
