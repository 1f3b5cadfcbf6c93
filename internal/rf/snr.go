package rf

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Default SNR estimation parameters: window length in seconds and the
// band-pass corner frequencies bracketing the dominant P-wave band.
const (
	DefaultSNRWindow = 30.0
	DefaultSNRFmin   = 0.1
	DefaultSNRFmax   = 1.0
)

// CalcSNR estimates the signal-to-noise ratio in dB on the primary channel
// of the current alignment (Z, L or P). Both a signal window of dt seconds
// starting 5 s before the predicted arrival and a noise window of equal
// length ending there are band-pass filtered with a 2-pole zero-phase
// Butterworth between fmin and fmax, and the ratio of their RMS amplitudes
// is converted to dB. Requires rotated or raw data to be present; callers
// are responsible for stage order.
func (r *RFData) CalcSNR(dt, fmin, fmax float64) error {
	if r.Meta == nil {
		return ErrNoEvent
	}
	if r.skip() {
		return nil
	}
	if r.Data == nil {
		return ErrMissingWaveform
	}

	primary, err := r.Data.Select(r.Meta.Align[:1])
	if err != nil {
		return err
	}

	t1 := r.Meta.Origin.Origin.Add(secs(r.Meta.TTime - 5))

	trSig := primary.Copy()
	trNze := primary.Copy()

	trSig.Bandpass(fmin, fmax, 2, true)
	trNze.Bandpass(fmin, fmax, 2, true)

	trSig.Trim(t1, t1.Add(secs(dt)))
	trNze.Trim(t1.Add(secs(-dt)), t1)

	srms := rms(trSig.Data)
	nrms := rms(trNze.Data)

	r.Meta.SNR = 10 * math.Log10(srms*srms/(nrms*nrms))
	r.Meta.SNRSet = true
	return nil
}

func rms(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(data, data) / float64(len(data)))
}
