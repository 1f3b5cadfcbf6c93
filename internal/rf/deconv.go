package rf

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/sayoUNL/rfproc/internal/log"
	"github.com/sayoUNL/rfproc/internal/wave"
)

// DefaultPulseWindow is the length in seconds of the source-pulse taper.
const DefaultPulseWindow = 30.0

// Analysis window around the predicted arrival: signal traces span
// [-preArrival, +postArrival] seconds, noise traces [-noiseWindow,
// -preArrival].
const (
	preArrival  = 5.0
	postArrival = 110.0
	noiseWindow = 120.0

	// edgeTaper is the half-Hann ramp length in seconds applied to the ends
	// of every analysis trace.
	edgeTaper = 2.0
)

// unstableNormFloor is the smallest primary-RF peak that the transverse
// components may be normalized against.
const unstableNormFloor = 1e-10

// Deconvolve computes the receiver functions by noise-regularized spectral
// division of the rotated seismograms. The source estimate is the primary
// channel windowed to the direct pulse; the pre-arrival noise on the first
// two channels builds the regularizing denominator
//
//	Sdenom = 0.25*(Snl+Snq) + 0.5*|Snlq|
//
// which floors the division where the source spectrum is weak. The primary
// receiver function is left unnormalized; the other two are scaled by its
// peak. Output channels are the input labels with an RF prefix.
//
// Unrotated data are rotated first with a logged warning, as is a missing
// SNR estimate. Re-invocation overwrites the previous result and is logged
// but not blocked. A tapered-trace length mismatch or a near-zero primary
// peak is a numeric defect and fails explicitly.
func (r *RFData) Deconvolve(twin float64, align string) error {
	if r.Meta == nil {
		return ErrNoEvent
	}
	if r.skip() {
		return nil
	}

	if !r.Meta.Rotated {
		log.Warn("data have not been rotated yet - rotating now")
		if err := r.Rotate(0, 0, align); err != nil {
			return err
		}
	}
	if !r.Meta.SNRSet {
		log.Warn("snr has not been calculated - calculating now")
		if err := r.CalcSNR(DefaultSNRWindow, DefaultSNRFmin, DefaultSNRFmax); err != nil {
			return err
		}
	}
	if r.RF != nil {
		log.Warn("data have been deconvolved already - overwriting")
	}
	if r.Data == nil {
		return ErrMissingWaveform
	}

	cL := r.Meta.Align[0:1]
	cQ := r.Meta.Align[1:2]
	cT := r.Meta.Align[2:3]

	trL, err := r.Data.Select(cL)
	if err != nil {
		return err
	}
	trQ, err := r.Data.Select(cQ)
	if err != nil {
		return err
	}
	trT, err := r.Data.Select(cT)
	if err != nil {
		return err
	}

	// Independent copies: signal traces, the source estimate and the
	// pre-arrival noise traces.
	trL = trL.Copy()
	trQ = trQ.Copy()
	trT = trT.Copy()
	trS, _ := r.Data.Select(cL)
	trS = trS.Copy()
	trNl, _ := r.Data.Select(cL)
	trNl = trNl.Copy()
	trNq, _ := r.Data.Select(cQ)
	trNq = trNq.Copy()

	arrival := r.Meta.Origin.Origin.Add(secs(r.Meta.TTime))
	sigStart := arrival.Add(secs(-preArrival))
	sigEnd := arrival.Add(secs(postArrival))
	nzeStart := arrival.Add(secs(-noiseWindow))
	nzeEnd := arrival.Add(secs(-preArrival))

	trL.Trim(sigStart, sigEnd)
	trQ.Trim(sigStart, sigEnd)
	trT.Trim(sigStart, sigEnd)
	trS.Trim(sigStart, sigEnd)
	trNl.Trim(nzeStart, nzeEnd)
	trNq.Trim(nzeStart, nzeEnd)

	delta := trS.Delta()

	// Source taper: half-Hann ramps over the pulse window, zero beyond it,
	// isolating the direct pulse from the later coda.
	ns := int(twin / delta)
	if ns > len(trS.Data) {
		ns = len(trS.Data)
	}
	srcWin := make([]float64, len(trS.Data))
	copy(srcWin, wave.TaperWindow(ns, int(edgeTaper/delta)))
	floats.Mul(trS.Data, srcWin)

	// Full-length taper for the remaining traces.
	window := wave.TaperWindow(len(trL.Data), int(edgeTaper/delta))

	lwin := len(window)
	if lwin == 0 {
		return ErrTraceLengthMismatch
	}
	if lwin != len(trL.Data) || lwin != len(trQ.Data) || lwin != len(trT.Data) ||
		lwin != len(trS.Data) || lwin != len(trNl.Data) || lwin != len(trNq.Data) {
		return ErrTraceLengthMismatch
	}

	floats.Mul(trL.Data, window)
	floats.Mul(trQ.Data, window)
	floats.Mul(trT.Data, window)
	floats.Mul(trNl.Data, window)
	floats.Mul(trNq.Data, window)

	fft := fourier.NewFFT(lwin)
	fl := fft.Coefficients(nil, trL.Data)
	fq := fft.Coefficients(nil, trQ.Data)
	ft := fft.Coefficients(nil, trT.Data)
	fs := fft.Coefficients(nil, trS.Data)
	fnl := fft.Coefficients(nil, trNl.Data)
	fnq := fft.Coefficients(nil, trNq.Data)

	// Auto and cross spectra, and the noise-power denominator. All spectra
	// keep Hermitian symmetry, so the half-spectrum representation stays
	// valid through the division.
	nc := len(fs)
	ratioL := make([]complex128, nc)
	ratioQ := make([]complex128, nc)
	ratioT := make([]complex128, nc)
	for i := 0; i < nc; i++ {
		sl := fl[i] * cmplx.Conj(fs[i])
		sq := fq[i] * cmplx.Conj(fs[i])
		st := ft[i] * cmplx.Conj(fs[i])
		ss := fs[i] * cmplx.Conj(fs[i])
		snl := fnl[i] * cmplx.Conj(fnl[i])
		snq := fnq[i] * cmplx.Conj(fnq[i])
		snlq := fnq[i] * cmplx.Conj(fnl[i])

		sdenom := 0.25*(snl+snq) + complex(0.5*cmplx.Abs(snlq), 0)
		denom := ss + sdenom

		ratioL[i] = sl / denom
		ratioQ[i] = sq / denom
		ratioT[i] = st / denom
	}

	scale := 1 / float64(lwin)
	dataL := fft.Sequence(nil, ratioL)
	dataQ := fft.Sequence(nil, ratioQ)
	dataT := fft.Sequence(nil, ratioT)
	floats.Scale(scale, dataL)
	floats.Scale(scale, dataQ)
	floats.Scale(scale, dataT)

	// The primary receiver function stays unnormalized; the others are
	// scaled relative to its peak.
	maxL := floats.Max(dataL)
	if math.IsNaN(maxL) || maxL < unstableNormFloor {
		return ErrUnstableNormalization
	}
	floats.Scale(1/maxL, dataQ)
	floats.Scale(1/maxL, dataT)

	rfL := trL.Copy()
	rfQ := trQ.Copy()
	rfT := trT.Copy()
	rfL.Data = dataL
	rfQ.Data = dataQ
	rfT.Data = dataT
	rfL.Channel = "RF" + cL
	rfQ.Channel = "RF" + cQ
	rfT.Channel = "RF" + cT

	r.RF = wave.NewSet(rfL, rfQ, rfT)
	return nil
}
