package rf

import (
	"github.com/sayoUNL/rfproc/internal/log"
	"github.com/sayoUNL/rfproc/internal/wave"
)

// Export detaches the receiver functions from the analysis record as a
// plain waveform set for downstream consumption. Each channel carries the
// scalar quality metadata: SNR, horizontal slowness, back-azimuth and the
// receiver-function marker. A missing SNR is computed first with a logged
// warning; exporting before deconvolution fails with ErrNotDeconvolved.
// Rejected or acquisition-faulted records export as nil without error.
func (r *RFData) Export() (*wave.Set, error) {
	if r.Meta == nil {
		return nil, ErrNoEvent
	}
	if r.skip() {
		return nil, nil
	}

	if r.RF == nil {
		return nil, ErrNotDeconvolved
	}
	if !r.Meta.SNRSet {
		log.Warn("snr has not been calculated - calculating now")
		if err := r.CalcSNR(DefaultSNRWindow, DefaultSNRFmin, DefaultSNRFmax); err != nil {
			return nil, err
		}
	}

	out := r.RF.Copy()
	for _, tr := range out.Traces {
		tr.RF = &wave.RFInfo{
			SNR:  r.Meta.SNR,
			Slow: r.Meta.Slow,
			Baz:  r.Meta.Baz,
			IsRF: true,
		}
	}
	return out, nil
}
