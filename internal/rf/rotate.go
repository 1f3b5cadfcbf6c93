package rf

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sayoUNL/rfproc/internal/wave"
)

// Rotate transforms the raw Z/N/E seismograms into the wave-aligned frame
// given by align (ZRT, LQT or PVH), or by the geometry's stored alignment
// when align is empty. The ZRT and LQT schemes are purely geometric; PVH
// additionally applies the velocity-dependent free-surface transform and is
// the only scheme that changes channel semantics rather than orientation.
//
// Rotation is single-shot: a second call on the same record fails with
// ErrAlreadyRotated. vp and vs override the geometry's assumed surface
// velocities for the PVH transform when both are non-zero.
func (r *RFData) Rotate(vp, vs float64, align string) error {
	if r.Meta == nil {
		return ErrNoEvent
	}
	if r.skip() {
		return nil
	}
	if r.Meta.Rotated {
		return ErrAlreadyRotated
	}
	if align == "" {
		align = r.Meta.Align
	}
	if r.Data == nil {
		return ErrMissingWaveform
	}

	trZ, err := r.Data.Select("Z")
	if err != nil {
		return err
	}
	trN, err := r.Data.Select("N")
	if err != nil {
		return err
	}
	trE, err := r.Data.Select("E")
	if err != nil {
		return err
	}

	switch align {
	case "ZRT":
		dataR, dataT := wave.RotateNERT(trN.Data, trE.Data, r.Meta.Baz)
		r.Data = wave.NewSet(
			relabeled(trZ, "Z", append([]float64(nil), trZ.Data...)),
			relabeled(trN, "R", dataR),
			relabeled(trE, "T", dataT))

	case "LQT":
		dataL, dataQ, dataT := wave.RotateZNELQT(
			trZ.Data, trN.Data, trE.Data, r.Meta.Baz, r.Meta.Inc)
		// Convention fix: flip the sign of Q after rotation.
		for i := range dataQ {
			dataQ[i] = -dataQ[i]
		}
		r.Data = wave.NewSet(
			relabeled(trZ, "L", dataL),
			relabeled(trN, "Q", dataQ),
			relabeled(trE, "T", dataT))

	case "PVH":
		if vp == 0 || vs == 0 {
			vp = r.Meta.VP
			vs = r.Meta.VS
		}

		// First rotate to ZRT, then apply the free-surface transform to the
		// stacked (R, T) pair; H is simply -T/2.
		dataR, dataT := wave.RotateNERT(trN.Data, trE.Data, r.Meta.Baz)

		rot, err := freeSurfaceMatrix(r.Meta.Slow, vp, vs)
		if err != nil {
			return err
		}

		n := len(dataR)
		rt := mat.NewDense(2, n, nil)
		rt.SetRow(0, dataR)
		rt.SetRow(1, dataT)

		var pv mat.Dense
		pv.Mul(rot, rt)

		dataH := make([]float64, n)
		for i := range dataH {
			dataH[i] = -dataT[i] / 2
		}

		r.Data = wave.NewSet(
			relabeled(trZ, "P", pv.RawRowView(0)),
			relabeled(trN, "V", pv.RawRowView(1)),
			relabeled(trE, "H", dataH))

	default:
		return ErrInvalidAlignment
	}

	r.Meta.Align = align
	r.Meta.Rotated = true
	return nil
}

// freeSurfaceMatrix builds the 2x2 free-surface receiver transform for
// horizontal slowness p (s/km) and surface velocities vp, vs (km/s). The
// matrix maps the (R, T) pair into vertical-slowness-weighted P and SV
// components. Supercritical slowness, where a vertical slowness operand
// goes negative, is outside the transform's domain and fails loudly.
func freeSurfaceMatrix(p, vp, vs float64) (*mat.Dense, error) {
	qp2 := 1/(vp*vp) - p*p
	qs2 := 1/(vs*vs) - p*p
	if qp2 <= 0 || qs2 <= 0 {
		return nil, ErrSupercriticalSlowness
	}
	qp := math.Sqrt(qp2)
	qs := math.Sqrt(qs2)

	m11 := p * vs * vs / vp
	m12 := -(1 - 2*vs*vs*p*p) / (2 * vp * qp)
	m21 := (1 - 2*vs*vs*p*p) / (2 * vs * qs)
	m22 := p * vs

	return mat.NewDense(2, 2, []float64{
		-m11, m12,
		-m21, m22,
	}), nil
}

// relabeled builds a trace with the same header as src, the component letter
// replaced and the given samples.
func relabeled(src *wave.Trace, component string, data []float64) *wave.Trace {
	tr := src.Copy()
	if len(tr.Channel) > 0 {
		tr.Channel = tr.Channel[:len(tr.Channel)-1] + component
	} else {
		tr.Channel = component
	}
	tr.Data = data
	return tr
}
