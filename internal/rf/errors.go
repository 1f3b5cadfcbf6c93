package rf

import "errors"

// Sequencing and input errors are raised synchronously at the call that
// violates the pipeline contract. Expected rejections (no predicted arrival,
// failed waveform acquisition) are never errors; they flow through the
// Accept flag and the acquisition fault indicator instead.
var (
	// ErrAlreadyRotated means rotate was called twice on the same record.
	ErrAlreadyRotated = errors.New("rf: data are already rotated")

	// ErrMissingWaveform means a waveform stage ran before any three-component
	// data were attached.
	ErrMissingWaveform = errors.New("rf: ZNE data are not available")

	// ErrNotDeconvolved means export was requested before deconvolution.
	ErrNotDeconvolved = errors.New("rf: receiver functions are not available")

	// ErrInvalidAlignment means the requested coordinate alignment is not one
	// of ZRT, LQT or PVH.
	ErrInvalidAlignment = errors.New("rf: invalid alignment")

	// ErrNoEvent means a stage that needs event metadata ran before AddEvent.
	ErrNoEvent = errors.New("rf: event metadata are not available")

	// ErrInconsistentWaveforms means the three component traces disagree on
	// sample count, sample rate or start time and cannot be analyzed together.
	ErrInconsistentWaveforms = errors.New("rf: component traces are inconsistent")

	// ErrTraceLengthMismatch means the tapered analysis traces do not share a
	// common sample count, a numeric defect that must not produce a silent
	// all-zero receiver function.
	ErrTraceLengthMismatch = errors.New("rf: tapered trace lengths differ")

	// ErrUnstableNormalization means the primary receiver function peak is too
	// close to zero to normalize the transverse components against.
	ErrUnstableNormalization = errors.New("rf: receiver function peak too small to normalize")

	// ErrSupercriticalSlowness means the free-surface transform was requested
	// for a slowness beyond the critical value, where the vertical slownesses
	// become imaginary.
	ErrSupercriticalSlowness = errors.New("rf: supercritical slowness in free-surface transform")
)
