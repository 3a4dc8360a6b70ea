package capture

import "errors"

// Sentinel errors returned by Build before any device call.
var (
	// ErrInvalidArgument is returned when a mode parameter is out of range.
	ErrInvalidArgument = errors.New("capture: invalid argument")

	// ErrUnsupported is returned when the camera model cannot run the mode.
	ErrUnsupported = errors.New("capture: unsupported by camera model")
)

// ErrSecondCaptureNotReady is reported through OnStopFailed when
// StartSecondCapture is called before the first phase has finished.
var ErrSecondCaptureNotReady = errors.New("capture: second capture not available yet")
