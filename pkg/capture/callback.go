package capture

import "github.com/teslashibe/go-theta/pkg/theta"

// Callback receives the progress and outcome of one capture session.
//
// Exactly one of OnCaptureCompleted or OnCaptureFailed is called per
// session. A capture canceled on the camera completes with the zero result:
// "" for single-file modes, nil for list modes.
type Callback[R any] interface {
	// OnProgress receives the command completion fraction in [0, 1].
	OnProgress(completion float64)

	// OnCapturing receives capture status transitions in monitored modes.
	OnCapturing(status theta.CaptureStatus)

	OnCaptureCompleted(result R)
	OnCaptureFailed(err error)

	// OnStopFailed receives errors from StopCapture. The session is not
	// affected and still resolves through the normal path.
	OnStopFailed(err error)
}

// FileCallback receives a single file URL.
type FileCallback = Callback[string]

// FilesCallback receives a list of file URLs.
type FilesCallback = Callback[[]string]

// CallbackFuncs adapts plain functions to Callback. Nil fields are no-ops.
type CallbackFuncs[R any] struct {
	Progress   func(completion float64)
	Capturing  func(status theta.CaptureStatus)
	Completed  func(result R)
	Failed     func(err error)
	StopFailed func(err error)
}

// OnProgress calls Progress.
func (f CallbackFuncs[R]) OnProgress(completion float64) {
	if f.Progress != nil {
		f.Progress(completion)
	}
}

// OnCapturing calls Capturing.
func (f CallbackFuncs[R]) OnCapturing(status theta.CaptureStatus) {
	if f.Capturing != nil {
		f.Capturing(status)
	}
}

// OnCaptureCompleted calls Completed.
func (f CallbackFuncs[R]) OnCaptureCompleted(result R) {
	if f.Completed != nil {
		f.Completed(result)
	}
}

// OnCaptureFailed calls Failed.
func (f CallbackFuncs[R]) OnCaptureFailed(err error) {
	if f.Failed != nil {
		f.Failed(err)
	}
}

// OnStopFailed calls StopFailed.
func (f CallbackFuncs[R]) OnStopFailed(err error) {
	if f.StopFailed != nil {
		f.StopFailed(err)
	}
}
