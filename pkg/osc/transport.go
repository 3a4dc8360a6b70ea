// Package osc implements the Open Spherical Camera HTTP protocol spoken by
// RICOH THETA cameras.
//
// Commands are sent to /osc/commands/execute; long-running commands return
// an id that is polled through /osc/commands/status. /osc/state reports the
// camera's capture status and /osc/info identifies the model.
package osc

import (
	"context"

	"github.com/teslashibe/go-theta/pkg/theta"
)

// Transport is the set of camera calls the capture sessions depend on.
// Implementations must be safe for concurrent use.
type Transport interface {
	// StartCapture issues camera.startCapture.
	StartCapture(ctx context.Context, params StartCaptureParams) (*CommandResponse, error)

	// TakePicture issues camera.takePicture.
	TakePicture(ctx context.Context) (*CommandResponse, error)

	// Status polls the state of a previously started command.
	Status(ctx context.Context, id string) (*CommandResponse, error)

	// StopCapture issues camera.stopCapture.
	StopCapture(ctx context.Context) (*CommandResponse, error)

	// SetOptions issues camera.setOptions with the non-nil options.
	SetOptions(ctx context.Context, options theta.Options) (*CommandResponse, error)

	// State fetches /osc/state.
	State(ctx context.Context) (*StateResponse, error)

	// Info fetches /osc/info.
	Info(ctx context.Context) (*InfoResponse, error)
}
