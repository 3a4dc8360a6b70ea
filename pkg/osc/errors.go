package osc

import (
	"context"
	"errors"
	"fmt"
)

// CodeCanceledShooting is the device error code for a capture aborted by the
// user or by camera.stopCapture. It is not a failure.
const CodeCanceledShooting = "canceledShooting"

// Sentinel errors for common error conditions.
var (
	// ErrEmptyResponse is returned when the camera answers without a body.
	ErrEmptyResponse = errors.New("osc: empty response")

	// ErrMissingCommandID is returned when an in-progress command has no id to poll.
	ErrMissingCommandID = errors.New("osc: in-progress command without id")
)

// WebAPIError is a structured error reported by the camera.
type WebAPIError struct {
	// StatusCode is the HTTP status code (0 when the error came in a 200 body).
	StatusCode int

	// Code is the OSC error code, e.g. "invalidParameterValue".
	Code string

	// Message is the device's error message.
	Message string
}

// Error implements the error interface.
func (e *WebAPIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("osc: camera error (%s): %s", e.Code, e.Message)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("osc: camera error %d: %s", e.StatusCode, e.Message)
	}
	return "osc: camera error: " + e.Message
}

// IsCanceled reports whether this is the canceled-shooting code.
func (e *WebAPIError) IsCanceled() bool {
	return e.Code == CodeCanceledShooting
}

// NotConnectedError wraps transport failures: timeouts, refused
// connections, and payloads that are not valid OSC JSON.
type NotConnectedError struct {
	Err error
}

// Error implements the error interface.
func (e *NotConnectedError) Error() string {
	return "osc: not connected: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *NotConnectedError) Unwrap() error {
	return e.Err
}

// Classify maps an error raised while talking to the camera onto the error
// taxonomy. Already classified errors and context.Canceled pass through;
// anything else (timeouts, refused connections, bad JSON) becomes a
// *NotConnectedError.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *WebAPIError
	if errors.As(err, &apiErr) {
		return err
	}
	var ncErr *NotConnectedError
	if errors.As(err, &ncErr) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	return &NotConnectedError{Err: err}
}

// IsCanceled reports whether err carries the canceled-shooting code.
func IsCanceled(err error) bool {
	var apiErr *WebAPIError
	return errors.As(err, &apiErr) && apiErr.IsCanceled()
}

// IsNotConnected reports whether err is a transport failure.
func IsNotConnected(err error) bool {
	var ncErr *NotConnectedError
	return errors.As(err, &ncErr)
}
