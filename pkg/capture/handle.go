package capture

import (
	"context"
	"sync/atomic"
)

// Handle is the control surface of a running capture.
type Handle interface {
	// StopCapture asks the camera to stop. Only the first call sends the
	// command; its failure is reported through OnStopFailed.
	StopCapture()

	// CancelCapture is StopCapture, for aborting before any result.
	CancelCapture()

	// State returns the session state.
	State() State

	// Done is closed once the session has delivered its outcome.
	Done() <-chan struct{}
}

// capturing implements Handle on top of a session's stop func.
type capturing struct {
	stopped atomic.Bool
	stopFn  func()
	stateFn func() State
	done    <-chan struct{}
}

// launch starts s with the default session body and binds h to it.
func launch[R any](ctx context.Context, s *session[R], h *capturing) {
	h.stopFn = s.stop
	h.stateFn = s.State
	h.done = s.Done()
	s.begin(ctx, s.run)
}

// StopCapture issues camera.stopCapture once. It blocks until the camera
// has answered.
func (c *capturing) StopCapture() {
	if c.stopped.CompareAndSwap(false, true) {
		c.stopFn()
	}
}

// CancelCapture is an alias of StopCapture.
func (c *capturing) CancelCapture() {
	c.StopCapture()
}

// State returns the session state.
func (c *capturing) State() State {
	return c.stateFn()
}

// Done is closed once the session has delivered its outcome.
func (c *capturing) Done() <-chan struct{} {
	return c.done
}
