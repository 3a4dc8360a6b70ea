package capture

import (
	"context"
	"sync/atomic"
	"weak"

	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// TimeShiftManualCaptureBuilder builds a manual time-shift capture: the
// first lens shoots, then the caller triggers the second lens.
type TimeShiftManualCaptureBuilder struct {
	Builder[TimeShiftManualCaptureBuilder]
}

// NewTimeShiftManualCaptureBuilder creates a manual time-shift builder.
func NewTimeShiftManualCaptureBuilder(t osc.Transport, model theta.Model) *TimeShiftManualCaptureBuilder {
	b := &TimeShiftManualCaptureBuilder{}
	b.Builder = newBuilder(b, t, model)
	return b
}

// SetTimeShift sets the lens order and intervals.
func (b *TimeShiftManualCaptureBuilder) SetTimeShift(v theta.TimeShift) *TimeShiftManualCaptureBuilder {
	b.options.TimeShift = &v
	return b
}

// Build pushes the options.
func (b *TimeShiftManualCaptureBuilder) Build(ctx context.Context) (*TimeShiftManualCapture, error) {
	c, err := b.build(ctx, theta.CaptureModeImage, shootingMethod(b.model, theta.ShootingMethodTimeShiftManual))
	if err != nil {
		return nil, err
	}
	return &TimeShiftManualCapture{Capture: c}, nil
}

// TimeShiftManualCapture takes a two-phase time-shift image.
type TimeShiftManualCapture struct {
	Capture
}

func (c *TimeShiftManualCapture) TimeShift() *theta.TimeShift { return clone(c.options.TimeShift) }

// manualState is shared by the handle (written by the caller) and the
// session goroutine.
type manualState struct {
	available       atomic.Bool
	secondRequested atomic.Bool
	stopRequested   atomic.Bool
	secondID        atomic.Pointer[string]
}

// StartCapture starts the first phase. Once the camera reports
// timeShiftShootingIdle, cb.OnCapturing fires and the handle accepts
// StartSecondCapture. If the camera goes idle before the second phase was
// requested, the session stops the camera and completes with "".
//
// The session only holds a weak reference to the returned handle. Dropping
// the handle abandons the capture.
func (c *TimeShiftManualCapture) StartCapture(ctx context.Context, cb FileCallback) *TimeShiftManualCapturing {
	st := &manualState{}
	s := newSession(&c.Capture, cb, strategy[string]{
		mode:   "timeShiftManual",
		start:  c.startCapture(theta.ShootingModeTimeShiftManual),
		result: fileURL,
	})
	h := &TimeShiftManualCapturing{
		state:   st,
		session: s,
		second:  c.startCapture(theta.ShootingModeTimeShiftManual),
	}
	h.stopFn = func() {
		st.stopRequested.Store(true)
		s.stop()
	}
	h.stateFn = s.State
	h.done = s.Done()

	ref := weak.Make(h)
	s.begin(ctx, func() { runManual(s, st, ref) })
	return h
}

func runManual(s *session[string], st *manualState, ref weak.Pointer[TimeShiftManualCapturing]) {
	if _, ok := s.issueStart(); !ok {
		return
	}

	idle := make(chan struct{}, 1)
	m := NewStatusMonitor(s.transport, func(status theta.CaptureStatus) {
		switch {
		case status == theta.CaptureStatusTimeShiftShootingIdle:
			st.available.Store(true)
			s.capturing(status)
		case status.IsIdle():
			select {
			case idle <- struct{}{}:
			default:
			}
		default:
			s.capturing(status)
		}
	}, s.fail, s.monitorOptions()...)
	m.Start(s.ctx)
	defer m.Stop()

	for s.sleep() {
		if id := st.secondID.Load(); id != nil {
			m.Stop()
			s.track(&osc.CommandResponse{ID: *id, State: osc.StateInProgress})
			return
		}
		if ref.Value() == nil {
			s.logger.Debug("capture handle released")
			s.canceled()
			return
		}
		select {
		case <-idle:
			if st.secondRequested.Load() {
				continue
			}
			if !st.stopRequested.Load() {
				s.logger.Debug("idle before second capture, stopping")
				if _, err := s.transport.StopCapture(s.ctx); err != nil {
					s.logger.Warn("stop after first phase failed", "error", err)
				}
			}
			s.canceled()
			return
		default:
		}
	}
}

// TimeShiftManualCapturing controls a running manual time-shift capture.
type TimeShiftManualCapturing struct {
	capturing
	state   *manualState
	session *session[string]
	second  func(context.Context) (*osc.CommandResponse, error)
}

// IsAvailableSecondCapture reports whether the first phase has finished
// and the second lens can be triggered.
func (h *TimeShiftManualCapturing) IsAvailableSecondCapture() bool {
	return h.state.available.Load()
}

// StartSecondCapture triggers the second lens. Only the first call made
// after IsAvailableSecondCapture reports true has an effect; earlier calls
// report ErrSecondCaptureNotReady through OnStopFailed. The session then
// follows the second command to its result.
func (h *TimeShiftManualCapturing) StartSecondCapture() {
	s := h.session
	if !h.state.available.Load() {
		s.stopFailed(ErrSecondCaptureNotReady)
		return
	}
	if !h.state.secondRequested.CompareAndSwap(false, true) {
		return
	}
	if s.State().Terminal() {
		return
	}

	resp, err := h.second(context.WithoutCancel(s.ctx))
	if err == nil {
		err = resp.Err()
	}
	if err != nil {
		s.resolveError(err)
		return
	}
	if resp.State != osc.StateInProgress {
		s.complete(resp.FileURL())
		return
	}
	if resp.ID == "" {
		s.fail(osc.ErrMissingCommandID)
		return
	}
	id := resp.ID
	h.state.secondID.Store(&id)
}
