package capture

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// State is the lifecycle state of a capture session.
type State int32

const (
	StateNotStarted State = iota
	StateStarting
	StateMonitoring
	StateCompleted
	StateFailed
	StateCanceled
)

var stateNames = [...]string{"notStarted", "starting", "monitoring", "completed", "failed", "canceled"}

// String returns the state name.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s >= StateCompleted
}

// strategy holds what differs between shooting modes.
type strategy[R any] struct {
	mode string

	// start issues the mode's start command.
	start func(ctx context.Context) (*osc.CommandResponse, error)

	// result extracts the outcome from a finished command.
	result func(*osc.CommandResponse) R

	// monitored sessions never poll the command. Completion is inferred
	// from the capture status returning to idle, and idle decides the
	// outcome from whether any shooting status was seen.
	monitored bool
	idle      func(captured bool) (result R, canceled bool)

	// stopResult, when set, completes the session from the stop response.
	stopResult func(*osc.CommandResponse) R
}

// session is the state machine shared by every shooting mode.
// It moves NotStarted → Starting → Monitoring and then exactly once into
// Completed, Failed or Canceled.
type session[R any] struct {
	transport osc.Transport
	cb        Callback[R]
	strategy  strategy[R]
	interval  time.Duration
	logger    *slog.Logger

	state    atomic.Int32
	captured atomic.Bool
	stopping atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newSession[R any](c *Capture, cb Callback[R], st strategy[R]) *session[R] {
	if cb == nil {
		cb = CallbackFuncs[R]{}
	}
	return &session[R]{
		transport: c.transport,
		cb:        cb,
		strategy:  st,
		interval:  c.interval,
		logger:    c.logger.With("mode", st.mode),
		done:      make(chan struct{}),
	}
}

// begin runs fn in a new goroutine under a context that ends with the
// session. Canceling ctx fails the session with the context error.
func (s *session[R]) begin(ctx context.Context, fn func()) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	context.AfterFunc(s.ctx, func() {
		if err := ctx.Err(); err != nil {
			s.fail(err)
		}
	})
	go fn()
}

// State returns the current lifecycle state.
func (s *session[R]) State() State {
	return State(s.state.Load())
}

// Done is closed after the terminal callback has returned.
func (s *session[R]) Done() <-chan struct{} {
	return s.done
}

func (s *session[R]) advance(from, to State) {
	s.state.CompareAndSwap(int32(from), int32(to))
}

// finish moves the session into a terminal state and runs deliver.
// Only the first caller wins.
func (s *session[R]) finish(to State, deliver func()) bool {
	for {
		cur := s.State()
		if cur.Terminal() {
			return false
		}
		if s.state.CompareAndSwap(int32(cur), int32(to)) {
			break
		}
	}
	s.cancel()
	s.logger.Debug("capture finished", "state", to)
	deliver()
	close(s.done)
	return true
}

func (s *session[R]) complete(result R) {
	s.finish(StateCompleted, func() { s.cb.OnCaptureCompleted(result) })
}

func (s *session[R]) canceled() {
	s.finish(StateCanceled, func() {
		var zero R
		s.cb.OnCaptureCompleted(zero)
	})
}

func (s *session[R]) fail(err error) {
	s.finish(StateFailed, func() {
		s.logger.Warn("capture failed", "error", err)
		s.cb.OnCaptureFailed(err)
	})
}

// resolveError ends the session from a command error. The
// canceled-shooting code is a cancellation, not a failure.
func (s *session[R]) resolveError(err error) {
	err = osc.Classify(err)
	if osc.IsCanceled(err) {
		s.canceled()
		return
	}
	s.fail(err)
}

func (s *session[R]) progress(completion float64) {
	if !s.State().Terminal() {
		s.cb.OnProgress(completion)
	}
}

func (s *session[R]) capturing(status theta.CaptureStatus) {
	if !s.State().Terminal() {
		s.cb.OnCapturing(status)
	}
}

func (s *session[R]) stopFailed(err error) {
	if !s.State().Terminal() {
		s.logger.Warn("stop capture failed", "error", err)
		s.cb.OnStopFailed(err)
	}
}

// run is the default session body: start, then poll or monitor.
func (s *session[R]) run() {
	resp, ok := s.issueStart()
	if !ok {
		return
	}
	if s.strategy.monitored {
		s.watch()
		return
	}
	s.track(resp)
}

func (s *session[R]) issueStart() (*osc.CommandResponse, bool) {
	s.advance(StateNotStarted, StateStarting)
	resp, err := s.strategy.start(s.ctx)
	if err == nil {
		err = resp.Err()
	}
	if err != nil {
		s.resolveError(err)
		return nil, false
	}
	s.advance(StateStarting, StateMonitoring)
	return resp, true
}

// track polls a command until it leaves the in-progress state.
func (s *session[R]) track(resp *osc.CommandResponse) {
	id := resp.ID
	for resp.State == osc.StateInProgress {
		if id == "" {
			s.fail(osc.ErrMissingCommandID)
			return
		}
		if !s.sleep() {
			return
		}
		next, err := s.transport.Status(s.ctx, id)
		if err == nil {
			err = next.Err()
		}
		if err != nil {
			s.resolveError(err)
			return
		}
		if next.State == osc.StateInProgress {
			s.progress(next.ProgressFraction())
		}
		resp = next
	}
	s.complete(s.strategy.result(resp))
}

// watch hands the session to a status monitor.
func (s *session[R]) watch() {
	m := NewStatusMonitor(s.transport, s.onStatus, s.fail, s.monitorOptions()...)
	m.Start(s.ctx)
}

func (s *session[R]) monitorOptions() []MonitorOption {
	return []MonitorOption{WithCheckInterval(s.interval), WithLogger(s.logger)}
}

func (s *session[R]) onStatus(status theta.CaptureStatus) {
	if !status.IsIdle() {
		s.captured.Store(true)
		s.capturing(status)
		return
	}
	if s.stopping.Load() && s.strategy.stopResult != nil {
		// the stop response carries the result
		return
	}
	result, canceled := s.strategy.idle(s.captured.Load())
	if canceled {
		s.canceled()
		return
	}
	s.complete(result)
}

// stop issues camera.stopCapture. Errors go to OnStopFailed; the session
// itself resolves through polling or monitoring unless the mode takes its
// result from the stop response.
func (s *session[R]) stop() {
	if s.State().Terminal() {
		return
	}
	s.stopping.Store(true)
	resp, err := s.transport.StopCapture(context.WithoutCancel(s.ctx))
	if err == nil {
		err = resp.Err()
	}
	if err != nil {
		s.stopping.Store(false)
		s.stopFailed(osc.Classify(err))
		return
	}
	if s.strategy.stopResult != nil {
		s.complete(s.strategy.stopResult(resp))
	}
}

func (s *session[R]) sleep() bool {
	t := time.NewTimer(s.interval)
	defer t.Stop()
	select {
	case <-s.ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func fileURL(resp *osc.CommandResponse) string {
	return resp.FileURL()
}

func fileURLs(resp *osc.CommandResponse) []string {
	return resp.FileURLs()
}
