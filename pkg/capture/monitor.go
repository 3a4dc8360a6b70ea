package capture

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// Status monitor defaults.
const (
	DefaultCheckInterval = time.Second
	DefaultMaxRetry      = 3
	DefaultIdleDebounce  = 2
)

// StatusMonitor polls the camera capture status and reports changes.
//
// The camera briefly reports idle between the steps of a multi-shot
// capture, so an idle reading is only reported once it has been seen
// IdleDebounce times in a row. After MaxRetry consecutive fetch failures
// the monitor reports the error once and stops.
type StatusMonitor struct {
	transport    osc.Transport
	onChange     func(theta.CaptureStatus)
	onError      func(error)
	interval     time.Duration
	maxRetry     int
	idleDebounce int
	logger       *slog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc

	current atomic.Pointer[theta.CaptureStatus]
	lastErr atomic.Pointer[error]
}

// MonitorOption configures a StatusMonitor.
type MonitorOption func(*StatusMonitor)

// WithCheckInterval sets the delay between status fetches.
func WithCheckInterval(d time.Duration) MonitorOption {
	return func(m *StatusMonitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithMaxRetry sets how many consecutive failures end the monitor.
func WithMaxRetry(n int) MonitorOption {
	return func(m *StatusMonitor) {
		if n > 0 {
			m.maxRetry = n
		}
	}
}

// WithIdleDebounce sets how many consecutive idle readings are needed
// before idle is reported.
func WithIdleDebounce(n int) MonitorOption {
	return func(m *StatusMonitor) {
		if n > 0 {
			m.idleDebounce = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) MonitorOption {
	return func(m *StatusMonitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewStatusMonitor creates a monitor. onChange receives every debounced
// status transition; onError receives the error that ended polling.
// Either callback may be nil.
func NewStatusMonitor(t osc.Transport, onChange func(theta.CaptureStatus), onError func(error), opts ...MonitorOption) *StatusMonitor {
	m := &StatusMonitor{
		transport:    t,
		onChange:     onChange,
		onError:      onError,
		interval:     DefaultCheckInterval,
		maxRetry:     DefaultMaxRetry,
		idleDebounce: DefaultIdleDebounce,
		logger:       slog.Default().With("component", "status-monitor"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.onChange == nil {
		m.onChange = func(theta.CaptureStatus) {}
	}
	if m.onError == nil {
		m.onError = func(error) {}
	}
	return m
}

// Start begins polling in a new goroutine. Polling ends when ctx is done,
// Stop is called, or retries are exhausted. Calling Start on a running
// monitor does nothing. Start after Stop begins a fresh loop.
func (m *StatusMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	m.gen++
	m.cancel = cancel

	go m.run(ctx, m.gen)
}

// Stop asks the polling loop to exit. It does not wait for it.
func (m *StatusMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Running reports whether the polling loop is active.
func (m *StatusMonitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

// finish clears the running state if gen is still the current loop.
func (m *StatusMonitor) finish(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen == gen && m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// CurrentStatus returns the last reported status.
func (m *StatusMonitor) CurrentStatus() theta.CaptureStatus {
	if s := m.current.Load(); s != nil {
		return *s
	}
	return theta.CaptureStatusUnknown
}

// LastError returns the most recent fetch error, or nil.
func (m *StatusMonitor) LastError() error {
	if err := m.lastErr.Load(); err != nil {
		return *err
	}
	return nil
}

func (m *StatusMonitor) run(ctx context.Context, gen uint64) {
	defer m.finish(gen)

	var (
		reported  bool
		last      theta.CaptureStatus
		idleCount int
		failures  int
	)

	for {
		if ctx.Err() != nil {
			return
		}

		state, err := m.transport.State(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			err = osc.Classify(err)
			m.lastErr.Store(&err)
			failures++
			if failures >= m.maxRetry {
				m.logger.Warn("status polling failed", "attempts", failures, "error", err)
				m.onError(err)
				return
			}
			m.logger.Debug("status fetch failed, retrying", "attempt", failures, "error", err)
			if !m.wait(ctx) {
				return
			}
			continue
		}
		failures = 0

		status := state.State.CaptureStatus.Normalize()
		if status.IsIdle() {
			idleCount++
		} else {
			idleCount = 0
		}

		if !status.IsIdle() || idleCount >= m.idleDebounce {
			if !reported || status != last {
				reported = true
				last = status
				m.current.Store(&status)
				m.logger.Debug("capture status changed", "status", status)
				m.onChange(status)
			}
		}

		if !m.wait(ctx) {
			return
		}
	}
}

func (m *StatusMonitor) wait(ctx context.Context) bool {
	t := time.NewTimer(m.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
