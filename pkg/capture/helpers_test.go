package capture

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

const (
	testInterval = 2 * time.Millisecond
	testTimeout  = 3 * time.Second
	testURL      = "http://192.168.1.1/100RICOH/R0010010.JPG"
)

// recorder is a Callback that records everything it receives.
type recorder[R any] struct {
	mu         sync.Mutex
	progress   []float64
	statuses   []theta.CaptureStatus
	stopErrors []error

	terminals atomic.Int32
	completed chan R
	failed    chan error
}

func newRecorder[R any]() *recorder[R] {
	return &recorder[R]{
		completed: make(chan R, 8),
		failed:    make(chan error, 8),
	}
}

func (r *recorder[R]) OnProgress(completion float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, completion)
}

func (r *recorder[R]) OnCapturing(status theta.CaptureStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *recorder[R]) OnCaptureCompleted(result R) {
	r.terminals.Add(1)
	r.completed <- result
}

func (r *recorder[R]) OnCaptureFailed(err error) {
	r.terminals.Add(1)
	r.failed <- err
}

func (r *recorder[R]) OnStopFailed(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopErrors = append(r.stopErrors, err)
}

func (r *recorder[R]) waitCompleted(t *testing.T) R {
	t.Helper()
	select {
	case res := <-r.completed:
		return res
	case err := <-r.failed:
		t.Fatalf("capture failed: %v", err)
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for completion")
	}
	var zero R
	return zero
}

func (r *recorder[R]) waitFailed(t *testing.T) error {
	t.Helper()
	select {
	case err := <-r.failed:
		return err
	case res := <-r.completed:
		t.Fatalf("capture completed with %v, want failure", res)
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for failure")
	}
	return nil
}

func (r *recorder[R]) Progress() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.progress...)
}

func (r *recorder[R]) Statuses() []theta.CaptureStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]theta.CaptureStatus(nil), r.statuses...)
}

func (r *recorder[R]) StopErrors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.stopErrors...)
}

// statusSequence serves statuses in order, repeating the last one.
func statusSequence(statuses ...theta.CaptureStatus) func(context.Context) (*osc.StateResponse, error) {
	var mu sync.Mutex
	i := 0
	return func(context.Context) (*osc.StateResponse, error) {
		mu.Lock()
		defer mu.Unlock()
		s := statuses[i]
		if i < len(statuses)-1 {
			i++
		}
		return &osc.StateResponse{State: osc.CameraState{CaptureStatus: s}}, nil
	}
}

// responses serves command responses in order, repeating the last one.
func responses(rs ...*osc.CommandResponse) func(context.Context, string) (*osc.CommandResponse, error) {
	var mu sync.Mutex
	i := 0
	return func(context.Context, string) (*osc.CommandResponse, error) {
		mu.Lock()
		defer mu.Unlock()
		r := rs[i]
		if i < len(rs)-1 {
			i++
		}
		return r, nil
	}
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for session end")
	}
}

func optionsArg(t *testing.T, call osc.MockCall) theta.Options {
	t.Helper()
	o, ok := call.Arg.(theta.Options)
	if !ok {
		t.Fatalf("call %s arg = %T, want theta.Options", call.Method, call.Arg)
	}
	return o
}

func callsOf(m *osc.Mock, method string) []osc.MockCall {
	var out []osc.MockCall
	for _, c := range m.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}
