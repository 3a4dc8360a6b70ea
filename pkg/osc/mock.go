package osc

import (
	"context"
	"sync"
	"time"

	"github.com/teslashibe/go-theta/pkg/theta"
)

// Mock implements Transport for testing.
// All methods can be customized via function fields; a nil field answers
// with a successful "done" response (or an idle state).
type Mock struct {
	StartCaptureFunc func(ctx context.Context, params StartCaptureParams) (*CommandResponse, error)
	TakePictureFunc  func(ctx context.Context) (*CommandResponse, error)
	StatusFunc       func(ctx context.Context, id string) (*CommandResponse, error)
	StopCaptureFunc  func(ctx context.Context) (*CommandResponse, error)
	SetOptionsFunc   func(ctx context.Context, options theta.Options) (*CommandResponse, error)
	StateFunc        func(ctx context.Context) (*StateResponse, error)
	InfoFunc         func(ctx context.Context) (*InfoResponse, error)

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method string

	// Arg is the call argument: StartCaptureParams, the status id, or
	// theta.Options. Nil for calls without one.
	Arg  any
	Time time.Time
}

// NewMock creates a mock whose commands all succeed immediately.
func NewMock() *Mock {
	return &Mock{}
}

// StartCapture calls StartCaptureFunc and records the call.
func (m *Mock) StartCapture(ctx context.Context, params StartCaptureParams) (*CommandResponse, error) {
	m.recordCall("StartCapture", params)
	if m.StartCaptureFunc != nil {
		return m.StartCaptureFunc(ctx, params)
	}
	return Done(CommandStartCapture, nil), nil
}

// TakePicture calls TakePictureFunc and records the call.
func (m *Mock) TakePicture(ctx context.Context) (*CommandResponse, error) {
	m.recordCall("TakePicture", nil)
	if m.TakePictureFunc != nil {
		return m.TakePictureFunc(ctx)
	}
	return Done(CommandTakePicture, nil), nil
}

// Status calls StatusFunc and records the call.
func (m *Mock) Status(ctx context.Context, id string) (*CommandResponse, error) {
	m.recordCall("Status", id)
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, id)
	}
	return Done("", nil), nil
}

// StopCapture calls StopCaptureFunc and records the call.
func (m *Mock) StopCapture(ctx context.Context) (*CommandResponse, error) {
	m.recordCall("StopCapture", nil)
	if m.StopCaptureFunc != nil {
		return m.StopCaptureFunc(ctx)
	}
	return Done(CommandStopCapture, nil), nil
}

// SetOptions calls SetOptionsFunc and records the call.
func (m *Mock) SetOptions(ctx context.Context, options theta.Options) (*CommandResponse, error) {
	m.recordCall("SetOptions", options)
	if m.SetOptionsFunc != nil {
		return m.SetOptionsFunc(ctx, options)
	}
	return Done(CommandSetOptions, nil), nil
}

// State calls StateFunc and records the call.
func (m *Mock) State(ctx context.Context) (*StateResponse, error) {
	m.recordCall("State", nil)
	if m.StateFunc != nil {
		return m.StateFunc(ctx)
	}
	return &StateResponse{State: CameraState{CaptureStatus: theta.CaptureStatusIdle}}, nil
}

// Info calls InfoFunc and records the call.
func (m *Mock) Info(ctx context.Context) (*InfoResponse, error) {
	m.recordCall("Info", nil)
	if m.InfoFunc != nil {
		return m.InfoFunc(ctx)
	}
	return &InfoResponse{Manufacturer: "RICOH", Model: string(theta.ModelZ1)}, nil
}

// recordCall adds a call to the tracking list.
func (m *Mock) recordCall(method string, arg any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{
		Method: method,
		Arg:    arg,
		Time:   time.Now(),
	})
}

// Calls returns all recorded method calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Done builds a finished command response.
func Done(name string, results *CommandResults) *CommandResponse {
	return &CommandResponse{Name: name, State: StateDone, Results: results}
}

// InProgress builds a running command response. A negative completion
// leaves the progress field out.
func InProgress(name, id string, completion float64) *CommandResponse {
	resp := &CommandResponse{Name: name, ID: id, State: StateInProgress}
	if completion >= 0 {
		resp.Progress = &CommandProgress{Completion: &completion}
	}
	return resp
}

// Failed builds an error-state command response.
func Failed(name, code, message string) *CommandResponse {
	return &CommandResponse{
		Name:  name,
		State: StateError,
		Error: &CommandError{Code: code, Message: message},
	}
}

// Verify Mock implements Transport at compile time.
var _ Transport = (*Mock)(nil)
