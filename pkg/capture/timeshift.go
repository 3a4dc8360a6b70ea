package capture

import (
	"context"

	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// TimeShiftCaptureBuilder builds a time-shift capture, where each lens
// shoots in turn so the photographer can step out of frame.
type TimeShiftCaptureBuilder struct {
	Builder[TimeShiftCaptureBuilder]
}

// NewTimeShiftCaptureBuilder creates a time-shift builder.
func NewTimeShiftCaptureBuilder(t osc.Transport, model theta.Model) *TimeShiftCaptureBuilder {
	b := &TimeShiftCaptureBuilder{}
	b.Builder = newBuilder(b, t, model)
	return b
}

// SetTimeShift sets the lens order and intervals.
func (b *TimeShiftCaptureBuilder) SetTimeShift(v theta.TimeShift) *TimeShiftCaptureBuilder {
	b.options.TimeShift = &v
	return b
}

// Build pushes the options.
func (b *TimeShiftCaptureBuilder) Build(ctx context.Context) (*TimeShiftCapture, error) {
	c, err := b.build(ctx, theta.CaptureModeImage, shootingMethod(b.model, theta.ShootingMethodTimeShift))
	if err != nil {
		return nil, err
	}
	return &TimeShiftCapture{Capture: c}, nil
}

// TimeShiftCapture takes one time-shift image.
type TimeShiftCapture struct {
	Capture
}

func (c *TimeShiftCapture) TimeShift() *theta.TimeShift { return clone(c.options.TimeShift) }

// StartCapture starts the capture. Stopping it completes with "".
func (c *TimeShiftCapture) StartCapture(ctx context.Context, cb FileCallback) *TimeShiftCapturing {
	h := &TimeShiftCapturing{}
	s := newSession(&c.Capture, cb, strategy[string]{
		mode:   "timeShift",
		start:  c.startCapture(theta.ShootingModeTimeShift),
		result: fileURL,
	})
	launch(ctx, s, &h.capturing)
	return h
}

// TimeShiftCapturing controls a running time-shift capture.
type TimeShiftCapturing struct {
	capturing
}
