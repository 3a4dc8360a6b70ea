package capture

import (
	"context"
	"fmt"

	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// Shot count limits for interval shooting.
const (
	MinShotCount = 2
	MaxShotCount = 9999
)

// ShotCountSpecifiedIntervalCaptureBuilder builds an interval capture that
// ends after a fixed number of shots.
type ShotCountSpecifiedIntervalCaptureBuilder struct {
	Builder[ShotCountSpecifiedIntervalCaptureBuilder]
	shotCount int
}

// NewShotCountSpecifiedIntervalCaptureBuilder creates a builder for
// shotCount shots.
func NewShotCountSpecifiedIntervalCaptureBuilder(t osc.Transport, model theta.Model, shotCount int) *ShotCountSpecifiedIntervalCaptureBuilder {
	b := &ShotCountSpecifiedIntervalCaptureBuilder{shotCount: shotCount}
	b.Builder = newBuilder(b, t, model)
	return b
}

// SetCaptureInterval sets the seconds between shots.
func (b *ShotCountSpecifiedIntervalCaptureBuilder) SetCaptureInterval(seconds int) *ShotCountSpecifiedIntervalCaptureBuilder {
	b.options.CaptureInterval = &seconds
	return b
}

// Build validates the shot count and pushes it as captureNumber.
func (b *ShotCountSpecifiedIntervalCaptureBuilder) Build(ctx context.Context) (*ShotCountSpecifiedIntervalCapture, error) {
	if b.shotCount < MinShotCount || b.shotCount > MaxShotCount {
		return nil, fmt.Errorf("shot count %d outside %d to %d: %w",
			b.shotCount, MinShotCount, MaxShotCount, ErrInvalidArgument)
	}

	extra := shootingMethod(b.model, theta.ShootingMethodInterval)
	extra.CaptureNumber = theta.Ptr(b.shotCount)

	c, err := b.build(ctx, theta.CaptureModeImage, extra)
	if err != nil {
		return nil, err
	}
	return &ShotCountSpecifiedIntervalCapture{Capture: c}, nil
}

// ShotCountSpecifiedIntervalCapture shoots a fixed number of images at an
// interval.
type ShotCountSpecifiedIntervalCapture struct {
	Capture
}

func (c *ShotCountSpecifiedIntervalCapture) CaptureInterval() *int {
	return clone(c.options.CaptureInterval)
}

func (c *ShotCountSpecifiedIntervalCapture) ShotCount() int {
	if c.options.CaptureNumber == nil {
		return 0
	}
	return *c.options.CaptureNumber
}

// StartCapture starts shooting.
func (c *ShotCountSpecifiedIntervalCapture) StartCapture(ctx context.Context, cb FilesCallback) *ShotCountSpecifiedIntervalCapturing {
	h := &ShotCountSpecifiedIntervalCapturing{}
	launch(ctx, newSession(&c.Capture, cb, listStrategy(&c.Capture, theta.ShootingModeInterval)), &h.capturing)
	return h
}

// ShotCountSpecifiedIntervalCapturing controls a running interval capture.
type ShotCountSpecifiedIntervalCapturing struct {
	capturing
}

// LimitlessIntervalCaptureBuilder builds an interval capture that runs
// until stopped.
type LimitlessIntervalCaptureBuilder struct {
	Builder[LimitlessIntervalCaptureBuilder]
}

// NewLimitlessIntervalCaptureBuilder creates a limitless interval builder.
func NewLimitlessIntervalCaptureBuilder(t osc.Transport, model theta.Model) *LimitlessIntervalCaptureBuilder {
	b := &LimitlessIntervalCaptureBuilder{}
	b.Builder = newBuilder(b, t, model)
	return b
}

// SetCaptureInterval sets the seconds between shots.
func (b *LimitlessIntervalCaptureBuilder) SetCaptureInterval(seconds int) *LimitlessIntervalCaptureBuilder {
	b.options.CaptureInterval = &seconds
	return b
}

// Build pushes captureNumber 0 (no limit) with the options.
func (b *LimitlessIntervalCaptureBuilder) Build(ctx context.Context) (*LimitlessIntervalCapture, error) {
	extra := shootingMethod(b.model, theta.ShootingMethodInterval)
	extra.CaptureNumber = theta.Ptr(0)

	c, err := b.build(ctx, theta.CaptureModeImage, extra)
	if err != nil {
		return nil, err
	}
	return &LimitlessIntervalCapture{Capture: c}, nil
}

// LimitlessIntervalCapture shoots at an interval until stopped.
type LimitlessIntervalCapture struct {
	Capture
}

func (c *LimitlessIntervalCapture) CaptureInterval() *int {
	return clone(c.options.CaptureInterval)
}

// StartCapture starts shooting. The capture never finishes on its own:
// StopCapture completes it with the files from the stop response, and a
// camera-side stop completes it with nil.
func (c *LimitlessIntervalCapture) StartCapture(ctx context.Context, cb FilesCallback) *LimitlessIntervalCapturing {
	h := &LimitlessIntervalCapturing{}
	s := newSession(&c.Capture, cb, strategy[[]string]{
		mode:       "limitlessInterval",
		start:      c.startCapture(theta.ShootingModeInterval),
		monitored:  true,
		idle:       func(bool) ([]string, bool) { return nil, false },
		stopResult: fileURLs,
	})
	launch(ctx, s, &h.capturing)
	return h
}

// LimitlessIntervalCapturing controls a running limitless interval capture.
type LimitlessIntervalCapturing struct {
	capturing
}
