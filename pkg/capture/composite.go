package capture

import (
	"context"
	"fmt"

	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// CompositeIntervalCaptureBuilder builds an interval composite capture,
// which overlays every shot taken during the shooting time.
type CompositeIntervalCaptureBuilder struct {
	Builder[CompositeIntervalCaptureBuilder]
	shootingTime int
}

// NewCompositeIntervalCaptureBuilder creates a builder shooting for
// shootingTime seconds.
func NewCompositeIntervalCaptureBuilder(t osc.Transport, model theta.Model, shootingTime int) *CompositeIntervalCaptureBuilder {
	b := &CompositeIntervalCaptureBuilder{shootingTime: shootingTime}
	b.Builder = newBuilder(b, t, model)
	return b
}

// SetCompositeShootingOutputInterval saves an in-progress composite every
// seconds. 0 saves only the final image.
func (b *CompositeIntervalCaptureBuilder) SetCompositeShootingOutputInterval(seconds int) *CompositeIntervalCaptureBuilder {
	b.options.CompositeShootingOutputInterval = &seconds
	return b
}

// Build validates the shooting time and pushes the options.
func (b *CompositeIntervalCaptureBuilder) Build(ctx context.Context) (*CompositeIntervalCapture, error) {
	if b.shootingTime <= 0 {
		return nil, fmt.Errorf("composite shooting time %d: %w", b.shootingTime, ErrInvalidArgument)
	}

	extra := shootingMethod(b.model, theta.ShootingMethodComposite)
	extra.CompositeShootingTime = theta.Ptr(b.shootingTime)

	c, err := b.build(ctx, theta.CaptureModeImage, extra)
	if err != nil {
		return nil, err
	}
	return &CompositeIntervalCapture{Capture: c}, nil
}

// CompositeIntervalCapture shoots an interval composite.
type CompositeIntervalCapture struct {
	Capture
}

func (c *CompositeIntervalCapture) CompositeShootingTime() *int {
	return clone(c.options.CompositeShootingTime)
}

func (c *CompositeIntervalCapture) CompositeShootingOutputInterval() *int {
	return clone(c.options.CompositeShootingOutputInterval)
}

// StartCapture starts shooting.
func (c *CompositeIntervalCapture) StartCapture(ctx context.Context, cb FilesCallback) *CompositeIntervalCapturing {
	h := &CompositeIntervalCapturing{}
	launch(ctx, newSession(&c.Capture, cb, listStrategy(&c.Capture, theta.ShootingModeComposite)), &h.capturing)
	return h
}

// CompositeIntervalCapturing controls a running composite capture.
type CompositeIntervalCapturing struct {
	capturing
}
