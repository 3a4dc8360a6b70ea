package capture

import (
	"context"
	"fmt"

	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// ContinuousCaptureBuilder builds a continuous shooting capture.
type ContinuousCaptureBuilder struct {
	Builder[ContinuousCaptureBuilder]
}

// NewContinuousCaptureBuilder creates a continuous shooting builder.
func NewContinuousCaptureBuilder(t osc.Transport, model theta.Model) *ContinuousCaptureBuilder {
	b := &ContinuousCaptureBuilder{}
	b.Builder = newBuilder(b, t, model)
	return b
}

// SetContinuousNumber limits the number of shots.
func (b *ContinuousCaptureBuilder) SetContinuousNumber(v theta.ContinuousNumber) *ContinuousCaptureBuilder {
	b.options.ContinuousNumber = &v
	return b
}

// Build pushes the options. SC2, S and SC cannot shoot continuously.
func (b *ContinuousCaptureBuilder) Build(ctx context.Context) (*ContinuousCapture, error) {
	if b.model.IsSC2() || b.model.IsLegacy() {
		return nil, fmt.Errorf("continuous shooting on %s: %w", b.model, ErrUnsupported)
	}
	c, err := b.build(ctx, theta.CaptureModeImage, shootingMethod(b.model, theta.ShootingMethodContinuous))
	if err != nil {
		return nil, err
	}
	return &ContinuousCapture{Capture: c}, nil
}

// ContinuousCapture shoots continuously and returns every file.
type ContinuousCapture struct {
	Capture
}

func (c *ContinuousCapture) ContinuousNumber() *theta.ContinuousNumber {
	return clone(c.options.ContinuousNumber)
}

// StartCapture starts shooting.
func (c *ContinuousCapture) StartCapture(ctx context.Context, cb FilesCallback) *ContinuousCapturing {
	h := &ContinuousCapturing{}
	s := newSession(&c.Capture, cb, strategy[[]string]{
		mode:   "continuous",
		start:  c.startCapture(theta.ShootingModeContinuous),
		result: fileURLs,
	})
	launch(ctx, s, &h.capturing)
	return h
}

// ContinuousCapturing controls a running continuous capture.
type ContinuousCapturing struct {
	capturing
}
