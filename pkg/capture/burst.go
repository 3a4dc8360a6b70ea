package capture

import (
	"context"

	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// BurstCaptureBuilder builds a THETA X burst capture.
type BurstCaptureBuilder struct {
	Builder[BurstCaptureBuilder]
	burst theta.BurstOption
}

// NewBurstCaptureBuilder creates a burst builder for the given burst settings.
func NewBurstCaptureBuilder(t osc.Transport, model theta.Model, option theta.BurstOption) *BurstCaptureBuilder {
	b := &BurstCaptureBuilder{burst: option}
	b.Builder = newBuilder(b, t, model)
	return b
}

// SetBurstOption replaces the burst settings.
func (b *BurstCaptureBuilder) SetBurstOption(v theta.BurstOption) *BurstCaptureBuilder {
	b.burst = v
	return b
}

// Build turns burst mode on and pushes the options.
func (b *BurstCaptureBuilder) Build(ctx context.Context) (*BurstCapture, error) {
	extra := shootingMethod(b.model, theta.ShootingMethodBurst)
	extra.BurstMode = theta.Ptr(theta.BurstModeOn)
	extra.BurstOption = theta.Ptr(b.burst)

	c, err := b.build(ctx, theta.CaptureModeImage, extra)
	if err != nil {
		return nil, err
	}
	return &BurstCapture{Capture: c}, nil
}

// BurstCapture shoots a burst and returns every file.
type BurstCapture struct {
	Capture
}

func (c *BurstCapture) BurstOption() *theta.BurstOption { return clone(c.options.BurstOption) }

// StartCapture starts the burst.
func (c *BurstCapture) StartCapture(ctx context.Context, cb FilesCallback) *BurstCapturing {
	h := &BurstCapturing{}
	s := newSession(&c.Capture, cb, strategy[[]string]{
		mode:   "burst",
		start:  c.startCapture(theta.ShootingModeBurst),
		result: fileURLs,
	})
	launch(ctx, s, &h.capturing)
	return h
}

// BurstCapturing controls a running burst.
type BurstCapturing struct {
	capturing
}
