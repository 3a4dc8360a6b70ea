package capture

import (
	"context"
	"fmt"

	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// Bracket setting limits.
const (
	MinBracketSettings = 2
	MaxBracketSettings = 13
)

// MultiBracketCaptureBuilder builds a multi bracket capture, one shot per
// bracket setting.
type MultiBracketCaptureBuilder struct {
	Builder[MultiBracketCaptureBuilder]
	settings []theta.BracketSetting
}

// NewMultiBracketCaptureBuilder creates a multi bracket builder.
func NewMultiBracketCaptureBuilder(t osc.Transport, model theta.Model) *MultiBracketCaptureBuilder {
	b := &MultiBracketCaptureBuilder{}
	b.Builder = newBuilder(b, t, model)
	return b
}

// AddBracketSetting appends one shot to the sequence.
func (b *MultiBracketCaptureBuilder) AddBracketSetting(s theta.BracketSetting) *MultiBracketCaptureBuilder {
	b.settings = append(b.settings, s)
	return b
}

// SetBracketSettings replaces the whole sequence.
func (b *MultiBracketCaptureBuilder) SetBracketSettings(settings ...theta.BracketSetting) *MultiBracketCaptureBuilder {
	b.settings = append([]theta.BracketSetting(nil), settings...)
	return b
}

// Build validates the sequence and pushes it as _autoBracket.
func (b *MultiBracketCaptureBuilder) Build(ctx context.Context) (*MultiBracketCapture, error) {
	if n := len(b.settings); n < MinBracketSettings || n > MaxBracketSettings {
		return nil, fmt.Errorf("bracket settings: got %d, want %d to %d: %w",
			n, MinBracketSettings, MaxBracketSettings, ErrInvalidArgument)
	}

	extra := shootingMethod(b.model, theta.ShootingMethodBracket)
	extra.AutoBracket = theta.Ptr(theta.NewAutoBracket(b.settings...))

	c, err := b.build(ctx, theta.CaptureModeImage, extra)
	if err != nil {
		return nil, err
	}
	return &MultiBracketCapture{Capture: c}, nil
}

// MultiBracketCapture shoots a bracket sequence.
type MultiBracketCapture struct {
	Capture
}

// BracketSettings returns the pushed sequence.
func (c *MultiBracketCapture) BracketSettings() []theta.BracketSetting {
	if c.options.AutoBracket == nil {
		return nil
	}
	return append([]theta.BracketSetting(nil), c.options.AutoBracket.Parameters...)
}

// StartCapture starts the sequence.
func (c *MultiBracketCapture) StartCapture(ctx context.Context, cb FilesCallback) *MultiBracketCapturing {
	h := &MultiBracketCapturing{}
	launch(ctx, newSession(&c.Capture, cb, listStrategy(&c.Capture, theta.ShootingModeBracket)), &h.capturing)
	return h
}

// MultiBracketCapturing controls a running bracket sequence.
type MultiBracketCapturing struct {
	capturing
}
