// Package capture drives THETA shooting modes over OSC.
//
// Each mode has a builder that pushes options to the camera and returns a
// capture, and a capture that starts sessions:
//
//	b := capture.NewPhotoCaptureBuilder(client, theta.ModelZ1)
//	photo, err := b.SetFileFormat(theta.FileFormatImage5K).Build(ctx)
//	if err != nil {
//		return err
//	}
//	photo.TakePicture(ctx, capture.CallbackFuncs[string]{
//		Completed: func(url string) { fmt.Println(url) },
//	})
//
// Sessions run in their own goroutine and report through a Callback.
// Multi-shot and video sessions return a handle that stops the capture.
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// Capture holds what every shooting mode shares: the camera, its model and
// the options pushed when the capture was built.
type Capture struct {
	transport osc.Transport
	model     theta.Model
	options   theta.Options
	interval  time.Duration
	logger    *slog.Logger
}

// Model returns the camera model the capture was built for.
func (c *Capture) Model() theta.Model { return c.model }

// CheckStatusCommandInterval returns the polling interval.
func (c *Capture) CheckStatusCommandInterval() time.Duration { return c.interval }

// Options returns the options pushed at build time, including captureMode.
func (c *Capture) Options() theta.Options { return c.options }

func (c *Capture) Aperture() *float64 { return clone(c.options.Aperture) }

func (c *Capture) ColorTemperature() *int { return clone(c.options.ColorTemperature) }

func (c *Capture) ExposureCompensation() *float64 { return clone(c.options.ExposureCompensation) }

func (c *Capture) ExposureDelay() *int { return clone(c.options.ExposureDelay) }

func (c *Capture) ExposureProgram() *theta.ExposureProgram { return clone(c.options.ExposureProgram) }

func (c *Capture) FileFormat() *theta.FileFormat { return clone(c.options.FileFormat) }

func (c *Capture) Filter() *theta.Filter { return clone(c.options.Filter) }

func (c *Capture) GpsInfo() *theta.GpsInfo { return clone(c.options.GpsInfo) }

func (c *Capture) GpsTagRecording() *theta.GpsTagRecording {
	return clone(c.options.GpsTagRecording)
}

func (c *Capture) ISO() *int { return clone(c.options.ISO) }

func (c *Capture) ISOAutoHighLimit() *int { return clone(c.options.ISOAutoHighLimit) }

func (c *Capture) Preset() *theta.Preset { return clone(c.options.Preset) }

func (c *Capture) ShutterSpeed() *float64 { return clone(c.options.ShutterSpeed) }

func (c *Capture) WhiteBalance() *theta.WhiteBalance { return clone(c.options.WhiteBalance) }

func (c *Capture) WhiteBalanceAutoStrength() *theta.WhiteBalanceAutoStrength {
	return clone(c.options.WhiteBalanceAutoStrength)
}

// startCapture returns a start func for camera.startCapture. THETA X takes
// the mode from _shootingMethod, so the parameter is left out.
func (c *Capture) startCapture(mode theta.ShootingMode) func(context.Context) (*osc.CommandResponse, error) {
	params := osc.StartCaptureParams{Mode: mode}
	if c.model.IsX() {
		params.Mode = ""
	}
	return func(ctx context.Context) (*osc.CommandResponse, error) {
		return c.transport.StartCapture(ctx, params)
	}
}

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Builder accumulates options shared by all modes. B is the embedding
// mode builder, so setters chain with the mode's own setters.
type Builder[B any] struct {
	self      *B
	transport osc.Transport
	model     theta.Model
	options   theta.Options
	interval  time.Duration
	logger    *slog.Logger
}

func newBuilder[B any](self *B, t osc.Transport, model theta.Model) Builder[B] {
	return Builder[B]{
		self:      self,
		transport: t,
		model:     model,
		interval:  DefaultCheckInterval,
		logger:    slog.Default().With("component", "capture"),
	}
}

func (b *Builder[B]) SetAperture(v float64) *B {
	b.options.Aperture = &v
	return b.self
}

func (b *Builder[B]) SetColorTemperature(kelvin int) *B {
	b.options.ColorTemperature = &kelvin
	return b.self
}

func (b *Builder[B]) SetExposureCompensation(ev float64) *B {
	b.options.ExposureCompensation = &ev
	return b.self
}

// SetExposureDelay sets the self-timer in seconds.
func (b *Builder[B]) SetExposureDelay(seconds int) *B {
	b.options.ExposureDelay = &seconds
	return b.self
}

func (b *Builder[B]) SetExposureProgram(v theta.ExposureProgram) *B {
	b.options.ExposureProgram = &v
	return b.self
}

func (b *Builder[B]) SetFileFormat(v theta.FileFormat) *B {
	b.options.FileFormat = &v
	return b.self
}

func (b *Builder[B]) SetFilter(v theta.Filter) *B {
	b.options.Filter = &v
	return b.self
}

func (b *Builder[B]) SetGpsInfo(v theta.GpsInfo) *B {
	b.options.GpsInfo = &v
	return b.self
}

func (b *Builder[B]) SetGpsTagRecording(v theta.GpsTagRecording) *B {
	b.options.GpsTagRecording = &v
	return b.self
}

func (b *Builder[B]) SetISO(v int) *B {
	b.options.ISO = &v
	return b.self
}

func (b *Builder[B]) SetISOAutoHighLimit(v int) *B {
	b.options.ISOAutoHighLimit = &v
	return b.self
}

func (b *Builder[B]) SetPreset(v theta.Preset) *B {
	b.options.Preset = &v
	return b.self
}

func (b *Builder[B]) SetShutterSpeed(seconds float64) *B {
	b.options.ShutterSpeed = &seconds
	return b.self
}

func (b *Builder[B]) SetWhiteBalance(v theta.WhiteBalance) *B {
	b.options.WhiteBalance = &v
	return b.self
}

func (b *Builder[B]) SetWhiteBalanceAutoStrength(v theta.WhiteBalanceAutoStrength) *B {
	b.options.WhiteBalanceAutoStrength = &v
	return b.self
}

// SetOptions overlays a whole option set, e.g. one decoded from JSON.
func (b *Builder[B]) SetOptions(o theta.Options) *B {
	b.options = b.options.Merge(o)
	return b.self
}

// SetCheckStatusCommandInterval sets how often sessions poll the camera.
func (b *Builder[B]) SetCheckStatusCommandInterval(d time.Duration) *B {
	if d > 0 {
		b.interval = d
	}
	return b.self
}

// SetLogger sets the logger used by built sessions.
func (b *Builder[B]) SetLogger(l *slog.Logger) *B {
	if l != nil {
		b.logger = l
	}
	return b.self
}

// build selects the capture mode, then pushes the accumulated options
// merged with extra in one setOptions call. Nothing is pushed for an
// empty option set.
func (b *Builder[B]) build(ctx context.Context, mode theta.CaptureMode, extra theta.Options) (Capture, error) {
	if err := b.setOptions(ctx, theta.Options{CaptureMode: &mode}); err != nil {
		return Capture{}, fmt.Errorf("capture: set capture mode %s: %w", mode, err)
	}

	opts := b.options.Merge(extra)
	if !opts.IsEmpty() {
		if err := b.setOptions(ctx, opts); err != nil {
			return Capture{}, fmt.Errorf("capture: set options: %w", err)
		}
	}
	opts.CaptureMode = &mode

	return Capture{
		transport: b.transport,
		model:     b.model,
		options:   opts,
		interval:  b.interval,
		logger:    b.logger,
	}, nil
}

func (b *Builder[B]) setOptions(ctx context.Context, o theta.Options) error {
	resp, err := b.transport.SetOptions(ctx, o)
	if err == nil {
		err = resp.Err()
	}
	return osc.Classify(err)
}

// shootingMethod returns the THETA X _shootingMethod option for a mode,
// or nothing for other models.
func shootingMethod(model theta.Model, m theta.ShootingMethod) theta.Options {
	if !model.IsX() {
		return theta.Options{}
	}
	return theta.Options{ShootingMethod: &m}
}
