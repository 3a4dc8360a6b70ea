package web

import (
	"context"
	"fmt"
	"strings"

	"github.com/teslashibe/go-theta/pkg/camera"
	"github.com/teslashibe/go-theta/pkg/capture"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// Capture mode names accepted by POST /api/captures/:mode
const (
	ModePhoto             = "photo"
	ModeVideo             = "video"
	ModeBurst             = "burst"
	ModeContinuous        = "continuous"
	ModeTimeShift         = "timeShift"
	ModeTimeShiftManual   = "timeShiftManual"
	ModeMultiBracket      = "multiBracket"
	ModeShotCountInterval = "shotCountInterval"
	ModeLimitlessInterval = "limitlessInterval"
	ModeCompositeInterval = "compositeInterval"
)

// CaptureRequest is the body of POST /api/captures/:mode. Options apply to
// every mode and overlay the bridge defaults, or the named preset when
// Preset is set; the remaining fields are mode parameters.
type CaptureRequest struct {
	Preset          string                 `json:"preset,omitempty"`
	Options         theta.Options          `json:"options"`
	ShotCount       int                    `json:"shotCount,omitempty"`
	ShootingTime    int                    `json:"shootingTime,omitempty"`
	BracketSettings []theta.BracketSetting `json:"bracketSettings,omitempty"`
	BurstOption     *theta.BurstOption     `json:"burstOption,omitempty"`
}

// startFunc builds a capture for one mode and starts it against e.
type startFunc func(s *Server, ctx context.Context, model theta.Model, req *CaptureRequest, e *entry) error

var modes = map[string]startFunc{
	ModePhoto:             startPhoto,
	ModeVideo:             startVideo,
	ModeBurst:             startBurst,
	ModeContinuous:        startContinuous,
	ModeTimeShift:         startTimeShift,
	ModeTimeShiftManual:   startTimeShiftManual,
	ModeMultiBracket:      startMultiBracket,
	ModeShotCountInterval: startShotCountInterval,
	ModeLimitlessInterval: startLimitlessInterval,
	ModeCompositeInterval: startCompositeInterval,
}

// Modes returns the supported mode names
func Modes() []string {
	return []string{
		ModePhoto, ModeVideo, ModeBurst, ModeContinuous, ModeTimeShift,
		ModeTimeShiftManual, ModeMultiBracket, ModeShotCountInterval,
		ModeLimitlessInterval, ModeCompositeInterval,
	}
}

// resolveOptions validates the request options and lays them over the
// preset or the bridge defaults.
func (s *Server) resolveOptions(req *CaptureRequest) (theta.Options, error) {
	if errs := camera.Validate(req.Options); len(errs) > 0 {
		return theta.Options{}, fmt.Errorf("%s: %w", strings.Join(errs, "; "), capture.ErrInvalidArgument)
	}
	if req.Preset == "" {
		return s.settings.Apply(req.Options), nil
	}
	p := camera.GetPreset(req.Preset)
	if p == nil {
		return theta.Options{}, fmt.Errorf("unknown preset %q: %w", req.Preset, capture.ErrInvalidArgument)
	}
	return p.Merge(req.Options), nil
}

// configure applies the resolved request options to a mode builder
func configure[B any](s *Server, b *capture.Builder[B], req *CaptureRequest) {
	b.SetOptions(req.Options)
	b.SetCheckStatusCommandInterval(s.interval)
	b.SetLogger(s.logger.With("component", "capture"))
}

func startPhoto(s *Server, ctx context.Context, model theta.Model, req *CaptureRequest, e *entry) error {
	b := capture.NewPhotoCaptureBuilder(s.transport, model)
	configure(s, &b.Builder, req)
	c, err := b.Build(ctx)
	if err != nil {
		return err
	}
	c.TakePicture(s.ctx, e.fileCallback())
	return nil
}

func startVideo(s *Server, ctx context.Context, model theta.Model, req *CaptureRequest, e *entry) error {
	b := capture.NewVideoCaptureBuilder(s.transport, model)
	configure(s, &b.Builder, req)
	c, err := b.Build(ctx)
	if err != nil {
		return err
	}
	e.bind(c.StartCapture(s.ctx, e.fileCallback()))
	return nil
}

func startBurst(s *Server, ctx context.Context, model theta.Model, req *CaptureRequest, e *entry) error {
	option := req.BurstOption
	if option == nil {
		option = req.Options.BurstOption
	}
	if option == nil {
		return fmt.Errorf("burstOption is required: %w", capture.ErrInvalidArgument)
	}
	b := capture.NewBurstCaptureBuilder(s.transport, model, *option)
	configure(s, &b.Builder, req)
	c, err := b.Build(ctx)
	if err != nil {
		return err
	}
	e.bind(c.StartCapture(s.ctx, e.filesCallback()))
	return nil
}

func startContinuous(s *Server, ctx context.Context, model theta.Model, req *CaptureRequest, e *entry) error {
	b := capture.NewContinuousCaptureBuilder(s.transport, model)
	configure(s, &b.Builder, req)
	c, err := b.Build(ctx)
	if err != nil {
		return err
	}
	e.bind(c.StartCapture(s.ctx, e.filesCallback()))
	return nil
}

func startTimeShift(s *Server, ctx context.Context, model theta.Model, req *CaptureRequest, e *entry) error {
	b := capture.NewTimeShiftCaptureBuilder(s.transport, model)
	configure(s, &b.Builder, req)
	c, err := b.Build(ctx)
	if err != nil {
		return err
	}
	e.bind(c.StartCapture(s.ctx, e.fileCallback()))
	return nil
}

func startTimeShiftManual(s *Server, ctx context.Context, model theta.Model, req *CaptureRequest, e *entry) error {
	b := capture.NewTimeShiftManualCaptureBuilder(s.transport, model)
	configure(s, &b.Builder, req)
	c, err := b.Build(ctx)
	if err != nil {
		return err
	}
	// The entry keeps the handle reachable, so the session lives until it
	// finishes on its own or is stopped.
	e.bind(c.StartCapture(s.ctx, e.fileCallback()))
	return nil
}

func startMultiBracket(s *Server, ctx context.Context, model theta.Model, req *CaptureRequest, e *entry) error {
	b := capture.NewMultiBracketCaptureBuilder(s.transport, model)
	configure(s, &b.Builder, req)
	b.SetBracketSettings(req.BracketSettings...)
	c, err := b.Build(ctx)
	if err != nil {
		return err
	}
	e.bind(c.StartCapture(s.ctx, e.filesCallback()))
	return nil
}

func startShotCountInterval(s *Server, ctx context.Context, model theta.Model, req *CaptureRequest, e *entry) error {
	b := capture.NewShotCountSpecifiedIntervalCaptureBuilder(s.transport, model, req.ShotCount)
	configure(s, &b.Builder, req)
	c, err := b.Build(ctx)
	if err != nil {
		return err
	}
	e.bind(c.StartCapture(s.ctx, e.filesCallback()))
	return nil
}

func startLimitlessInterval(s *Server, ctx context.Context, model theta.Model, req *CaptureRequest, e *entry) error {
	b := capture.NewLimitlessIntervalCaptureBuilder(s.transport, model)
	configure(s, &b.Builder, req)
	c, err := b.Build(ctx)
	if err != nil {
		return err
	}
	e.bind(c.StartCapture(s.ctx, e.filesCallback()))
	return nil
}

func startCompositeInterval(s *Server, ctx context.Context, model theta.Model, req *CaptureRequest, e *entry) error {
	b := capture.NewCompositeIntervalCaptureBuilder(s.transport, model, req.ShootingTime)
	configure(s, &b.Builder, req)
	c, err := b.Build(ctx)
	if err != nil {
		return err
	}
	e.bind(c.StartCapture(s.ctx, e.filesCallback()))
	return nil
}
