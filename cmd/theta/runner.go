package main

import (
	"context"
	"fmt"
	"time"

	"github.com/teslashibe/go-theta/internal/log"
	"github.com/teslashibe/go-theta/pkg/capture"
	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// stopGrace bounds how long an interrupted capture may take to stop
const stopGrace = 10 * time.Second

// outcome is the terminal result of one capture
type outcome struct {
	files []string
	err   error
}

// runner drives a single capture from the command line
type runner struct {
	ctx      context.Context
	client   *osc.Client
	model    theta.Model
	options  theta.Options
	interval time.Duration
	done     chan outcome
}

func configure[B any](r *runner, b *capture.Builder[B]) {
	b.SetOptions(r.options)
	b.SetCheckStatusCommandInterval(r.interval)
	b.SetLogger(log.With("component", "capture"))
}

func (r *runner) events() capture.CallbackFuncs[[]string] {
	return capture.CallbackFuncs[[]string]{
		Progress: func(completion float64) {
			log.Info("progress", "completion", completion)
		},
		Capturing: func(status theta.CaptureStatus) {
			log.Info("capturing", "status", string(status))
		},
		Completed: func(files []string) {
			r.done <- outcome{files: files}
		},
		Failed: func(err error) {
			r.done <- outcome{err: err}
		},
		StopFailed: func(err error) {
			log.Warn("stop failed", "error", err)
		},
	}
}

// single adapts the list callbacks to single-file modes
func (r *runner) single() capture.CallbackFuncs[string] {
	ev := r.events()
	return capture.CallbackFuncs[string]{
		Progress:   ev.Progress,
		Capturing:  ev.Capturing,
		Failed:     ev.Failed,
		StopFailed: ev.StopFailed,
		Completed: func(file string) {
			if file == "" {
				r.done <- outcome{}
				return
			}
			r.done <- outcome{files: []string{file}}
		},
	}
}

func (r *runner) run(mode string) error {
	h, err := r.start(mode)
	if err != nil {
		return err
	}

	var timeout <-chan time.Time
	if *stopAfter > 0 && h != nil {
		t := time.NewTimer(*stopAfter)
		defer t.Stop()
		timeout = t.C
	}

	var grace <-chan time.Time
	interrupted := r.ctx.Done()
	for {
		select {
		case o := <-r.done:
			return report(o)
		case <-timeout:
			timeout = nil
			log.Info("stopping capture")
			go h.StopCapture()
		case <-interrupted:
			interrupted = nil
			if h == nil {
				continue
			}
			log.Info("interrupted, stopping capture")
			go h.StopCapture()
			grace = time.After(stopGrace)
		case <-grace:
			return r.ctx.Err()
		}
	}
}

func report(o outcome) error {
	if o.err != nil {
		return o.err
	}
	if o.files == nil {
		fmt.Println("capture canceled")
		return nil
	}
	if len(o.files) == 0 {
		fmt.Println("capture finished (no files reported)")
	}
	for _, f := range o.files {
		fmt.Println(f)
	}
	return nil
}

// start builds and starts the capture. Photo captures return a nil handle.
func (r *runner) start(mode string) (capture.Handle, error) {
	ctx, t, m := r.ctx, r.client, r.model
	// Sessions outlive an interrupt long enough to stop the camera.
	sctx := context.WithoutCancel(ctx)

	switch mode {
	case "photo":
		b := capture.NewPhotoCaptureBuilder(t, m)
		configure(r, &b.Builder)
		c, err := b.Build(ctx)
		if err != nil {
			return nil, err
		}
		c.TakePicture(sctx, r.single())
		return nil, nil

	case "video":
		b := capture.NewVideoCaptureBuilder(t, m)
		configure(r, &b.Builder)
		c, err := b.Build(ctx)
		if err != nil {
			return nil, err
		}
		return c.StartCapture(sctx, r.single()), nil

	case "burst":
		option := theta.BurstOption{CaptureNum: 1}
		if r.options.BurstOption != nil {
			option = *r.options.BurstOption
		}
		b := capture.NewBurstCaptureBuilder(t, m, option)
		configure(r, &b.Builder)
		c, err := b.Build(ctx)
		if err != nil {
			return nil, err
		}
		return c.StartCapture(sctx, r.events()), nil

	case "continuous":
		b := capture.NewContinuousCaptureBuilder(t, m)
		configure(r, &b.Builder)
		c, err := b.Build(ctx)
		if err != nil {
			return nil, err
		}
		return c.StartCapture(sctx, r.events()), nil

	case "timeShift":
		b := capture.NewTimeShiftCaptureBuilder(t, m)
		configure(r, &b.Builder)
		c, err := b.Build(ctx)
		if err != nil {
			return nil, err
		}
		return c.StartCapture(sctx, r.single()), nil

	case "timeShiftManual":
		b := capture.NewTimeShiftManualCaptureBuilder(t, m)
		configure(r, &b.Builder)
		c, err := b.Build(ctx)
		if err != nil {
			return nil, err
		}
		h := c.StartCapture(sctx, r.single())
		if *second {
			go r.triggerSecond(h)
		}
		return h, nil

	case "multiBracket":
		b := capture.NewMultiBracketCaptureBuilder(t, m)
		configure(r, &b.Builder)
		if r.options.AutoBracket != nil {
			b.SetBracketSettings(r.options.AutoBracket.Parameters...)
		}
		c, err := b.Build(ctx)
		if err != nil {
			return nil, err
		}
		return c.StartCapture(sctx, r.events()), nil

	case "shotCountInterval":
		b := capture.NewShotCountSpecifiedIntervalCaptureBuilder(t, m, *shots)
		configure(r, &b.Builder)
		c, err := b.Build(ctx)
		if err != nil {
			return nil, err
		}
		return c.StartCapture(sctx, r.events()), nil

	case "limitlessInterval":
		b := capture.NewLimitlessIntervalCaptureBuilder(t, m)
		configure(r, &b.Builder)
		c, err := b.Build(ctx)
		if err != nil {
			return nil, err
		}
		return c.StartCapture(sctx, r.events()), nil

	case "compositeInterval":
		b := capture.NewCompositeIntervalCaptureBuilder(t, m, *shootingTime)
		configure(r, &b.Builder)
		c, err := b.Build(ctx)
		if err != nil {
			return nil, err
		}
		return c.StartCapture(sctx, r.events()), nil
	}
	return nil, fmt.Errorf("unknown mode %q", mode)
}

// triggerSecond waits for the first lens, then starts the second
func (r *runner) triggerSecond(h *capture.TimeShiftManualCapturing) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-h.Done():
			return
		case <-ticker.C:
			if h.IsAvailableSecondCapture() {
				log.Info("starting second capture")
				h.StartSecondCapture()
				return
			}
		}
	}
}
