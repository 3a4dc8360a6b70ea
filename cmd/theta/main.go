// theta: capture from a RICOH THETA over OSC, or serve the capture bridge.
//
// Usage:
//
//	theta -mode photo
//	theta -mode video -stop-after 10s
//	theta -mode timeShiftManual -second
//	theta -mode status
//	theta -serve
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/teslashibe/go-theta/internal/config"
	"github.com/teslashibe/go-theta/internal/httpc"
	"github.com/teslashibe/go-theta/internal/log"
	"github.com/teslashibe/go-theta/pkg/camera"
	"github.com/teslashibe/go-theta/pkg/capture"
	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
	"github.com/teslashibe/go-theta/pkg/web"
)

var (
	version = "0.1.0"

	configPath   = flag.String("config", "", "YAML config file")
	mode         = flag.String("mode", "photo", "capture mode, \"info\" or \"status\"")
	serve        = flag.Bool("serve", false, "run the capture bridge instead of a single capture")
	stopAfter    = flag.Duration("stop-after", 0, "stop the capture after this long (0 = wait)")
	second       = flag.Bool("second", false, "timeShiftManual: trigger the second lens when available")
	shots        = flag.Int("shots", 0, "shotCountInterval: number of shots")
	shootingTime = flag.Int("shooting-time", 0, "compositeInterval: shooting time in seconds")
	optionsJSON  = flag.String("options", "", "capture options as JSON, e.g. '{\"iso\":200}'")
	modelName    = flag.String("model", "", "camera model (default: read from /osc/info)")
	preset       = flag.String("preset", "", "option preset: "+strings.Join(camera.PresetNames(), ", "))
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	client := osc.NewClient(cfg.CameraURL(),
		osc.WithHTTPClient(httpc.NewClient(cfg.HTTPTimeout())),
		osc.WithLogger(log.With("component", "osc")),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		err = runBridge(ctx, cfg, client)
	} else {
		err = runCapture(ctx, cfg, client)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("theta failed", "error", err)
		os.Exit(1)
	}
}

func runBridge(ctx context.Context, cfg *config.Config, client *osc.Client) error {
	settings := camera.NewManager()
	if err := settings.Update(*preset, theta.Options{}); err != nil {
		return err
	}
	opts := []web.Option{
		web.WithLogger(log.L()),
		web.WithCheckInterval(cfg.CheckInterval()),
		web.WithSettings(settings),
	}
	if *modelName != "" {
		opts = append(opts, web.WithModel(theta.Model(*modelName)))
	}

	log.Info("theta bridge", "version", version, "camera", client.Endpoint(), "addr", cfg.BridgeAddr())
	srv := web.NewServer(cfg.BridgeAddr(), client, opts...)
	return srv.Start(ctx)
}

func resolveModel(ctx context.Context, client *osc.Client) (theta.Model, error) {
	if *modelName != "" {
		return theta.Model(*modelName), nil
	}
	info, err := client.Info(ctx)
	if err != nil {
		return "", err
	}
	return info.CameraModel(), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runCapture(ctx context.Context, cfg *config.Config, client *osc.Client) error {
	switch *mode {
	case "info":
		info, err := client.Info(ctx)
		if err != nil {
			return err
		}
		return printJSON(info)
	case "status":
		return watchStatus(ctx, cfg, client)
	}

	var options theta.Options
	if *optionsJSON != "" {
		if err := json.Unmarshal([]byte(*optionsJSON), &options); err != nil {
			return fmt.Errorf("-options: %w", err)
		}
	}
	if *preset != "" {
		p := camera.GetPreset(*preset)
		if p == nil {
			return fmt.Errorf("unknown preset %q", *preset)
		}
		options = p.Merge(options)
	}
	if errs := camera.Validate(options); len(errs) > 0 {
		return fmt.Errorf("-options: %s", strings.Join(errs, "; "))
	}

	model, err := resolveModel(ctx, client)
	if err != nil {
		return err
	}
	log.Info("camera", "model", string(model), "mode", *mode)

	r := &runner{
		ctx:      ctx,
		client:   client,
		model:    model,
		options:  options,
		interval: cfg.CheckInterval(),
		done:     make(chan outcome, 1),
	}
	return r.run(*mode)
}

// watchStatus prints capture status transitions until interrupted
func watchStatus(ctx context.Context, cfg *config.Config, client *osc.Client) error {
	failed := make(chan error, 1)
	m := capture.NewStatusMonitor(client,
		func(status theta.CaptureStatus) {
			fmt.Printf("%s  %s\n", time.Now().Format("15:04:05"), status)
		},
		func(err error) { failed <- err },
		capture.WithCheckInterval(cfg.CheckInterval()),
		capture.WithMaxRetry(cfg.Capture.StatusRetry),
		capture.WithIdleDebounce(cfg.Capture.IdleDebounce),
		capture.WithLogger(log.With("component", "monitor")),
	)
	m.Start(ctx)
	defer m.Stop()

	select {
	case <-ctx.Done():
		return nil
	case err := <-failed:
		return err
	}
}
