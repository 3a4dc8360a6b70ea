// theta-watch: follow the capture events of a running theta bridge.
//
// Usage:
//
//	theta-watch -bridge localhost:8090
//	theta-watch -bridge localhost:8090 -session <id>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/teslashibe/go-theta/internal/config"
	"github.com/teslashibe/go-theta/internal/log"
	"github.com/teslashibe/go-theta/pkg/protocol"
	"github.com/teslashibe/go-theta/pkg/web"
)

var (
	configPath = flag.String("config", "", "YAML config file")
	bridge     = flag.String("bridge", "", "bridge address (default: localhost and the configured bridge port)")
	session    = flag.String("session", "", "follow a single session and exit when it ends")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	addr := *bridge
	if addr == "" {
		addr = fmt.Sprintf("localhost:%d", cfg.Bridge.Port)
	}

	sub, err := web.NewSubscriber(addr, web.WithSubscriberLogger(log.L()))
	if err != nil {
		log.Error("invalid bridge address", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *session != "" {
		result, err := sub.Wait(ctx, *session, printEvent)
		if err != nil {
			log.Error("session did not complete", "session", *session, "error", err)
			os.Exit(1)
		}
		if result.Canceled {
			fmt.Println("canceled")
		}
		return
	}

	err = sub.Subscribe(ctx, func(msg *protocol.Message) bool {
		printEvent(msg)
		return true
	})
	if err != nil {
		log.Error("event stream failed", "error", err)
		os.Exit(1)
	}
}

// printEvent writes one line per capture event
func printEvent(msg *protocol.Message) {
	ts := time.UnixMilli(msg.Timestamp).Format("15:04:05.000")
	ref, _ := msg.GetSessionRef()
	prefix := fmt.Sprintf("%s  %-10s %s %s", ts, msg.Type, shortID(ref.ID), ref.Mode)

	switch msg.Type {
	case protocol.TypeProgress:
		if d, err := msg.GetProgressData(); err == nil {
			fmt.Printf("%s  %3.0f%%\n", prefix, d.Completion*100)
			return
		}
	case protocol.TypeCapturing:
		if d, err := msg.GetCapturingData(); err == nil {
			fmt.Printf("%s  %s\n", prefix, d.Status)
			return
		}
	case protocol.TypeCompleted:
		if d, err := msg.GetCompletedData(); err == nil {
			files := d.FileURLs
			if d.FileURL != "" {
				files = []string{d.FileURL}
			}
			fmt.Printf("%s  %s\n", prefix, strings.Join(files, " "))
			return
		}
	case protocol.TypeFailed, protocol.TypeStopFailed:
		if d, err := msg.GetFailedData(); err == nil {
			fmt.Printf("%s  %s %s: %s\n", prefix, d.Kind, d.Code, d.Message)
			return
		}
	}
	fmt.Println(prefix)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
