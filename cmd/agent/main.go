// Capture-and-Display Agent - streams camera frames to the processing agent
// and shows what comes back.
//
// Runs on the camera-side device. FRAMECAST_SERVER_HOST must point at the
// machine running cmd/processor; FRAMECAST_CAMERA selects the camera (device
// index or GStreamer pipeline, e.g. the Pi camera pipeline). Exits 0 on
// Ctrl+C, 1 when the session dies.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/edgecv/go-framecast/internal/config"
	"github.com/edgecv/go-framecast/internal/log"
	"github.com/edgecv/go-framecast/pkg/capture"
	"github.com/edgecv/go-framecast/pkg/display"
	"github.com/edgecv/go-framecast/pkg/relay"
)

func main() {
	cfg, err := config.LoadAgent()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "Usage: FRAMECAST_SERVER_HOST=10.0.0.57 go run ./cmd/agent")
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	log.Info("opening camera", "device", cfg.Camera, "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
	source, err := capture.OpenWebcam(capture.WebcamConfig{
		Device:  cfg.Camera,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Quality: cfg.Quality,
	})
	if err != nil {
		log.Error("camera unavailable", "err", err)
		os.Exit(1)
	}

	var sink display.Sink
	if cfg.Headless {
		sink = display.Null{}
	} else {
		sink = display.NewWindow("framecast", cfg.Rotate180)
	}

	// The client owns source and sink from here; they are released on every
	// exit path of Run.
	client := relay.NewClient(cfg.ServerAddr(), source, sink)

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	log.Info("connecting to processing agent", "addr", cfg.ServerAddr())
	if err := client.Run(ctx); err != nil {
		log.Error("session ended", "err", err)
		os.Exit(1)
	}
}
