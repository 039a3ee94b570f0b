// Processing Agent - receives camera frames over TCP, transforms them and
// sends the result back.
//
// Listens on FRAMECAST_PORT (default 5000) and serves one capture agent at a
// time. The monitor dashboard on FRAMECAST_MONITOR_PORT exposes status, live
// preview and runtime mode switching:
//
//	curl localhost:8080/api/status
//	curl -X POST localhost:8080/api/mode/thermal
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/edgecv/go-framecast/internal/config"
	"github.com/edgecv/go-framecast/internal/log"
	"github.com/edgecv/go-framecast/pkg/monitor"
	"github.com/edgecv/go-framecast/pkg/process"
	"github.com/edgecv/go-framecast/pkg/relay"
)

func main() {
	cfg, err := config.LoadProcessor()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	switcher, err := process.NewSwitcher(cfg.Mode, cfg.Quality)
	if err != nil {
		log.Error("invalid processing mode", "mode", cfg.Mode, "err", err)
		os.Exit(1)
	}
	log.Info("processing agent starting", "addr", cfg.BindAddr(), "mode", cfg.Mode)

	server := relay.NewServer(cfg.BindAddr(), switcher)

	var mon *monitor.Server
	if cfg.MonitorEnabled {
		mon = monitor.NewServer(cfg.MonitorPort, switcher, func() monitor.Status {
			return monitor.Status{
				State:   server.State(),
				Session: server.Session(),
				Frames:  server.Stats().Frames(),
				FPS:     server.Stats().FPS(),
			}
		})
		server.OnProcessed = mon.PublishFrame
		mon.StartAsync()
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err = server.Run(ctx)
	if mon != nil {
		mon.Shutdown()
	}
	if err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
