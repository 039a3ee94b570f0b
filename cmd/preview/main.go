// Preview - watches the processing agent's output from any machine.
//
// Connects to the monitor's preview websocket and shows each processed frame
// in a window. Useful for checking what the capture agent's little display is
// seeing without standing next to it.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/edgecv/go-framecast/internal/log"
)

const defaultMonitorPort = "8080"

func main() {
	log.Init(os.Getenv("FRAMECAST_LOG_LEVEL"))

	host := os.Getenv("FRAMECAST_MONITOR_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("FRAMECAST_MONITOR_PORT")
	if port == "" {
		port = defaultMonitorPort
	}
	url := fmt.Sprintf("ws://%s:%s/ws/preview", host, port)

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		log.Error("preview connect failed", "url", url, "err", err)
		os.Exit(1)
	}
	defer conn.Close()
	log.Info("watching preview", "url", url)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		conn.Close()
	}()

	win := gocv.NewWindow("framecast preview")
	defer win.Close()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			log.Info("preview stream closed", "err", err)
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		img, err := gocv.IMDecode(data, gocv.IMReadColor)
		if err != nil || img.Empty() {
			log.Warn("skipping undecodable preview frame", "bytes", len(data))
			continue
		}
		win.IMShow(img)
		img.Close()
		if win.WaitKey(1) == 'q' || !win.IsOpen() {
			return
		}
	}
}
