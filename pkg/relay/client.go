// Package relay implements the capture/display loop and the server loop that
// together form the frame relay.
//
// Both loops are fully synchronous: one control thread per agent, every
// camera read, network transfer, processing step and display write blocking
// until complete. The socket is the only shared resource and each side owns
// its end exclusively, so no locking is needed on the data path. Cancellation
// is coarse: the context (driven by an interrupt signal) closes the socket,
// which unblocks whatever call is in flight.
package relay

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/edgecv/go-framecast/internal/log"
	"github.com/edgecv/go-framecast/pkg/capture"
	"github.com/edgecv/go-framecast/pkg/display"
	"github.com/edgecv/go-framecast/pkg/transport"
)

// State names for both agent loops.
const (
	StateConnecting = "connecting"
	StateStreaming  = "streaming"
	StateListening  = "listening"
	StateConnected  = "connected"
	StateStopped    = "stopped"
)

// reportInterval is how often throughput is logged.
const reportInterval = 2 * time.Second

// Client is the Capture-and-Display Agent loop: acquire a frame, send it,
// receive the processed frame, render it, forever.
type Client struct {
	addr   string
	source capture.Source
	sink   display.Sink

	state atomic.Value
	stats *Stats
}

// NewClient creates a client that will stream to the processing agent at
// addr. The client takes ownership of source and sink: both are released
// when Run returns, on every exit path.
func NewClient(addr string, source capture.Source, sink display.Sink) *Client {
	c := &Client{
		addr:   addr,
		source: source,
		sink:   sink,
		stats:  NewStats(),
	}
	c.state.Store(StateConnecting)
	return c
}

// State returns the current loop state.
func (c *Client) State() string {
	return c.state.Load().(string)
}

// Stats returns the client's throughput tracker.
func (c *Client) Stats() *Stats {
	return c.stats
}

// Run connects and streams until the context is cancelled or the session
// fails. A cancelled context is a clean shutdown (nil); any transport,
// capture or display failure is returned and is fatal for the session —
// there is no reconnect.
func (c *Client) Run(ctx context.Context) error {
	defer c.state.Store(StateStopped)
	defer c.source.Close()
	defer c.sink.Close()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("relay: connect %s: %w", c.addr, err)
	}
	defer conn.Close()

	// Closing the socket is the only way to unblock an in-flight read or
	// write when the context is cancelled.
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		<-watchCtx.Done()
		conn.Close()
	}()

	log.Info("connected to processing agent", "addr", c.addr)
	c.state.Store(StateStreaming)

	for {
		if err := c.step(conn); err != nil {
			if ctx.Err() != nil {
				log.Info("interrupted, shutting down")
				return nil
			}
			return err
		}

		if r, ok := c.stats.TakeReport(reportInterval); ok {
			log.Info("streaming", "fps", fmt.Sprintf("%.1f", r.FPS), "frames", r.Frames)
		}
	}
}

// step runs one frame transaction: capture, send, receive, render.
func (c *Client) step(conn net.Conn) error {
	frame, err := c.source.Capture()
	if err != nil {
		return fmt.Errorf("relay: %w", err)
	}

	start := time.Now()
	if err := transport.WritePayload(conn, frame); err != nil {
		return fmt.Errorf("relay: send frame: %w", err)
	}

	processed, err := transport.ReadPayload(conn)
	if err != nil {
		return fmt.Errorf("relay: receive frame: %w", err)
	}

	if err := c.sink.Render(processed); err != nil {
		return fmt.Errorf("relay: %w", err)
	}

	c.stats.Observe(time.Since(start))
	return nil
}
