package relay

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/edgecv/go-framecast/internal/log"
	"github.com/edgecv/go-framecast/pkg/process"
	"github.com/edgecv/go-framecast/pkg/transport"
)

// Server is the Processing Agent loop. It accepts one connection at a time
// and runs receive → process → send in frame order until the session fails,
// then goes back to listening for the next client.
type Server struct {
	bindAddr  string
	processor process.Processor

	mu      sync.Mutex
	ln      net.Listener
	session string

	state atomic.Value
	stats *Stats

	// OnProcessed, if set, receives every processed frame. Used to feed the
	// monitor preview; must not block.
	OnProcessed func(jpeg []byte)
}

// NewServer creates a server that will listen on bindAddr and transform
// frames with the given processor.
func NewServer(bindAddr string, processor process.Processor) *Server {
	s := &Server{
		bindAddr:  bindAddr,
		processor: processor,
		stats:     NewStats(),
	}
	s.state.Store(StateListening)
	return s
}

// State returns the current loop state.
func (s *Server) State() string {
	return s.state.Load().(string)
}

// Stats returns the server's throughput tracker.
func (s *Server) Stats() *Stats {
	return s.stats
}

// Session returns the ID of the active session, or "" when listening.
func (s *Server) Session() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Addr returns the bound listen address. Valid after Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Listen binds the listener.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.bindAddr)
	if err != nil {
		return fmt.Errorf("relay: listen %s: %w", s.bindAddr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	log.Info("listening for capture agent", "addr", ln.Addr().String())
	return nil
}

// Run binds the listener and serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve accepts sessions until the context is cancelled. A failed session
// is logged and the server returns to listening; only listener errors and
// cancellation end the loop.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return fmt.Errorf("relay: serve called before listen")
	}

	defer s.state.Store(StateStopped)
	defer ln.Close()

	// Closing the listener unblocks Accept on cancellation.
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		<-watchCtx.Done()
		ln.Close()
	}()

	for {
		s.state.Store(StateListening)
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				log.Info("interrupted, shutting down")
				return nil
			}
			return fmt.Errorf("relay: accept: %w", err)
		}

		id := uuid.NewString()[:8]
		s.mu.Lock()
		s.session = id
		s.mu.Unlock()
		s.state.Store(StateConnected)
		log.Info("capture agent connected", "session", id, "peer", conn.RemoteAddr().String())

		err = s.serveSession(ctx, conn)
		conn.Close()
		s.mu.Lock()
		s.session = ""
		s.mu.Unlock()

		if ctx.Err() != nil {
			log.Info("interrupted, shutting down")
			return nil
		}
		log.Warn("session ended, waiting for new connection", "session", id, "reason", err)
	}
}

// serveSession relays frames on one connection until it fails.
func (s *Server) serveSession(ctx context.Context, conn net.Conn) error {
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		<-watchCtx.Done()
		conn.Close()
	}()

	for {
		frame, err := transport.ReadPayload(conn)
		if err != nil {
			return err
		}

		start := time.Now()
		processed, err := s.processor.Process(frame)
		if err != nil {
			// A payload that length-decodes but is not a valid image means
			// the stream can no longer be trusted. Session-fatal.
			return err
		}
		elapsed := time.Since(start)

		if err := transport.WritePayload(conn, processed); err != nil {
			return err
		}

		s.stats.Observe(elapsed)
		if s.OnProcessed != nil {
			s.OnProcessed(processed)
		}

		if r, ok := s.stats.TakeReport(reportInterval); ok {
			log.Info("processing",
				"fps", fmt.Sprintf("%.1f", r.FPS),
				"process_ms", r.AvgProcess.Milliseconds(),
				"mode", s.processor.Name(),
				"frames", r.Frames)
		}
	}
}
