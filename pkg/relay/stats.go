package relay

import (
	"sync"
	"time"
)

// statsWindow is how many frame timestamps the FPS window keeps.
const statsWindow = 30

// Stats tracks throughput over a sliding window of recent frames.
type Stats struct {
	mu    sync.Mutex
	times []time.Time

	frames     int64
	procTotal  time.Duration
	procCount  int64
	lastReport time.Time
}

// NewStats creates an empty stats tracker.
func NewStats() *Stats {
	return &Stats{lastReport: time.Now()}
}

// Observe records one completed frame and its processing time.
func (s *Stats) Observe(proc time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frames++
	s.procTotal += proc
	s.procCount++

	s.times = append(s.times, time.Now())
	if len(s.times) > statsWindow {
		s.times = s.times[1:]
	}
}

// Frames returns the total number of frames observed.
func (s *Stats) Frames() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// FPS returns the frame rate over the current window.
func (s *Stats) FPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fpsLocked()
}

func (s *Stats) fpsLocked() float64 {
	if len(s.times) < 2 {
		return 0
	}
	span := s.times[len(s.times)-1].Sub(s.times[0])
	if span <= 0 {
		return 0
	}
	return float64(len(s.times)-1) / span.Seconds()
}

// Report summarizes throughput since the last report.
type Report struct {
	FPS        float64
	AvgProcess time.Duration
	Frames     int64
}

// TakeReport returns a report if at least interval has elapsed since the last
// one, resetting the per-report processing average.
func (s *Stats) TakeReport(interval time.Duration) (Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Sub(s.lastReport) < interval {
		return Report{}, false
	}
	s.lastReport = now

	r := Report{
		FPS:    s.fpsLocked(),
		Frames: s.frames,
	}
	if s.procCount > 0 {
		r.AvgProcess = s.procTotal / time.Duration(s.procCount)
	}
	s.procTotal = 0
	s.procCount = 0
	return r, true
}
