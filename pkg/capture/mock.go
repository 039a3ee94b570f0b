package capture

import (
	"sync"
	"sync/atomic"
)

// MockSource is a mock camera for testing. It serves a fixed payload and can
// be told to fail after a number of frames.
type MockSource struct {
	mu     sync.Mutex
	closed bool

	payload   []byte
	failAfter int // frames served before ErrCapture; 0 = never fail

	// Stats
	captured atomic.Int64
}

// MockSourceOption configures a MockSource.
type MockSourceOption func(*MockSource)

// WithFailAfter makes the mock return ErrCapture once n frames were served.
func WithFailAfter(n int) MockSourceOption {
	return func(m *MockSource) {
		m.failAfter = n
	}
}

// NewMockSource creates a mock source serving the given payload.
func NewMockSource(payload []byte, opts ...MockSourceOption) *MockSource {
	m := &MockSource{payload: payload}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Capture returns a copy of the configured payload.
func (m *MockSource) Capture() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.failAfter > 0 && m.captured.Load() >= int64(m.failAfter) {
		return nil, ErrCapture
	}

	m.captured.Add(1)
	out := make([]byte, len(m.payload))
	copy(out, m.payload)
	return out, nil
}

// Close marks the source as released.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Captured returns how many frames were served.
func (m *MockSource) Captured() int64 {
	return m.captured.Load()
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
