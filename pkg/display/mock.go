package display

import "sync"

// Null discards every frame. Used for headless agent runs.
type Null struct{}

// Render discards the frame.
func (Null) Render(jpeg []byte) error { return nil }

// Close is a no-op.
func (Null) Close() error { return nil }

// MockSink records rendered frames for tests.
type MockSink struct {
	mu     sync.Mutex
	closed bool
	frames [][]byte

	// FailWith, when set, is returned from every Render call.
	FailWith error
}

// NewMockSink creates an empty mock sink.
func NewMockSink() *MockSink {
	return &MockSink{}
}

// Render records a copy of the frame.
func (m *MockSink) Render(jpeg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return m.FailWith
	}
	if m.closed {
		return ErrUnavailable
	}

	frame := make([]byte, len(jpeg))
	copy(frame, jpeg)
	m.frames = append(m.frames, frame)
	return nil
}

// Close marks the sink as released.
func (m *MockSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Frames returns the rendered frames in order.
func (m *MockSink) Frames() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.frames))
	copy(out, m.frames)
	return out
}

// Closed reports whether Close was called.
func (m *MockSink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
