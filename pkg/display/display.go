// Package display renders processed frames to a local sink.
//
// Like the camera, the display is an external collaborator behind a narrow
// interface. The desktop implementation is an OpenCV window; on the original
// device this role is played by a small LCD.
package display

import "errors"

// Sentinel errors for the display package.
var (
	// ErrUnavailable indicates the sink cannot accept frames.
	ErrUnavailable = errors.New("display: sink unavailable")

	// ErrDecode indicates the payload was not a valid encoded image.
	ErrDecode = errors.New("display: frame decode failed")
)

// Sink renders encoded frames.
type Sink interface {
	// Render decodes and displays one JPEG frame.
	Render(jpeg []byte) error

	// Close releases the sink.
	Close() error
}
