// Package capture acquires camera frames as encoded JPEG buffers.
//
// The camera is an external collaborator behind the narrow Source interface;
// everything downstream (transport, processing, display) only ever sees
// encoded bytes.
package capture

import "errors"

// Sentinel errors for the capture package.
var (
	// ErrCapture indicates the camera failed to deliver a frame.
	ErrCapture = errors.New("capture: no frame from camera")

	// ErrEncode indicates a frame could not be JPEG-encoded.
	ErrEncode = errors.New("capture: frame encode failed")

	// ErrClosed indicates the source was already closed.
	ErrClosed = errors.New("capture: source closed")
)

// Source produces encoded frames, one per call.
type Source interface {
	// Capture blocks until the next frame is available and returns it as
	// JPEG bytes.
	Capture() ([]byte, error)

	// Close releases the underlying device.
	Close() error
}
