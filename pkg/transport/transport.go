// Package transport moves encoded frames across an ordered byte stream.
//
// The wire format is a 4-byte big-endian payload length followed by exactly
// that many bytes of encoded image data. The length prefix is the only
// framing: image encodings are variable-length and the stream has no inherent
// message boundaries, so without it frame boundaries would desynchronize
// after the first transmission.
//
// Reads and writes block without timeouts, matching the synchronous loop on
// both agents. A stalled peer that never closes its socket will therefore
// hang the caller; this is a known limitation of the design, not a bug.
package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxPayload bounds a single frame on the wire. Real JPEG frames are a few
// hundred KB at most; anything larger means the stream is desynchronized or
// the peer is misbehaving.
const MaxPayload = 16 << 20

const headerSize = 4

// Sentinel errors for the transport package.
var (
	// ErrClosed indicates the peer closed the stream mid-message.
	ErrClosed = errors.New("transport: connection closed")

	// ErrPayloadTooLarge indicates a frame above MaxPayload.
	ErrPayloadTooLarge = errors.New("transport: payload too large")

	// ErrEmptyPayload indicates a zero-length frame, which is never valid
	// encoded image data.
	ErrEmptyPayload = errors.New("transport: empty payload")
)

// WritePayload writes one length-prefixed frame to w. Any incomplete write is
// fatal for the session; the caller must tear the connection down.
func WritePayload(w io.Writer, payload []byte) error {
	if len(payload) == 0 {
		return ErrEmptyPayload
	}
	if len(payload) > MaxPayload {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}

	var header [headerSize]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("transport: write header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("transport: write payload: %w", err)
	}
	return nil
}

// ReadPayload blocks until one complete frame has arrived and returns its
// payload. A stream that closes mid-header or mid-payload yields ErrClosed;
// there is no partial-message recovery.
func ReadPayload(r io.Reader) ([]byte, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, closeErr("read header", err)
	}

	n := binary.BigEndian.Uint32(header[:])
	if n == 0 {
		return nil, ErrEmptyPayload
	}
	if n > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, n)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, closeErr("read payload", err)
	}
	return payload, nil
}

func closeErr(op string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("transport: %s: %w", op, ErrClosed)
	}
	return fmt.Errorf("transport: %s: %w", op, err)
}
