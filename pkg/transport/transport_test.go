package transport

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"single byte", []byte{0xff}},
		{"small frame", []byte("not really a jpeg but close enough")},
		{"binary frame", bytes.Repeat([]byte{0x00, 0x01, 0xfe}, 1000)},
		{"large frame", bytes.Repeat([]byte{0xab}, 512*1024)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WritePayload(&buf, tt.payload); err != nil {
				t.Fatalf("WritePayload() error = %v", err)
			}

			got, err := ReadPayload(&buf)
			if err != nil {
				t.Fatalf("ReadPayload() error = %v", err)
			}
			if !bytes.Equal(got, tt.payload) {
				t.Errorf("ReadPayload() = %d bytes, want %d bytes identical to sent", len(got), len(tt.payload))
			}
		})
	}
}

func TestHeaderEncodesLength(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, 12345)

	var buf bytes.Buffer
	if err := WritePayload(&buf, payload); err != nil {
		t.Fatalf("WritePayload() error = %v", err)
	}

	wire := buf.Bytes()
	if len(wire) != 4+len(payload) {
		t.Fatalf("wire length = %d, want %d", len(wire), 4+len(payload))
	}
	if n := binary.BigEndian.Uint32(wire[:4]); n != uint32(len(payload)) {
		t.Errorf("header = %d, want %d", n, len(payload))
	}
}

func TestOrdering(t *testing.T) {
	frames := [][]byte{
		[]byte("frame A"),
		[]byte("frame B"),
		[]byte("frame C"),
	}

	var buf bytes.Buffer
	for _, f := range frames {
		if err := WritePayload(&buf, f); err != nil {
			t.Fatalf("WritePayload() error = %v", err)
		}
	}

	for i, want := range frames {
		got, err := ReadPayload(&buf)
		if err != nil {
			t.Fatalf("ReadPayload() #%d error = %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("frame #%d = %q, want %q", i, got, want)
		}
	}
}

func TestWriteRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		wantErr error
	}{
		{"empty payload", nil, ErrEmptyPayload},
		{"oversized payload", make([]byte, MaxPayload+1), ErrPayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WritePayload(io.Discard, tt.payload)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("WritePayload() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadRejectsBadHeader(t *testing.T) {
	tests := []struct {
		name    string
		length  uint32
		wantErr error
	}{
		{"zero length", 0, ErrEmptyPayload},
		{"oversized length", MaxPayload + 1, ErrPayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var header [4]byte
			binary.BigEndian.PutUint32(header[:], tt.length)

			_, err := ReadPayload(bytes.NewReader(header[:]))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadPayload() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadTruncatedStream(t *testing.T) {
	tests := []struct {
		name string
		wire func() []byte
	}{
		{
			name: "closed before header",
			wire: func() []byte { return nil },
		},
		{
			name: "closed mid header",
			wire: func() []byte { return []byte{0x00, 0x00} },
		},
		{
			name: "closed mid payload",
			wire: func() []byte {
				var buf bytes.Buffer
				WritePayload(&buf, bytes.Repeat([]byte{0x07}, 100))
				return buf.Bytes()[:50]
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPayload(bytes.NewReader(tt.wire()))
			if !errors.Is(err, ErrClosed) {
				t.Errorf("ReadPayload() error = %v, want ErrClosed", err)
			}
		})
	}
}

// A receiver presented with a truncated stream must block until the stream
// closes, then fail, rather than return a corrupt frame.
func TestReadBlocksUntilClose(t *testing.T) {
	client, server := net.Pipe()

	done := make(chan error, 1)
	go func() {
		_, err := ReadPayload(server)
		done <- err
	}()

	// Header promises 100 bytes; deliver only half, then close.
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], 100)
	if _, err := client.Write(header[:]); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if _, err := client.Write(make([]byte, 50)); err != nil {
		t.Fatalf("write partial payload: %v", err)
	}

	select {
	case err := <-done:
		t.Fatalf("ReadPayload() returned early with %v, want blocked", err)
	default:
	}

	client.Close()
	if err := <-done; err == nil {
		t.Error("ReadPayload() error = nil after close, want error")
	}
	server.Close()
}

func TestRoundTripOverConn(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	payload := bytes.Repeat([]byte{0x5a}, 8192)

	go func() {
		WritePayload(client, payload)
	}()

	got, err := ReadPayload(server)
	if err != nil {
		t.Fatalf("ReadPayload() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("payload not identical after round trip over conn")
	}
}
