package process

import (
	"bytes"
	"testing"

	"gocv.io/x/gocv"
)

// blankFrame returns an all-zero 3-channel frame encoded as JPEG.
func blankFrame(t *testing.T, width, height int) []byte {
	t.Helper()

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC3)
	defer img.Close()

	jpeg, err := encodeFrame(img, 95)
	if err != nil {
		t.Fatalf("encodeFrame() error = %v", err)
	}
	return jpeg
}

func decodeDims(t *testing.T, jpeg []byte) (width, height int) {
	t.Helper()

	img, err := decodeFrame(jpeg)
	if err != nil {
		t.Fatalf("decodeFrame() error = %v", err)
	}
	defer img.Close()
	return img.Cols(), img.Rows()
}

// An all-zero frame has no gradients, so edge detection must produce an
// all-zero frame of the same dimensions.
func TestCannyDegenerateInput(t *testing.T) {
	in := blankFrame(t, 640, 480)

	out, err := Canny{Quality: 80, Blur: true}.Process(in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	img, err := decodeFrame(out)
	if err != nil {
		t.Fatalf("decodeFrame() error = %v", err)
	}
	defer img.Close()

	if img.Cols() != 640 || img.Rows() != 480 {
		t.Errorf("output = %dx%d, want 640x480", img.Cols(), img.Rows())
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	if n := gocv.CountNonZero(gray); n != 0 {
		t.Errorf("output has %d non-zero pixels, want 0 (no edges in a blank frame)", n)
	}
}

func TestModesPreserveDimensions(t *testing.T) {
	in := blankFrame(t, 320, 240)

	tests := []struct {
		name string
		p    Processor
	}{
		{"normal", Normal{Quality: 80}},
		{"canny", Canny{Quality: 80}},
		{"canny blurred", Canny{Quality: 80, Blur: true}},
		{"night", Night{Quality: 80}},
		{"thermal", Thermal{Quality: 80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.p.Process(in)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if w, h := decodeDims(t, out); w != 320 || h != 240 {
				t.Errorf("output = %dx%d, want 320x240", w, h)
			}
		})
	}
}

func TestProcessDeterministic(t *testing.T) {
	in := blankFrame(t, 320, 240)

	for _, p := range []Processor{
		Normal{Quality: 80},
		Canny{Quality: 80, Blur: true},
		Night{Quality: 80},
		Thermal{Quality: 80},
	} {
		t.Run(p.Name(), func(t *testing.T) {
			first, err := p.Process(in)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			second, err := p.Process(in)
			if err != nil {
				t.Fatalf("Process() second call error = %v", err)
			}
			if !bytes.Equal(first, second) {
				t.Error("same input produced different outputs")
			}
		})
	}
}

func TestProcessRejectsGarbage(t *testing.T) {
	for _, p := range []Processor{
		Normal{Quality: 80},
		Canny{Quality: 80},
	} {
		t.Run(p.Name(), func(t *testing.T) {
			if _, err := p.Process([]byte("definitely not a jpeg")); err == nil {
				t.Error("Process() error = nil, want decode error")
			}
		})
	}
}
