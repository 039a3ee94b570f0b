// Package process transforms frames on the processing agent.
//
// A Processor is a pure strategy over encoded frames: JPEG in, JPEG out,
// deterministic within a run, dimensions preserved so the result stays
// displayable. Processors run synchronously on the session loop, so their
// latency directly gates the achievable frame rate.
package process

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Sentinel errors for the process package.
var (
	// ErrDecode indicates the payload was not a valid encoded image.
	ErrDecode = errors.New("process: frame decode failed")

	// ErrEncode indicates the result could not be re-encoded.
	ErrEncode = errors.New("process: frame encode failed")

	// ErrUnknownMode indicates a mode name with no registered processor.
	ErrUnknownMode = errors.New("process: unknown mode")
)

// Processor transforms one frame.
type Processor interface {
	// Process applies the transformation and returns the result as JPEG.
	Process(jpeg []byte) ([]byte, error)

	// Name returns the mode name.
	Name() string
}

func decodeFrame(jpeg []byte) (gocv.Mat, error) {
	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if img.Empty() {
		img.Close()
		return gocv.Mat{}, ErrDecode
	}
	return img, nil
}

func encodeFrame(img gocv.Mat, quality int) ([]byte, error) {
	params := []int{gocv.IMWriteJpegQuality, quality}
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	defer buf.Close()

	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	return jpeg, nil
}
