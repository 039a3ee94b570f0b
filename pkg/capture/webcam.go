package capture

import (
	"fmt"
	"strconv"

	"gocv.io/x/gocv"
)

// Webcam reads frames from a local camera via OpenCV and encodes them to
// JPEG at a fixed quality.
type Webcam struct {
	cam     *gocv.VideoCapture
	img     gocv.Mat
	quality int
	closed  bool
}

// WebcamConfig describes the camera to open.
type WebcamConfig struct {
	// Device is either a numeric device index ("0") or a full GStreamer
	// pipeline string ending in an appsink.
	Device string

	// Width and Height are applied to device captures. Pipeline captures
	// define their own caps and ignore these.
	Width  int
	Height int

	// Quality is the JPEG quality (1-100) for encoded frames.
	Quality int
}

// OpenWebcam opens the configured camera.
func OpenWebcam(cfg WebcamConfig) (*Webcam, error) {
	var (
		cam *gocv.VideoCapture
		err error
	)

	if idx, convErr := strconv.Atoi(cfg.Device); convErr == nil {
		cam, err = gocv.OpenVideoCapture(idx)
		if err == nil {
			cam.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
			cam.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
		}
	} else {
		// GStreamer pipeline, e.g. the Pi camera:
		// "libcamerasrc ! videoconvert ! videoscale !
		//  video/x-raw,width=640,height=480 ! appsink"
		cam, err = gocv.OpenVideoCapture(cfg.Device)
	}
	if err != nil {
		return nil, fmt.Errorf("capture: open camera %q: %w", cfg.Device, err)
	}
	if !cam.IsOpened() {
		cam.Close()
		return nil, fmt.Errorf("capture: camera %q did not open", cfg.Device)
	}

	return &Webcam{
		cam:     cam,
		img:     gocv.NewMat(),
		quality: cfg.Quality,
	}, nil
}

// Capture reads the next frame and returns it as JPEG bytes.
func (w *Webcam) Capture() ([]byte, error) {
	if w.closed {
		return nil, ErrClosed
	}

	if ok := w.cam.Read(&w.img); !ok || w.img.Empty() {
		return nil, ErrCapture
	}

	params := []int{gocv.IMWriteJpegQuality, w.quality}
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, w.img, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	defer buf.Close()

	// The native buffer is freed on Close; hand the caller a copy.
	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	return jpeg, nil
}

// Close releases the camera device.
func (w *Webcam) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.img.Close()
	return w.cam.Close()
}
