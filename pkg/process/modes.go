package process

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Mode names.
const (
	ModeNormal  = "normal"
	ModeCanny   = "canny"
	ModeNight   = "night"
	ModeThermal = "thermal"
)

// Normal passes frames through with a small green indicator dot so the
// viewer can tell processed output from raw camera output.
type Normal struct {
	Quality int
}

// Name returns "normal".
func (Normal) Name() string { return ModeNormal }

// Process draws the indicator and re-encodes.
func (p Normal) Process(jpeg []byte) ([]byte, error) {
	img, err := decodeFrame(jpeg)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	gocv.Circle(&img, image.Pt(img.Cols()-10, 10), 5, color.RGBA{G: 255}, -1)
	return encodeFrame(img, p.Quality)
}

// Canny performs edge detection: grayscale, optional Gaussian blur, Canny
// with 50/150 thresholds, then back to BGR so the result stays a 3-channel
// displayable frame.
type Canny struct {
	Quality int

	// Blur enables the 5x5 Gaussian pre-blur. It suppresses sensor noise at
	// the cost of a little latency.
	Blur bool
}

// Name returns "canny".
func (Canny) Name() string { return ModeCanny }

// Process runs edge detection on the frame.
func (p Canny) Process(jpeg []byte) ([]byte, error) {
	img, err := decodeFrame(jpeg)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	if p.Blur {
		gocv.GaussianBlur(gray, &gray, image.Pt(5, 5), 0, 0, gocv.BorderDefault)
	}

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 50, 150)

	out := gocv.NewMat()
	defer out.Close()
	gocv.CvtColor(edges, &out, gocv.ColorGrayToBGR)

	return encodeFrame(out, p.Quality)
}

// Night renders an equalized grayscale image into the green channel,
// imitating a night-vision scope.
type Night struct {
	Quality int
}

// Name returns "night".
func (Night) Name() string { return ModeNight }

// Process applies the night-vision effect.
func (p Night) Process(jpeg []byte) ([]byte, error) {
	img, err := decodeFrame(jpeg)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	enhanced := gocv.NewMat()
	defer enhanced.Close()
	gocv.EqualizeHist(gray, &enhanced)

	zero := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), img.Rows(), img.Cols(), gocv.MatTypeCV8U)
	defer zero.Close()

	out := gocv.NewMat()
	defer out.Close()
	gocv.Merge([]gocv.Mat{zero, enhanced, zero}, &out)

	return encodeFrame(out, p.Quality)
}

// Thermal maps brightness through the JET colormap for a thermal-camera look.
type Thermal struct {
	Quality int
}

// Name returns "thermal".
func (Thermal) Name() string { return ModeThermal }

// Process applies the thermal effect.
func (p Thermal) Process(jpeg []byte) ([]byte, error) {
	img, err := decodeFrame(jpeg)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	out := gocv.NewMat()
	defer out.Close()
	gocv.ApplyColorMap(gray, &out, gocv.ColormapJet)

	return encodeFrame(out, p.Quality)
}
