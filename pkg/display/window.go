package display

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Window shows frames in an OpenCV highgui window.
type Window struct {
	win    *gocv.Window
	rotate bool
	closed bool
}

// NewWindow opens a named display window. rotate180 flips each frame for
// sinks mounted upside down.
func NewWindow(title string, rotate180 bool) *Window {
	return &Window{
		win:    gocv.NewWindow(title),
		rotate: rotate180,
	}
}

// Render decodes the frame and shows it. WaitKey is required for highgui to
// actually repaint; 1ms keeps the loop effectively synchronous.
func (w *Window) Render(jpeg []byte) error {
	if w.closed {
		return ErrUnavailable
	}

	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer img.Close()
	if img.Empty() {
		return ErrDecode
	}

	if w.rotate {
		gocv.Rotate(img, &img, gocv.Rotate180Clockwise)
	}

	w.win.IMShow(img)
	w.win.WaitKey(1)
	if !w.win.IsOpen() {
		return ErrUnavailable
	}
	return nil
}

// Close destroys the window.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.win.Close()
}
