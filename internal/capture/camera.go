// Package capture reads frames from a webcam through OpenCV.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Device defaults.
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480

	// DefaultBufferSize keeps a single queued frame so the preview lags
	// the camera by at most one frame.
	DefaultBufferSize = 1
)

var (
	// ErrCameraNotOpen is returned by ReadFrame before Open.
	ErrCameraNotOpen = errors.New("camera is not open")

	// ErrCaptureFailed is returned when the device stops delivering frames.
	ErrCaptureFailed = errors.New("capture failed")
)

// Camera is a frame source. ReadFrame hands ownership of the Mat to the
// caller.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
}

// Options configures a Webcam. Zero fields take the defaults.
type Options struct {
	DeviceID   int
	Width      int
	Height     int
	FPS        int
	BufferSize int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.BufferSize <= 0 {
		o.BufferSize = DefaultBufferSize
	}
	return o
}

// properties lists the capture properties requested on Open, in order.
func (o Options) properties() []property {
	return []property{
		{gocv.VideoCaptureFrameWidth, float64(o.Width)},
		{gocv.VideoCaptureFrameHeight, float64(o.Height)},
		{gocv.VideoCaptureFPS, float64(o.FPS)},
		{gocv.VideoCaptureBufferSize, float64(o.BufferSize)},
	}
}

type property struct {
	id    gocv.VideoCaptureProperties
	value float64
}

var _ Camera = (*Webcam)(nil)

// Webcam captures from a local video device.
type Webcam struct {
	opts Options

	mu sync.Mutex
	vc *gocv.VideoCapture
}

// NewWebcam returns a closed webcam for opts.
func NewWebcam(opts Options) *Webcam {
	return &Webcam{opts: opts.withDefaults()}
}

// Open starts the device. Backends that ignore a requested property keep
// their own value; frames are fitted downstream regardless of size.
func (w *Webcam) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.vc != nil {
		return nil
	}

	vc, err := gocv.OpenVideoCapture(w.opts.DeviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", w.opts.DeviceID, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return fmt.Errorf("open camera %d: %w", w.opts.DeviceID, ErrCaptureFailed)
	}
	for _, p := range w.opts.properties() {
		vc.Set(p.id, p.value)
	}

	w.vc = vc
	return nil
}

// Close releases the device. Closing a closed webcam is a no-op.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.vc == nil {
		return nil
	}
	err := w.vc.Close()
	w.vc = nil
	return err
}

// ReadFrame grabs the next frame. A failed or empty read wraps
// ErrCaptureFailed.
func (w *Webcam) ReadFrame() (*gocv.Mat, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.vc == nil {
		return nil, ErrCameraNotOpen
	}

	frame := gocv.NewMat()
	if !w.vc.Read(&frame) || frame.Empty() {
		frame.Close()
		return nil, fmt.Errorf("camera %d: %w", w.opts.DeviceID, ErrCaptureFailed)
	}
	return &frame, nil
}

// Mirror flips the frame horizontally in place.
func Mirror(frame *gocv.Mat) {
	if frame == nil || frame.Empty() {
		return
	}
	gocv.Flip(*frame, frame, 1)
}
