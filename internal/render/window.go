package render

import "gocv.io/x/gocv"

// Window titles.
const (
	CameraWindow     = "Camera"
	ExpressionWindow = "Expression"
)

// Windows shows the live camera view next to the reaction image.
type Windows struct {
	camera     *gocv.Window
	expression *gocv.Window
}

// NewWindows opens both windows.
func NewWindows() *Windows {
	return &Windows{
		camera:     gocv.NewWindow(CameraWindow),
		expression: gocv.NewWindow(ExpressionWindow),
	}
}

// Show presents both images and reports whether the user pressed q.
func (w *Windows) Show(camera, expression gocv.Mat) (quit bool) {
	if !camera.Empty() {
		w.camera.IMShow(camera)
	}
	if !expression.Empty() {
		w.expression.IMShow(expression)
	}
	return w.expression.WaitKey(1)&0xFF == 'q'
}

// Close destroys both windows.
func (w *Windows) Close() error {
	if err := w.camera.Close(); err != nil {
		return err
	}
	return w.expression.Close()
}
