// Package render turns display states into images and presents them.
package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/assets"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/reaction"
)

// Library is the subset of the asset library the renderer needs.
type Library interface {
	Static(name string) gocv.Mat
	ThumbsUp() []gocv.Mat
	Composite() []gocv.Mat
}

// Renderer maps a display state to its reaction image.
type Renderer struct {
	lib Library
}

// NewRenderer creates a Renderer backed by lib.
func NewRenderer(lib Library) *Renderer {
	return &Renderer{lib: lib}
}

// Image returns the reaction image for d. The Mat belongs to the library
// and must not be closed by the caller. Animations without frames fall
// back to the neutral image.
func (r *Renderer) Image(d reaction.Display) gocv.Mat {
	switch d.Kind {
	case reaction.KindExpression:
		return r.lib.Static(d.Expression.String())
	case reaction.KindClasped:
		return r.lib.Static(assets.Clasped)
	case reaction.KindSalute:
		return r.lib.Static(assets.Salute)
	case reaction.KindThumbsUp:
		return frameOr(r.lib.ThumbsUp(), d.Frame, r.lib.Static(assets.Neutral))
	case reaction.KindComposite:
		return frameOr(r.lib.Composite(), d.Frame, r.lib.Static(assets.Neutral))
	default:
		return r.lib.Static(assets.Neutral)
	}
}

func frameOr(frames []gocv.Mat, i int, fallback gocv.Mat) gocv.Mat {
	if len(frames) == 0 {
		return fallback
	}
	if i < 0 {
		i = 0
	}
	return frames[i%len(frames)]
}

// Fit scales img to fit inside width x height while keeping its aspect
// ratio. The caller owns the returned Mat.
func Fit(img gocv.Mat, width, height int) gocv.Mat {
	out := gocv.NewMat()
	if img.Empty() || width <= 0 || height <= 0 {
		img.CopyTo(&out)
		return out
	}

	w, h := img.Cols(), img.Rows()
	scale := min(float64(height)/float64(h), float64(width)/float64(w))
	size := image.Pt(max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale)))

	gocv.Resize(img, &out, size, 0, 0, gocv.InterpolationLinear)
	return out
}

// handConnections are the bone segments of the 21-point hand model.
var handConnections = [][2]int{
	{detector.Wrist, detector.ThumbCMC}, {detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP}, {detector.ThumbIP, detector.ThumbTip},
	{detector.Wrist, detector.IndexMCP}, {detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP}, {detector.IndexDIP, detector.IndexTip},
	{detector.IndexMCP, detector.MiddleMCP}, {detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP}, {detector.MiddleDIP, detector.MiddleTip},
	{detector.MiddleMCP, detector.RingMCP}, {detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP}, {detector.RingDIP, detector.RingTip},
	{detector.RingMCP, detector.PinkyMCP}, {detector.Wrist, detector.PinkyMCP},
	{detector.PinkyMCP, detector.PinkyPIP}, {detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}

var (
	boneColor  = color.RGBA{R: 255, G: 255, B: 255}
	jointColor = color.RGBA{R: 255}
)

// DrawHands overlays the hand skeletons on frame.
func DrawHands(frame *gocv.Mat, hands []detector.HandLandmarks) {
	if frame == nil || frame.Empty() {
		return
	}
	w, h := float64(frame.Cols()), float64(frame.Rows())
	px := func(p detector.Point3D) image.Point {
		return image.Pt(int(p.X*w), int(p.Y*h))
	}

	for i := range hands {
		pts := &hands[i].Points
		for _, c := range handConnections {
			gocv.Line(frame, px(pts[c[0]]), px(pts[c[1]]), boneColor, 2)
		}
		for _, p := range pts {
			gocv.Circle(frame, px(p), 3, jointColor, -1)
		}
	}
}
