// Package assets loads the reaction images, animations and the audio cue
// from an asset directory.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
)

// ErrUnavailable is returned when an optional asset is missing or unreadable.
var ErrUnavailable = errors.New("asset unavailable")

// Blank frame size used for missing static images.
const (
	BlankWidth  = 640
	BlankHeight = 480
)

// Static image names.
const (
	Neutral = "neutral"
	Smile   = "smile"
	Sad     = "sad"
	Angry   = "angry"
	Clasped = "clasped"
	Salute  = "salute"
)

// StaticNames lists every static image the library loads.
var StaticNames = []string{Neutral, Smile, Sad, Angry, Clasped, Salute}

// Asset file names.
const (
	ThumbsUpFile  = "thumbs_up.gif"
	CompositeFile = "composite.gif"
	CueFile       = "cue.mp3"
)

// Library holds decoded assets in BGR order. It is read-only after Load.
type Library struct {
	statics   map[string]gocv.Mat
	thumbsUp  []gocv.Mat
	composite []gocv.Mat
	cuePath   string
	missing   []error
}

// Load decodes every asset under dir. Missing files never fail the load:
// static images are replaced by blank frames and missing animations or the
// cue are recorded and reported by Missing.
func Load(dir string) *Library {
	lib := &Library{
		statics: make(map[string]gocv.Mat, len(StaticNames)),
	}

	for _, name := range StaticNames {
		path := filepath.Join(dir, name+".png")
		img := gocv.IMRead(path, gocv.IMReadColor)
		if img.Empty() {
			img.Close()
			lib.missing = append(lib.missing, fmt.Errorf("%s: %w", path, ErrUnavailable))
			img = gocv.NewMatWithSize(BlankHeight, BlankWidth, gocv.MatTypeCV8UC3)
		}
		lib.statics[name] = img
	}

	var err error
	if lib.thumbsUp, err = LoadGIF(filepath.Join(dir, ThumbsUpFile)); err != nil {
		lib.missing = append(lib.missing, err)
	}
	if lib.composite, err = LoadGIF(filepath.Join(dir, CompositeFile)); err != nil {
		lib.missing = append(lib.missing, err)
	}

	cue := filepath.Join(dir, CueFile)
	if _, err := os.Stat(cue); err != nil {
		lib.missing = append(lib.missing, fmt.Errorf("%s: %w", cue, ErrUnavailable))
	} else {
		lib.cuePath = cue
	}

	return lib
}

// Missing returns one error per asset that could not be loaded.
func (l *Library) Missing() []error { return l.missing }

// Static returns the named static image, falling back to neutral.
func (l *Library) Static(name string) gocv.Mat {
	if img, ok := l.statics[name]; ok {
		return img
	}
	return l.statics[Neutral]
}

// ThumbsUp returns the thumbs-up animation frames, possibly none.
func (l *Library) ThumbsUp() []gocv.Mat { return l.thumbsUp }

// Composite returns the composite animation frames, possibly none.
func (l *Library) Composite() []gocv.Mat { return l.composite }

// CuePath returns the audio cue path or ErrUnavailable.
func (l *Library) CuePath() (string, error) {
	if l.cuePath == "" {
		return "", fmt.Errorf("%s: %w", CueFile, ErrUnavailable)
	}
	return l.cuePath, nil
}

// Close releases every decoded frame.
func (l *Library) Close() error {
	for name, img := range l.statics {
		img.Close()
		delete(l.statics, name)
	}
	for _, f := range l.thumbsUp {
		f.Close()
	}
	for _, f := range l.composite {
		f.Close()
	}
	l.thumbsUp, l.composite = nil, nil
	return nil
}

// LoadGIF decodes every frame of an animated GIF into full-size BGR Mats,
// applying each frame's disposal method.
func LoadGIF(path string) ([]gocv.Mat, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, ErrUnavailable)
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %v: %w", path, err, ErrUnavailable)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("%s has no frames: %w", path, ErrUnavailable)
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)

	frames := make([]gocv.Mat, 0, len(g.Image))
	for i, frame := range g.Image {
		var previous *image.RGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			previous = image.NewRGBA(bounds)
			draw.Draw(previous, bounds, canvas, bounds.Min, draw.Src)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		mat, err := gocv.ImageToMatRGB(canvas)
		if err != nil {
			for _, m := range frames {
				m.Close()
			}
			return nil, fmt.Errorf("convert frame %d of %s: %w", i, path, err)
		}
		frames = append(frames, mat)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			draw.Draw(canvas, bounds, previous, bounds.Min, draw.Src)
		}
	}

	return frames, nil
}
