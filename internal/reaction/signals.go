// Package reaction turns per-frame landmark classifications into debounced,
// time-qualified events and picks the single display state to show.
//
// An Engine owns all mutable state. Each call to Step classifies one frame,
// updates the debouncers and the mouth pattern detector, then runs the pure
// display selector. Nothing here blocks or reads the wall clock; time is
// always passed in.
package reaction

import (
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// Signals is the classifier output for one frame.
type Signals struct {
	HasFace    bool               `json:"has_face"`
	Expression gesture.Expression `json:"expression"`
	MouthOpen  bool               `json:"mouth_open"`

	// Gesture is the special gesture seen this frame, or gesture.None. When
	// both hands show a special gesture the later hand wins.
	Gesture gesture.Class `json:"gesture"`

	Hands        int  `json:"hands"`
	OpenHands    int  `json:"open_hands"`
	Clasped      bool `json:"clasped"`
	SingleClosed bool `json:"single_closed"`
}

// Observe classifies one frame of landmarks.
func Observe(r detector.Result) Signals {
	sig := Signals{Hands: len(r.Hands)}

	for i := range r.Hands {
		switch c := gesture.Classify(&r.Hands[i]); {
		case c.Special():
			sig.Gesture = c
		case c == gesture.Open:
			sig.OpenHands++
		}
	}

	sig.Clasped = gesture.HandsClasped(r.Hands)
	sig.SingleClosed = len(r.Hands) == 1 && !gesture.HandOpen(&r.Hands[0])

	if r.Face != nil {
		sig.HasFace = true
		sig.MouthOpen = gesture.MouthOpening(r.Face)
		sig.Expression = gesture.ExpressionOf(r.Face, sig.OpenHands > 0)
	}

	return sig
}
