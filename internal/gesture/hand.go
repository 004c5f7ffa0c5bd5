// Package gesture classifies single-frame face and hand landmarks into
// discrete expressions and hand gestures. Everything here is stateless.
package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// Class is the gesture recognized for one hand in one frame.
type Class int

const (
	// None means no hand, or no special gesture among the hands.
	None Class = iota
	// Open is a hand with the thumb and pinky spread apart.
	Open
	// Closed is any hand that matches nothing else.
	Closed
	// ThumbsUp is a raised thumb over folded fingers.
	ThumbsUp
	// Salute is a flat, raised hand with the fingers held together.
	Salute
)

// Hand classifier thresholds, in normalized image units.
const (
	OpenSpread       = 0.12
	ClaspedWristDist = 0.25
	ThumbRise        = 0.02
	FoldSlack        = 0.015
	SaluteTogether   = 0.08
	SaluteRaise      = 0.15
	SaluteLevel      = 0.10
)

var classNames = [...]string{
	None:     "none",
	Open:     "open",
	Closed:   "closed",
	ThumbsUp: "thumbs_up",
	Salute:   "salute",
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// MarshalText encodes the class by name.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Special reports whether c takes part in the held-gesture display path.
func (c Class) Special() bool {
	return c == ThumbsUp || c == Salute
}

// fingers lists the tip and PIP joint of each non-thumb finger.
var fingers = [4][2]int{
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
}

// HandOpen reports whether the thumb and pinky tips are spread horizontally.
func HandOpen(hand *detector.HandLandmarks) bool {
	p := hand.Points
	return math.Abs(p[detector.PinkyTip].X-p[detector.ThumbTip].X) > OpenSpread
}

// HandsClasped reports whether the wrists of the first two hands are close.
// Fewer than two hands are never clasped.
func HandsClasped(hands []detector.HandLandmarks) bool {
	if len(hands) < 2 {
		return false
	}
	return detector.Distance2D(hands[0].Points[detector.Wrist], hands[1].Points[detector.Wrist]) < ClaspedWristDist
}

// IsThumbsUp reports whether the thumb points up above folded fingers and is
// the highest fingertip.
func IsThumbsUp(hand *detector.HandLandmarks) bool {
	p := hand.Points
	tip := p[detector.ThumbTip].Y

	if !(tip < p[detector.ThumbIP].Y-ThumbRise && p[detector.ThumbIP].Y < p[detector.ThumbMCP].Y) {
		return false
	}

	for _, f := range fingers {
		if !(p[f[0]].Y > p[f[1]].Y-FoldSlack) {
			return false
		}
	}

	for _, f := range fingers {
		if !(tip < p[f[0]].Y) {
			return false
		}
	}
	return true
}

// IsSalute reports whether all four fingers are extended, held together,
// level with each other and raised well above the wrist.
func IsSalute(hand *detector.HandLandmarks) bool {
	p := hand.Points

	for _, f := range fingers {
		if !(p[f[0]].Y < p[f[1]].Y) {
			return false
		}
	}

	for i := 0; i < len(fingers)-1; i++ {
		if math.Abs(p[fingers[i][0]].X-p[fingers[i+1][0]].X) >= SaluteTogether {
			return false
		}
	}

	if !(p[detector.MiddleTip].Y < p[detector.Wrist].Y-SaluteRaise) {
		return false
	}

	return math.Abs(p[detector.IndexTip].Y-p[detector.PinkyTip].Y) < SaluteLevel
}

// Classify returns the gesture of a single hand. Salute wins over ThumbsUp,
// which wins over Open; anything else is Closed.
func Classify(hand *detector.HandLandmarks) Class {
	switch {
	case IsSalute(hand):
		return Salute
	case IsThumbsUp(hand):
		return ThumbsUp
	case HandOpen(hand):
		return Open
	default:
		return Closed
	}
}
