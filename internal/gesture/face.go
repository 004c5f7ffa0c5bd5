package gesture

import "github.com/ayusman/mudra/internal/detector"

// Expression is the facial expression recognized in one frame.
type Expression int

const (
	Neutral Expression = iota
	Smile
	Sad
	Angry
)

// Face classifier thresholds, in normalized image units.
const (
	AngryBrowGap    = 0.028
	AngryMouthMax   = 0.035
	SmileMouthMin   = 0.012
	SmileMouthMax   = 0.05
	SmileCornerLift = 0.005
	SadMouthMin     = 0.055
	MouthOpenMin    = 0.025
)

var expressionNames = [...]string{
	Neutral: "neutral",
	Smile:   "smile",
	Sad:     "sad",
	Angry:   "angry",
}

func (e Expression) String() string {
	if e < 0 || int(e) >= len(expressionNames) {
		return "unknown"
	}
	return expressionNames[e]
}

// MarshalText encodes the expression by name.
func (e Expression) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// FaceAngry reports lowered brows over a closed mouth.
func FaceAngry(face *detector.FaceLandmarks) bool {
	p := face.Points
	left := p[detector.LeftEyeTop].Y - p[detector.LeftEyebrow].Y
	right := p[detector.RightEyeTop].Y - p[detector.RightEyebrow].Y
	brow := (left + right) / 2

	return brow < AngryBrowGap && face.MouthGap() < AngryMouthMax
}

// FaceSmiling reports slightly parted lips with at least one corner raised
// above the mouth's vertical centre.
func FaceSmiling(face *detector.FaceLandmarks) bool {
	p := face.Points
	gap := face.MouthGap()
	center := (p[detector.UpperLipInner].Y + p[detector.LowerLipInner].Y) / 2

	leftRaised := p[detector.MouthCornerLeft].Y < center+SmileCornerLift
	rightRaised := p[detector.MouthCornerRight].Y < center+SmileCornerLift

	return SmileMouthMin < gap && gap < SmileMouthMax && (leftRaised || rightRaised)
}

// FaceSad reports a wide open mouth.
func FaceSad(face *detector.FaceLandmarks) bool {
	return face.MouthGap() > SadMouthMin
}

// MouthOpening reports whether the mouth is open at all. It is independent
// of the expression thresholds.
func MouthOpening(face *detector.FaceLandmarks) bool {
	return face.MouthGap() > MouthOpenMin
}

// ExpressionOf classifies a face. Angry is suppressed while any hand is open.
func ExpressionOf(face *detector.FaceLandmarks, anyHandOpen bool) Expression {
	switch {
	case !anyHandOpen && FaceAngry(face):
		return Angry
	case FaceSmiling(face):
		return Smile
	case FaceSad(face):
		return Sad
	default:
		return Neutral
	}
}
