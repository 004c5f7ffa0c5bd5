package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu     sync.Mutex
	result Result
	err    error
	calls  int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result.Hands = hands
}

// SetFace sets the face that will be returned by Detect. Pass nil for no face.
func (m *MockDetector) SetFace(face *FaceLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result.Face = face
}

// SetResult replaces the whole result returned by Detect.
func (m *MockDetector) SetResult(r Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = r
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured result or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return Result{}, m.err
	}
	return m.result, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// curledFingers places the four fingers folded toward the palm, tips at or
// below their PIP joints.
func curledFingers(lm *HandLandmarks) {
	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	lm.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.68, Z: -0.05}
	lm.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.70, Z: -0.04}
	lm.Points[IndexTip] = Point3D{X: 0.50, Y: 0.72, Z: -0.02}

	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.68, Z: -0.02}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.66, Z: -0.05}
	lm.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.68, Z: -0.04}
	lm.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}

	lm.Points[RingMCP] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}
	lm.Points[RingPIP] = Point3D{X: 0.45, Y: 0.68, Z: -0.05}
	lm.Points[RingDIP] = Point3D{X: 0.42, Y: 0.70, Z: -0.04}
	lm.Points[RingTip] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}

	lm.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}
	lm.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.70, Z: -0.05}
	lm.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.72, Z: -0.04}
	lm.Points[PinkyTip] = Point3D{X: 0.35, Y: 0.74, Z: -0.02}
}

// ThumbsUpLandmarks returns a preset HandLandmarks representing a thumbs up gesture.
// The thumb is extended upward while other fingers are curled.
func ThumbsUpLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended upward (pointing up, Y decreases going up)
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.65, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.50, Z: 0.0}
	landmarks.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	curledFingers(&landmarks)

	return landmarks
}

// FistLandmarks returns a preset HandLandmarks representing a closed fist.
// The thumb wraps across the curled fingers so it sits close to the pinky.
func FistLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.56, Y: 0.72, Z: -0.02}
	landmarks.Points[ThumbIP] = Point3D{X: 0.52, Y: 0.68, Z: -0.04}
	landmarks.Points[ThumbTip] = Point3D{X: 0.44, Y: 0.70, Z: -0.05}

	curledFingers(&landmarks)

	return landmarks
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm gesture.
// All fingers are extended and spread, the thumb out to the side.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.58, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.60, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.62, Y: 0.35, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.41, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.40, Y: 0.35, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.36, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.33, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.30, Y: 0.42, Z: 0.0}

	return landmarks
}

// SaluteLandmarks returns a preset HandLandmarks with a flat raised hand:
// fingers extended, held together and level, well above the wrist.
func SaluteLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb tucked against the palm
	landmarks.Points[ThumbCMC] = Point3D{X: 0.54, Y: 0.74, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.56, Y: 0.68, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.63, Z: 0.0}
	landmarks.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.60, Z: 0.0}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.66, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.56, Y: 0.47, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.56, Y: 0.40, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.52, Y: 0.65, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.52, Y: 0.53, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.52, Y: 0.45, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.52, Y: 0.38, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.48, Y: 0.66, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.48, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.48, Y: 0.47, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.48, Y: 0.40, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.45, Y: 0.58, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.44, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.44, Y: 0.43, Z: 0.0}

	return landmarks
}

// HandAt returns a copy of hand translated so its wrist sits at (x, y).
func HandAt(hand HandLandmarks, x, y float64) HandLandmarks {
	dx := x - hand.Points[Wrist].X
	dy := y - hand.Points[Wrist].Y
	for i := range hand.Points {
		hand.Points[i].X += dx
		hand.Points[i].Y += dy
	}
	return hand
}

// faceBase returns a face with every point at the centre and the features
// the classifiers read set to a relaxed, closed-mouth pose.
func faceBase() *FaceLandmarks {
	f := &FaceLandmarks{Score: 0.97}
	for i := range f.Points {
		f.Points[i] = Point3D{X: 0.5, Y: 0.5}
	}

	f.Points[LeftEyebrow] = Point3D{X: 0.42, Y: 0.30}
	f.Points[RightEyebrow] = Point3D{X: 0.58, Y: 0.30}
	f.Points[LeftEyeTop] = Point3D{X: 0.42, Y: 0.34}
	f.Points[RightEyeTop] = Point3D{X: 0.58, Y: 0.34}

	f.Points[UpperLipInner] = Point3D{X: 0.5, Y: 0.600}
	f.Points[LowerLipInner] = Point3D{X: 0.5, Y: 0.605}
	f.Points[MouthCornerLeft] = Point3D{X: 0.45, Y: 0.610}
	f.Points[MouthCornerRight] = Point3D{X: 0.55, Y: 0.610}
	return f
}

// NeutralFace returns a relaxed face with the mouth closed.
func NeutralFace() *FaceLandmarks {
	return faceBase()
}

// SmilingFace returns a face with slightly parted lips and raised corners.
func SmilingFace() *FaceLandmarks {
	f := faceBase()
	f.Points[LowerLipInner].Y = 0.62
	f.Points[MouthCornerLeft].Y = 0.59
	f.Points[MouthCornerRight].Y = 0.59
	return f
}

// SadFace returns a face with the mouth wide open.
func SadFace() *FaceLandmarks {
	f := faceBase()
	f.Points[LowerLipInner].Y = 0.67
	f.Points[MouthCornerLeft].Y = 0.66
	f.Points[MouthCornerRight].Y = 0.66
	return f
}

// AngryFace returns a face with lowered brows and a closed mouth.
func AngryFace() *FaceLandmarks {
	f := faceBase()
	f.Points[LeftEyebrow].Y = 0.32
	f.Points[RightEyebrow].Y = 0.32
	return f
}

// OpenMouthFace returns a face whose mouth is open past the mouth-opening
// threshold with the corners pulled down, so it reads as neutral.
func OpenMouthFace() *FaceLandmarks {
	f := faceBase()
	f.Points[LowerLipInner].Y = 0.63
	f.Points[MouthCornerLeft].Y = 0.66
	f.Points[MouthCornerRight].Y = 0.66
	return f
}
