package detector

// Face mesh landmark indices used by the expression classifiers.
// The mesh is MediaPipe's 468-point topology without iris refinement.
const (
	LeftEyebrow      = 70
	RightEyebrow     = 300
	LeftEyeTop       = 159
	RightEyeTop      = 386
	UpperLipInner    = 13
	LowerLipInner    = 14
	MouthCornerLeft  = 61
	MouthCornerRight = 291
	NumFaceLandmarks = 468
)

// FaceLandmarks represents the face mesh of a single detected face.
type FaceLandmarks struct {
	Points [NumFaceLandmarks]Point3D `json:"points"`
	Score  float64                   `json:"score"`
}

// MouthGap returns the vertical opening between the inner lips.
// Positive values mean the lower lip sits below the upper lip.
func (f *FaceLandmarks) MouthGap() float64 {
	return f.Points[LowerLipInner].Y - f.Points[UpperLipInner].Y
}
