// Package detector provides the hand landmark types delivered by the external
// hand detector and the interface used to obtain them from camera frames.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a landmark position. X and Y are normalized to [0, 1] relative
// to the captured frame; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Fingertip returns the index fingertip landmark.
func (h *HandLandmarks) Fingertip() Point3D {
	return h.Points[IndexTip]
}

// FingerBase returns the index finger PIP joint, the reference point used to
// decide whether the finger is extended.
func (h *HandLandmarks) FingerBase() Point3D {
	return h.Points[IndexPIP]
}

// Frame is the result of running the detector on one camera frame.
type Frame struct {
	Hands     []HandLandmarks `json:"hands"`
	Timestamp int64           `json:"timestamp"` // milliseconds
}

// FirstHand returns the first detected hand, or nil when the frame has none.
// Additional hands are ignored by the drawing pipeline.
func (f *Frame) FirstHand() *HandLandmarks {
	if f == nil || len(f.Hands) == 0 {
		return nil
	}
	return &f.Hands[0]
}
