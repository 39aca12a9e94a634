package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
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

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PointingLandmarks returns a right hand with the index finger extended
// upward and the fingertip at (x, y) in normalized frame coordinates.
// The remaining fingers are curled.
func PointingLandmarks(x, y float64) HandLandmarks {
	h := curledHand(x, y+0.25)

	h.Points[IndexMCP] = Point3D{X: x, Y: y + 0.18, Z: 0.0}
	h.Points[IndexPIP] = Point3D{X: x, Y: y + 0.12, Z: 0.0}
	h.Points[IndexDIP] = Point3D{X: x, Y: y + 0.06, Z: 0.0}
	h.Points[IndexTip] = Point3D{X: x, Y: y, Z: 0.0}

	return h
}

// FistLandmarks returns a right hand with every finger curled, the index
// fingertip at (x, y). The fingertip sits below its PIP joint, so the hand
// does not signal drawing.
func FistLandmarks(x, y float64) HandLandmarks {
	h := curledHand(x, y+0.10)

	h.Points[IndexMCP] = Point3D{X: x, Y: y - 0.03, Z: -0.02}
	h.Points[IndexPIP] = Point3D{X: x, Y: y - 0.05, Z: -0.05}
	h.Points[IndexDIP] = Point3D{X: x - 0.02, Y: y - 0.02, Z: -0.04}
	h.Points[IndexTip] = Point3D{X: x, Y: y, Z: -0.02}

	return h
}

// curledHand lays out a right hand with the wrist at (x, wristY) and the
// thumb, middle, ring and pinky fingers curled toward the palm.
func curledHand(x, wristY float64) HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: x, Y: wristY, Z: 0.0}

	h.Points[ThumbCMC] = Point3D{X: x + 0.05, Y: wristY - 0.05, Z: 0.0}
	h.Points[ThumbMCP] = Point3D{X: x + 0.07, Y: wristY - 0.09, Z: -0.01}
	h.Points[ThumbIP] = Point3D{X: x + 0.05, Y: wristY - 0.11, Z: -0.02}
	h.Points[ThumbTip] = Point3D{X: x + 0.02, Y: wristY - 0.11, Z: -0.03}

	fingers := [][4]int{
		{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
		{RingMCP, RingPIP, RingDIP, RingTip},
		{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
	}
	for i, f := range fingers {
		fx := x - 0.04*float64(i+1)
		h.Points[f[0]] = Point3D{X: fx, Y: wristY - 0.12, Z: -0.02}
		h.Points[f[1]] = Point3D{X: fx, Y: wristY - 0.14, Z: -0.05}
		h.Points[f[2]] = Point3D{X: fx - 0.02, Y: wristY - 0.12, Z: -0.04}
		h.Points[f[3]] = Point3D{X: fx - 0.03, Y: wristY - 0.10, Z: -0.02}
	}

	return h
}
