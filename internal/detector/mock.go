package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return withSlots(m.hands), nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// ScriptedDetector replays a fixed sequence of frames, one per Detect call.
// After the last frame it returns ErrNoFrame.
type ScriptedDetector struct {
	mu     sync.Mutex
	frames [][]HandLandmarks
	next   int
}

// NewScriptedDetector creates a detector that replays frames in order.
func NewScriptedDetector(frames ...[]HandLandmarks) *ScriptedDetector {
	return &ScriptedDetector{frames: frames}
}

// Detect returns the next scripted frame.
func (s *ScriptedDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.frames) {
		return nil, ErrNoFrame
	}
	hands := s.frames[s.next]
	s.next++
	return withSlots(hands), nil
}

// Remaining returns how many frames have not been replayed yet.
func (s *ScriptedDetector) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames) - s.next
}

// Close is a no-op.
func (s *ScriptedDetector) Close() error {
	return nil
}

func withSlots(hands []HandLandmarks) []HandLandmarks {
	if hands == nil {
		return nil
	}
	out := make([]HandLandmarks, len(hands))
	for i, h := range hands {
		h.Slot = i
		out[i] = h
	}
	return out
}

// Finger selects one digit in a preset pose.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
)

// raiseOrder is the order fingers are raised in by FingersLandmarks.
var raiseOrder = []Finger{Index, Middle, Ring, Pinky, Thumb}

// FingersLandmarks returns a hand centered horizontally at centerX with the
// first n fingers of index, middle, ring, pinky, thumb raised.
func FingersLandmarks(n int, handedness Handedness, centerX float64) HandLandmarks {
	raised := make(map[Finger]bool, n)
	for i := 0; i < n && i < len(raiseOrder); i++ {
		raised[raiseOrder[i]] = true
	}
	return PoseLandmarks(raised, handedness, centerX)
}

// OpenPalmLandmarks returns a right hand with all five fingers raised.
func OpenPalmLandmarks() HandLandmarks {
	return FingersLandmarks(5, HandRight, 0.5)
}

// FistLandmarks returns a right hand with every finger curled.
func FistLandmarks() HandLandmarks {
	return FingersLandmarks(0, HandRight, 0.5)
}

// PoseLandmarks builds a synthetic upright hand. Raised fingers have their tips
// well above the knuckles; curled fingers fold the tip below the second knuckle.
// The thumb extends away from the palm on the side matching handedness.
func PoseLandmarks(raised map[Finger]bool, handedness Handedness, centerX float64) HandLandmarks {
	h := HandLandmarks{
		Handedness: handedness,
		Score:      0.95,
	}

	// Thumb and index sit on the same side of the palm.
	dir := -1.0
	if handedness == HandLeft {
		dir = 1.0
	}

	h.Points[Wrist] = Point3D{X: centerX, Y: 0.80}

	fingers := []struct {
		finger Finger
		mcp    int
		dx     float64
	}{
		{Index, IndexMCP, 0.05},
		{Middle, MiddleMCP, 0.0},
		{Ring, RingMCP, -0.04},
		{Pinky, PinkyMCP, -0.08},
	}
	for _, f := range fingers {
		x := centerX + dir*f.dx
		h.Points[f.mcp] = Point3D{X: x, Y: 0.65}
		if raised[f.finger] {
			h.Points[f.mcp+1] = Point3D{X: x, Y: 0.55}
			h.Points[f.mcp+2] = Point3D{X: x, Y: 0.45}
			h.Points[f.mcp+3] = Point3D{X: x, Y: 0.35}
		} else {
			h.Points[f.mcp+1] = Point3D{X: x, Y: 0.60, Z: -0.05}
			h.Points[f.mcp+2] = Point3D{X: x, Y: 0.66, Z: -0.04}
			h.Points[f.mcp+3] = Point3D{X: x, Y: 0.70, Z: -0.02}
		}
	}

	// The thumb moves laterally rather than vertically.
	h.Points[ThumbCMC] = Point3D{X: centerX + dir*0.04, Y: 0.76}
	h.Points[ThumbMCP] = Point3D{X: centerX + dir*0.07, Y: 0.72}
	h.Points[ThumbIP] = Point3D{X: centerX + dir*0.10, Y: 0.68}
	if raised[Thumb] {
		h.Points[ThumbTip] = Point3D{X: centerX + dir*0.16, Y: 0.64}
	} else {
		h.Points[ThumbTip] = Point3D{X: centerX + dir*0.05, Y: 0.66}
	}

	return h
}
