// Package detector provides the pose source: hand landmark types and detector implementations.
package detector

import "math"

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

// Handedness is the estimator's left/right classification of a hand.
type Handedness string

const (
	HandLeft    Handedness = "Left"
	HandRight   Handedness = "Right"
	HandUnknown Handedness = "Unknown"
)

// ParseHandedness maps an estimator label to a Handedness.
// Anything other than "Left" or "Right" is Unknown.
func ParseHandedness(label string) Handedness {
	switch label {
	case "Left", "left":
		return HandLeft
	case "Right", "right":
		return HandRight
	default:
		return HandUnknown
	}
}

// Point3D represents a normalized landmark position. X and Y are in [0,1]
// relative to frame width and height; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one hand observation for a single frame.
// Slot is the hand's position in the frame's detection list and carries
// no identity beyond the current frame.
type HandLandmarks struct {
	Slot       int                   `json:"slot"`
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness Handedness            `json:"handedness"`
	Score      float64               `json:"score"`
}

// InFrame reports whether every landmark lies within the normalized frame.
func (h *HandLandmarks) InFrame() bool {
	for _, p := range h.Points {
		if !inUnit(p.X) || !inUnit(p.Y) {
			return false
		}
	}
	return true
}

// Clamped returns a copy with every X and Y clamped to [0,1].
// NaN coordinates become 0.
func (h HandLandmarks) Clamped() HandLandmarks {
	for i := range h.Points {
		h.Points[i].X = clampUnit(h.Points[i].X)
		h.Points[i].Y = clampUnit(h.Points[i].Y)
	}
	if h.Handedness == "" {
		h.Handedness = HandUnknown
	}
	return h
}

// Distance2D returns the planar Euclidean distance between two points.
func Distance2D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
