// Package gesture turns per-frame hand observations into debounced gesture events.
package gesture

import "github.com/ayusman/mudra/internal/detector"

// Side is the half of the screen a hand appears in. It comes from the hand's
// position, not from the estimator's handedness label.
type Side string

const (
	SideLeft  Side = "Left"
	SideRight Side = "Right"
)

// FrameMidpoint is the normalized x coordinate splitting the screen in two.
const FrameMidpoint = 0.5

// SideLandmark is the landmark whose x coordinate decides a hand's Side.
const SideLandmark = detector.MiddleTip

// fingerJoints pairs each non-thumb fingertip with its second knuckle.
var fingerJoints = [4][2]int{
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
}

// Reading is the instantaneous classification of one hand.
type Reading struct {
	Open    bool `json:"open"`
	Fingers int  `json:"fingers"`
	Side    Side `json:"side"`
}

// Classify maps one observation to a Reading. It is pure: out of range
// coordinates are clamped first, and an Unknown handedness never counts the
// thumb. A hand reaching outside the frame is treated as Unknown.
func Classify(hand detector.HandLandmarks) Reading {
	if !hand.InFrame() {
		hand.Handedness = detector.HandUnknown
	}
	h := hand.Clamped()
	return Reading{
		Open:    isOpen(&h),
		Fingers: countFingers(&h),
		Side:    sideOf(&h),
	}
}

// isOpen compares the middle fingertip to the middle finger base; smaller y is up.
func isOpen(h *detector.HandLandmarks) bool {
	return h.Points[detector.MiddleTip].Y < h.Points[detector.MiddleMCP].Y
}

func countFingers(h *detector.HandLandmarks) int {
	count := 0
	for _, j := range fingerJoints {
		if h.Points[j[0]].Y < h.Points[j[1]].Y {
			count++
		}
	}

	tip := h.Points[detector.ThumbTip].X
	base := h.Points[detector.ThumbIP].X
	switch h.Handedness {
	case detector.HandRight:
		if tip < base {
			count++
		}
	case detector.HandLeft:
		if tip > base {
			count++
		}
	}

	return count
}

func sideOf(h *detector.HandLandmarks) Side {
	if h.Points[SideLandmark].X < FrameMidpoint {
		return SideLeft
	}
	return SideRight
}

// Summary aggregates every hand in a frame.
type Summary struct {
	Hands   int `json:"hands"`
	Fingers int `json:"fingers"`
}

// Summarize classifies each hand and totals hands and raised fingers.
func Summarize(hands []detector.HandLandmarks) Summary {
	s := Summary{Hands: len(hands)}
	for _, h := range hands {
		s.Fingers += Classify(h).Fingers
	}
	return s
}
