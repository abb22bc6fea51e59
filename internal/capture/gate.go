package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Gate defaults
const (
	// DefaultGateThreshold is the percentage of changed pixels that forces
	// a fresh detection.
	DefaultGateThreshold = 0.5
	// DefaultMaxSkip bounds how many consecutive frames may reuse the last
	// detection.
	DefaultMaxSkip = 3

	gateBlurSize      = 21
	gateDiffThreshold = 25
)

// Gate decides whether a frame differs enough from the last detected frame
// to be worth running the pose estimator again. Still frames reuse the
// previous observations, but never more than maxSkip in a row so that hold
// timers keep seeing fresh poses.
type Gate struct {
	threshold float64
	maxSkip   int

	mu       sync.Mutex
	baseline gocv.Mat
	ready    bool
	skipped  int
}

// NewGate creates a Gate. A non-positive threshold disables gating: every
// frame is detected.
func NewGate(threshold float64, maxSkip int) *Gate {
	if maxSkip < 0 {
		maxSkip = 0
	}
	return &Gate{
		threshold: threshold,
		maxSkip:   maxSkip,
		baseline:  gocv.NewMat(),
	}
}

// Changed reports whether frame should be detected, and the percentage of
// pixels that changed since the last detected frame.
func (g *Gate) Changed(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return true, 0
	}
	if g.threshold <= 0 {
		return true, 100
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: gateBlurSize, Y: gateBlurSize}, 0, 0, gocv.BorderDefault)

	if !g.ready || blurred.Rows() != g.baseline.Rows() || blurred.Cols() != g.baseline.Cols() {
		g.accept(blurred)
		return true, 100
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.baseline, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, gateDiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100.0

	if changed > g.threshold || g.skipped >= g.maxSkip {
		g.accept(blurred)
		return true, changed
	}
	g.skipped++
	return false, changed
}

func (g *Gate) accept(blurred gocv.Mat) {
	blurred.CopyTo(&g.baseline)
	g.ready = true
	g.skipped = 0
}

// Reset forgets the baseline; the next frame is always detected.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ready = false
	g.skipped = 0
}

// Close releases the baseline frame.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.baseline.Close()
	g.baseline = gocv.NewMat()
	g.ready = false
}
