package app

import (
	"context"
	"errors"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/metrics"
)

// ErrSourceUnavailable wraps any failure of the pose source. It ends the
// session.
var ErrSourceUnavailable = errors.New("pose source unavailable")

// Source yields the hand observations of one frame per call, blocking until
// the frame is available.
type Source interface {
	Next(ctx context.Context) ([]detector.HandLandmarks, error)
	Close() error
}

// FrameSink receives each camera frame encoded as JPEG.
type FrameSink interface {
	PublishFrame(jpeg []byte)
}

// CameraSource reads webcam frames and runs the pose estimator on them.
// Frames the gate judges still reuse the previous observations.
type CameraSource struct {
	camera   capture.Camera
	detector detector.Detector
	gate     *capture.Gate
	metrics  *metrics.Metrics
	frames   FrameSink
	last     []detector.HandLandmarks
}

// NewCameraSource opens camera and returns a Source over it. gate and m may
// be nil.
func NewCameraSource(camera capture.Camera, d detector.Detector, gate *capture.Gate, m *metrics.Metrics) (*CameraSource, error) {
	if err := camera.Open(); err != nil {
		return nil, errors.Join(ErrSourceUnavailable, err)
	}
	return &CameraSource{
		camera:   camera,
		detector: d,
		gate:     gate,
		metrics:  m,
	}, nil
}

// WithFrames publishes every frame read to f.
func (s *CameraSource) WithFrames(f FrameSink) *CameraSource {
	s.frames = f
	return s
}

// Next reads one frame and returns its hands.
func (s *CameraSource) Next(ctx context.Context) ([]detector.HandLandmarks, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frame, err := s.camera.ReadFrame()
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	if s.frames != nil {
		if buf, err := gocv.IMEncode(".jpg", *frame); err == nil {
			s.frames.PublishFrame(append([]byte(nil), buf.GetBytes()...))
			buf.Close()
		}
	}

	if s.gate != nil {
		if changed, _ := s.gate.Changed(frame); !changed && s.last != nil {
			s.metrics.Frame(false, len(s.last), 0)
			return s.last, nil
		}
	}

	start := time.Now()
	hands, err := s.detector.Detect(frame)
	if err != nil {
		return nil, err
	}
	s.metrics.Frame(true, len(hands), time.Since(start))
	s.last = hands
	if s.last == nil {
		s.last = []detector.HandLandmarks{}
	}
	return hands, nil
}

// Close releases the camera, the pose estimator and the gate.
func (s *CameraSource) Close() error {
	if s.gate != nil {
		s.gate.Close()
	}
	return errors.Join(s.camera.Close(), s.detector.Close())
}

// DetectorSource polls a detector without a camera. It replays scripted
// detectors in tests and demos.
type DetectorSource struct {
	detector detector.Detector
	interval time.Duration
}

// NewDetectorSource returns a Source that calls d once per frame, waiting
// interval between calls.
func NewDetectorSource(d detector.Detector, interval time.Duration) *DetectorSource {
	return &DetectorSource{detector: d, interval: interval}
}

// Next returns the detector's next frame.
func (s *DetectorSource) Next(ctx context.Context) ([]detector.HandLandmarks, error) {
	if s.interval > 0 {
		timer := time.NewTimer(s.interval)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.detector.Detect(nil)
}

// Close closes the detector.
func (s *DetectorSource) Close() error {
	return s.detector.Close()
}
