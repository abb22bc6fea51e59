// Package capture reads webcam frames using GoCV (OpenCV).
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")

	// ErrNoMoreFrames is returned by a non-looping MockCamera after its last frame.
	ErrNoMoreFrames = errors.New("no more frames")
)

// Config selects and shapes the capture device.
type Config struct {
	Device int  `yaml:"device"`
	Mirror bool `yaml:"mirror"`
	FPS    int  `yaml:"fps"`
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
}

// DefaultConfig returns the default capture settings: device 0, mirrored.
func DefaultConfig() Config {
	return Config{
		Device: 0,
		Mirror: true,
		FPS:    DefaultFPS,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

// Camera is a source of video frames.
type Camera interface {
	Open() error
	Close() error
	// ReadFrame returns the next frame. The caller closes the returned Mat.
	ReadFrame() (*gocv.Mat, error)
	FPS() int
	IsOpen() bool
}

// cameraImpl manages video capture from a camera device using GoCV.
type cameraImpl struct {
	config  Config
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
}

// NewCamera creates a Camera for the configured device. Zero sizes and
// rates fall back to the defaults.
func NewCamera(config Config) Camera {
	if config.FPS <= 0 {
		config.FPS = DefaultFPS
	}
	if config.Width <= 0 || config.Height <= 0 {
		config.Width, config.Height = DefaultWidth, DefaultHeight
	}
	return &cameraImpl{config: config}
}

// Open opens the camera for capturing frames.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.config.Device)
	if err != nil {
		return err
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.config.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.config.Height))
	capture.Set(gocv.VideoCaptureFPS, float64(c.config.FPS))

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame, mirrored horizontally when configured so
// that the player's right hand appears on the right of the image.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	if c.config.Mirror {
		return Mirror(&mat), nil
	}
	return &mat, nil
}

// FPS returns the configured capture rate.
func (c *cameraImpl) FPS() int {
	return c.config.FPS
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// Mirror flips src around the vertical axis, closes it and returns the
// flipped copy.
func Mirror(src *gocv.Mat) *gocv.Mat {
	flipped := gocv.NewMat()
	gocv.Flip(*src, &flipped, 1)
	src.Close()
	return &flipped
}
