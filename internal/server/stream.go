package server

import (
	"fmt"
	"net/http"
	"sync"
)

// Stream serves the most recent camera frame as MJPEG. The game loop owns
// the camera and publishes encoded frames into it.
type Stream struct {
	mu     sync.Mutex
	frame  []byte
	notify chan struct{}
}

// NewStream creates an empty Stream.
func NewStream() *Stream {
	return &Stream{notify: make(chan struct{})}
}

// PublishFrame replaces the current JPEG frame and wakes waiting clients.
func (s *Stream) PublishFrame(jpeg []byte) {
	s.mu.Lock()
	s.frame = jpeg
	close(s.notify)
	s.notify = make(chan struct{})
	s.mu.Unlock()
}

func (s *Stream) current() ([]byte, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame, s.notify
}

// ServeHTTP streams MJPEG frames to connected clients.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		frame, next := s.current()
		if frame != nil {
			fmt.Fprintf(w, "--frame\r\n")
			fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
			fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(frame))
			w.Write(frame)
			fmt.Fprintf(w, "\r\n")

			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}

		select {
		case <-r.Context().Done():
			return
		case <-next:
		}
	}
}
