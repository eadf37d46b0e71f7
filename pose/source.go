package pose

import (
	"image"
	"sync"
)

// Source produces pose frames, usually from a background goroutine.
type Source interface {
	// Latest returns the newest frame. ok is false until the first frame
	// has been produced.
	Latest() (frame Frame, ok bool)
	Close() error
}

// Camera is implemented by sources that can also hand out the image the
// last frame was estimated from.
type Camera interface {
	Snapshot() image.Image
}

// Static is a Source whose frame is set by the caller.
type Static struct {
	mu    sync.Mutex
	frame Frame
	ok    bool
}

// NewStatic returns a Static already holding frame.
func NewStatic(frame Frame) *Static {
	return &Static{frame: frame, ok: true}
}

func (s *Static) Set(frame Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = frame
	s.ok = true
}

func (s *Static) Latest() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame, s.ok
}

func (s *Static) Close() error { return nil }
