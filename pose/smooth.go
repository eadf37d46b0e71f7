package pose

// DefaultSmoothing is the fraction of the remaining distance a Smoother
// covers per update.
const DefaultSmoothing float32 = 0.2

// Smoother eases a point toward noisy targets.
type Smoother struct {
	Speed float32

	x, y   float32
	primed bool
}

func NewSmoother(speed float32) *Smoother {
	return &Smoother{Speed: speed}
}

// Update moves the point toward (x, y) and returns its new position. The
// first update after a Reset jumps straight to the target.
func (s *Smoother) Update(x, y float32) (float32, float32) {
	if !s.primed {
		s.x, s.y = x, y
		s.primed = true
		return x, y
	}
	s.x += (x - s.x) * s.Speed
	s.y += (y - s.y) * s.Speed
	return s.x, s.y
}

// Reset forgets the tracked point, typically after the hand was lost.
func (s *Smoother) Reset() {
	s.primed = false
}

func (s *Smoother) Primed() bool {
	return s.primed
}
