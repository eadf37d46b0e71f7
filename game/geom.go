package game

import "math"

// Segment is a line segment from A to B.
type Segment struct {
	AX, AY, BX, BY float32
}

func (s Segment) Len() float32 {
	return hypot(s.BX-s.AX, s.BY-s.AY)
}

// Distance returns how far (x, y) is from the closest point of s.
func (s Segment) Distance(x, y float32) float32 {
	dx := s.BX - s.AX
	dy := s.BY - s.AY
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return hypot(x-s.AX, y-s.AY)
	}

	t := ((x-s.AX)*dx + (y-s.AY)*dy) / lenSq
	t = min(max(t, 0), 1)
	return hypot(x-(s.AX+t*dx), y-(s.AY+t*dy))
}

func hypot(x, y float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y)))
}
