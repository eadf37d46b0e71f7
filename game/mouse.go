package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/poseninja/pose"
)

// MouseSource turns the cursor into the right wrist so the game can be
// played without a camera. Holding the left button also shows the left
// wrist a little to the side, which is enough for the tutorial.
//
// Latest must be called from the ebiten update goroutine.
type MouseSource struct {
	W, H int
}

func (m *MouseSource) Latest() (pose.Frame, bool) {
	x, y := ebiten.CursorPosition()
	nx := float32(x) / float32(m.W)
	ny := float32(y) / float32(m.H)

	frame := pose.Frame{Captured: time.Now()}
	frame.Keypoints[pose.RightWrist] = pose.Keypoint{X: nx, Y: ny, Score: 1}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		frame.Keypoints[pose.LeftWrist] = pose.Keypoint{X: nx - 0.1, Y: ny, Score: 1}
	}
	return frame, true
}

func (m *MouseSource) Close() error { return nil }
