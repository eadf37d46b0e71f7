package game

import (
	"testing"

	"github.com/plus3/poseninja/pose"
	"github.com/stretchr/testify/assert"
)

func TestHandsSmoothing(t *testing.T) {
	h := newHarness(t, ModeDots, func(o *Options) { o.Menu = true })

	h.wrists(100, 100, true, 500, 400)
	h.tick(1)

	hands := h.hands()
	right := &hands.Points[pose.Right]
	left := &hands.Points[pose.Left]
	assert.True(t, hands.BothVisible())
	assert.InDelta(t, 100, right.X, 0.01, "first sighting snaps")
	assert.InDelta(t, 500, left.X, 0.01)
	assert.Zero(t, right.Speed)

	h.wrists(200, 100, true, 500, 400)
	h.tick(1)
	assert.InDelta(t, 120, right.X, 0.01)
	assert.InDelta(t, 100, right.PrevX, 0.01)
	assert.InDelta(t, 20*60, right.Speed, 1)

	h.wrists(200, 100, false, 0, 0)
	h.tick(1)
	assert.False(t, left.Visible)
	assert.True(t, right.Visible)

	t.Run("lost hand snaps when seen again", func(t *testing.T) {
		h.wrists(200, 100, true, 50, 60)
		h.tick(1)
		assert.InDelta(t, 50, left.X, 0.01)
		assert.InDelta(t, 60, left.Y, 0.01)
		assert.Zero(t, left.Speed)
	})
}

func TestHandsIgnoreLowScores(t *testing.T) {
	h := newHarness(t, ModeDots, func(o *Options) { o.Menu = true })

	var frame pose.Frame
	frame.Keypoints[pose.RightWrist] = pose.Keypoint{X: 0.5, Y: 0.5, Score: pose.DefaultThreshold}
	h.source.Set(frame)
	h.tick(1)

	assert.False(t, h.hands().Points[pose.Right].Visible)
}

func TestBladeFollowsForearm(t *testing.T) {
	p := &HandPoint{X: 100, Y: 100, HasElbow: true, ElbowX: 100, ElbowY: 160}
	seg := blade(p, 90)
	assert.Equal(t, Segment{AX: 100, AY: 100, BX: 100, BY: 10}, seg)

	t.Run("without elbow", func(t *testing.T) {
		p := &HandPoint{X: 100, Y: 100, PrevX: 90, PrevY: 80}
		assert.Equal(t, p.Swept(), blade(p, 90))
	})
}

func TestHandsBuildBladeFromElbow(t *testing.T) {
	h := newHarness(t, ModeSword, nil)
	a := h.arena()

	var frame pose.Frame
	frame.Keypoints[pose.RightWrist] = pose.Keypoint{X: 300 / a.W, Y: 200 / a.H, Score: 0.9}
	frame.Keypoints[pose.RightElbow] = pose.Keypoint{X: 300 / a.W, Y: 300 / a.H, Score: 0.9}
	h.source.Set(frame)
	h.tick(1)

	right := &h.hands().Points[pose.Right]
	assert.True(t, right.HasElbow)
	assert.InDelta(t, 200-90, right.Blade.BY, 0.1)
	assert.InDelta(t, 300, right.Blade.BX, 0.1)
}
