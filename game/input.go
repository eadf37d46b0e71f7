package game

import (
	"time"

	"github.com/plus3/poseninja/ecs"
	"github.com/plus3/poseninja/pose"
)

// PoseSystem copies the newest frame of a pose source into HandInput.
type PoseSystem struct {
	Input ecs.Singleton[HandInput]

	source pose.Source
}

func NewPoseSystem(source pose.Source) *PoseSystem {
	return &PoseSystem{source: source}
}

func (s *PoseSystem) Execute(frame *ecs.UpdateFrame) {
	in := s.Input.Get()
	in.Frame, in.Has = s.source.Latest()
}

// AutopilotSystem drives the right wrist toward the nearest fruit or dot so
// the game can run without a player. The left wrist rests in a corner.
type AutopilotSystem struct {
	Arena   ecs.Singleton[Arena]
	Session ecs.Singleton[Session]
	Input   ecs.Singleton[HandInput]

	Targets ecs.Query[struct {
		*Position
		*Body
		Bomb *Bomb `ecs:"optional"`
	}]
	Buttons ecs.Query[struct{ *Button }]

	// Speed is the wrist speed in pixels per second.
	Speed float32

	x, y    float32
	started bool
}

func (s *AutopilotSystem) Execute(frame *ecs.UpdateFrame) {
	arena := s.Arena.Get()
	if !s.started {
		s.x, s.y = arena.W/2, arena.H*0.8
		s.started = true
	}

	gx, gy := arena.W/2, arena.H*0.8
	switch s.Session.Get().Phase {
	case PhasePlaying, PhaseTutorial:
		best := float32(-1)
		for t := range s.Targets.Values() {
			if t.Bomb != nil || t.Position.Y > arena.H {
				continue
			}
			d := hypot(t.Position.X-s.x, t.Position.Y-s.y)
			if best < 0 || d < best {
				best = d
				gx, gy = t.Position.X, t.Position.Y
			}
		}
	case PhaseGameOver:
		for b := range s.Buttons.Values() {
			if b.Action == ActionRetry {
				gx, gy = b.Rect.X+b.Rect.W/2, b.Rect.Y+b.Rect.H/2
			}
		}
	}

	step := s.Speed * float32(frame.DeltaTime)
	if d := hypot(gx-s.x, gy-s.y); d <= step || d == 0 {
		s.x, s.y = gx, gy
	} else {
		s.x += (gx - s.x) / d * step
		s.y += (gy - s.y) / d * step
	}

	in := s.Input.Get()
	in.Has = true
	in.Frame = pose.Frame{Captured: time.Now()}
	in.Frame.Keypoints[pose.RightWrist] = pose.Keypoint{X: s.x / arena.W, Y: s.y / arena.H, Score: 1}
	in.Frame.Keypoints[pose.LeftWrist] = pose.Keypoint{X: 0.05, Y: 0.95, Score: 1}
}

// HandsSystem smooths the visible wrists, maps them to the arena and builds
// the sword blades.
type HandsSystem struct {
	Arena    ecs.Singleton[Arena]
	Settings ecs.Singleton[Settings]
	Input    ecs.Singleton[HandInput]
	Hands    ecs.Singleton[Hands]
}

func (s *HandsSystem) Execute(frame *ecs.UpdateFrame) {
	arena := s.Arena.Get()
	settings := s.Settings.Get()
	in := s.Input.Get()
	hands := s.Hands.Get()
	dt := float32(frame.DeltaTime)

	var seen [2]bool
	if in.Has {
		for _, w := range in.Frame.Wrists(settings.Threshold) {
			p := &hands.Points[w.Side]
			p.smoother.Speed = settings.Smoothing
			if !p.Visible {
				p.smoother.Reset()
			}

			x, y := p.smoother.Update(w.Point.X*arena.W, w.Point.Y*arena.H)
			if p.Visible {
				p.PrevX, p.PrevY = p.X, p.Y
			} else {
				p.PrevX, p.PrevY = x, y
			}
			p.X, p.Y = x, y
			p.Speed = 0
			if dt > 0 {
				p.Speed = hypot(p.X-p.PrevX, p.Y-p.PrevY) / dt
			}

			p.HasElbow = w.ElbowVisible
			p.ElbowX, p.ElbowY = w.Elbow.X*arena.W, w.Elbow.Y*arena.H
			p.Visible = true
			seen[w.Side] = true
		}
	}

	for i := range hands.Points {
		p := &hands.Points[i]
		if !seen[i] {
			p.Visible = false
			p.BladeActive = false
			p.Speed = 0
			continue
		}
		p.Blade = blade(p, settings.BladeLength)
		p.BladeActive = settings.MinSwipeSpeed == 0 || p.Speed >= settings.MinSwipeSpeed
	}
}

// blade extends the forearm past the wrist when the elbow is tracked, and
// falls back to the swept wrist path otherwise.
func blade(p *HandPoint, length float32) Segment {
	if p.HasElbow {
		dx, dy := p.X-p.ElbowX, p.Y-p.ElbowY
		if d := hypot(dx, dy); d > 0 {
			return Segment{AX: p.X, AY: p.Y, BX: p.X + dx/d*length, BY: p.Y + dy/d*length}
		}
	}
	return p.Swept()
}
