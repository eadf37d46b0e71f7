package game

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/poseninja/ecs"
	"github.com/plus3/poseninja/ecs/debugui"
	"github.com/plus3/poseninja/pose"
)

// spawnSessionWindow adds an overlay window with the live session, hand
// and spawner state.
func spawnSessionWindow(storage *ecs.Storage) {
	session := ecs.NewSingleton[Session](storage)
	hands := ecs.NewSingleton[Hands](storage)
	spawner := ecs.NewSingleton[Spawner](storage)
	tutorial := ecs.NewSingleton[Tutorial](storage)

	storage.Spawn(debugui.ImguiItem{
		Name: "session",
		Render: func() {
			imgui.SetNextWindowPosV(imgui.NewVec2(10, 380), imgui.CondOnce, imgui.NewVec2(0, 0))
			imgui.SetNextWindowSizeV(imgui.NewVec2(320, 240), imgui.CondOnce)
			if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
				imgui.End()
				return
			}

			s := session.Get()
			imgui.Text(fmt.Sprintf("Id: %s", s.ID))
			imgui.Text(fmt.Sprintf("Mode: %s  Phase: %s", s.Mode, s.Phase))
			imgui.Text(fmt.Sprintf("Score: %d  Lives: %d", s.Score, s.Lives))
			imgui.Text(fmt.Sprintf("Elapsed: %.1fs  Round left: %.1fs", s.Elapsed, s.RoundLeft))
			imgui.Text(fmt.Sprintf("Games: %d", s.Games))

			imgui.Separator()
			sp := spawner.Get()
			imgui.Text(fmt.Sprintf("Waves: %d  Interval: %.2fs  Next: %.2fs", sp.Waves, sp.Interval, sp.Timer))
			if s.Phase == PhaseTutorial {
				imgui.Text(fmt.Sprintf("Tutorial step: %d", tutorial.Get().Step))
			}

			imgui.Separator()
			h := hands.Get()
			for _, side := range []pose.Side{pose.Left, pose.Right} {
				p := &h.Points[side]
				if !p.Visible {
					imgui.Text(fmt.Sprintf("%s: not tracked", side))
					continue
				}
				imgui.Text(fmt.Sprintf("%s: (%.0f, %.0f) %.0f px/s blade=%t", side, p.X, p.Y, p.Speed, p.BladeActive))
			}

			imgui.End()
		},
	})
}
