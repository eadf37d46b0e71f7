package game

import (
	"path/filepath"
	"testing"

	"github.com/plus3/poseninja/config"
	"github.com/plus3/poseninja/ecs"
	"github.com/plus3/poseninja/pose"
	"github.com/plus3/poseninja/scores"
	"github.com/plus3/poseninja/sfx"
	"github.com/stretchr/testify/require"
)

// recorder is an sfx.Player that remembers every cue.
type recorder struct {
	played []sfx.Cue
}

func (r *recorder) Play(cue sfx.Cue) { r.played = append(r.played, cue) }

type harness struct {
	t      *testing.T
	world  *World
	source *pose.Static
	sounds *recorder
	table  *scores.Table
	path   string
}

// newHarness builds a world fed by a static pose source with no visible
// wrists. Extra options can be adjusted through tweak.
func newHarness(t *testing.T, mode Mode, tweak func(*Options)) *harness {
	t.Helper()

	h := &harness{
		t:      t,
		source: pose.NewStatic(pose.Frame{}),
		sounds: &recorder{},
		table:  &scores.Table{},
		path:   filepath.Join(t.TempDir(), "scores.txt"),
	}
	opts := Options{
		Config:     config.Default(),
		Mode:       mode,
		Source:     h.source,
		Player:     h.sounds,
		HighScores: h.table,
		ScoresPath: h.path,
		Seed:       7,
		SessionID:  "test",
	}
	if tweak != nil {
		tweak(&opts)
	}
	h.world = NewWorld(opts)
	return h
}

func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.world.Tick()
	}
}

func (h *harness) session() *Session { return h.world.Session() }

func (h *harness) arena() *Arena {
	return ecs.NewSingleton[Arena](h.world.Storage).Get()
}

func (h *harness) hands() *Hands {
	return ecs.NewSingleton[Hands](h.world.Storage).Get()
}

// wrists shows the right wrist at (rx, ry) and, when left is set, the left
// wrist at (lx, ly). Coordinates are in arena pixels.
func (h *harness) wrists(rx, ry float32, left bool, lx, ly float32) {
	a := h.arena()
	var frame pose.Frame
	frame.Keypoints[pose.RightWrist] = pose.Keypoint{X: rx / a.W, Y: ry / a.H, Score: 1}
	if left {
		frame.Keypoints[pose.LeftWrist] = pose.Keypoint{X: lx / a.W, Y: ly / a.H, Score: 1}
	}
	h.source.Set(frame)
}

func (h *harness) hideWrists() {
	h.source.Set(pose.Frame{})
}

func (h *harness) spawn(components ...any) ecs.EntityId {
	return h.world.Storage.Spawn(components...)
}

func (h *harness) fruit(x, y float32) ecs.EntityId {
	return h.spawn(Position{X: x, Y: y}, Velocity{}, Body{Radius: 24}, Projectile{}, Fruit{Kind: KindApple})
}

func (h *harness) bomb(x, y float32) ecs.EntityId {
	return h.spawn(Position{X: x, Y: y}, Velocity{}, Body{Radius: 24}, Projectile{}, Bomb{})
}

func count[T any](h *harness) int {
	n := 0
	for range ecs.NewView[struct{ Item *T }](h.world.Storage).Values() {
		n++
	}
	return n
}

// first returns the position of some entity carrying T.
func first[T any](h *harness) *Position {
	h.t.Helper()
	for item := range ecs.NewView[struct {
		*Position
		Item *T
	}](h.world.Storage).Values() {
		return item.Position
	}
	require.FailNow(h.t, "no entity found")
	return nil
}

func (h *harness) buttons() map[Action]*Button {
	out := map[Action]*Button{}
	for b := range ecs.NewView[struct{ *Button }](h.world.Storage).Values() {
		out[b.Action] = b.Button
	}
	return out
}
