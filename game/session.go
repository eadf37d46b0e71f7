package game

import (
	"math/rand/v2"

	"github.com/plus3/poseninja/config"
	"github.com/plus3/poseninja/pose"
	"github.com/plus3/poseninja/scores"
	"github.com/plus3/poseninja/sfx"
)

type Mode int

const (
	ModeDots Mode = iota
	ModeFruit
	ModeSword
)

func (m Mode) String() string {
	switch m {
	case ModeDots:
		return "dots"
	case ModeFruit:
		return "fruit"
	case ModeSword:
		return "sword"
	}
	return "unknown"
}

// ParseMode accepts the names printed by Mode.String.
func ParseMode(s string) (Mode, bool) {
	for _, m := range []Mode{ModeDots, ModeFruit, ModeSword} {
		if m.String() == s {
			return m, true
		}
	}
	return 0, false
}

type Phase int

const (
	PhaseMenu Phase = iota
	PhaseTutorial
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseTutorial:
		return "tutorial"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "gameover"
	}
	return "unknown"
}

// Action is what a button asks the flow system to do.
type Action int

const (
	ActionNone Action = iota
	ActionMenu
	ActionPlayDots
	ActionPlayFruit
	ActionPlaySword
	ActionRetry
	ActionTutorial
	ActionQuit
)

func playAction(m Mode) Action {
	switch m {
	case ModeFruit:
		return ActionPlayFruit
	case ModeSword:
		return ActionPlaySword
	}
	return ActionPlayDots
}

// Arena is the playfield size in pixels.
type Arena struct {
	W, H float32
}

// Settings is the gameplay tuning the systems read every frame.
type Settings struct {
	config.GameConfig
	Threshold float32
	Smoothing float32
}

type Session struct {
	ID        string
	Mode      Mode
	Phase     Phase
	Score     int
	Lives     int
	Elapsed   float64
	RoundLeft float64
	// Rank is the 0-based high score rank of the last finished game, or -1.
	Rank  int
	Games int
	Quit  bool
}

// Playing reports whether gameplay rules apply this frame.
func (s *Session) Playing() bool {
	return s.Phase == PhasePlaying
}

// UsesLives reports whether the current mode is lost by running out of lives.
func (s *Session) UsesLives() bool {
	return s.Mode != ModeDots
}

type Spawner struct {
	Timer    float64
	Interval float64
	Waves    int
}

// HandPoint is one tracked wrist in screen space.
type HandPoint struct {
	Visible      bool
	X, Y         float32
	PrevX, PrevY float32
	Speed        float32

	HasElbow       bool
	ElbowX, ElbowY float32

	Blade       Segment
	BladeActive bool

	smoother pose.Smoother
}

// Swept is the path the wrist covered since the previous frame.
func (p *HandPoint) Swept() Segment {
	return Segment{AX: p.PrevX, AY: p.PrevY, BX: p.X, BY: p.Y}
}

// Hands is indexed by pose.Side.
type Hands struct {
	Points [2]HandPoint
}

// BothVisible reports whether both wrists are tracked.
func (h *Hands) BothVisible() bool {
	return h.Points[pose.Left].Visible && h.Points[pose.Right].Visible
}

// HandInput is the newest pose frame handed to the hands system.
type HandInput struct {
	Frame pose.Frame
	Has   bool
}

// Cues collects sounds requested during a frame.
type Cues struct {
	Queue []sfx.Cue
}

func (c *Cues) Push(cue sfx.Cue) {
	c.Queue = append(c.Queue, cue)
}

type Pending struct {
	Action Action
}

type Rand struct {
	*rand.Rand
}

func newRand(seed uint64) Rand {
	return Rand{rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Uniform returns a float32 in [lo, hi).
func (r Rand) Uniform(lo, hi float32) float32 {
	return lo + r.Float32()*(hi-lo)
}

// HighScores is the top-5 table. Path is empty when scores are not saved.
type HighScores struct {
	Table *scores.Table
	Path  string
}
