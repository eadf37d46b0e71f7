package game

import (
	"github.com/plus3/poseninja/ecs"
)

type TutorialStep int

const (
	StepShowHands TutorialStep = iota
	StepPopDot
	StepSliceFruit
	StepDodgeBomb
	StepDone
)

// Prompt is the instruction shown while the step is active.
func (s TutorialStep) Prompt() string {
	switch s {
	case StepShowHands:
		return "Raise both hands so the camera can see them"
	case StepPopDot:
		return "Touch the dot to pop it"
	case StepSliceFruit:
		return "Swipe through the fruit"
	case StepDodgeBomb:
		return "Let the bomb fall, don't touch it!"
	case StepDone:
		return "Well done!"
	}
	return ""
}

const (
	showHandsFor = 1.0
	doneFor      = 2.0
)

// Tutorial tracks the current step. The outcome flags are raised by the
// collision and bounds systems and consumed by TutorialSystem.
type Tutorial struct {
	Step    TutorialStep
	Timer   float64
	Spawned bool

	DotPopped   bool
	Sliced      bool
	FruitGone   bool
	BombHit     bool
	BombCleared bool
}

func (t *Tutorial) advance() {
	*t = Tutorial{Step: t.Step + 1}
}

type TutorialSystem struct {
	Arena    ecs.Singleton[Arena]
	Settings ecs.Singleton[Settings]
	Session  ecs.Singleton[Session]
	Tutorial ecs.Singleton[Tutorial]
	Hands    ecs.Singleton[Hands]
	Pending  ecs.Singleton[Pending]
	Rand     ecs.Singleton[Rand]
}

func (s *TutorialSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Session.Get().Phase != PhaseTutorial {
		return
	}

	t := s.Tutorial.Get()
	arena := s.Arena.Get()
	settings := s.Settings.Get()
	rng := *s.Rand.Get()

	switch t.Step {
	case StepShowHands:
		if s.Hands.Get().BothVisible() {
			t.Timer += frame.DeltaTime
		} else {
			t.Timer = 0
		}
		if t.Timer >= showHandsFor {
			t.advance()
		}

	case StepPopDot:
		if t.DotPopped {
			t.advance()
			break
		}
		if !t.Spawned {
			spawnDot(frame.Commands, rng, arena, settings, 0)
			t.Spawned = true
		}

	case StepSliceFruit:
		if t.Sliced {
			t.advance()
			break
		}
		if t.FruitGone {
			t.FruitGone = false
			t.Spawned = false
		}
		if !t.Spawned {
			launchFruit(frame.Commands, rng, arena, settings, Kind(rng.IntN(int(fruitKinds))))
			t.Spawned = true
		}

	case StepDodgeBomb:
		if t.BombCleared {
			t.advance()
			break
		}
		if t.BombHit {
			t.BombHit = false
			t.Spawned = false
		}
		if !t.Spawned {
			launchBomb(frame.Commands, rng, arena, settings)
			t.Spawned = true
		}

	case StepDone:
		t.Timer += frame.DeltaTime
		if t.Timer >= doneFor {
			s.Pending.Get().Action = ActionMenu
		}
	}
}
