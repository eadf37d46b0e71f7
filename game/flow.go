package game

import (
	"log/slog"

	"github.com/plus3/poseninja/ecs"
	"github.com/plus3/poseninja/sfx"
)

// ButtonSystem fills a button's progress while a hand hovers over it and
// fires its action once full.
type ButtonSystem struct {
	Hands    ecs.Singleton[Hands]
	Pending  ecs.Singleton[Pending]
	Cues     ecs.Singleton[Cues]
	Settings ecs.Singleton[Settings]

	Buttons ecs.Query[struct{ *Button }]
}

func (s *ButtonSystem) Execute(frame *ecs.UpdateFrame) {
	hands := s.Hands.Get()
	pending := s.Pending.Get()
	dt := frame.DeltaTime

	for b := range s.Buttons.Values() {
		btn := b.Button
		hold := btn.Hold
		if hold <= 0 {
			hold = s.Settings.Get().ButtonHold
		}

		hovered := false
		for i := range hands.Points {
			p := &hands.Points[i]
			if p.Visible && btn.Rect.Contains(p.X, p.Y) {
				hovered = true
				break
			}
		}

		if !hovered {
			btn.Progress = max(0, btn.Progress-2*dt/hold)
			continue
		}

		btn.Progress += dt / hold
		if btn.Progress >= 1 {
			btn.Progress = 0
			if pending.Action == ActionNone {
				pending.Action = btn.Action
				s.Cues.Get().Push(sfx.CueClick)
			}
		}
	}
}

// FlowSystem applies the pending action: it clears the playfield and the
// buttons at once, then sets up the requested phase.
type FlowSystem struct {
	Arena    ecs.Singleton[Arena]
	Settings ecs.Singleton[Settings]
	Session  ecs.Singleton[Session]
	Spawner  ecs.Singleton[Spawner]
	Tutorial ecs.Singleton[Tutorial]
	Pending  ecs.Singleton[Pending]
	Hands    ecs.Singleton[Hands]

	Entities ecs.Query[struct {
		ecs.EntityId
		*Position
	}]
	Buttons ecs.Query[struct {
		ecs.EntityId
		*Button
	}]

	log *slog.Logger
}

func (s *FlowSystem) Execute(frame *ecs.UpdateFrame) {
	pending := s.Pending.Get()
	action := pending.Action
	if action == ActionNone {
		return
	}
	pending.Action = ActionNone

	// Deleted at once: later systems this tick must not see the old round.
	for e := range s.Entities.Values() {
		frame.Storage.Delete(e.EntityId)
	}
	for b := range s.Buttons.Values() {
		frame.Storage.Delete(b.EntityId)
	}

	session := s.Session.Get()
	arena := s.Arena.Get()
	settings := s.Settings.Get()
	from := session.Phase

	switch action {
	case ActionMenu:
		session.Phase = PhaseMenu
		menuButtons(frame.Commands, arena, settings.ButtonHold)
	case ActionPlayDots:
		s.start(session, ModeDots)
	case ActionPlayFruit:
		s.start(session, ModeFruit)
	case ActionPlaySword:
		s.start(session, ModeSword)
	case ActionRetry:
		s.start(session, session.Mode)
	case ActionTutorial:
		session.Phase = PhaseTutorial
		session.Mode = ModeFruit
		session.Score = 0
		*s.Tutorial.Get() = Tutorial{}
	case ActionQuit:
		session.Quit = true
	}

	if session.Phase != from {
		s.log.Debug("phase changed", "from", from.String(), "to", session.Phase.String(), "mode", session.Mode.String())
	}
}

func (s *FlowSystem) start(session *Session, mode Mode) {
	settings := s.Settings.Get()

	session.Mode = mode
	session.Phase = PhasePlaying
	session.Score = 0
	session.Lives = settings.Lives
	session.Elapsed = 0
	session.RoundLeft = 0
	if mode == ModeDots {
		session.RoundLeft = settings.RoundSeconds
	}

	*s.Spawner.Get() = Spawner{Timer: 0.5, Interval: settings.SpawnInterval}
}
