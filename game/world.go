package game

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/plus3/poseninja/config"
	"github.com/plus3/poseninja/ecs"
	"github.com/plus3/poseninja/pose"
	"github.com/plus3/poseninja/scores"
	"github.com/plus3/poseninja/sfx"
)

// autopilotSpeed is how fast the autopilot moves its wrist, in px/s.
const autopilotSpeed = 900

type Options struct {
	Config *config.Config
	// Mode starts a round straight away unless Menu is set.
	Mode Mode
	Menu bool

	// Source feeds the hands. A nil Source hands control to the autopilot.
	Source pose.Source
	Player sfx.Player

	HighScores *scores.Table
	ScoresPath string

	Seed      uint64
	SessionID string
	Logger    *slog.Logger

	// Presentation only; ignored by NewWorld.
	AssetsDir string
	Debug     bool
}

// World is the game simulation without any window. It steps the logic
// systems at a fixed rate.
type World struct {
	Config    *config.Config
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler
	Step      float64

	session *ecs.Singleton[Session]
}

// NewWorld builds the storage, singletons and logic systems.
func NewWorld(opts Options) *World {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	player := opts.Player
	if player == nil {
		player = sfx.Mute{}
	}
	table := opts.HighScores
	if table == nil {
		table = &scores.Table{}
	}
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	start := playAction(opts.Mode)
	if opts.Menu {
		start = ActionMenu
	}

	ecs.NewSingleton(storage, Arena{W: float32(cfg.Window.Width), H: float32(cfg.Window.Height)})
	ecs.NewSingleton(storage, Settings{
		GameConfig: cfg.Game,
		Threshold:  cfg.Camera.Threshold,
		Smoothing:  cfg.Camera.Smoothing,
	})
	session := ecs.NewSingleton(storage, Session{ID: sessionID, Mode: opts.Mode, Rank: -1})
	ecs.NewSingleton(storage, Spawner{})
	ecs.NewSingleton(storage, Hands{})
	ecs.NewSingleton(storage, HandInput{})
	ecs.NewSingleton(storage, Cues{})
	ecs.NewSingleton(storage, Tutorial{})
	ecs.NewSingleton(storage, Pending{Action: start})
	ecs.NewSingleton(storage, newRand(opts.Seed))
	ecs.NewSingleton(storage, HighScores{Table: table, Path: opts.ScoresPath})

	scheduler := ecs.NewScheduler(storage)
	if opts.Source != nil {
		scheduler.Register(NewPoseSystem(opts.Source))
	} else {
		scheduler.Register(&AutopilotSystem{Speed: autopilotSpeed})
	}
	scheduler.Register(&HandsSystem{})
	scheduler.Register(&ButtonSystem{})
	scheduler.Register(&FlowSystem{log: logger})
	scheduler.Register(&TutorialSystem{})
	scheduler.Register(&SpawnSystem{})
	scheduler.Register(&MotionSystem{})
	scheduler.Register(&CollisionSystem{})
	scheduler.Register(&BoundsSystem{})
	scheduler.Register(&EffectsSystem{})
	scheduler.Register(&RulesSystem{log: logger})
	scheduler.Register(&AudioSystem{player: player})

	return &World{
		Config:    cfg,
		Storage:   storage,
		Scheduler: scheduler,
		Step:      1 / float64(cfg.Window.TPS),
		session:   session,
	}
}

// Tick advances the simulation by one fixed step.
func (w *World) Tick() {
	w.Scheduler.Once(w.Step)
}

func (w *World) Session() *Session {
	return w.session.Get()
}
