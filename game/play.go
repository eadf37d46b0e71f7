package game

import (
	"log/slog"

	"github.com/plus3/poseninja/ecs"
	"github.com/plus3/poseninja/sfx"
)

// SpawnSystem keeps one dot alive in dots mode and launches waves of fruit
// and bombs in the other modes.
type SpawnSystem struct {
	Arena    ecs.Singleton[Arena]
	Settings ecs.Singleton[Settings]
	Session  ecs.Singleton[Session]
	Spawner  ecs.Singleton[Spawner]
	Rand     ecs.Singleton[Rand]

	Dots ecs.Query[struct {
		ecs.EntityId
		*Dot
	}]
}

func (s *SpawnSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if !session.Playing() {
		return
	}

	arena := s.Arena.Get()
	settings := s.Settings.Get()
	rng := *s.Rand.Get()

	if session.Mode == ModeDots {
		live := 0
		for d := range s.Dots.Values() {
			d.Dot.Age += frame.DeltaTime
			if d.Dot.TTL > 0 && d.Dot.Age >= d.Dot.TTL {
				frame.Commands.Delete(d.EntityId)
				continue
			}
			live++
		}
		if live == 0 {
			spawnDot(frame.Commands, rng, arena, settings, settings.DotTTL)
		}
		return
	}

	spawner := s.Spawner.Get()
	spawner.Timer -= frame.DeltaTime
	if spawner.Timer > 0 {
		return
	}

	n := 1 + rng.IntN(settings.WaveMax)
	for i := 0; i < n; i++ {
		launchWaveItem(frame.Commands, rng, arena, settings)
	}
	spawner.Waves++
	spawner.Interval = waveInterval(settings, session.Score)
	spawner.Timer = spawner.Interval
}

// waveInterval shrinks the pause between waves by IntervalStep for every ten
// points scored, down to MinInterval.
func waveInterval(settings *Settings, score int) float64 {
	return max(settings.MinInterval, settings.SpawnInterval-settings.IntervalStep*float64(score/10))
}

// MotionSystem integrates velocity and gravity with semi-implicit Euler.
type MotionSystem struct {
	Projectiles ecs.Query[struct {
		*Position
		*Velocity
		*Projectile
	}]
	Halves ecs.Query[struct {
		*Position
		*Velocity
		*Half
	}]
	Particles ecs.Query[struct {
		*Position
		*Velocity
		*Particle
	}]
}

func (s *MotionSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)

	for p := range s.Projectiles.Values() {
		p.Projectile.Launched += frame.DeltaTime
		integrate(p.Position, p.Velocity, p.Projectile.Gravity, dt)
	}
	for h := range s.Halves.Values() {
		integrate(h.Position, h.Velocity, h.Half.Gravity, dt)
	}
	for p := range s.Particles.Values() {
		integrate(p.Position, p.Velocity, p.Particle.Gravity, dt)
	}
}

func integrate(pos *Position, vel *Velocity, g, dt float32) {
	vel.DY += g * dt
	pos.X += vel.DX * dt
	pos.Y += vel.DY * dt
}

// CollisionSystem tests every target against the hands and resolves hits.
type CollisionSystem struct {
	Settings ecs.Singleton[Settings]
	Session  ecs.Singleton[Session]
	Hands    ecs.Singleton[Hands]
	Tutorial ecs.Singleton[Tutorial]
	Cues     ecs.Singleton[Cues]
	Rand     ecs.Singleton[Rand]
	Arena    ecs.Singleton[Arena]

	Targets ecs.Query[struct {
		ecs.EntityId
		*Position
		*Body
		Velocity   *Velocity   `ecs:"optional"`
		Projectile *Projectile `ecs:"optional"`
		Fruit      *Fruit      `ecs:"optional"`
		Bomb       *Bomb       `ecs:"optional"`
		Dot        *Dot        `ecs:"optional"`
	}]
}

func (s *CollisionSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if session.Phase != PhasePlaying && session.Phase != PhaseTutorial {
		return
	}

	settings := s.Settings.Get()
	hands := s.Hands.Get()
	sword := session.Mode == ModeSword && session.Playing()

	for t := range s.Targets.Values() {
		reach := settings.ItemReach
		if t.Dot != nil {
			if t.Dot.TTL > 0 && t.Dot.Age >= t.Dot.TTL {
				continue
			}
			reach = settings.DotReach
		}
		if sword {
			reach = 0
		}

		if !touched(hands, sword, t.Position.X, t.Position.Y, t.Body.Radius+reach) {
			continue
		}

		switch {
		case t.Fruit != nil:
			s.slice(frame, t.EntityId, t.Position, t.Velocity, t.Projectile, t.Fruit.Kind)
		case t.Bomb != nil:
			s.detonate(frame, t.EntityId, t.Position, t.Projectile)
		case t.Dot != nil:
			s.pop(frame, t.EntityId)
		}
	}
}

// touched reports whether any hand comes within dist of (x, y). In sword mode
// only active blades count; otherwise the swept wrist path is used.
func touched(hands *Hands, sword bool, x, y, dist float32) bool {
	for i := range hands.Points {
		p := &hands.Points[i]
		if !p.Visible {
			continue
		}
		seg := p.Swept()
		if sword {
			if !p.BladeActive {
				continue
			}
			seg = p.Blade
		}
		if seg.Distance(x, y) <= dist {
			return true
		}
	}
	return false
}

func (s *CollisionSystem) slice(frame *ecs.UpdateFrame, id ecs.EntityId, pos *Position, vel *Velocity, proj *Projectile, kind Kind) {
	frame.Commands.Delete(id)

	var v Velocity
	if vel != nil {
		v = *vel
	}
	g := s.Settings.Get().Gravity * s.Arena.Get().H
	if proj != nil {
		g = proj.Gravity
	}
	sliceFruit(frame.Commands, *s.Rand.Get(), *pos, v, kind, g)
	s.Cues.Get().Push(sfx.CueSlice)

	session := s.Session.Get()
	switch session.Phase {
	case PhasePlaying:
		session.Score++
	case PhaseTutorial:
		s.Tutorial.Get().Sliced = true
	}
}

func (s *CollisionSystem) detonate(frame *ecs.UpdateFrame, id ecs.EntityId, pos *Position, proj *Projectile) {
	frame.Commands.Delete(id)

	g := s.Settings.Get().Gravity * s.Arena.Get().H
	if proj != nil {
		g = proj.Gravity
	}
	explode(frame.Commands, *s.Rand.Get(), *pos, g)
	s.Cues.Get().Push(sfx.CueExplode)

	session := s.Session.Get()
	switch session.Phase {
	case PhasePlaying:
		if session.UsesLives() {
			session.Lives = max(0, session.Lives-1)
		}
	case PhaseTutorial:
		s.Tutorial.Get().BombHit = true
	}
}

func (s *CollisionSystem) pop(frame *ecs.UpdateFrame, id ecs.EntityId) {
	frame.Commands.Delete(id)
	s.Cues.Get().Push(sfx.CuePop)

	session := s.Session.Get()
	switch session.Phase {
	case PhasePlaying:
		session.Score++
		settings := s.Settings.Get()
		spawnDot(frame.Commands, *s.Rand.Get(), s.Arena.Get(), settings, settings.DotTTL)
	case PhaseTutorial:
		s.Tutorial.Get().DotPopped = true
	}
}

// BoundsSystem removes items that left the arena and charges a life for
// every fruit that fell away unsliced.
type BoundsSystem struct {
	Arena    ecs.Singleton[Arena]
	Session  ecs.Singleton[Session]
	Tutorial ecs.Singleton[Tutorial]
	Cues     ecs.Singleton[Cues]

	Projectiles ecs.Query[struct {
		ecs.EntityId
		*Position
		*Velocity
		*Body
		*Projectile
		Fruit *Fruit `ecs:"optional"`
		Bomb  *Bomb  `ecs:"optional"`
	}]
	Halves ecs.Query[struct {
		ecs.EntityId
		*Position
		*Half
	}]
}

func (s *BoundsSystem) Execute(frame *ecs.UpdateFrame) {
	arena := s.Arena.Get()
	session := s.Session.Get()

	for p := range s.Projectiles.Values() {
		r := p.Body.Radius
		fell := p.Velocity.DY > 0 && p.Position.Y-r > arena.H
		wide := p.Position.X < -2*r || p.Position.X > arena.W+2*r
		if !fell && !wide {
			continue
		}
		frame.Commands.Delete(p.EntityId)

		switch session.Phase {
		case PhasePlaying:
			if fell && p.Fruit != nil && session.UsesLives() {
				session.Lives = max(0, session.Lives-1)
				s.Cues.Get().Push(sfx.CueMiss)
			}
		case PhaseTutorial:
			t := s.Tutorial.Get()
			if p.Fruit != nil {
				t.FruitGone = true
			}
			if p.Bomb != nil {
				t.BombCleared = true
			}
		}
	}

	for h := range s.Halves.Values() {
		if h.Position.Y > arena.H {
			frame.Commands.Delete(h.EntityId)
		}
	}
}

// EffectsSystem ages splashes, explosions and particles and removes them at
// the end of their life.
type EffectsSystem struct {
	Splashes ecs.Query[struct {
		ecs.EntityId
		*Splash
	}]
	Explosions ecs.Query[struct {
		ecs.EntityId
		*Explosion
	}]
	Particles ecs.Query[struct {
		ecs.EntityId
		*Particle
	}]
}

func (s *EffectsSystem) Execute(frame *ecs.UpdateFrame) {
	dt := frame.DeltaTime

	for e := range s.Splashes.Values() {
		e.Splash.Age += dt
		if e.Splash.Age >= e.Splash.TTL {
			frame.Commands.Delete(e.EntityId)
		}
	}
	for e := range s.Explosions.Values() {
		e.Explosion.Age += dt
		if e.Explosion.Age >= e.Explosion.TTL {
			frame.Commands.Delete(e.EntityId)
		}
	}
	for e := range s.Particles.Values() {
		e.Particle.Age += dt
		if e.Particle.Age >= e.Particle.TTL {
			frame.Commands.Delete(e.EntityId)
		}
	}
}

// fade returns the remaining fraction of an effect's life.
func fade(age, ttl float64) float32 {
	if ttl <= 0 {
		return 0
	}
	return float32(min(max(1-age/ttl, 0), 1))
}

// RulesSystem runs the round clock and ends the game.
type RulesSystem struct {
	Arena      ecs.Singleton[Arena]
	Settings   ecs.Singleton[Settings]
	Session    ecs.Singleton[Session]
	HighScores ecs.Singleton[HighScores]
	Cues       ecs.Singleton[Cues]

	log *slog.Logger
}

func (s *RulesSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if !session.Playing() {
		return
	}

	session.Elapsed += frame.DeltaTime
	over := false
	if session.UsesLives() {
		over = session.Lives <= 0
	} else {
		session.RoundLeft = max(0, session.RoundLeft-frame.DeltaTime)
		over = session.RoundLeft == 0
	}
	if !over {
		return
	}

	session.Phase = PhaseGameOver
	session.Games++
	session.Rank = -1
	s.Cues.Get().Push(sfx.CueGameOver)

	if hs := s.HighScores.Get(); hs != nil && hs.Table != nil {
		if rank, ok := hs.Table.Insert(session.Score); ok {
			session.Rank = rank
			s.save(hs, rank)
		}
	}

	s.log.Debug("game over",
		"mode", session.Mode.String(),
		"score", session.Score,
		"rank", session.Rank,
		"elapsed", session.Elapsed)
	gameOverButtons(frame.Commands, s.Arena.Get(), s.Settings.Get().ButtonHold)
}

func (s *RulesSystem) save(hs *HighScores, rank int) {
	if hs.Path == "" {
		return
	}
	if err := hs.Table.Save(hs.Path); err != nil {
		s.log.Warn("saving high scores failed", "path", hs.Path, "err", err)
		return
	}
	s.log.Debug("high score saved", "rank", rank, "path", hs.Path)
}

// AudioSystem plays and clears the cues queued during the frame.
type AudioSystem struct {
	Cues ecs.Singleton[Cues]

	player sfx.Player
}

func (s *AudioSystem) Execute(frame *ecs.UpdateFrame) {
	cues := s.Cues.Get()
	for _, cue := range cues.Queue {
		s.player.Play(cue)
	}
	cues.Queue = cues.Queue[:0]
}
