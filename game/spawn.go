package game

import (
	"image/color"
	"math"

	"github.com/plus3/poseninja/ecs"
	"golang.org/x/image/colornames"
)

const (
	splashTTL    = 1.2
	explosionTTL = 0.8
	juiceCount   = 8
	debrisCount  = 14
)

// spawnDot places a dot uniformly inside the arena.
func spawnDot(cmds *ecs.Commands, rng Rand, arena *Arena, settings *Settings, ttl float64) {
	r := settings.DotRadius
	cmds.Spawn(
		Position{X: rng.Uniform(r, arena.W-r), Y: rng.Uniform(r, arena.H-r)},
		Body{Radius: r},
		Dot{TTL: ttl},
	)
}

// Launch describes the initial state of a thrown item.
type Launch struct {
	X, Y   float32
	DX, DY float32
	G      float32
}

// planLaunch throws an item from just below the arena so it peaks between
// ApexMin and ApexMax of the arena height, drifting toward a random column.
func planLaunch(rng Rand, arena *Arena, settings *Settings) Launch {
	r := settings.ItemRadius
	g := settings.Gravity * arena.H

	l := Launch{
		X: rng.Uniform(r, arena.W-r),
		Y: arena.H + r,
		G: g,
	}

	apexY := arena.H * rng.Uniform(settings.ApexMin, settings.ApexMax)
	rise := l.Y - apexY
	l.DY = -float32(math.Sqrt(float64(2 * g * rise)))

	tApex := -l.DY / g
	targetX := rng.Uniform(r, arena.W-r)
	l.DX = (targetX - l.X) / tApex
	l.DX = min(max(l.DX, -settings.MaxDrift), settings.MaxDrift)
	return l
}

func launchFruit(cmds *ecs.Commands, rng Rand, arena *Arena, settings *Settings, kind Kind) {
	l := planLaunch(rng, arena, settings)
	cmds.Spawn(
		Position{X: l.X, Y: l.Y},
		Velocity{DX: l.DX, DY: l.DY},
		Body{Radius: settings.ItemRadius},
		Projectile{Gravity: l.G},
		Fruit{Kind: kind},
	)
}

func launchBomb(cmds *ecs.Commands, rng Rand, arena *Arena, settings *Settings) {
	l := planLaunch(rng, arena, settings)
	cmds.Spawn(
		Position{X: l.X, Y: l.Y},
		Velocity{DX: l.DX, DY: l.DY},
		Body{Radius: settings.ItemRadius},
		Projectile{Gravity: l.G},
		Bomb{},
	)
}

// launchWaveItem picks a bomb with probability BombChance, otherwise a fruit
// of a uniformly chosen kind.
func launchWaveItem(cmds *ecs.Commands, rng Rand, arena *Arena, settings *Settings) {
	if rng.Float64() < settings.BombChance {
		launchBomb(cmds, rng, arena, settings)
		return
	}
	launchFruit(cmds, rng, arena, settings, Kind(rng.IntN(int(fruitKinds))))
}

// sliceFruit replaces a fruit with two halves, a splash and juice.
func sliceFruit(cmds *ecs.Commands, rng Rand, pos Position, vel Velocity, kind Kind, g float32) {
	for side := 0; side < 2; side++ {
		cmds.Spawn(
			pos,
			Velocity{
				DX: vel.DX + rng.Uniform(-60, 60),
				DY: vel.DY + rng.Uniform(-180, -60),
			},
			Half{Kind: kind, Side: side, Gravity: g},
		)
	}

	cmds.Spawn(pos, Splash{Kind: kind, TTL: splashTTL})

	juice, _ := kind.Juice()
	burst(cmds, rng, pos, juiceCount, []color.RGBA{{juice.R, juice.G, juice.B, 255}}, 60, 200, g)
}

func explode(cmds *ecs.Commands, rng Rand, pos Position, g float32) {
	cmds.Spawn(pos, Explosion{TTL: explosionTTL})
	burst(cmds, rng, pos, debrisCount,
		[]color.RGBA{colornames.Orange, colornames.Orangered, colornames.Dimgray, colornames.Yellow},
		100, 320, g)
}

// burst throws n particles in random directions.
func burst(cmds *ecs.Commands, rng Rand, pos Position, n int, palette []color.RGBA, minSpeed, maxSpeed, g float32) {
	for i := 0; i < n; i++ {
		angle := rng.Float64() * 2 * math.Pi
		speed := rng.Uniform(minSpeed, maxSpeed)
		cmds.Spawn(
			pos,
			Velocity{
				DX: float32(math.Cos(angle)) * speed,
				DY: float32(math.Sin(angle)) * speed,
			},
			Particle{
				Color:   palette[rng.IntN(len(palette))],
				TTL:     0.4 + rng.Float64()*0.4,
				Size:    rng.Uniform(2, 4),
				Gravity: g,
			},
		)
	}
}

const (
	buttonW = 180
	buttonH = 48
)

func spawnButtons(cmds *ecs.Commands, hold float64, rects []Rect, labels []string, actions []Action) {
	for i := range rects {
		cmds.Spawn(Button{
			Label:  labels[i],
			Action: actions[i],
			Rect:   rects[i],
			Hold:   hold,
		})
	}
}

// menuButtons stacks the mode buttons in the centre of the arena.
func menuButtons(cmds *ecs.Commands, arena *Arena, hold float64) {
	labels := []string{"Dots", "Fruit", "Sword", "Tutorial", "Quit"}
	actions := []Action{ActionPlayDots, ActionPlayFruit, ActionPlaySword, ActionTutorial, ActionQuit}

	step := float32(buttonH + 12)
	top := (arena.H-step*float32(len(labels)))/2 + 30
	rects := make([]Rect, len(labels))
	for i := range rects {
		rects[i] = Rect{X: (arena.W - buttonW) / 2, Y: top + float32(i)*step, W: buttonW, H: buttonH}
	}
	spawnButtons(cmds, hold, rects, labels, actions)
}

// gameOverButtons places Retry and Menu side by side near the bottom.
func gameOverButtons(cmds *ecs.Commands, arena *Arena, hold float64) {
	y := arena.H - buttonH - 30
	rects := []Rect{
		{X: arena.W/2 - buttonW - 20, Y: y, W: buttonW, H: buttonH},
		{X: arena.W/2 + 20, Y: y, W: buttonW, H: buttonH},
	}
	spawnButtons(cmds, hold, rects, []string{"Retry", "Menu"}, []Action{ActionRetry, ActionMenu})
}
