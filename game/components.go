package game

import (
	"image/color"

	"github.com/plus3/poseninja/ecs"
	"golang.org/x/image/colornames"
)

type Position struct {
	X, Y float32
}

// Velocity is in pixels per second.
type Velocity struct {
	DX, DY float32
}

// Body makes an entity a collision target.
type Body struct {
	Radius float32
}

// Projectile is a launched fruit or bomb.
type Projectile struct {
	Gravity  float32
	Launched float64
}

type Kind int

const (
	KindApple Kind = iota
	KindBanana
	KindCoconut
	KindOrange
	KindPineapple
	KindWatermelon

	fruitKinds
)

var kindNames = [...]string{"apple", "banana", "coconut", "orange", "pineapple", "watermelon"}

func (k Kind) String() string {
	if k < 0 || k >= fruitKinds {
		return "fruit"
	}
	return kindNames[k]
}

// Color is the fill used when no sprite is loaded.
func (k Kind) Color() color.RGBA {
	switch k {
	case KindApple:
		return colornames.Red
	case KindBanana:
		return colornames.Gold
	case KindCoconut:
		return colornames.Saddlebrown
	case KindOrange:
		return colornames.Orange
	case KindPineapple:
		return colornames.Goldenrod
	case KindWatermelon:
		return colornames.Forestgreen
	}
	return colornames.White
}

// Juice is the splash colour and the name of its sprite.
func (k Kind) Juice() (color.NRGBA, string) {
	switch k {
	case KindApple, KindWatermelon:
		return color.NRGBA{200, 20, 30, 170}, "red"
	case KindBanana:
		return color.NRGBA{250, 220, 60, 170}, "yellow"
	case KindOrange:
		return color.NRGBA{250, 140, 20, 170}, "orange"
	}
	return color.NRGBA{255, 255, 255, 90}, "transparent"
}

type Fruit struct {
	Kind Kind
}

type Bomb struct{}

// Dot is a pop target. A zero TTL never expires.
type Dot struct {
	Age, TTL float64
}

// Half is one piece of a sliced fruit.
type Half struct {
	Kind    Kind
	Side    int
	Gravity float32
}

type Splash struct {
	Kind     Kind
	Age, TTL float64
}

type Explosion struct {
	Age, TTL float64
}

type Particle struct {
	Color    color.RGBA
	Age, TTL float64
	Size     float32
	Gravity  float32
}

type Rect struct {
	X, Y, W, H float32
}

func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Button fires Action after a hand hovers over it for Hold seconds.
type Button struct {
	Label    string
	Action   Action
	Rect     Rect
	Hold     float64
	Progress float64
}

// RegisterComponents adds every game component to registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Body](registry)
	ecs.RegisterComponent[Projectile](registry)
	ecs.RegisterComponent[Fruit](registry)
	ecs.RegisterComponent[Bomb](registry)
	ecs.RegisterComponent[Dot](registry)
	ecs.RegisterComponent[Half](registry)
	ecs.RegisterComponent[Splash](registry)
	ecs.RegisterComponent[Explosion](registry)
	ecs.RegisterComponent[Particle](registry)
	ecs.RegisterComponent[Button](registry)
}
