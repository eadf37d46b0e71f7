package game

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/poseninja/ecs"
	"github.com/plus3/poseninja/ecs/debugui"
	debugui_ebiten "github.com/plus3/poseninja/ecs/debugui/ebiten"
	"github.com/plus3/poseninja/pose"
)

// Game runs a World inside an Ebiten window. Logic systems run in Update,
// the render scheduler in Draw, and the optional ImGui overlay on top.
type Game struct {
	World *World

	render *RenderSystem
	draw   *ecs.Scheduler
	screen *ecs.Singleton[Screen]

	debug   *ecs.Scheduler
	backend *ecs.Singleton[debugui_ebiten.ImguiBackend]
	overlay *ecs.Singleton[debugui.ImguiInputState]

	width, height int
}

// NewGame builds the world plus its presentation layer. Sprites are loaded
// from opts.AssetsDir; the camera image is shown behind the playfield when
// the source can provide one.
func NewGame(opts Options) (*Game, error) {
	world := NewWorld(opts)
	cfg := world.Config

	sprites, err := LoadSprites(opts.AssetsDir)
	if err != nil {
		return nil, fmt.Errorf("sprites: %w", err)
	}

	render := &RenderSystem{Sprites: sprites}
	if camera, ok := opts.Source.(pose.Camera); ok && cfg.Camera.Background {
		render.Backdrop = &Backdrop{Camera: camera, Mirror: cfg.Camera.Mirror, Dim: cfg.Camera.Dim}
	}

	g := &Game{
		World:  world,
		render: render,
		draw:   ecs.NewScheduler(world.Storage),
		screen: ecs.NewSingleton(world.Storage, Screen{}),
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
	}
	g.draw.Register(render)

	if opts.Debug {
		storage := world.Storage
		debugui.RegisterComponents(storage.Registry())

		g.backend = ecs.NewSingleton(storage, debugui_ebiten.New(cfg.Window.Title, g.width, g.height))
		g.overlay = ecs.NewSingleton(storage, debugui.ImguiInputState{})
		g.debug = ecs.NewScheduler(storage)
		g.debug.Register(&debugui.ImguiSystem{})

		debugui.Spawn(storage, world.Scheduler)
		spawnSessionWindow(storage)
	}
	return g, nil
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.World.Tick()
	if g.World.Session().Quit {
		return ebiten.Termination
	}

	if g.debug != nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
			state := g.overlay.Get()
			state.Hidden = !state.Hidden
		}
		g.backend.Get().BeginFrame()
		g.debug.Once(g.World.Step)
		g.backend.Get().EndFrame()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.screen.Get().Image = screen
	g.draw.Once(g.World.Step)

	if g.debug != nil {
		g.backend.Get().Draw(screen)
	}
}

// Layout keeps the logical screen at the configured size; Ebiten scales it
// to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.debug != nil {
		g.backend.Get().Layout(g.width, g.height)
	}
	return g.width, g.height
}
