package ebiten_test

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/poseninja/ecs"
	"github.com/plus3/poseninja/ecs/debugui"
	debugui_ebiten "github.com/plus3/poseninja/ecs/debugui/ebiten"
)

type overlay struct {
	scheduler *ecs.Scheduler
	backend   *ecs.Singleton[debugui_ebiten.ImguiBackend]
}

func (o *overlay) Update() error {
	o.backend.Get().BeginFrame()
	o.scheduler.Once(1.0 / 60.0)
	o.backend.Get().EndFrame()
	return nil
}

func (o *overlay) Draw(screen *ebiten.Image) {
	o.backend.Get().Draw(screen)
}

func (o *overlay) Layout(w, h int) (int, int) {
	o.backend.Get().Layout(w, h)
	return w, h
}

func Example() {
	registry := ecs.NewComponentRegistry()
	debugui.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	backend := ecs.NewSingleton(storage, debugui_ebiten.New("debugui", 1280, 720))
	ecs.NewSingleton(storage, debugui.ImguiInputState{})

	storage.Spawn(debugui.ImguiItem{
		Name: "hello",
		Render: func() {
			imgui.Begin("Debug Window")
			imgui.Text("Hello from ECS!")
			imgui.End()
		},
	})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&debugui.ImguiSystem{})
	debugui.Spawn(storage, scheduler)

	if err := ebiten.RunGame(&overlay{scheduler: scheduler, backend: backend}); err != nil {
		panic(err)
	}
}
