// Package debugui renders Dear ImGui windows from ECS entities.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/poseninja/ecs"
)

// ImguiItem is a component holding a Dear ImGui render function. Every
// entity carrying one is drawn each frame while the overlay is shown.
type ImguiItem struct {
	Name   string
	Render func()
}

// ImguiInputState mirrors Dear ImGui's input capture flags. Hidden turns
// the whole overlay off.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
	Hidden              bool
}

// ImguiSystem defers every item's render function to the end of the frame
// so that windows see the frame's final state.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	io := imgui.CurrentIO()
	state.WantCaptureMouse = io.WantCaptureMouse()
	state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	if state.Hidden {
		return
	}

	for item := range i.Items.Values() {
		if item.Render != nil {
			frame.Commands.Defer(item.Render)
		}
	}
}

// RegisterComponents adds the debugui components to registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
}

// Spawn adds the stats and archetype windows to storage. scheduler may be
// nil, in which case no system timings are shown.
func Spawn(storage *ecs.Storage, scheduler *ecs.Scheduler) {
	stats := NewStatsWindow(storage, scheduler, 120)
	storage.Spawn(ImguiItem{Name: "stats", Render: stats.Render})

	archetypes := NewArchetypeWindow(storage)
	storage.Spawn(ImguiItem{Name: "archetypes", Render: archetypes.Render})
}
