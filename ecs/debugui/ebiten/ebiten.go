// Package ebiten connects the debugui overlay to an Ebiten game loop.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
)

// ImguiBackend is the Ebiten Dear ImGui backend, stored as a singleton so
// systems can reach it.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// New creates the backend and its ImGui context. The ImGui ini file is
// disabled so window layout is not written next to the binary.
func New(title string, width, height int) ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return ImguiBackend{EbitenBackend: backend}
}
