package debugui

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/poseninja/ecs"
)

// maxListed caps the entities listed under one archetype.
const maxListed = 50

// ArchetypeWindow lists archetypes with their entities and shows the
// components of the selected entity.
type ArchetypeWindow struct {
	storage  *ecs.Storage
	selected ecs.EntityId
}

func NewArchetypeWindow(storage *ecs.Storage) *ArchetypeWindow {
	return &ArchetypeWindow{storage: storage}
}

// Label is the short name of an archetype's component set.
func Label(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name()
	}
	return strings.Join(names, "+")
}

// Describe formats every component of an entity, one per line. It returns
// nil for dead entities.
func Describe(storage *ecs.Storage, id ecs.EntityId) []string {
	if !storage.Alive(id) {
		return nil
	}
	archetype := storage.GetArchetypeById(id.ArchetypeId())
	if archetype == nil {
		return nil
	}

	var lines []string
	for _, t := range archetype.Types() {
		if c := storage.GetComponent(id, t); c != nil {
			lines = append(lines, fmt.Sprintf("%s %+v", t.Name(), reflect.Indirect(reflect.ValueOf(c)).Interface()))
		}
	}
	return lines
}

func (w *ArchetypeWindow) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(340, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 420), imgui.CondOnce)
	if !imgui.BeginV("Archetypes", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	w.storage.Archetypes(func(a *ecs.Archetype) bool {
		if a.Len() == 0 {
			return true
		}
		if !imgui.TreeNodeStr(fmt.Sprintf("%s (%d)##%X", Label(a.Types()), a.Len(), a.ID())) {
			return true
		}
		listed := 0
		for id := range a.Iter() {
			if listed == maxListed {
				imgui.Text("...")
				break
			}
			if imgui.SelectableBoolV(id.String(), id == w.selected, imgui.SelectableFlagsNone, imgui.NewVec2(0, 0)) {
				w.selected = id
			}
			listed++
		}
		imgui.TreePop()
		return true
	})

	imgui.Separator()
	if lines := Describe(w.storage, w.selected); lines != nil {
		imgui.Text("Entity " + w.selected.String())
		for _, line := range lines {
			imgui.BulletText(line)
		}
	} else {
		imgui.Text("No entity selected")
	}

	imgui.End()
}
