package debugui_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/plus3/poseninja/ecs"
	"github.com/plus3/poseninja/ecs/debugui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Position struct{ X, Y float32 }
type Label struct{ Text string }

func newStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Label](registry)
	debugui.RegisterComponents(registry)
	return ecs.NewStorage(registry)
}

func TestDescribe(t *testing.T) {
	storage := newStorage()
	id := storage.Spawn(Position{X: 1, Y: 2}, Label{Text: "apple"})

	lines := debugui.Describe(storage, id)
	require.Len(t, lines, 2)
	assert.Contains(t, lines, "Position {X:1 Y:2}")
	assert.Contains(t, lines, "Label {Text:apple}")

	storage.Delete(id)
	assert.Nil(t, debugui.Describe(storage, id))
}

func TestLabel(t *testing.T) {
	types := []reflect.Type{reflect.TypeOf(Position{}), reflect.TypeOf(Label{})}
	assert.Equal(t, "Position+Label", debugui.Label(types))
}

func TestStatsWindowFrameHistory(t *testing.T) {
	w := debugui.NewStatsWindow(newStorage(), nil, 4)

	start := time.Unix(0, 0)
	w.Sample(start)
	assert.Zero(t, w.AverageFrame())

	w.Sample(start.Add(10 * time.Millisecond))
	w.Sample(start.Add(30 * time.Millisecond))
	assert.InDelta(t, 7.5, w.AverageFrame(), 1e-4)
}

func TestSpawnAddsWindows(t *testing.T) {
	storage := newStorage()
	debugui.Spawn(storage, ecs.NewScheduler(storage))

	var names []string
	for item := range ecs.NewView[struct{ *debugui.ImguiItem }](storage).Values() {
		names = append(names, item.Name)
		assert.NotNil(t, item.Render)
	}
	assert.ElementsMatch(t, []string{"stats", "archetypes"}, names)
}
