package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/poseninja/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcSystem func(frame *ecs.UpdateFrame)

func (f funcSystem) Execute(frame *ecs.UpdateFrame) { f(frame) }

func countPositions(storage *ecs.Storage) int {
	n := 0
	for range ecs.NewView[struct{ *Position }](storage).Iter() {
		n++
	}
	return n
}

func TestCommandsDeferredUntilFlush(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	seenDuringFrame := -1
	scheduler.Register(funcSystem(func(frame *ecs.UpdateFrame) {
		frame.Commands.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5})
		frame.Commands.Spawn(Position{X: 3, Y: 4})
		assert.True(t, frame.Commands.Pending())
	}))
	scheduler.Register(funcSystem(func(frame *ecs.UpdateFrame) {
		seenDuringFrame = countPositions(frame.Storage)
	}))

	scheduler.Once(0.016)

	assert.Equal(t, 0, seenDuringFrame)
	assert.Equal(t, 2, countPositions(storage))
}

func TestCommandsFlushOrder(t *testing.T) {
	registry := newTestRegistry()

	t.Run("delete wins over add", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		id := storage.Spawn(Position{X: 1})

		cmds := ecs.NewScheduler(storage)
		cmds.Register(funcSystem(func(frame *ecs.UpdateFrame) {
			frame.Commands.AddComponent(id, Velocity{DX: 1})
			frame.Commands.Delete(id)
			frame.Commands.Spawn(Health{Current: 100})
		}))
		cmds.Once(0)

		assert.False(t, storage.Alive(id))
		assert.Equal(t, 0, countPositions(storage))
		assert.NotNil(t, storage.GetArchetype(Health{}))
	})

	t.Run("remove then add follows the moved entity", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		id := storage.Spawn(Position{X: 1}, Velocity{DX: 2})

		cmds := ecs.NewScheduler(storage)
		cmds.Register(funcSystem(func(frame *ecs.UpdateFrame) {
			frame.Commands.RemoveComponent(id, reflect.TypeOf(Velocity{}))
			frame.Commands.AddComponent(id, Health{Current: 3})
		}))
		cmds.Once(0)

		view := ecs.NewView[struct {
			*Position
			*Health
			Velocity *Velocity `ecs:"optional"`
		}](storage)

		found := 0
		for item := range view.Values() {
			found++
			assert.Equal(t, float32(1), item.Position.X)
			assert.Equal(t, 3, item.Health.Current)
			assert.Nil(t, item.Velocity)
		}
		assert.Equal(t, 1, found)
	})

	t.Run("defers run last", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		var order []string

		cmds := ecs.NewScheduler(storage)
		cmds.Register(funcSystem(func(frame *ecs.UpdateFrame) {
			frame.Commands.Defer(func() {
				order = append(order, "defer")
				require.Equal(t, 1, countPositions(storage))
			})
			frame.Commands.Spawn(Position{})
		}))
		cmds.Once(0)

		assert.Equal(t, []string{"defer"}, order)
	})
}
