package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/poseninja/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		index       uint32
	}{
		{0, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 0},
		{0, 1},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,index=%d", tt.archetypeId, tt.index), func(t *testing.T) {
			id := ecs.NewEntityId(tt.archetypeId, tt.index)
			assert.Equal(t, tt.archetypeId, id.ArchetypeId())
			assert.Equal(t, tt.index, id.Index())
		})
	}
}

func TestSpawnAndGetComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 3, Y: 4}, Name{Value: "dot"}, Score(7))
	require.True(t, storage.Alive(id))

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, float32(3), pos.X)
	assert.Equal(t, float32(4), pos.Y)

	assert.Equal(t, "dot", ecs.ReadComponent[Name](storage, id).Value)
	assert.Equal(t, Score(7), *ecs.ReadComponent[Score](storage, id))
	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))

	assert.True(t, storage.HasComponent(id, reflect.TypeOf(Position{})))
	assert.False(t, storage.HasComponent(id, reflect.TypeOf(Velocity{})))
}

func TestComponentOrderDoesNotChangeArchetype(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{}, Velocity{})
	b := storage.Spawn(Velocity{}, Position{})

	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId())
	assert.NotEqual(t, a.Index(), b.Index())
	assert.Equal(t, 1, storage.ArchetypeCount())
	assert.NotNil(t, storage.GetArchetype(Velocity{}, Position{}))
}

func TestSpawnPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	t.Run("no components", func(t *testing.T) {
		assert.Panics(t, func() { storage.Spawn() })
	})

	t.Run("unregistered type", func(t *testing.T) {
		type unknown struct{}
		assert.Panics(t, func() { storage.Spawn(unknown{}) })
	})

	t.Run("duplicate type", func(t *testing.T) {
		assert.Panics(t, func() { storage.Spawn(Position{}, &Position{}) })
	})

	t.Run("map component", func(t *testing.T) {
		assert.Panics(t, func() { storage.Spawn(map[string]int{}) })
	})
}

func TestDeleteReusesSlot(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	first := storage.Spawn(Position{X: 1})
	second := storage.Spawn(Position{X: 2})

	storage.Delete(first)
	assert.False(t, storage.Alive(first))
	assert.True(t, storage.Alive(second))
	assert.Nil(t, ecs.ReadComponent[Position](storage, first))

	storage.Delete(first)

	third := storage.Spawn(Position{X: 3})
	assert.Equal(t, first, third, "freed slot should be reused")
	assert.Equal(t, float32(3), ecs.ReadComponent[Position](storage, third).X)
	assert.Equal(t, float32(2), ecs.ReadComponent[Position](storage, second).X)
}

func TestPointersSurviveGrowth(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 42})
	pos := ecs.ReadComponent[Position](storage, id)

	for i := 0; i < 500; i++ {
		storage.Spawn(Position{X: float32(i)})
	}

	pos.X = 99
	assert.Equal(t, float32(99), ecs.ReadComponent[Position](storage, id).X)
}

func TestAddComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 5, Y: 6})
	moved := storage.AddComponent(id, Velocity{DX: 1, DY: 2})

	assert.NotEqual(t, id.ArchetypeId(), moved.ArchetypeId())
	assert.False(t, storage.Alive(id))
	require.True(t, storage.Alive(moved))

	assert.Equal(t, float32(5), ecs.ReadComponent[Position](storage, moved).X)
	assert.Equal(t, float32(2), ecs.ReadComponent[Velocity](storage, moved).DY)

	t.Run("existing type overwrites in place", func(t *testing.T) {
		same := storage.AddComponent(moved, Velocity{DX: 9})
		assert.Equal(t, moved, same)
		assert.Equal(t, float32(9), ecs.ReadComponent[Velocity](storage, same).DX)
	})

	t.Run("dead entity", func(t *testing.T) {
		assert.Equal(t, ecs.EntityId(0), storage.AddComponent(id, Health{}))
	})
}

func TestRemoveComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1}, Velocity{DX: 3})
	moved := storage.RemoveComponent(id, reflect.TypeOf(Velocity{}))

	require.True(t, storage.Alive(moved))
	assert.False(t, storage.HasComponent(moved, reflect.TypeOf(Velocity{})))
	assert.Equal(t, float32(1), ecs.ReadComponent[Position](storage, moved).X)

	t.Run("missing type is a no-op", func(t *testing.T) {
		assert.Equal(t, moved, storage.RemoveComponent(moved, reflect.TypeOf(Health{})))
	})

	t.Run("last component deletes entity", func(t *testing.T) {
		gone := storage.RemoveComponent(moved, reflect.TypeOf(Position{}))
		assert.Equal(t, ecs.EntityId(0), gone)
		assert.False(t, storage.Alive(moved))
	})
}

func TestArchetypeCompact(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var ids []ecs.EntityId
	for i := 0; i < 10; i++ {
		ids = append(ids, storage.Spawn(Position{X: float32(i)}))
	}
	for i := 0; i < 10; i += 2 {
		storage.Delete(ids[i])
	}

	archetype := storage.GetArchetype(Position{})
	require.NotNil(t, archetype)
	assert.Equal(t, 5, archetype.Len())

	archetype.Compact()
	assert.Equal(t, 5, archetype.Len())

	var xs []float32
	for id := range archetype.Iter() {
		assert.Less(t, id.Index(), uint32(5))
		xs = append(xs, ecs.ReadComponent[Position](storage, id).X)
	}
	assert.Equal(t, []float32{1, 3, 5, 7, 9}, xs)
}

func TestEntityIdString(t *testing.T) {
	assert.Equal(t, "0000002a:7", ecs.NewEntityId(42, 7).String())
}
