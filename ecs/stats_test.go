package ecs_test

import (
	"testing"

	"github.com/plus3/poseninja/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.AddSingleton(Clock{})
	storage.AddSingleton(Name{Value: "arena"})

	for i := 0; i < 3; i++ {
		storage.Spawn(Position{}, Velocity{})
	}
	storage.Spawn(Position{})
	gone := storage.Spawn(Health{})
	storage.Delete(gone)

	stats := storage.CollectStats()
	assert.Equal(t, 3, stats.ArchetypeCount)
	assert.Equal(t, 4, stats.TotalEntityCount)
	assert.Equal(t, 2, stats.SingletonCount)
	assert.Equal(t, []string{"ecs_test.Clock", "ecs_test.Name"}, stats.SingletonTypes)

	require.Len(t, stats.ArchetypeBreakdown, 3)
	assert.Equal(t, 3, stats.ArchetypeBreakdown[0].EntityCount)
	assert.ElementsMatch(t, []string{"ecs_test.Position", "ecs_test.Velocity"}, stats.ArchetypeBreakdown[0].ComponentTypes)
	assert.Equal(t, 1, stats.ArchetypeBreakdown[1].EntityCount)
	assert.Equal(t, 0, stats.ArchetypeBreakdown[2].EntityCount)
}
