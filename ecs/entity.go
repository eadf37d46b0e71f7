package ecs

import "fmt"

// EntityId packs the archetype ID into the upper 32 bits and the slot index
// into the lower 32 bits. The zero id never names a live entity.
type EntityId uint64

func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

func (e EntityId) Index() uint32 {
	return uint32(e)
}

// String formats the id as archetype:index in hex and decimal.
func (e EntityId) String() string {
	return fmt.Sprintf("%08x:%d", e.ArchetypeId(), e.Index())
}
