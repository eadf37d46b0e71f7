package ecs

import (
	"reflect"
	"slices"
)

// Archetype holds every entity that has exactly the same set of component
// types. Columns are parallel: slot i of each column belongs to one entity.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
	}
	for i, t := range types {
		a.columns[i] = registry.newColumn(t)
	}
	return a
}

func (a *Archetype) columnIndex(t reflect.Type) int {
	return slices.Index(a.types, t)
}

// spawn appends one component per column and returns the shared slot index.
// Components must already be ordered like a.types.
func (a *Archetype) spawn(components []any) uint32 {
	slot := -1
	for i, comp := range components {
		idx := a.columns[i].Append(comp)
		if slot != -1 && idx != slot {
			panic("ecs: archetype columns out of step")
		}
		slot = idx
	}
	return uint32(slot)
}

// GetComponent returns a pointer to the component of type compType stored in
// slot index, or nil.
func (a *Archetype) GetComponent(index uint32, compType reflect.Type) any {
	i := a.columnIndex(compType)
	if i == -1 {
		return nil
	}
	return a.columns[i].Get(int(index))
}

// Delete frees the slot in every column. Slot indices of other entities are
// unaffected.
func (a *Archetype) Delete(index uint32) {
	for _, c := range a.columns {
		c.Delete(int(index))
	}
}

// Alive reports whether slot index currently holds an entity.
func (a *Archetype) Alive(index uint32) bool {
	return len(a.columns) > 0 && a.columns[0].Has(int(index))
}

// HasComponent checks if this archetype has the given component type.
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return a.columnIndex(compType) != -1
}

// ID returns the archetype's unique identifier.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the component types of this archetype in registry order.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].Len()
}

// Compact removes holes left by deletions. EntityIds issued before the call
// are invalidated.
func (a *Archetype) Compact() {
	for _, c := range a.columns {
		c.Compact()
	}
}

// Iter yields the id of every live entity in this archetype.
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for index := range a.columns[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}
