package ecs

import (
	"reflect"
	"slices"

	"github.com/kamstrup/intmap"
)

// Storage is the main ECS storage interface.
type Storage struct {
	archetypes *intmap.Map[uint32, *Archetype]
	registry   *ComponentRegistry
	singletons map[reflect.Type]*singletonEntry
}

// NewStorage creates a new ECS storage system with the given component registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: intmap.New[uint32, *Archetype](32),
		registry:   registry,
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the registry this storage was created with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Archetypes calls fn for every archetype until fn returns false.
func (s *Storage) Archetypes(fn func(*Archetype) bool) {
	s.archetypes.ForEach(func(_ uint32, a *Archetype) bool {
		return fn(a)
	})
}

// ArchetypeCount returns the number of archetypes created so far.
func (s *Storage) ArchetypeCount() int {
	return s.archetypes.Len()
}

// GetArchetype returns the archetype holding exactly the given component
// types, or nil.
func (s *Storage) GetArchetype(components ...any) *Archetype {
	types, _ := s.sortComponents(components)
	a, _ := s.archetypes.Get(s.hashTypes(types))
	return a
}

// GetArchetypeById returns the archetype with the given id, or nil.
func (s *Storage) GetArchetypeById(id uint32) *Archetype {
	a, _ := s.archetypes.Get(id)
	return a
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	id := s.hashTypes(types)
	a, ok := s.archetypes.Get(id)
	if !ok {
		a = newArchetype(id, types, s.registry)
		s.archetypes.Put(id, a)
	}
	return a
}

// Spawn creates a new entity with the provided components. Components may be
// values or pointers to values; pointers are copied.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("ecs: cannot spawn entity without components")
	}

	types, ordered := s.sortComponents(components)
	a := s.archetypeFor(types)
	return NewEntityId(a.id, a.spawn(ordered))
}

// Delete removes all data related to the entity ID. Deleting a dead entity is
// a no-op.
func (s *Storage) Delete(id EntityId) {
	if a, ok := s.archetypes.Get(id.ArchetypeId()); ok {
		a.Delete(id.Index())
	}
}

// Alive reports whether id refers to a live entity.
func (s *Storage) Alive(id EntityId) bool {
	a, ok := s.archetypes.Get(id.ArchetypeId())
	return ok && a.Alive(id.Index())
}

// AddComponent moves the entity to the archetype that also contains the new
// component and returns its new id. Adding a type the entity already has
// overwrites the value in place.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	old, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok || !old.Alive(id.Index()) {
		return 0
	}

	compType := componentType(component)
	if i := old.columnIndex(compType); i != -1 {
		old.columns[i].Delete(int(id.Index()))
		old.columns[i].Append(component)
		return id
	}

	components := make([]any, 0, len(old.types)+1)
	components = append(components, component)
	for _, t := range old.types {
		components = append(components, old.GetComponent(id.Index(), t))
	}
	return s.move(id, old, components)
}

// RemoveComponent moves the entity to the archetype without compType and
// returns its new id. Removing the last component deletes the entity and
// returns 0.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) EntityId {
	old, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok || !old.Alive(id.Index()) || !old.HasComponent(compType) {
		return id
	}

	components := make([]any, 0, len(old.types))
	for _, t := range old.types {
		if t != compType {
			components = append(components, old.GetComponent(id.Index(), t))
		}
	}
	if len(components) == 0 {
		old.Delete(id.Index())
		return 0
	}
	return s.move(id, old, components)
}

func (s *Storage) move(id EntityId, old *Archetype, components []any) EntityId {
	types, ordered := s.sortComponents(components)
	target := s.archetypeFor(types)
	newId := NewEntityId(target.id, target.spawn(ordered))
	old.Delete(id.Index())
	return newId
}

// GetComponent returns the component for the given entity ID and component type.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	a, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok {
		return nil
	}
	return a.GetComponent(id.Index(), compType)
}

// HasComponent checks if an entity has a specific component type.
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	a, ok := s.archetypes.Get(id.ArchetypeId())
	return ok && a.HasComponent(compType)
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
		panic("ecs: components cannot be pointers, maps, channels, or functions")
	}
	return t
}

// sortComponents orders components by registry id and returns their types in
// the same order.
func (s *Storage) sortComponents(components []any) ([]reflect.Type, []any) {
	type entry struct {
		id   uint32
		typ  reflect.Type
		comp any
	}

	entries := make([]entry, len(components))
	for i, comp := range components {
		t := componentType(comp)
		entries[i] = entry{id: s.registry.componentId(t), typ: t, comp: comp}
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return int(a.id) - int(b.id)
	})

	types := make([]reflect.Type, len(entries))
	ordered := make([]any, len(entries))
	for i, e := range entries {
		if i > 0 && entries[i-1].id == e.id {
			panic("ecs: duplicate component type " + e.typ.String())
		}
		types[i] = e.typ
		ordered[i] = e.comp
	}
	return types, ordered
}

// hashTypes computes an FNV-1a hash over the registry ids of sorted types.
func (s *Storage) hashTypes(types []reflect.Type) uint32 {
	const prime uint32 = 16777619
	h := uint32(2166136261)
	for _, t := range types {
		id := s.registry.componentId(t)
		for shift := 0; shift < 32; shift += 8 {
			h ^= (id >> shift) & 0xFF
			h *= prime
		}
	}
	return h
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the T component of entityId, or nil when the entity
// is dead or has no T.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
