package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

// View reads entities through a struct of component pointers.
//
// Every pointer field names a component type. Embedded fields are always
// required; named fields may be tagged `ecs:"optional"` and are left nil when
// the entity lacks that component. A field of type EntityId receives the id
// of the entity being visited.
type View[T any] struct {
	storage  *Storage
	types    []reflect.Type
	optional []bool
	offsets  []uintptr

	hasId    bool
	idOffset uintptr
}

// NewView creates a new view for the given struct type.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("ecs: View type parameter must be a struct")
	}

	v := &View[T]{storage: storage}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			v.hasId = true
			v.idOffset = field.Offset
			continue
		}
		if field.Type.Kind() != reflect.Pointer {
			panic("ecs: View struct fields must be pointer types or EntityId")
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" && !field.Anonymous {
			if tag != "optional" {
				panic("ecs: invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
			optional = true
		}

		v.types = append(v.types, field.Type.Elem())
		v.optional = append(v.optional, optional)
		v.offsets = append(v.offsets, field.Offset)
	}
	return v
}

// Fill populates ptr for entity id. It returns false if the entity is dead or
// misses a required component.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype, ok := v.storage.archetypes.Get(id.ArchetypeId())
	if !ok || !v.matches(archetype) {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), archetype, int(id.Index()), v.columnsOf(archetype))
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components.
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

func (v *View[T]) matches(archetype *Archetype) bool {
	for i, t := range v.types {
		if !v.optional[i] && !archetype.HasComponent(t) {
			return false
		}
	}
	return true
}

// columnsOf maps each view field to a column index in archetype, -1 if absent.
func (v *View[T]) columnsOf(archetype *Archetype) []int {
	cols := make([]int, len(v.types))
	for i, t := range v.types {
		cols[i] = archetype.columnIndex(t)
	}
	return cols
}

func (v *View[T]) populate(dst unsafe.Pointer, archetype *Archetype, index int, cols []int) bool {
	for i, col := range cols {
		field := (*unsafe.Pointer)(unsafe.Add(dst, v.offsets[i]))

		var ptr unsafe.Pointer
		if col != -1 {
			ptr = archetype.columns[col].Pointer(index)
		}
		if ptr == nil && !v.optional[i] {
			return false
		}
		*field = ptr
	}
	if v.hasId {
		*(*EntityId)(unsafe.Add(dst, v.idOffset)) = NewEntityId(archetype.id, uint32(index))
	}
	return true
}

func (v *View[T]) iterArchetype(archetype *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		if len(archetype.columns) == 0 {
			return
		}

		cols := v.columnsOf(archetype)
		var result T
		for index := range archetype.columns[0].Iter() {
			if !v.populate(unsafe.Pointer(&result), archetype, index, cols) {
				continue
			}
			if !yield(NewEntityId(archetype.id, uint32(index)), result) {
				return
			}
		}
	}
}

// Iter yields every entity that has the view's required components.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		v.storage.Archetypes(func(a *Archetype) bool {
			if !v.matches(a) {
				return true
			}
			for id, item := range v.iterArchetype(a) {
				if !yield(id, item) {
					return false
				}
			}
			return true
		})
	}
}

// Values is Iter without the entity ids.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range v.Iter() {
			if !yield(item) {
				return
			}
		}
	}
}
