package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// ComponentRegistry maps component types to the column factories used to store
// them. Each Storage owns one registry, so independent worlds never share
// component ids.
type ComponentRegistry struct {
	ids       map[reflect.Type]uint32
	factories map[reflect.Type]func() column
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		ids:       make(map[reflect.Type]uint32),
		factories: make(map[reflect.Type]func() column),
	}
}

// RegisterComponent registers T with the registry. Every component type must
// be registered before it is spawned. Registering twice is a no-op.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	if _, ok := r.ids[t]; ok {
		return
	}
	r.ids[t] = uint32(len(r.ids) + 1)
	r.factories[t] = func() column {
		return &blockColumn[T]{}
	}
}

func (r *ComponentRegistry) componentId(t reflect.Type) uint32 {
	id, ok := r.ids[t]
	if !ok {
		panic("ecs: component type " + t.String() + " not registered")
	}
	return id
}

func (r *ComponentRegistry) newColumn(t reflect.Type) column {
	factory, ok := r.factories[t]
	if !ok {
		panic("ecs: component type " + t.String() + " not registered")
	}
	return factory()
}

// column is the type-erased storage for one component type in one archetype.
type column interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Pointer(index int) unsafe.Pointer
	Has(index int) bool
	Len() int
	Compact() map[int]int
	Iter() iter.Seq[int]
}

const blockSize = 64

type block[T any] struct {
	values [blockSize]T
	filled [blockSize]bool
}

// blockColumn stores components in fixed-size heap blocks. Blocks are never
// moved, so pointers handed out by Get stay valid until the slot is deleted
// or the column is compacted.
type blockColumn[T any] struct {
	blocks    []*block[T]
	freeSlots []int
	nextIndex int
	count     int
}

func (c *blockColumn[T]) locate(index int) (*block[T], int) {
	if index < 0 {
		return nil, 0
	}
	b := index / blockSize
	if b >= len(c.blocks) {
		return nil, 0
	}
	return c.blocks[b], index % blockSize
}

// Append stores item, reusing a freed slot when one is available. Item may be
// a T or a *T; anything else is rejected with -1.
func (c *blockColumn[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		return -1
	}

	var index int
	if n := len(c.freeSlots); n > 0 {
		index = c.freeSlots[n-1]
		c.freeSlots = c.freeSlots[:n-1]
	} else {
		index = c.nextIndex
		c.nextIndex++
		if index/blockSize >= len(c.blocks) {
			c.blocks = append(c.blocks, &block[T]{})
		}
	}

	b, slot := c.locate(index)
	b.values[slot] = value
	b.filled[slot] = true
	c.count++
	return index
}

// Get returns a *T for the slot or nil when it is empty.
func (c *blockColumn[T]) Get(index int) any {
	b, slot := c.locate(index)
	if b == nil || !b.filled[slot] {
		return nil
	}
	return &b.values[slot]
}

func (c *blockColumn[T]) Pointer(index int) unsafe.Pointer {
	b, slot := c.locate(index)
	if b == nil || !b.filled[slot] {
		return nil
	}
	return unsafe.Pointer(&b.values[slot])
}

func (c *blockColumn[T]) Delete(index int) {
	b, slot := c.locate(index)
	if b == nil || !b.filled[slot] {
		return
	}
	var zero T
	b.values[slot] = zero
	b.filled[slot] = false
	c.freeSlots = append(c.freeSlots, index)
	c.count--
}

func (c *blockColumn[T]) Has(index int) bool {
	b, slot := c.locate(index)
	return b != nil && b.filled[slot]
}

func (c *blockColumn[T]) Len() int {
	return c.count
}

// Compact packs live slots to the front and returns old index -> new index.
func (c *blockColumn[T]) Compact() map[int]int {
	moved := make(map[int]int, c.count)
	packed := make([]*block[T], 0, (c.count+blockSize-1)/blockSize)

	write := 0
	for read := range c.Iter() {
		if write/blockSize >= len(packed) {
			packed = append(packed, &block[T]{})
		}
		src, srcSlot := c.locate(read)
		dst := packed[write/blockSize]
		dst.values[write%blockSize] = src.values[srcSlot]
		dst.filled[write%blockSize] = true
		moved[read] = write
		write++
	}

	c.blocks = packed
	c.freeSlots = nil
	c.nextIndex = write
	return moved
}

func (c *blockColumn[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.nextIndex; i++ {
			b, slot := c.locate(i)
			if b == nil || !b.filled[slot] {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}
