package ecs

import (
	"iter"
)

// Query is a View whose results are collected once per frame. The Scheduler
// calls Execute on every Query field of a system right before the system
// runs, so Iter inside System.Execute always sees the current frame.
type Query[T any] struct {
	view    *View[T]
	storage *Storage

	cachedArchetypes   []*Archetype
	lastArchetypeCount int

	entities   []EntityId
	components []T
	cacheValid bool
}

// NewQuery creates a new Query with archetype-level caching.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.lastArchetypeCount = -1
	q.cacheValid = false
}

// Execute rebuilds the entity and component caches.
func (q *Query[T]) Execute() {
	if count := q.storage.ArchetypeCount(); count != q.lastArchetypeCount {
		q.cachedArchetypes = q.cachedArchetypes[:0]
		q.storage.Archetypes(func(a *Archetype) bool {
			if q.view.matches(a) {
				q.cachedArchetypes = append(q.cachedArchetypes, a)
			}
			return true
		})
		q.lastArchetypeCount = count
	}

	q.entities = q.entities[:0]
	q.components = q.components[:0]
	for _, archetype := range q.cachedArchetypes {
		for id, item := range q.view.iterArchetype(archetype) {
			q.entities = append(q.entities, id)
			q.components = append(q.components, item)
		}
	}
	q.cacheValid = true
}

// Iter returns an iterator over entity IDs and component data.
// Panics if Execute() has not been called.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.cacheValid {
		panic("ecs: Query.Iter() called before Query.Execute()")
	}
	return func(yield func(EntityId, T) bool) {
		for i := range q.entities {
			if !yield(q.entities[i], q.components[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
// Panics if Execute() has not been called.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.cacheValid {
		panic("ecs: Query.Values() called before Query.Execute()")
	}
	return func(yield func(T) bool) {
		for i := range q.components {
			if !yield(q.components[i]) {
				return
			}
		}
	}
}

// Len returns how many entities matched at the last Execute.
func (q *Query[T]) Len() int {
	return len(q.entities)
}
