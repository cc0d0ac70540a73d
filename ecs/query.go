package ecs

import (
	"iter"
	"unsafe"
)

// Query wraps a View with caching for repeated per-frame iteration. Systems
// declare Query fields; the scheduler initializes them at registration and
// refreshes their caches before the system executes each frame.
type Query[T any] struct {
	view    *View[T]
	storage *Storage

	cachedArchetypes   []*Archetype
	lastArchetypeCount int

	cachedEntities   []EntityId
	cachedComponents []T
	cacheValid       bool
}

// NewQuery creates a standalone query. Queries embedded in systems do not
// need this; the scheduler calls Init for them.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init attaches the query to a storage. Called by the Scheduler for Query
// fields of registered systems.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.lastArchetypeCount = -1
	q.cacheValid = false
}

// Refresh rebuilds the entity and component caches. The scheduler calls this
// before each owning system runs; standalone queries call it manually.
func (q *Query[T]) Refresh() {
	if len(q.storage.archetypes) != q.lastArchetypeCount {
		q.cachedArchetypes = nil
		q.lastArchetypeCount = len(q.storage.archetypes)
	}
	if q.cachedArchetypes == nil {
		q.cachedArchetypes = make([]*Archetype, 0)
		for _, arch := range q.storage.archetypes {
			if q.view.matches(arch) {
				q.cachedArchetypes = append(q.cachedArchetypes, arch)
			}
		}
	}

	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]

	for _, arch := range q.cachedArchetypes {
		if len(arch.columns) == 0 {
			continue
		}
		var result T
		resultPtr := unsafe.Pointer(&result)
		for row := range arch.columns[0].rows() {
			id := NewEntityId(arch.id, uint32(row))
			if !q.view.populate(resultPtr, arch, uint32(row), id) {
				continue
			}
			q.cachedEntities = append(q.cachedEntities, id)
			q.cachedComponents = append(q.cachedComponents, result)
		}
	}

	q.cacheValid = true
}

// Iter yields the cached (EntityId, T) pairs. Panics if the query has never
// been refreshed.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.cacheValid {
		panic("ecs: Query.Iter called before Refresh")
	}
	return func(yield func(EntityId, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values yields only the cached component structs.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.cacheValid {
		panic("ecs: Query.Values called before Refresh")
	}
	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Count returns the number of cached matches.
func (q *Query[T]) Count() int {
	if !q.cacheValid {
		panic("ecs: Query.Count called before Refresh")
	}
	return len(q.cachedEntities)
}
