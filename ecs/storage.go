package ecs

import (
	"reflect"
	"unsafe"
	"weak"
)

// Storage is the root of an ECS instance: a set of archetypes keyed by
// component bitmask, plus off-entity singletons.
type Storage struct {
	registry   *ComponentRegistry
	archetypes []*Archetype
	byMask     map[uint64]uint32
	singletons map[reflect.Type]unsafe.Pointer
}

// NewStorage creates a storage backed by the given component registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		byMask:     make(map[uint64]uint32),
		singletons: make(map[reflect.Type]unsafe.Pointer),
	}
}

// archetypeFor returns the archetype for a mask, creating it on first use.
// Archetype ids are dense and start at 1, so a zero EntityId never refers to
// a live entity.
func (s *Storage) archetypeFor(mask uint64) *Archetype {
	if id, ok := s.byMask[mask]; ok {
		return s.archetypes[id-1]
	}
	id := uint32(len(s.archetypes) + 1)
	arch := newArchetype(id, mask, s.registry)
	s.archetypes = append(s.archetypes, arch)
	s.byMask[mask] = id
	return arch
}

func (s *Storage) archetype(id uint32) *Archetype {
	if id == 0 || int(id) > len(s.archetypes) {
		return nil
	}
	return s.archetypes[id-1]
}

// Spawn creates a new entity from the given components.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("ecs: cannot spawn entity without components")
	}
	arch := s.archetypeFor(s.registry.maskOf(components))
	row := arch.spawn(components)
	return NewEntityId(arch.id, row)
}

// Delete removes the entity and all its components.
func (s *Storage) Delete(id EntityId) {
	if arch := s.archetype(id.Archetype()); arch != nil {
		arch.Delete(id.Row())
	}
}

// GetComponent returns a pointer (as any) to the entity's component of the
// given type, or nil.
func (s *Storage) GetComponent(id EntityId, t reflect.Type) any {
	arch := s.archetype(id.Archetype())
	if arch == nil {
		return nil
	}
	return arch.GetComponent(id.Row(), t)
}

// HasComponent reports whether the entity's archetype carries the type.
func (s *Storage) HasComponent(id EntityId, t reflect.Type) bool {
	arch := s.archetype(id.Archetype())
	return arch != nil && arch.HasComponent(t)
}

// AddComponent attaches a component to an existing entity, moving it to the
// matching archetype, and returns its new id. Adding a component the entity
// already has overwrites the value in place. Returns 0 when the entity no
// longer exists.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	old := s.archetype(id.Archetype())
	if old == nil || !old.live(id.Row()) {
		return 0
	}

	t := componentType(component)
	bit := s.registry.mustBitOf(t)

	if old.mask&(1<<bit) != 0 {
		col := old.columnFor(bit)
		p := col.ptr(int(id.Row()))
		if p == nil {
			return 0
		}
		v := reflect.ValueOf(component)
		if v.Kind() == reflect.Ptr {
			v = v.Elem()
		}
		reflect.NewAt(t, p).Elem().Set(v)
		return id
	}

	components := s.collectComponents(old, id.Row())
	components = append(components, component)
	return s.moveEntity(old, id, old.mask|(1<<bit), components)
}

// RemoveComponent detaches a component type from an entity and returns its
// new id. Removing the last component deletes the entity and returns 0, as
// does removing from an entity that no longer exists.
func (s *Storage) RemoveComponent(id EntityId, t reflect.Type) EntityId {
	old := s.archetype(id.Archetype())
	if old == nil || !old.live(id.Row()) {
		return 0
	}
	bit, ok := s.registry.bitOf(t)
	if !ok || old.mask&(1<<bit) == 0 {
		return id
	}

	newMask := old.mask &^ (1 << bit)
	if newMask == 0 {
		old.Delete(id.Row())
		return 0
	}

	components := make([]any, 0, len(old.bits)-1)
	for _, b := range old.bits {
		if b == bit {
			continue
		}
		components = append(components, old.columns[indexOfBit(old.bits, b)].get(int(id.Row())))
	}
	return s.moveEntity(old, id, newMask, components)
}

func indexOfBit(bits []uint8, bit uint8) int {
	for i, b := range bits {
		if b == bit {
			return i
		}
	}
	return -1
}

// collectComponents snapshots every component of a row as *T values.
func (s *Storage) collectComponents(arch *Archetype, row uint32) []any {
	components := make([]any, 0, len(arch.columns))
	for _, col := range arch.columns {
		components = append(components, col.get(int(row)))
	}
	return components
}

// moveEntity respawns the row's components in the archetype for newMask,
// carries any live ref over, and deletes the old row.
func (s *Storage) moveEntity(old *Archetype, id EntityId, newMask uint64, components []any) EntityId {
	weakPtr, hasRef := old.refs.Get(id)

	next := s.archetypeFor(newMask)
	row := next.spawn(components)
	newId := NewEntityId(next.id, row)

	if hasRef {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = newId
			ref.archetype = next
		}
		old.refs.Del(id)
		next.refs.Put(newId, weakPtr)
	}

	old.Delete(id.Row())
	return newId
}

// CreateEntityRef returns a stable ref for the entity, reusing a live one
// when it exists.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	arch := s.archetype(id.Archetype())
	if arch == nil {
		return nil
	}

	if weakPtr, ok := arch.refs.Get(id); ok {
		if ref := weakPtr.Value(); ref != nil {
			return ref
		}
		arch.refs.Del(id)
	}

	ref := &EntityRef{Id: id, archetype: arch}
	arch.refs.Put(id, weak.Make(ref))
	return ref
}

// ResolveEntityRef returns the entity id behind a ref, or false when the ref
// is nil or the entity is gone.
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if ref == nil || ref.Id == 0 {
		return 0, false
	}
	return ref.Id, true
}

// InvalidateEntityRef detaches a ref from its entity without deleting the
// entity. Returns false if the ref was already dead.
func (s *Storage) InvalidateEntityRef(ref *EntityRef) bool {
	if ref == nil || ref.Id == 0 {
		return false
	}
	if arch := s.archetype(ref.Id.Archetype()); arch != nil {
		arch.refs.Del(ref.Id)
	}
	ref.Id = 0
	ref.archetype = nil
	return true
}

// Compact squeezes deleted rows out of every archetype. Live EntityRefs
// survive; raw EntityIds held from before the call do not.
func (s *Storage) Compact() {
	for _, arch := range s.archetypes {
		arch.Compact()
	}
}

// ComponentReader is the read surface needed by ReadComponent.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent fetches a typed component pointer for an entity, or nil.
func ReadComponent[T any](reader ComponentReader, id EntityId) *T {
	comp := reader.GetComponent(id, reflect.TypeFor[T]())
	if comp == nil {
		return nil
	}
	return comp.(*T)
}
