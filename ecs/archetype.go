package ecs

import (
	"reflect"
	"weak"

	"github.com/kamstrup/intmap"
)

// Archetype holds every entity whose component set is exactly its mask.
// Components live in dense columns, one per set bit, ordered by ascending
// bit position.
type Archetype struct {
	id       uint32
	mask     uint64
	bits     []uint8
	columns  []iColumn
	registry *ComponentRegistry
	refs     *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

func newArchetype(id uint32, mask uint64, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		mask:     mask,
		registry: registry,
		refs:     intmap.New[EntityId, weak.Pointer[EntityRef]](64),
	}
	for bit := uint8(0); bit < uint8(len(registry.types)); bit++ {
		if mask&(1<<bit) == 0 {
			continue
		}
		a.bits = append(a.bits, bit)
		a.columns = append(a.columns, registry.factories[bit]())
	}
	return a
}

// ID returns the archetype's dense identifier.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Mask returns the archetype's component bitmask.
func (a *Archetype) Mask() uint64 {
	return a.mask
}

func (a *Archetype) columnFor(bit uint8) iColumn {
	for i, b := range a.bits {
		if b == bit {
			return a.columns[i]
		}
	}
	return nil
}

// spawn appends one value per column and returns the shared row index.
// The component list must cover the archetype's mask exactly.
func (a *Archetype) spawn(components []any) uint32 {
	row := -1
	for _, comp := range components {
		bit := a.registry.mustBitOf(componentType(comp))
		col := a.columnFor(bit)
		if col == nil {
			panic("ecs: component does not belong to archetype")
		}
		row = col.append(comp)
	}
	if row < 0 {
		panic("ecs: cannot spawn entity without components")
	}
	return uint32(row)
}

// live reports whether the row currently holds an entity.
func (a *Archetype) live(row uint32) bool {
	return len(a.columns) > 0 && a.columns[0].has(int(row))
}

// GetComponent returns a pointer (as any) to the component of the given type
// at the row, or nil when absent.
func (a *Archetype) GetComponent(row uint32, t reflect.Type) any {
	bit, ok := a.registry.bitOf(t)
	if !ok {
		return nil
	}
	col := a.columnFor(bit)
	if col == nil {
		return nil
	}
	return col.get(int(row))
}

// HasComponent reports whether the archetype carries the component type.
func (a *Archetype) HasComponent(t reflect.Type) bool {
	bit, ok := a.registry.bitOf(t)
	return ok && a.mask&(1<<bit) != 0
}

// Delete clears the row in every column and invalidates any live ref.
// Row indices stay stable; the slot is recycled by later spawns.
func (a *Archetype) Delete(row uint32) {
	id := NewEntityId(a.id, row)
	if weakPtr, ok := a.refs.Get(id); ok {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = 0
			ref.archetype = nil
		}
		a.refs.Del(id)
	}
	for _, col := range a.columns {
		col.delete(int(row))
	}
}

// Compact squeezes out deleted rows from every column. Live EntityRefs are
// rewritten to the new row indices; raw EntityIds from before the call are
// invalid afterwards.
func (a *Archetype) Compact() {
	if len(a.columns) == 0 {
		return
	}

	remap := a.columns[0].compact()
	for i := 1; i < len(a.columns); i++ {
		a.columns[i].compact()
	}

	moved := make(map[EntityId]weak.Pointer[EntityRef])
	for oldRow, newRow := range remap {
		oldId := NewEntityId(a.id, uint32(oldRow))
		weakPtr, ok := a.refs.Get(oldId)
		if !ok {
			continue
		}
		if ref := weakPtr.Value(); ref != nil {
			newId := NewEntityId(a.id, uint32(newRow))
			ref.Id = newId
			moved[newId] = weakPtr
		}
	}

	a.refs = intmap.New[EntityId, weak.Pointer[EntityRef]](64)
	for id, weakPtr := range moved {
		a.refs.Put(id, weakPtr)
	}
}

// Len returns the number of live entities in the archetype.
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].size()
}

// Iter yields the EntityId of every live row.
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for row := range a.columns[0].rows() {
			if !yield(NewEntityId(a.id, uint32(row))) {
				return
			}
		}
	}
}
