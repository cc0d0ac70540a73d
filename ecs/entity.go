package ecs

// EntityId packs an archetype id in the upper 32 bits and a row index in the
// lower 32 bits. Ids are positional: they are invalidated when the entity
// moves between archetypes or when the archetype is compacted. Use an
// EntityRef when a handle must survive those.
type EntityId uint64

// NewEntityId builds an EntityId from an archetype id and a row index.
func NewEntityId(archetype uint32, row uint32) EntityId {
	return EntityId(uint64(archetype)<<32 | uint64(row))
}

// Archetype extracts the archetype id.
func (e EntityId) Archetype() uint32 {
	return uint32(e >> 32)
}

// Row extracts the row index within the archetype.
func (e EntityId) Row() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// EntityRef is a stable handle to an entity. The storage keeps refs current
// across component adds/removes and compaction; deleting the entity leaves
// the ref with Id == 0.
type EntityRef struct {
	Id        EntityId
	archetype *Archetype
}
