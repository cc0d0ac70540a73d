package ecs

// StorageStats is a point-in-time summary of a storage's contents.
type StorageStats struct {
	EntityCount    int
	ArchetypeCount int
	SingletonCount int
	Archetypes     []ArchetypeStats
}

// ArchetypeStats describes one archetype.
type ArchetypeStats struct {
	Id       uint32
	Mask     uint64
	Entities int
}

// CollectStats walks the storage and returns entity, archetype and singleton
// counts, plus a per-archetype breakdown.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		ArchetypeCount: len(s.archetypes),
		SingletonCount: len(s.singletons),
	}
	for _, arch := range s.archetypes {
		n := arch.Len()
		stats.EntityCount += n
		stats.Archetypes = append(stats.Archetypes, ArchetypeStats{
			Id:       arch.id,
			Mask:     arch.mask,
			Entities: n,
		})
	}
	return stats
}
