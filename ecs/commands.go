package ecs

import "reflect"

// Commands buffers structural changes (spawns, deletes, component moves) so
// that systems never mutate storage layout mid-iteration. The scheduler
// flushes the buffer after all systems have run.
type Commands struct {
	spawns  [][]any
	deletes []EntityId
	adds    []addCommand
	removes []removeCommand
	defers  []func()
}

type addCommand struct {
	entity    EntityId
	component any
}

type removeCommand struct {
	entity EntityId
	typ    reflect.Type
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues an entity spawn with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Delete queues an entity deletion.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues a component addition.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addCommand{entity: entity, component: component})
}

// RemoveComponent queues a component removal.
func (c *Commands) RemoveComponent(entity EntityId, typ reflect.Type) {
	c.removes = append(c.removes, removeCommand{entity: entity, typ: typ})
}

// Defer queues an arbitrary function to run during the flush, after all
// structural changes.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Flush applies all buffered operations to the storage and resets the
// buffer. Deletions win over adds and removes targeting the same entity.
func (c *Commands) Flush(storage *Storage) {
	deleted := make(map[EntityId]bool, len(c.deletes))
	for _, id := range c.deletes {
		storage.Delete(id)
		deleted[id] = true
	}

	// Component moves change an entity's id; later commands queued against
	// the old id must follow the entity through its moves.
	moved := make(map[EntityId]EntityId)
	resolve := func(id EntityId) EntityId {
		if newId, ok := moved[id]; ok {
			return newId
		}
		return id
	}

	for _, cmd := range c.removes {
		if deleted[cmd.entity] {
			continue
		}
		id := resolve(cmd.entity)
		if id == 0 {
			continue
		}
		if newId := storage.RemoveComponent(id, cmd.typ); newId != id {
			moved[cmd.entity] = newId
		}
	}

	for _, cmd := range c.adds {
		if deleted[cmd.entity] {
			continue
		}
		id := resolve(cmd.entity)
		if id == 0 {
			continue
		}
		if newId := storage.AddComponent(id, cmd.component); newId != id {
			moved[cmd.entity] = newId
		}
	}

	for _, components := range c.spawns {
		storage.Spawn(components...)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
