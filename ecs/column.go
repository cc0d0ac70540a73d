package ecs

import (
	"iter"
	"unsafe"
)

// iColumn is a type-erased dense column holding one component type for one
// archetype. Rows align across all columns of an archetype because every
// structural operation touches every column.
type iColumn interface {
	append(v any) int
	ptr(row int) unsafe.Pointer
	get(row int) any
	has(row int) bool
	delete(row int)
	size() int
	compact() map[int]int
	rows() iter.Seq[int]
}

// column stores components of type T in a flat slice with a free list.
// Deleted rows are zeroed and recycled; indices stay stable until compact.
type column[T any] struct {
	items  []T
	filled []bool
	free   []int
}

func (c *column[T]) append(v any) int {
	var item T
	switch x := v.(type) {
	case T:
		item = x
	case *T:
		item = *x
	default:
		return -1
	}

	if n := len(c.free); n > 0 {
		row := c.free[n-1]
		c.free = c.free[:n-1]
		c.items[row] = item
		c.filled[row] = true
		return row
	}

	c.items = append(c.items, item)
	c.filled = append(c.filled, true)
	return len(c.items) - 1
}

func (c *column[T]) ptr(row int) unsafe.Pointer {
	if !c.has(row) {
		return nil
	}
	return unsafe.Pointer(&c.items[row])
}

func (c *column[T]) get(row int) any {
	if !c.has(row) {
		return nil
	}
	return &c.items[row]
}

func (c *column[T]) has(row int) bool {
	return row >= 0 && row < len(c.items) && c.filled[row]
}

func (c *column[T]) delete(row int) {
	if !c.has(row) {
		return
	}
	var zero T
	c.items[row] = zero
	c.filled[row] = false
	c.free = append(c.free, row)
}

// size returns the number of live rows.
func (c *column[T]) size() int {
	return len(c.items) - len(c.free)
}

// compact squeezes live rows to the front, preserving order, and returns the
// old-row -> new-row mapping.
func (c *column[T]) compact() map[int]int {
	remap := make(map[int]int)
	write := 0
	for read := range c.items {
		if !c.filled[read] {
			continue
		}
		if read != write {
			c.items[write] = c.items[read]
		}
		remap[read] = write
		write++
	}
	c.items = c.items[:write]
	c.filled = c.filled[:write]
	for i := range c.filled {
		c.filled[i] = true
	}
	c.free = c.free[:0]
	return remap
}

func (c *column[T]) rows() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range c.items {
			if c.filled[i] && !yield(i) {
				return
			}
		}
	}
}
