package ecs

import "reflect"

// maxComponentTypes bounds the registry so that a component set fits in a
// single uint64 mask.
const maxComponentTypes = 64

// ComponentRegistry assigns every component type a bit position and a column
// factory. Each Storage owns one registry, so independent ECS instances can
// coexist. All component types must be registered before use.
type ComponentRegistry struct {
	bits      map[reflect.Type]uint8
	types     []reflect.Type // bit -> type
	factories []func() iColumn
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		bits: make(map[reflect.Type]uint8),
	}
}

// RegisterComponent registers T with the registry. Registering the same type
// twice is a no-op.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	if k := t.Kind(); k == reflect.Ptr || k == reflect.Map || k == reflect.Chan || k == reflect.Func {
		panic("ecs: component types must be value types, got " + t.String())
	}
	if _, dup := r.bits[t]; dup {
		return
	}
	if len(r.types) >= maxComponentTypes {
		panic("ecs: component type limit (64) exceeded")
	}
	r.bits[t] = uint8(len(r.types))
	r.types = append(r.types, t)
	r.factories = append(r.factories, func() iColumn { return &column[T]{} })
}

// bitOf returns the bit assigned to a component type.
func (r *ComponentRegistry) bitOf(t reflect.Type) (uint8, bool) {
	b, ok := r.bits[t]
	return b, ok
}

// mustBitOf is bitOf for types that are required to be registered.
func (r *ComponentRegistry) mustBitOf(t reflect.Type) uint8 {
	b, ok := r.bits[t]
	if !ok {
		panic("ecs: component type " + t.String() + " not registered")
	}
	return b
}

// maskOf folds a list of component values into an archetype mask. Pointer
// components count as their element type.
func (r *ComponentRegistry) maskOf(components []any) uint64 {
	var mask uint64
	for _, comp := range components {
		mask |= 1 << r.mustBitOf(componentType(comp))
	}
	return mask
}

// componentType normalizes a component value's type, unwrapping one level of
// pointer indirection.
func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
