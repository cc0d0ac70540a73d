package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View queries entities whose archetypes cover a set of component types.
// The type parameter T is a struct whose fields are pointers to component
// types; fields are written in place through precomputed offsets. A plain
// ecs.EntityId field (usually embedded) receives the entity's id. Named
// fields may carry an `ecs:"optional"` tag, in which case they are nil for
// entities missing that component.
type View[T any] struct {
	storage *Storage
	fields  []viewField
	mask    uint64 // required component bits
}

type viewField struct {
	typ      reflect.Type
	offset   uintptr
	bit      uint8
	optional bool
	isId     bool
}

var entityIdType = reflect.TypeFor[EntityId]()

// NewView builds a view over the storage for the struct type T.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("ecs: view type parameter must be a struct")
	}

	v := &View[T]{storage: storage}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			v.fields = append(v.fields, viewField{
				typ:    field.Type,
				offset: field.Offset,
				isId:   true,
			})
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("ecs: view struct fields must be component pointers or ecs.EntityId")
		}

		componentType := field.Type.Elem()
		bit, ok := storage.registry.bitOf(componentType)
		if !ok {
			panic("ecs: component type " + componentType.String() + " not registered")
		}

		optional := false
		if !field.Anonymous {
			switch tag := field.Tag.Get("ecs"); tag {
			case "":
			case "optional":
				optional = true
			default:
				panic("ecs: invalid ecs tag value \"" + tag + "\" (only \"optional\" is supported)")
			}
		}
		if !optional {
			v.mask |= 1 << bit
		}

		v.fields = append(v.fields, viewField{
			typ:      componentType,
			offset:   field.Offset,
			bit:      bit,
			optional: optional,
		})
	}
	return v
}

// matches reports whether an archetype carries every required component.
func (v *View[T]) matches(arch *Archetype) bool {
	return arch.mask&v.mask == v.mask
}

// populate writes component pointers (and the entity id) into the result
// struct through field offsets, avoiding reflection in the hot path.
// Returns false when a required component is missing.
func (v *View[T]) populate(resultPtr unsafe.Pointer, arch *Archetype, row uint32, id EntityId) bool {
	for i := range v.fields {
		f := &v.fields[i]
		fieldPtr := unsafe.Pointer(uintptr(resultPtr) + f.offset)

		if f.isId {
			*(*EntityId)(fieldPtr) = id
			continue
		}

		col := arch.columnFor(f.bit)
		var p unsafe.Pointer
		if col != nil {
			p = col.ptr(int(row))
		}
		if p == nil && !f.optional {
			return false
		}
		*(*unsafe.Pointer)(fieldPtr) = p
	}
	return true
}

// Fill populates *ptr for the given entity. Returns false when the entity is
// gone or lacks a required component.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	arch := v.storage.archetype(id.Archetype())
	if arch == nil {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), arch, id.Row(), id)
}

// Get returns a populated view struct for the entity, or nil.
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// GetRef resolves an EntityRef and returns its populated view struct, or nil.
func (v *View[T]) GetRef(ref *EntityRef) *T {
	id, ok := v.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(id)
}

// Iter yields (EntityId, T) for every entity matching the view.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, arch := range v.storage.archetypes {
			if !v.matches(arch) || len(arch.columns) == 0 {
				continue
			}

			var result T
			resultPtr := unsafe.Pointer(&result)

			for row := range arch.columns[0].rows() {
				id := NewEntityId(arch.id, uint32(row))
				if !v.populate(resultPtr, arch, uint32(row), id) {
					continue
				}
				if !yield(id, result) {
					return
				}
			}
		}
	}
}

// Values yields only the view structs, for callers that do not need ids.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Spawn creates an entity from the non-nil component pointers in data.
// Required fields must be set; optional nil fields are skipped.
func (v *View[T]) Spawn(data T) EntityId {
	structPtr := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.fields))
	for i := range v.fields {
		f := &v.fields[i]
		if f.isId {
			continue
		}
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + f.offset)
		p := *(*unsafe.Pointer)(fieldPtr)
		if p == nil {
			if !f.optional {
				panic("ecs: required component is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(f.typ, p).Interface())
	}

	if len(components) == 0 {
		panic("ecs: cannot spawn entity without components")
	}
	return v.storage.Spawn(components...)
}
