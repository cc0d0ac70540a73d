package ecs

import (
	"reflect"
	"unsafe"
)

// AddSingleton stores a single off-entity instance of the value's type. A
// previous instance is overwritten in place, so pointers and Singleton
// accessors handed out earlier keep seeing the current value.
func (s *Storage) AddSingleton(value any) {
	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Ptr {
		panic("ecs: singletons are stored by value, got " + t.String())
	}
	if p, ok := s.singletons[t]; ok {
		reflect.NewAt(t, p).Elem().Set(reflect.ValueOf(value))
		return
	}
	pv := reflect.New(t)
	pv.Elem().Set(reflect.ValueOf(value))
	s.singletons[t] = pv.UnsafePointer()
}

// ReadSingleton fills target, which must be a **T, with a pointer to the
// stored singleton. Returns false when no singleton of that type exists.
func (s *Storage) ReadSingleton(target any) bool {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Ptr {
		panic("ecs: ReadSingleton target must be a **T")
	}
	t := v.Elem().Type().Elem()
	p, ok := s.singletons[t]
	if !ok {
		return false
	}
	v.Elem().Set(reflect.NewAt(t, p))
	return true
}

func (s *Storage) singletonPtr(t reflect.Type) unsafe.Pointer {
	return s.singletons[t]
}

// Singleton provides cached access to a single component instance that is
// not associated with any entity: global configuration, session state, input
// and the like. Systems declare Singleton fields and the scheduler wires
// them up during registration.
type Singleton[T any] struct {
	storage *Storage
	ptr     unsafe.Pointer
}

// NewSingleton returns an accessor for T's singleton, creating it from the
// initializer (or a zero value) when it does not exist yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	t := reflect.TypeFor[T]()
	if storage.singletonPtr(t) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}
	return &Singleton[T]{
		storage: storage,
		ptr:     storage.singletonPtr(t),
	}
}

// Init attaches the accessor to a storage. Called by the Scheduler for
// Singleton fields of registered systems.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.ptr = nil
	s.refresh()
}

// Get returns a pointer to the singleton, or nil when it was never added.
func (s *Singleton[T]) Get() *T {
	if s.ptr == nil {
		s.refresh()
	}
	return (*T)(s.ptr)
}

// Exists reports whether the singleton has been added to storage.
func (s *Singleton[T]) Exists() bool {
	if s.ptr == nil {
		s.refresh()
	}
	return s.ptr != nil
}

func (s *Singleton[T]) refresh() {
	if s.storage == nil {
		return
	}
	s.ptr = s.storage.singletonPtr(reflect.TypeFor[T]())
}
