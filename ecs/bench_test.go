package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/liftrush/ecs"
)

func BenchmarkSpawn(b *testing.B) {
	storage := newTestStorage()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkSpawnWithMultipleComponents(b *testing.B) {
	storage := newTestStorage()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.Spawn(
			Position{X: 1.0, Y: 2.0},
			Velocity{DX: 0.5, DY: 0.5},
			Health{Current: 100, Max: 100},
			Name("entity"),
		)
	}
}

func BenchmarkDelete(b *testing.B) {
	storage := newTestStorage()

	ids := make([]ecs.EntityId, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = storage.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.Delete(ids[i])
	}
}

func BenchmarkReadComponent(b *testing.B) {
	storage := newTestStorage()

	id := storage.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ecs.ReadComponent[Position](storage, id)
	}
}

func BenchmarkAddComponent(b *testing.B) {
	storage := newTestStorage()

	ids := make([]ecs.EntityId, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = storage.Spawn(Position{X: 1.0, Y: 2.0})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.AddComponent(ids[i], Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkRemoveComponent(b *testing.B) {
	storage := newTestStorage()

	ids := make([]ecs.EntityId, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = storage.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.RemoveComponent(ids[i], reflect.TypeFor[Velocity]())
	}
}

func BenchmarkEntityRef(b *testing.B) {
	storage := newTestStorage()

	id := storage.Spawn(Position{X: 1.0, Y: 2.0})
	ref := storage.CreateEntityRef(id)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = storage.ResolveEntityRef(ref)
	}
}

func BenchmarkViewGet(b *testing.B) {
	storage := newTestStorage()

	type posVel struct {
		*Position
		*Velocity
	}

	view := ecs.NewView[posVel](storage)
	id := storage.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = view.Get(id)
	}
}

func BenchmarkQueryIter(b *testing.B) {
	storage := newTestStorage()

	for i := 0; i < 1000; i++ {
		storage.Spawn(Position{X: float32(i), Y: float32(i)}, Velocity{DX: 0.5, DY: 0.5})
	}

	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		query.Refresh()
		for _, item := range query.Iter() {
			_ = item
		}
	}
}

func BenchmarkSchedulerOnce(b *testing.B) {
	storage := newTestStorage()

	for i := 0; i < 1000; i++ {
		storage.Spawn(Position{X: float32(i), Y: float32(i)}, Velocity{DX: 0.5, DY: 0.5})
	}

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&moveSystem{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scheduler.Once(0.016)
	}
}
