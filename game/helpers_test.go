package game

import (
	"testing"

	"github.com/plus3/liftrush/ecs"
)

func testConfig() Config {
	return Config{
		Seed:              1,
		ServeTarget:       25,
		AvgArrivalSeconds: 3,
		WindowScale:       1,
	}
}

// playingWorld builds a world and jumps straight into a run.
func playingWorld(t *testing.T, cfg Config) *ecs.Storage {
	t.Helper()
	storage := NewWorld(cfg)
	readSingleton[SceneState](t, storage).Scene = ScenePlaying
	return storage
}

func readSingleton[T any](t *testing.T, storage *ecs.Storage) *T {
	t.Helper()
	var v *T
	if !storage.ReadSingleton(&v) {
		t.Fatalf("singleton %T missing", v)
	}
	return v
}

// theLift fetches the single lift entity spawned by NewWorld.
func theLift(t *testing.T, storage *ecs.Storage) (ecs.EntityId, liftView) {
	t.Helper()
	q := ecs.NewQuery[liftView](storage)
	q.Refresh()
	for id, lift := range q.Iter() {
		return id, lift
	}
	t.Fatal("world has no lift")
	return 0, liftView{}
}

func passengerCount(storage *ecs.Storage) int {
	q := ecs.NewQuery[struct{ *Passenger }](storage)
	q.Refresh()
	return q.Count()
}

// step runs the scheduler n frames at the game's fixed timestep.
func step(s *ecs.Scheduler, n int) {
	for i := 0; i < n; i++ {
		s.Once(1.0 / 60.0)
	}
}
