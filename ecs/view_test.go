package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/liftrush/ecs"
)

func TestViewIterMatchesSubset(t *testing.T) {
	storage := newTestStorage()

	storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	storage.Spawn(Position{X: 2}, Velocity{DX: 2}, Name("both"))
	storage.Spawn(Position{X: 3}) // no velocity, must not match

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	var xs []float32
	for _, e := range view.Iter() {
		xs = append(xs, e.Position.X)
		e.Position.X += 10
	}
	assert.ElementsMatch(t, []float32{1, 2}, xs)

	// View pointers write through to storage.
	var sum float32
	for e := range view.Values() {
		sum += e.Position.X
	}
	assert.Equal(t, float32(23), sum)
}

func TestViewEntityIdField(t *testing.T) {
	storage := newTestStorage()

	id := storage.Spawn(Position{X: 4})

	view := ecs.NewView[struct {
		ecs.EntityId
		*Position
	}](storage)

	for yieldedId, e := range view.Iter() {
		assert.Equal(t, id, yieldedId)
		assert.Equal(t, id, e.EntityId)
		assert.Equal(t, float32(4), e.Position.X)
	}
}

func TestViewOptionalField(t *testing.T) {
	storage := newTestStorage()

	storage.Spawn(Position{X: 1})
	storage.Spawn(Position{X: 2}, Velocity{DX: 5})

	view := ecs.NewView[struct {
		Pos *Position
		Vel *Velocity `ecs:"optional"`
	}](storage)

	withVel, withoutVel := 0, 0
	for e := range view.Values() {
		require.NotNil(t, e.Pos)
		if e.Vel != nil {
			withVel++
			assert.Equal(t, float32(5), e.Vel.DX)
		} else {
			withoutVel++
		}
	}
	assert.Equal(t, 1, withVel)
	assert.Equal(t, 1, withoutVel)
}

func TestViewGet(t *testing.T) {
	storage := newTestStorage()

	id := storage.Spawn(Position{X: 1}, Health{Current: 5, Max: 10})
	other := storage.Spawn(Position{X: 2})

	view := ecs.NewView[struct {
		*Position
		*Health
	}](storage)

	result := view.Get(id)
	require.NotNil(t, result)
	assert.Equal(t, 5, result.Health.Current)

	// Entities missing a required component yield nil.
	assert.Nil(t, view.Get(other))
}

func TestViewGetRef(t *testing.T) {
	storage := newTestStorage()

	id := storage.Spawn(Position{X: 9})
	ref := storage.CreateEntityRef(id)

	view := ecs.NewView[struct{ *Position }](storage)

	result := view.GetRef(ref)
	require.NotNil(t, result)
	assert.Equal(t, float32(9), result.Position.X)

	storage.Delete(id)
	assert.Nil(t, view.GetRef(ref))
}

func TestViewSpawn(t *testing.T) {
	storage := newTestStorage()

	view := ecs.NewView[struct {
		Pos *Position
		Vel *Velocity `ecs:"optional"`
	}](storage)

	id := view.Spawn(struct {
		Pos *Position
		Vel *Velocity `ecs:"optional"`
	}{Pos: &Position{X: 6}})

	assert.Equal(t, float32(6), ecs.ReadComponent[Position](storage, id).X)
	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
}

func TestViewRejectsNonPointerField(t *testing.T) {
	storage := newTestStorage()

	assert.Panics(t, func() {
		ecs.NewView[struct{ Pos Position }](storage)
	})
}

func TestViewRejectsUnregisteredComponent(t *testing.T) {
	storage := newTestStorage()

	type unregistered struct{ V int }
	assert.Panics(t, func() {
		ecs.NewView[struct{ U *unregistered }](storage)
	})
}
