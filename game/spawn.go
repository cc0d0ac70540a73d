package game

import (
	"math/rand/v2"

	"github.com/plus3/liftrush/ecs"
)

// ArrivalSystem spawns passengers at normally distributed intervals. A
// negative sample simply means the next passenger is already overdue.
type ArrivalSystem struct {
	Scene   ecs.Singleton[SceneState]
	Session ecs.Singleton[Session]
	Config  ecs.Singleton[Config]
	Rng     ecs.Singleton[Random]
}

func (s *ArrivalSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Scene.Get().Scene != ScenePlaying {
		return
	}

	session := s.Session.Get()
	session.NextArrival -= frame.DeltaTime
	if session.NextArrival > 0 {
		return
	}

	rng := s.Rng.Get().Rand
	rect, passenger := newPassenger(rng)
	frame.Commands.Spawn(rect, passenger)

	session.NextArrival = nextArrival(s.Rng.Get(), s.Config.Get())
}

// nextArrival samples the inter-arrival time.
func nextArrival(rng *Random, cfg *Config) float64 {
	return rng.NormFloat64() + cfg.AvgArrivalSeconds
}

// newPassenger rolls a passenger: a random floor, a distinct destination, a
// patience level, and a spawn side just off screen.
func newPassenger(rng *rand.Rand) (Rect, Passenger) {
	floor := rng.IntN(NumFloors)
	destination := rng.IntN(NumFloors - 1)
	if destination >= floor {
		destination++
	}
	patience := patienceLevels[rng.IntN(len(patienceLevels))]
	side := rng.IntN(2)

	rect := Rect{
		X: spawnX[side],
		Y: FloorBottom(floor) - PassengerHeight,
		W: PassengerWidth,
		H: PassengerHeight,
	}
	passenger := Passenger{
		Floor:           floor,
		Destination:     destination,
		Patience:        patience,
		InitialPatience: patience,
		State:           PassengerWaiting,
		Slot:            -1,
	}
	return rect, passenger
}
