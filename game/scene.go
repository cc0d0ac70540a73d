package game

import (
	"github.com/plus3/liftrush/ecs"
)

// SceneSystem drives the menu -> playing -> complete flow and resets the
// playfield when a new run starts.
type SceneSystem struct {
	Scene    ecs.Singleton[SceneState]
	Session  ecs.Singleton[Session]
	Config   ecs.Singleton[Config]
	Controls ecs.Singleton[Controls]
	Rng      ecs.Singleton[Random]

	Lifts ecs.Query[liftView]

	Passengers ecs.Query[struct {
		ecs.EntityId
		*Passenger
	}]
}

func (s *SceneSystem) Execute(frame *ecs.UpdateFrame) {
	scene := s.Scene.Get()
	controls := s.Controls.Get()

	switch scene.Scene {
	case SceneMenu:
		if controls.StartPressed {
			s.resetRun(frame)
			scene.Scene = ScenePlaying
		}
	case ScenePlaying:
		if s.Session.Get().Complete {
			scene.Scene = SceneComplete
			return
		}
		if controls.ExitPressed {
			scene.Scene = SceneMenu
		}
	case SceneComplete:
		if controls.StartPressed || controls.ExitPressed {
			scene.Scene = SceneMenu
		}
	}
}

// resetRun clears leftover passengers, re-parks the lift on floor 0, and
// starts a fresh session.
func (s *SceneSystem) resetRun(frame *ecs.UpdateFrame) {
	for id := range s.Passengers.Iter() {
		frame.Commands.Delete(id)
	}

	for lift := range s.Lifts.Values() {
		*lift.Rect = LiftStartRect()
		lift.Velocity.DY = 0
		lift.Lift.Accel = 0
		for i := range lift.Lift.Slots {
			if ref := lift.Lift.Slots[i]; ref != nil {
				frame.Storage.InvalidateEntityRef(ref)
			}
			lift.Lift.Slots[i] = nil
		}
	}

	*s.Session.Get() = Session{
		NextArrival: nextArrival(s.Rng.Get(), s.Config.Get()),
	}
}

// LiftStartRect is the lift parked on floor 0, centered in the shaft.
func LiftStartRect() Rect {
	return Rect{
		X: ScreenWidth/2 - LiftWidth/2,
		Y: GroundY - LiftHeight,
		W: LiftWidth,
		H: LiftHeight,
	}
}
