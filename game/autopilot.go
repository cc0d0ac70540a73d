package game

import (
	"math"

	"github.com/plus3/liftrush/ecs"
)

// AutopilotSystem drives the Controls singleton instead of a human. It is
// registered by the headless simulator in place of InputSystem: riders are
// dropped off first, then the lift heads for whoever has waited longest.
type AutopilotSystem struct {
	Scene    ecs.Singleton[SceneState]
	Controls ecs.Singleton[Controls]
	Lifts    ecs.Query[liftView]

	Passengers ecs.Query[struct {
		*Passenger
	}]
}

func (s *AutopilotSystem) Execute(frame *ecs.UpdateFrame) {
	controls := s.Controls.Get()
	controls.UpHeld = false
	controls.DownHeld = false
	controls.StartPressed = false
	controls.ExitPressed = false

	if s.Scene.Get().Scene != ScenePlaying {
		return
	}
	lift, ok := firstLift(&s.Lifts)
	if !ok {
		return
	}

	target, ok := s.targetFloor()
	if !ok {
		return
	}

	bottom := lift.Rect.Bottom()
	delta := bottom - FloorBottom(target) // positive means the lift is below

	// Coast once within braking distance so damping and floor snapping can
	// settle the car.
	speed := math.Abs(lift.Velocity.DY)
	brake := speed * speed / (2 * LiftAccel)
	if math.Abs(delta) <= math.Max(brake, ArriveTolerance) {
		return
	}

	if delta > 0 {
		controls.UpHeld = true
	} else {
		controls.DownHeld = true
	}
}

// targetFloor picks the floor to head for: the first rider's destination, or
// the floor of the waiting passenger who has burned the most patience.
func (s *AutopilotSystem) targetFloor() (int, bool) {
	bestWaited := -1.0
	target, found := 0, false

	for e := range s.Passengers.Values() {
		p := e.Passenger
		switch p.State {
		case PassengerRiding:
			return p.Destination, true
		case PassengerWaiting:
			waited := p.InitialPatience - p.Patience
			if waited > bestWaited {
				bestWaited = waited
				target = p.Floor
				found = true
			}
		}
	}
	return target, found
}
