package game

import (
	"math"

	"github.com/plus3/liftrush/ecs"
)

// LiftControlSystem turns player intent into lift acceleration.
type LiftControlSystem struct {
	Controls ecs.Singleton[Controls]
	Scene    ecs.Singleton[SceneState]
	Lifts    ecs.Query[struct{ *Lift }]
}

func (s *LiftControlSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Scene.Get().Scene != ScenePlaying {
		return
	}
	controls := s.Controls.Get()

	for lift := range s.Lifts.Values() {
		switch {
		case controls.UpHeld:
			lift.Lift.Accel = -LiftAccel
		case controls.DownHeld:
			lift.Lift.Accel = LiftAccel
		default:
			lift.Lift.Accel = 0
		}
	}
}

// LiftMotionSystem integrates the lift's velocity and snaps it onto floors
// when it is nearly stopped.
type LiftMotionSystem struct {
	Scene ecs.Singleton[SceneState]
	Lifts ecs.Query[struct {
		*Rect
		*Velocity
		*Lift
	}]
}

func (s *LiftMotionSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Scene.Get().Scene != ScenePlaying {
		return
	}
	dt := frame.DeltaTime

	for e := range s.Lifts.Values() {
		v := e.Velocity
		lift := e.Lift
		rect := e.Rect

		v.DY += lift.Accel * dt
		if math.Abs(v.DY) < lift.MinSpeed {
			v.DY = 0
		}
		if math.Abs(v.DY) > lift.MaxSpeed {
			v.DY = math.Copysign(lift.MaxSpeed, v.DY)
		}
		v.DY *= SpeedDamping

		rect.Y += v.DY * dt
		if rect.Bottom() > GroundY {
			rect.SetBottom(GroundY)
		}

		if math.Abs(v.DY) < SnapMaxSpeed {
			snapToFloor(rect)
		}
	}
}

// snapToFloor nudges the rect onto the nearest floor when it is close to a
// boundary, mirroring the original feel: within SnapThreshold of the middle
// of a band nothing happens.
func snapToFloor(rect *Rect) {
	offset := math.Mod(GroundY-rect.Bottom(), FloorHeight)
	if offset < 0 {
		offset += FloorHeight
	}
	const half = FloorHeight / 2
	if math.Abs(half-offset) <= SnapThreshold {
		return
	}
	if offset < half {
		rect.SetBottom(rect.Bottom() + offset)
	} else {
		rect.SetBottom(rect.Bottom() - (FloorHeight - offset))
	}
}
