package game

import (
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/liftrush/ecs"
)

// Logical playfield geometry, in pixels, y growing downward. GroundY is the
// bottom edge of floor 0.
const (
	ScreenWidth  = 400
	ScreenHeight = 600

	NumFloors   = 10
	FloorHeight = 50
	GroundY     = 550

	LiftWidth    = 50
	LiftHeight   = 50
	LiftCapacity = 4

	LiftAccel    = 800
	LiftMaxSpeed = 300
	LiftMinSpeed = 10
	SpeedDamping = 0.9

	// A lift slower than SnapMaxSpeed snaps onto a floor when it is within
	// SnapThreshold of the boundary.
	SnapMaxSpeed  = 50
	SnapThreshold = 10

	PassengerWidth  = 16
	PassengerHeight = 30

	WalkSpeed  = 50  // px/s, walking toward the lift or leaving satisfied
	StormSpeed = 100 // px/s, storming off after a complaint

	QueueGap        = 5 // px between queued passengers and to the lift edge
	StopSpeed       = 5 // below this the lift counts as stopped
	ArriveTolerance = 5 // px from a floor bottom that counts as "at floor"
)

// spawnX is the off-screen x for each spawn side.
var spawnX = [2]float64{-PassengerWidth, ScreenWidth}

// FloorBottom returns the y of the bottom edge of a floor.
func FloorBottom(floor int) float64 {
	return GroundY - float64(floor)*FloorHeight
}

// FloorAt returns the floor whose band contains the given bottom edge. The
// epsilon keeps snapped positions on their exact floor.
func FloorAt(bottom float64) int {
	return int(math.Floor((GroundY-bottom)/FloorHeight + 1e-6))
}

// Rect is an axis-aligned box positioned by its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

func (r *Rect) Right() float64   { return r.X + r.W }
func (r *Rect) Bottom() float64  { return r.Y + r.H }
func (r *Rect) CenterX() float64 { return r.X + r.W/2 }

func (r *Rect) SetLeft(x float64)    { r.X = x }
func (r *Rect) SetRight(x float64)   { r.X = x - r.W }
func (r *Rect) SetBottom(y float64)  { r.Y = y - r.H }
func (r *Rect) SetCenterX(x float64) { r.X = x - r.W/2 }

// OffScreen reports whether the rect has left the playfield on any side.
func (r *Rect) OffScreen() bool {
	return r.X < 0 || r.Right() > ScreenWidth || r.Y < 0 || r.Bottom() > ScreenHeight
}

// Velocity is the lift's vertical velocity in px/s.
type Velocity struct {
	DY float64
}

// Lift is the player-controlled car. Slots holds one ref per boarding place;
// a nil slot is free.
type Lift struct {
	Accel    float64 // commanded acceleration, set by control systems
	MaxSpeed float64
	MinSpeed float64
	Slots    []*ecs.EntityRef
}

// Full reports whether every slot is occupied.
func (l *Lift) Full() bool {
	for _, slot := range l.Slots {
		if slot == nil {
			return false
		}
	}
	return true
}

// randomFreeSlot picks a free slot uniformly, or -1 when full.
func (l *Lift) randomFreeSlot(rng *rand.Rand) int {
	free := make([]int, 0, len(l.Slots))
	for i, slot := range l.Slots {
		if slot == nil {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		return -1
	}
	return free[rng.IntN(len(free))]
}

// Patience levels, in seconds.
var patienceLevels = [3]float64{5, 15, 30}

// PassengerState is the lifecycle of a passenger.
type PassengerState int

const (
	// PassengerWaiting walks toward the lift, queues, and may board.
	PassengerWaiting PassengerState = iota
	// PassengerRiding is aboard, pinned to the lift.
	PassengerRiding
	// PassengerLeaving was delivered and walks off satisfied.
	PassengerLeaving
	// PassengerComplaining ran out of patience and storms off.
	PassengerComplaining
)

// Passenger calls the lift on Floor and wants to reach Destination before
// Patience runs out.
type Passenger struct {
	Floor           int
	Destination     int
	Patience        float64
	InitialPatience float64
	State           PassengerState
	Slot            int // boarding slot, -1 until aboard
	Waiting         bool
}

// Scene is the top-level game state.
type Scene int

const (
	SceneMenu Scene = iota
	ScenePlaying
	SceneComplete
)

// SceneState is a singleton holding the active scene.
type SceneState struct {
	Scene Scene
}

// Session is a singleton tracking one run of the building.
type Session struct {
	Served      int
	Complaints  int
	NextArrival float64 // seconds until the next passenger appears
	Complete    bool
}

// Controls is a singleton with the player intent sampled this frame.
type Controls struct {
	UpHeld       bool
	DownHeld     bool
	StartPressed bool // some key other than escape was just pressed
	ExitPressed  bool // escape was just pressed
}

// Random is a singleton seeded rng shared by all systems, so headless runs
// are reproducible.
type Random struct {
	*rand.Rand
}

// Screen is a singleton carrying ebiten's frame target into render systems.
type Screen struct {
	Image *ebiten.Image
}
