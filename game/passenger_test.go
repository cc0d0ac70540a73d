package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/liftrush/ecs"
)

func spawnWaiting(storage *ecs.Storage, x float64, floor, destination int, patience float64) ecs.EntityId {
	rect := Rect{X: x, W: PassengerWidth, H: PassengerHeight}
	rect.SetBottom(FloorBottom(floor))
	return storage.Spawn(rect, Passenger{
		Floor:           floor,
		Destination:     destination,
		Patience:        patience,
		InitialPatience: patience,
		State:           PassengerWaiting,
		Slot:            -1,
	})
}

func waitingScheduler(storage *ecs.Storage) *ecs.Scheduler {
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&WaitingSystem{})
	return scheduler
}

func TestWaitingWalksTowardLift(t *testing.T) {
	storage := playingWorld(t, testConfig())

	// The lift is parked on floor 0; this passenger calls from floor 3 so it
	// walks without boarding.
	fromLeft := spawnWaiting(storage, 0, 3, 0, 30)
	fromRight := spawnWaiting(storage, 380, 3, 0, 30)

	step(waitingScheduler(storage), 30)

	left := ecs.ReadComponent[Rect](storage, fromLeft)
	right := ecs.ReadComponent[Rect](storage, fromRight)
	assert.Greater(t, left.X, float64(0))
	assert.Less(t, right.X, float64(380))
}

func TestWaitingHoldsAtShaftEdge(t *testing.T) {
	storage := playingWorld(t, testConfig())
	_, lift := theLift(t, storage)

	id := spawnWaiting(storage, 150, 3, 0, 30)

	// Walk long enough to reach the shaft; the lift never leaves floor 0.
	step(waitingScheduler(storage), 120)

	rect := ecs.ReadComponent[Rect](storage, id)
	p := ecs.ReadComponent[Passenger](storage, id)
	assert.LessOrEqual(t, rect.Right(), lift.Rect.X-QueueGap+1e-9)
	assert.Equal(t, PassengerWaiting, p.State)

	// The head of the queue stands at the shaft edge, short of the queue end
	// inside the shaft, so its patience clock never starts.
	assert.False(t, p.Waiting)
	assert.Equal(t, 30.0, p.Patience)
}

func TestQueueFormsBehindFirstPassenger(t *testing.T) {
	storage := playingWorld(t, testConfig())

	first := spawnWaiting(storage, 150, 3, 0, 30)
	second := spawnWaiting(storage, 60, 3, 0, 30)

	step(waitingScheduler(storage), 300)

	firstRect := ecs.ReadComponent[Rect](storage, first)
	secondRect := ecs.ReadComponent[Rect](storage, second)

	// The second passenger lines up behind the first with the queue gap.
	assert.Less(t, secondRect.Right(), firstRect.X)
	assert.InDelta(t, firstRect.X-QueueGap, secondRect.Right(), 1e-6)
}

func TestBoarding(t *testing.T) {
	storage := playingWorld(t, testConfig())
	_, lift := theLift(t, storage)

	id := spawnWaiting(storage, 185, 0, 5, 30)

	step(waitingScheduler(storage), 1)

	p := ecs.ReadComponent[Passenger](storage, id)
	rect := ecs.ReadComponent[Rect](storage, id)
	require.Equal(t, PassengerRiding, p.State)
	require.GreaterOrEqual(t, p.Slot, 0)
	require.Less(t, p.Slot, LiftCapacity)
	assert.Equal(t, lift.Rect.Bottom(), rect.Bottom())

	ref := lift.Lift.Slots[p.Slot]
	require.NotNil(t, ref)
	resolved, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.Equal(t, id, resolved)
}

func TestNoBoardingWhenFull(t *testing.T) {
	storage := playingWorld(t, testConfig())
	liftId, lift := theLift(t, storage)

	occupied := storage.CreateEntityRef(liftId)
	for i := range lift.Lift.Slots {
		lift.Lift.Slots[i] = occupied
	}

	id := spawnWaiting(storage, 185, 0, 5, 30)
	step(waitingScheduler(storage), 1)

	p := ecs.ReadComponent[Passenger](storage, id)
	assert.Equal(t, PassengerWaiting, p.State)
}

func TestPatienceRunsOut(t *testing.T) {
	storage := playingWorld(t, testConfig())

	// Patience only drains while standing in line behind someone, so give the
	// impatient passenger a queue head to wait behind.
	spawnWaiting(storage, 150, 3, 0, 30)
	id := spawnWaiting(storage, 60, 3, 0, 0.05)

	step(waitingScheduler(storage), 200)

	p := ecs.ReadComponent[Passenger](storage, id)
	assert.Equal(t, PassengerComplaining, p.State)
}

func TestRiderWalksToSlot(t *testing.T) {
	storage := playingWorld(t, testConfig())
	_, lift := theLift(t, storage)
	lift.Velocity.DY = -100 // moving, so no disembark

	rect := Rect{X: 205, W: PassengerWidth, H: PassengerHeight}
	rect.SetBottom(lift.Rect.Bottom())
	id := storage.Spawn(rect, Passenger{
		Floor: 0, Destination: 5, Patience: 30, InitialPatience: 30,
		State: PassengerRiding, Slot: 0,
	})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&RideSystem{})
	step(scheduler, 60)

	got := ecs.ReadComponent[Rect](storage, id)
	// Slot 0 rests at the left edge of the car.
	slotWidth := float64((LiftWidth - PassengerWidth) / LiftCapacity)
	wantCenter := lift.Rect.X + PassengerWidth/2 + slotWidth/2
	assert.InDelta(t, wantCenter, got.CenterX(), 1.5)
	assert.Equal(t, lift.Rect.Bottom(), got.Bottom())
}

func TestDisembarkAtDestination(t *testing.T) {
	storage := playingWorld(t, testConfig())
	_, lift := theLift(t, storage)

	rect := Rect{X: 190, W: PassengerWidth, H: PassengerHeight}
	rect.SetBottom(lift.Rect.Bottom())
	id := storage.Spawn(rect, Passenger{
		Floor: 5, Destination: 0, Patience: 30, InitialPatience: 30,
		State: PassengerRiding, Slot: 0,
	})
	lift.Lift.Slots[0] = storage.CreateEntityRef(id)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&RideSystem{})
	step(scheduler, 1)

	p := ecs.ReadComponent[Passenger](storage, id)
	assert.Equal(t, PassengerLeaving, p.State)
	assert.Nil(t, lift.Lift.Slots[0])
}

func TestNoDisembarkWhileMoving(t *testing.T) {
	storage := playingWorld(t, testConfig())
	_, lift := theLift(t, storage)
	lift.Velocity.DY = -200

	rect := Rect{X: 190, W: PassengerWidth, H: PassengerHeight}
	rect.SetBottom(lift.Rect.Bottom())
	id := storage.Spawn(rect, Passenger{
		Floor: 5, Destination: 0, Patience: 30, InitialPatience: 30,
		State: PassengerRiding, Slot: 0,
	})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&RideSystem{})
	step(scheduler, 1)

	assert.Equal(t, PassengerRiding, ecs.ReadComponent[Passenger](storage, id).State)
}

func TestLeavingPassengerIsServed(t *testing.T) {
	cfg := testConfig()
	cfg.ServeTarget = 1
	storage := playingWorld(t, cfg)
	session := readSingleton[Session](t, storage)

	rect := Rect{X: 380, W: PassengerWidth, H: PassengerHeight}
	rect.SetBottom(FloorBottom(2))
	storage.Spawn(rect, Passenger{
		Floor: 0, Destination: 2, Patience: 30, InitialPatience: 30,
		State: PassengerLeaving, Slot: 0,
	})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&LeaveSystem{})
	step(scheduler, 60)

	assert.Equal(t, 0, passengerCount(storage))
	assert.Equal(t, 1, session.Served)
	assert.Equal(t, 0, session.Complaints)
	assert.True(t, session.Complete)
}

func TestRiderCarriedOffScreenIsServed(t *testing.T) {
	storage := playingWorld(t, testConfig())
	session := readSingleton[Session](t, storage)
	_, lift := theLift(t, storage)

	// Nothing clamps the lift at the top, so a held ascent hoists the car
	// and its riders past y=0.
	lift.Rect.SetBottom(-10)

	rect := Rect{X: 190, W: PassengerWidth, H: PassengerHeight}
	rect.SetBottom(lift.Rect.Bottom())
	id := storage.Spawn(rect, Passenger{
		Floor: 0, Destination: 8, Patience: 30, InitialPatience: 30,
		State: PassengerRiding, Slot: 2,
	})
	lift.Lift.Slots[2] = storage.CreateEntityRef(id)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&LeaveSystem{})
	step(scheduler, 1)

	assert.Equal(t, 0, passengerCount(storage))
	assert.Equal(t, 1, session.Served)
	assert.Equal(t, 0, session.Complaints)
	assert.Nil(t, lift.Lift.Slots[2])
}

func TestComplainingPassengerIsCounted(t *testing.T) {
	storage := playingWorld(t, testConfig())
	session := readSingleton[Session](t, storage)

	rect := Rect{X: 20, W: PassengerWidth, H: PassengerHeight}
	rect.SetBottom(FloorBottom(4))
	storage.Spawn(rect, Passenger{
		Floor: 4, Destination: 0, Patience: 0, InitialPatience: 5,
		State: PassengerComplaining, Slot: -1,
	})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&LeaveSystem{})
	step(scheduler, 60)

	assert.Equal(t, 0, passengerCount(storage))
	assert.Equal(t, 0, session.Served)
	assert.Equal(t, 1, session.Complaints)
	assert.False(t, session.Complete)
}
