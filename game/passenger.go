package game

import (
	"math"

	"github.com/plus3/liftrush/ecs"
)

// liftView is the lift as seen by the passenger systems.
type liftView struct {
	*Rect
	*Velocity
	*Lift
}

// firstLift returns the single lift entity, or false before it exists.
func firstLift(q *ecs.Query[liftView]) (liftView, bool) {
	for lift := range q.Values() {
		return lift, true
	}
	return liftView{}, false
}

// WaitingSystem moves waiting passengers toward the lift, forms queues on
// both sides, boards them when the lift is on their floor with a free slot,
// and runs their patience down while they stand in line.
type WaitingSystem struct {
	Scene ecs.Singleton[SceneState]
	Rng   ecs.Singleton[Random]
	Lifts ecs.Query[liftView]

	Passengers ecs.Query[struct {
		ecs.EntityId
		*Rect
		*Passenger
	}]
}

func (s *WaitingSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Scene.Get().Scene != ScenePlaying {
		return
	}
	lift, ok := firstLift(&s.Lifts)
	if !ok {
		return
	}

	dt := frame.DeltaTime
	liftRect := lift.Rect
	liftFloor := FloorAt(liftRect.Bottom())

	for id, e := range s.Passengers.Iter() {
		p := e.Passenger
		if p.State != PassengerWaiting {
			continue
		}
		rect := e.Rect

		// Keep feet on the floor band the passenger is in.
		rect.SetBottom(FloorBottom(FloorAt(rect.Bottom())))

		if p.Patience <= 0 {
			p.State = PassengerComplaining
			continue
		}

		onLeft := rect.CenterX() < liftRect.CenterX()
		if onLeft {
			rect.X += WalkSpeed * dt
		} else {
			rect.X -= WalkSpeed * dt
		}

		s.queueUp(rect, p, onLeft, liftRect)

		if liftFloor != p.Floor || lift.Lift.Full() {
			// Hold at the shaft edge until the lift can take them.
			if onLeft {
				rect.SetRight(math.Min(rect.Right(), liftRect.X-QueueGap))
			} else {
				rect.SetLeft(math.Max(rect.X, liftRect.Right()+QueueGap))
			}
		} else if liftRect.X <= rect.CenterX() && rect.CenterX() <= liftRect.Right() {
			s.board(frame, id, rect, p, lift)
		}

		if p.Waiting {
			p.Patience = math.Max(0, p.Patience-dt)
		}
	}
}

// queueUp clamps the passenger behind earlier arrivals waiting on the same
// floor and side, and flags it as waiting once it reaches the queue's end.
func (s *WaitingSystem) queueUp(rect *Rect, p *Passenger, onLeft bool, liftRect *Rect) {
	if onLeft {
		end := liftRect.Right()
		for _, other := range s.Passengers.Iter() {
			o := other.Passenger
			if o == p || o.State != PassengerWaiting || o.Floor != p.Floor || o.Patience <= 0 {
				continue
			}
			if rect.Right() < other.Rect.X && other.Rect.X < liftRect.X {
				end = math.Min(end, other.Rect.X)
			}
		}
		if end <= rect.Right()+QueueGap {
			rect.SetRight(end - QueueGap)
			p.Waiting = true
		}
	} else {
		end := liftRect.X
		for _, other := range s.Passengers.Iter() {
			o := other.Passenger
			if o == p || o.State != PassengerWaiting || o.Floor != p.Floor || o.Patience <= 0 {
				continue
			}
			if rect.X > other.Rect.Right() && other.Rect.Right() > liftRect.Right() {
				end = math.Max(end, other.Rect.Right())
			}
		}
		if end >= rect.X-QueueGap {
			rect.SetLeft(end + QueueGap)
			p.Waiting = true
		}
	}
}

// board puts the passenger into a random free slot and pins it to the lift.
func (s *WaitingSystem) board(frame *ecs.UpdateFrame, id ecs.EntityId, rect *Rect, p *Passenger, lift liftView) {
	slot := lift.Lift.randomFreeSlot(s.Rng.Get().Rand)
	if slot < 0 {
		return
	}
	p.Slot = slot
	p.State = PassengerRiding
	p.Waiting = false
	rect.SetBottom(lift.Rect.Bottom())
	lift.Lift.Slots[slot] = frame.Storage.CreateEntityRef(id)
}

// RideSystem keeps riders pinned to the lift, shuffles them into their slot,
// and lets them off once the lift is stopped at their destination.
type RideSystem struct {
	Scene ecs.Singleton[SceneState]
	Lifts ecs.Query[liftView]

	Passengers ecs.Query[struct {
		ecs.EntityId
		*Rect
		*Passenger
	}]
}

func (s *RideSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Scene.Get().Scene != ScenePlaying {
		return
	}
	lift, ok := firstLift(&s.Lifts)
	if !ok {
		return
	}

	dt := frame.DeltaTime
	liftRect := lift.Rect
	stopped := math.Abs(lift.Velocity.DY) < StopSpeed

	for id, e := range s.Passengers.Iter() {
		p := e.Passenger
		if p.State != PassengerRiding {
			continue
		}
		rect := e.Rect

		atDestination := math.Abs(liftRect.Bottom()-FloorBottom(p.Destination)) < ArriveTolerance
		if atDestination && stopped {
			releaseSlot(frame.Storage, id, p, lift.Lift)
			p.State = PassengerLeaving
			continue
		}

		rect.SetBottom(liftRect.Bottom())

		// Walk to the slot's resting position inside the car.
		const slotWidth = (LiftWidth - PassengerWidth) / LiftCapacity
		slotX := liftRect.X + PassengerWidth/2 + float64(p.Slot)*slotWidth + slotWidth/2
		switch {
		case math.Abs(rect.CenterX()-slotX) <= 1:
			rect.SetCenterX(slotX)
		case rect.CenterX() < slotX:
			rect.X += WalkSpeed * dt
		default:
			rect.X -= WalkSpeed * dt
		}
	}
}

// releaseSlot frees the rider's slot if it still owns it.
func releaseSlot(storage *ecs.Storage, id ecs.EntityId, p *Passenger, lift *Lift) {
	if p.Slot < 0 || p.Slot >= len(lift.Slots) {
		return
	}
	ref := lift.Slots[p.Slot]
	if ref == nil {
		return
	}
	if owner, ok := storage.ResolveEntityRef(ref); ok && owner == id {
		lift.Slots[p.Slot] = nil
	}
}

// LeaveSystem walks satisfied and complaining passengers off the playfield,
// scores them once they are gone, and flags the building complete when the
// serve target is reached.
type LeaveSystem struct {
	Scene   ecs.Singleton[SceneState]
	Session ecs.Singleton[Session]
	Config  ecs.Singleton[Config]
	Rng     ecs.Singleton[Random]
	Lifts   ecs.Query[liftView]

	Passengers ecs.Query[struct {
		ecs.EntityId
		*Rect
		*Passenger
	}]
}

func (s *LeaveSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Scene.Get().Scene != ScenePlaying {
		return
	}
	lift, ok := firstLift(&s.Lifts)
	if !ok {
		return
	}

	dt := frame.DeltaTime
	session := s.Session.Get()
	liftCenter := lift.Rect.CenterX()

	for id, e := range s.Passengers.Iter() {
		p := e.Passenger
		rect := e.Rect

		switch p.State {
		case PassengerLeaving:
			offset := rect.CenterX() - liftCenter
			dir := 1.0
			if offset < 0 {
				dir = -1
			} else if offset == 0 {
				dir = float64(2*s.Rng.Get().IntN(2) - 1)
			}
			rect.X += dir * WalkSpeed * dt
		case PassengerComplaining:
			dir := 1.0
			if rect.CenterX() < liftCenter {
				dir = -1
			}
			rect.X += dir * StormSpeed * dt
		case PassengerRiding:
			// Carried off the top of the shaft; still counts as a delivery.
		default:
			continue
		}

		if !rect.OffScreen() {
			continue
		}
		switch p.State {
		case PassengerComplaining:
			session.Complaints++
		case PassengerRiding:
			releaseSlot(frame.Storage, id, p, lift.Lift)
			session.Served++
		default:
			session.Served++
		}
		frame.Commands.Delete(id)
	}

	if !session.Complete && session.Served >= s.Config.Get().ServeTarget {
		session.Complete = true
	}
}
