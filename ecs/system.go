package ecs

// System is a behavior that runs once per frame. Implementations are structs
// whose Query and Singleton fields are wired up by the Scheduler at
// registration; any other fields persist between frames as system state.
type System interface {
	Execute(frame *UpdateFrame)
}
