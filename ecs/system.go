package ecs

// System is a unit of per-frame behaviour. Exported Query and Singleton fields
// are wired by the Scheduler on Register; any other fields are private state
// that persists between frames.
type System interface {
	Execute(frame *UpdateFrame)
}
