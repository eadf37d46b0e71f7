package ecs

// UpdateFrame is what a system sees during one Scheduler.Once call. Commands
// queued on it are applied after the last system has run.
type UpdateFrame struct {
	// DeltaTime is the step in seconds; Elapsed sums every step the
	// scheduler has run, this one included.
	DeltaTime float64
	Elapsed   float64

	Commands *Commands
	Storage  *Storage
}
