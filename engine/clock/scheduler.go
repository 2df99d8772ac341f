// Package clock provides cancellable deferred callbacks for effect cleanup and overlay dismissal
package clock

import "time"

// Handle identifies a scheduled task, zero value never refers to a task
type Handle uint64

// Scheduler schedules deferred callbacks
// All callbacks of one scheduler run on the owner's goroutine, one at a time
type Scheduler interface {
	// Now returns the scheduler's notion of current time
	Now() time.Time

	// Schedule registers fn to run once after delay and returns its handle
	// Negative delay is treated as zero
	Schedule(delay time.Duration, fn func()) Handle

	// Cancel removes a pending task, returns false if it already ran, was cancelled or never existed
	Cancel(h Handle) bool
}

// Dispatcher is implemented by schedulers whose due tasks are executed by an external loop
type Dispatcher interface {
	// C delivers handles of tasks whose delay elapsed
	C() <-chan Handle

	// Dispatch runs the task for h if it is still pending
	Dispatch(h Handle)
}
