package clock

import "time"

// Task is a scheduled callback that can be cancelled before it fires.
type Task interface {
	// Stop prevents the task from firing. It reports whether the call
	// stopped the task; false means it already fired or was stopped.
	Stop() bool
}

// Scheduler runs a function once after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

// Real schedules callbacks on the runtime timer heap.
type Real struct{}

// AfterFunc wraps time.AfterFunc; *time.Timer already satisfies Task.
func (Real) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}
