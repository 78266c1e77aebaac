package clock

import (
	"sync"
	"time"
)

// TickInterval is the resolution of the elapsed timer.
const TickInterval = time.Second

// Timer counts whole seconds while running. It never ticks before Start
// and a stopped timer keeps its value until Reset.
type Timer struct {
	sched  Scheduler
	onTick func(elapsed int)

	mu      sync.Mutex
	elapsed int
	running bool
	task    Task
	// gen invalidates ticks scheduled before the latest Stop or Reset.
	gen uint64
}

// NewTimer creates a stopped timer at zero. onTick may be nil; when set it is
// called outside the timer lock after every increment.
func NewTimer(sched Scheduler, onTick func(elapsed int)) *Timer {
	if sched == nil {
		sched = Real{}
	}
	return &Timer{sched: sched, onTick: onTick}
}

// Start begins counting. Starting a running timer is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}
	t.running = true
	t.gen++
	t.scheduleLocked(t.gen)
}

// Stop freezes the current value and cancels the pending tick.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Reset stops the timer and zeroes the counter.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.elapsed = 0
}

// Elapsed returns the number of whole seconds counted so far.
func (t *Timer) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

// Running reports whether the timer is counting.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timer) stopLocked() {
	t.running = false
	t.gen++
	if t.task != nil {
		t.task.Stop()
		t.task = nil
	}
}

func (t *Timer) scheduleLocked(gen uint64) {
	t.task = t.sched.AfterFunc(TickInterval, func() { t.tick(gen) })
}

func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	if !t.running || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.elapsed++
	elapsed := t.elapsed
	t.scheduleLocked(gen)
	t.mu.Unlock()

	if t.onTick != nil {
		t.onTick(elapsed)
	}
}
