// Package clock provides the scheduling primitives used by the memory game.
//
// Every delayed action in a game (the mismatch display delay and the
// once-per-second elapsed tick) goes through a Scheduler so that it can be
// cancelled explicitly and driven by virtual time in tests.
//
// Core Types:
//
// Scheduler creates Tasks. Real is backed by time.AfterFunc; the clocktest
// subpackage provides a manual scheduler that only advances when told to.
// Timer counts whole elapsed seconds and reschedules itself once per tick
// while running.
//
// Usage:
//
//	timer := clock.NewTimer(clock.Real{}, func(elapsed int) {
//		fmt.Println(engine.FormatElapsed(elapsed))
//	})
//	timer.Start()
//	defer timer.Stop()
package clock
