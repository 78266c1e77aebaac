// Package engine provides the core game logic for the memory match game.
//
// The engine package implements the game mechanics including:
//   - Deck building from a fixed symbol palette with a uniform shuffle
//   - The turn state machine (idle, one card selected, resolving)
//   - Match detection and the delayed flip-back of mismatched pairs
//   - The elapsed timer and the completion summary
//   - Configuration validation
//
// Core Types:
//
// Board holds one deck and applies selections without any timing or
// locking of its own. GameEngine owns the current Board, schedules the
// mismatch revert as a cancellable task bound to the board ID and drives
// the clock.Timer. GameState is the snapshot handed to clients; face-down
// symbols are never included.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultGameConfig(),
//		engine.WithListener(func(ev engine.Event) { fmt.Println(ev.Type) }))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer gameEngine.Close()
//
//	state := gameEngine.GetState()
//	result, err := gameEngine.Select(state.Cards[0].ID)
//
// Game Rules:
//
// The player reveals two cards per turn. A matching pair stays face up for
// the rest of the board. A mismatched pair stays visible for the mismatch
// delay, during which every selection is ignored, and then flips back. The
// timer starts on the first flip and stops when the last pair is found.
package engine
