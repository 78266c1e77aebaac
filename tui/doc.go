// Package tui is a terminal client for the memory match game.
//
// It drives a local engine directly, without a server. Engine events
// (timer ticks, mismatch reverts) reach the Bubble Tea loop through a
// buffered channel read by a command that re-arms itself after every event.
//
// Keys: arrows or hjkl move the cursor, enter or space flips the card under
// it, n deals a new board, s cycles the board size, r plays again, esc
// closes the summary and q quits.
package tui
