// Package render lays out a board for non-browser surfaces: the terminal
// client and the text board returned to agents.
package render

import (
	"fmt"
	"strings"

	"github.com/wricardo/memory-match/game/engine"
)

// Hidden is printed in place of a face-down symbol.
const Hidden = "??"

// Layout returns the most square grid for 2*pairCount cards with
// columns >= rows.
func Layout(pairCount int) (cols, rows int) {
	n := pairCount * 2
	if n <= 0 {
		return 0, 0
	}
	rows = 1
	for r := 1; r*r <= n; r++ {
		if n%r == 0 {
			rows = r
		}
	}
	return n / rows, rows
}

// Cell is one card placed on the grid
type Cell struct {
	Row, Col int
	Index    int
	Card     engine.CardView
}

// Grid places the cards of a state row by row.
func Grid(state *engine.GameState) [][]Cell {
	if state == nil || len(state.Cards) == 0 {
		return nil
	}
	cols, rows := Layout(len(state.Cards) / 2)
	grid := make([][]Cell, rows)
	for i, c := range state.Cards {
		r, col := i/cols, i%cols
		grid[r] = append(grid[r], Cell{Row: r, Col: col, Index: i, Card: c})
	}
	return grid
}

// CardLabel is the face shown for a card.
func CardLabel(c engine.CardView) string {
	if c.State == engine.FaceDown || c.Symbol == "" {
		return Hidden
	}
	return string(c.Symbol)
}

// Status is the one-line counters display.
func Status(state *engine.GameState) string {
	return fmt.Sprintf("Moves: %d  Pairs: %s  Time: %s", state.Moves, state.PairsLabel, state.Elapsed)
}

// Text renders the board as a plain-text grid. Each cell shows its position
// number and face; matched cards are marked with '*'.
//
//	 1:??   2:🐶*  3:??
func Text(state *engine.GameState) string {
	if state == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(Status(state))
	b.WriteString("\n")

	width := len(fmt.Sprint(len(state.Cards)))
	for _, row := range Grid(state) {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			mark := " "
			if cell.Card.State == engine.Matched {
				mark = "*"
			}
			fmt.Fprintf(&b, "%*d:%s%s", width, cell.Index+1, CardLabel(cell.Card), mark)
		}
		b.WriteString("\n")
	}

	if state.Summary != nil {
		fmt.Fprintf(&b, "%s Moves: %d, time: %s\n", state.Summary.Message, state.Summary.Moves, state.Summary.Elapsed)
	} else if state.Locked {
		b.WriteString("No match, flipping back...\n")
	}
	return b.String()
}

// CardAt returns the card ID at a 1-based position, as printed by Text.
func CardAt(state *engine.GameState, position int) (string, bool) {
	if state == nil || position < 1 || position > len(state.Cards) {
		return "", false
	}
	return state.Cards[position-1].ID, true
}
