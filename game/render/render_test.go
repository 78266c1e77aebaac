package render

import (
	"strings"
	"testing"

	"github.com/wricardo/memory-match/game/engine"
)

func TestLayout(t *testing.T) {
	tests := []struct {
		pairs, cols, rows int
	}{
		{6, 4, 3},
		{8, 4, 4},
		{12, 6, 4},
		{18, 6, 6},
		{0, 0, 0},
	}
	for _, test := range tests {
		cols, rows := Layout(test.pairs)
		if cols != test.cols || rows != test.rows {
			t.Errorf("Layout(%d) = %dx%d, want %dx%d", test.pairs, cols, rows, test.cols, test.rows)
		}
		if test.pairs > 0 && cols < rows {
			t.Errorf("Layout(%d): expected columns >= rows", test.pairs)
		}
	}
}

func testState() *engine.GameState {
	cards := make([]engine.CardView, 12)
	for i := range cards {
		cards[i] = engine.CardView{ID: "c" + string(rune('a'+i)), State: engine.FaceDown}
	}
	cards[0] = engine.CardView{ID: "ca", Symbol: "🐶", State: engine.Matched}
	cards[5] = engine.CardView{ID: "cf", Symbol: "🐱", State: engine.FaceUp}
	return &engine.GameState{
		PairCount:  6,
		Cards:      cards,
		Moves:      3,
		PairsLabel: "1 / 6",
		Elapsed:    "00:42",
	}
}

func TestGrid(t *testing.T) {
	grid := Grid(testState())
	if len(grid) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(grid))
	}
	for i, row := range grid {
		if len(row) != 4 {
			t.Errorf("Row %d: expected 4 cells, got %d", i, len(row))
		}
	}
	if grid[1][1].Card.ID != "cf" || grid[1][1].Index != 5 {
		t.Errorf("Unexpected cell at 1,1: %+v", grid[1][1])
	}
	if Grid(nil) != nil {
		t.Error("Expected nil grid for nil state")
	}
}

func TestText(t *testing.T) {
	out := Text(testState())

	if !strings.HasPrefix(out, "Moves: 3  Pairs: 1 / 6  Time: 00:42\n") {
		t.Errorf("Unexpected status line in:\n%s", out)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected status plus 3 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], " 1:🐶*") {
		t.Errorf("Expected matched marker on card 1, got %q", lines[1])
	}
	if !strings.Contains(lines[2], " 6:🐱 ") {
		t.Errorf("Expected face up card 6, got %q", lines[2])
	}
	if strings.Count(out, Hidden) != 10 {
		t.Errorf("Expected 10 hidden cards, got %d", strings.Count(out, Hidden))
	}
}

func TestText_SummaryAndLock(t *testing.T) {
	state := testState()
	state.Locked = true
	if !strings.Contains(Text(state), "flipping back") {
		t.Error("Expected lock notice while resolving")
	}

	state.Locked = false
	state.Summary = &engine.Summary{Moves: 9, Elapsed: "01:05", Message: "You found all 6 pairs!"}
	if !strings.Contains(Text(state), "You found all 6 pairs! Moves: 9, time: 01:05") {
		t.Errorf("Expected summary line, got:\n%s", Text(state))
	}
}

func TestCardAt(t *testing.T) {
	state := testState()
	if id, ok := CardAt(state, 6); !ok || id != "cf" {
		t.Errorf("CardAt(6) = %q, %v", id, ok)
	}
	for _, pos := range []int{0, 13, -1} {
		if _, ok := CardAt(state, pos); ok {
			t.Errorf("Expected CardAt(%d) to fail", pos)
		}
	}
}
