package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wricardo/memory-match/game/clock/clocktest"
	"github.com/wricardo/memory-match/game/engine"
)

// identityRand leaves decks in palette order: c1/c2, c3/c4, ... are pairs.
type identityRand struct{}

func (identityRand) IntN(n int) int { return n - 1 }

func newTestModel(t *testing.T, pairs int) (*Model, *clocktest.Manual, chan engine.Event) {
	t.Helper()
	config := engine.DefaultGameConfig()
	config.PairCount = pairs

	sched := clocktest.NewManual()
	events := make(chan engine.Event, engine.WebSocketBufferSize)
	eng, err := engine.NewEngine(config,
		engine.WithScheduler(sched),
		engine.WithIDGenerator(engine.NewCounterIDs("c")),
		engine.WithRand(identityRand{}),
		engine.WithListener(ChannelListener(events)),
	)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	t.Cleanup(eng.Close)
	return NewModel(eng, events), sched, events
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

// drain feeds every queued engine event through Update.
func drain(m *Model, events chan engine.Event) {
	for {
		select {
		case ev := <-events:
			m.Update(eventMsg(ev))
		default:
			return
		}
	}
}

func TestModel_CursorWraps(t *testing.T) {
	m, _, _ := newTestModel(t, 6) // 4x3

	tests := []struct {
		keys []string
		want int
	}{
		{[]string{"right"}, 1},
		{[]string{"left"}, 3},
		{[]string{"down"}, 4},
		{[]string{"up"}, 8},
		{[]string{"l", "l", "j"}, 6},
		{[]string{"h", "k"}, 11},
	}

	for _, tt := range tests {
		m.cursor = 0
		press(m, tt.keys...)
		if m.cursor != tt.want {
			t.Errorf("keys %v: expected cursor %d, got %d", tt.keys, tt.want, m.cursor)
		}
	}
}

func TestModel_MatchAndMismatch(t *testing.T) {
	m, sched, events := newTestModel(t, 6)

	// c1 and c2 are a pair
	press(m, "enter", "right", "space")
	if m.state.PairsFound != 1 || m.state.Moves != 1 {
		t.Fatalf("Expected one pair in one move, got %+v", m.state)
	}
	if !strings.Contains(m.View(), "Pairs: 1 / 6") {
		t.Error("Expected pairs counter in view")
	}

	// c3 and c5 are not
	press(m, "right", "enter", "right", "right", "enter")
	if !m.state.Locked {
		t.Fatal("Expected locked board after mismatch")
	}
	if !strings.Contains(m.View(), "No match, flipping back...") {
		t.Error("Expected mismatch notice in view")
	}

	// Selections while locked are ignored
	press(m, "right", "enter")
	if m.state.Moves != 2 {
		t.Errorf("Expected 2 moves, got %d", m.state.Moves)
	}

	sched.Advance(engine.DefaultMismatchDelay)
	drain(m, events)
	if m.state.Locked || m.state.Phase != engine.PhaseIdle {
		t.Errorf("Expected board unlocked after revert, got %+v", m.state)
	}
	if m.state.Cards[2].State != engine.FaceDown || m.state.Cards[4].State != engine.FaceDown {
		t.Error("Expected mismatched cards face down")
	}
}

func TestModel_TimerEvents(t *testing.T) {
	m, sched, events := newTestModel(t, 6)

	press(m, "enter")
	sched.Advance(65 * time.Second)
	drain(m, events)

	if m.state.ElapsedSeconds != 65 || !strings.Contains(m.View(), "Time: 01:05") {
		t.Errorf("Expected 65 seconds on the clock, got %d", m.state.ElapsedSeconds)
	}
}

func TestModel_CompleteDismissAndPlayAgain(t *testing.T) {
	m, _, _ := newTestModel(t, 6)

	for i := 0; i < 6; i++ {
		m.cursor = 2 * i
		press(m, "enter")
		m.cursor = 2*i + 1
		press(m, "enter")
	}
	if !m.state.Completed || m.state.Summary == nil {
		t.Fatalf("Expected completed board, got %+v", m.state)
	}
	if !strings.Contains(m.View(), "You found all 6 pairs!") {
		t.Errorf("Expected summary in view, got:\n%s", m.View())
	}

	press(m, "esc")
	if !m.state.Summary.Dismissed || !m.state.Completed {
		t.Error("Expected dismissed summary on a completed board")
	}
	if strings.Contains(m.View(), "You found all 6 pairs!") {
		t.Error("Dismissed summary still shown")
	}

	board := m.state.BoardID
	press(m, "r")
	if m.state.BoardID == board || m.state.Completed || m.state.PairCount != 6 {
		t.Errorf("Expected fresh 6 pair board, got %+v", m.state)
	}
}

func TestModel_SizeCycle(t *testing.T) {
	m, _, _ := newTestModel(t, 6)

	want := []int{8, 12, 18, 6}
	for _, n := range want {
		m.cursor = 5
		press(m, "s")
		if m.state.PairCount != n || len(m.state.Cards) != 2*n {
			t.Errorf("Expected %d pairs, got %d", n, m.state.PairCount)
		}
		if m.cursor != 0 {
			t.Errorf("Expected cursor reset, got %d", m.cursor)
		}
	}
}

func TestModel_StaleEventsIgnored(t *testing.T) {
	m, _, _ := newTestModel(t, 6)
	old := m.state

	press(m, "n")
	m.Update(eventMsg(engine.Event{Type: engine.EventTick, State: old}))
	if m.state.BoardID == old.BoardID {
		t.Error("Event from a previous board replaced the current state")
	}
}

func TestModel_OlderSnapshotIgnored(t *testing.T) {
	m, _, _ := newTestModel(t, 6)

	press(m, "enter")
	flipped := m.state
	press(m, "right", "enter")
	if m.state.PairsFound != 1 {
		t.Fatalf("Expected one pair, got %d", m.state.PairsFound)
	}
	current := m.state

	// A tick taken before the match arrives late on the same board.
	m.Update(eventMsg(engine.Event{Type: engine.EventTick, State: flipped}))
	if m.state != current {
		t.Errorf("Older snapshot (seq %d) replaced seq %d", flipped.Seq, current.Seq)
	}
	if m.state.PairsFound != 1 {
		t.Errorf("Expected matched pair kept, got %d pairs", m.state.PairsFound)
	}
}

func TestModel_Quit(t *testing.T) {
	m, _, _ := newTestModel(t, 6)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
	if _, err := m.engine.Select("c1"); err != engine.ErrEngineClosed {
		t.Errorf("Expected engine closed on quit, got %v", err)
	}
}

func TestChannelListener_DropsWhenFull(t *testing.T) {
	ch := make(chan engine.Event, 1)
	listener := ChannelListener(ch)

	listener(engine.Event{Type: engine.EventTick})
	listener(engine.Event{Type: engine.EventTick})

	if len(ch) != 1 {
		t.Errorf("Expected one buffered event, got %d", len(ch))
	}
}

func TestNextSize(t *testing.T) {
	if nextSize(18) != 6 || nextSize(6) != 8 || nextSize(7) != 6 {
		t.Error("Unexpected size cycle")
	}
}
