package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/memory-match/game/clock/clocktest"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) listen(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) count(t EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func createTestEngine(t *testing.T, pairs int) (*GameEngine, *clocktest.Manual, *eventRecorder) {
	t.Helper()
	config := createValidConfig()
	config.PairCount = pairs
	config.MismatchDelayMS = 0

	sched := clocktest.NewManual()
	rec := &eventRecorder{}
	e, err := NewEngine(config,
		WithScheduler(sched),
		WithIDGenerator(NewCounterIDs("c")),
		WithRand(identityRand{}),
		WithListener(rec.listen),
	)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	t.Cleanup(e.Close)
	return e, sched, rec
}

func selectCard(t *testing.T, e *GameEngine, id string) *SelectResult {
	t.Helper()
	res, err := e.Select(id)
	if err != nil {
		t.Fatalf("Select(%s) failed: %v", id, err)
	}
	return res
}

func findCard(state *GameState, id string) CardView {
	for _, c := range state.Cards {
		if c.ID == id {
			return c
		}
	}
	return CardView{}
}

func TestNewEngine(t *testing.T) {
	e, sched, _ := createTestEngine(t, 6)

	state := e.GetState()
	if len(state.Cards) != 12 || state.PairCount != 6 {
		t.Errorf("Expected 12 cards for 6 pairs, got %d", len(state.Cards))
	}
	if state.Phase != PhaseIdle || state.Locked {
		t.Errorf("Expected idle unlocked board, got %s", state.Phase)
	}
	if state.Elapsed != "00:00" || state.TimerRunning {
		t.Errorf("Expected stopped timer at 00:00, got %s running=%v", state.Elapsed, state.TimerRunning)
	}
	if state.PairsLabel != "0 / 6" {
		t.Errorf("Expected pairs label '0 / 6', got %q", state.PairsLabel)
	}
	if e.MismatchDelay() != DefaultMismatchDelay {
		t.Errorf("Expected default delay, got %s", e.MismatchDelay())
	}

	sched.Advance(time.Minute)
	if e.GetState().ElapsedSeconds != 0 {
		t.Error("Expected idle board not to tick")
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createValidConfig()
	config.PairCount = 5
	if _, err := NewEngine(config); err == nil {
		t.Error("Expected error for invalid config")
	}

	if _, err := NewEngine(createValidConfig(), WithMismatchDelay(time.Hour)); err == nil {
		t.Error("Expected error for out of range mismatch delay")
	}
}

func TestNewEngine_NilConfigUsesDefault(t *testing.T) {
	e, err := NewEngine(nil, WithScheduler(clocktest.NewManual()))
	if err != nil {
		t.Fatalf("NewEngine(nil) failed: %v", err)
	}
	defer e.Close()
	if e.GetState().PairCount != DefaultPairCount {
		t.Errorf("Expected default %d pairs, got %d", DefaultPairCount, e.GetState().PairCount)
	}
}

func TestEngine_FaceDownSymbolsHidden(t *testing.T) {
	e, _, _ := createTestEngine(t, 6)
	selectCard(t, e, "c1")

	state := e.GetState()
	for _, c := range state.Cards {
		switch {
		case c.ID == "c1" && c.Symbol != DefaultPalette[0]:
			t.Errorf("Expected face up c1 to show %s, got %q", DefaultPalette[0], c.Symbol)
		case c.ID != "c1" && c.Symbol != "":
			t.Errorf("Expected face down %s to hide its symbol, got %q", c.ID, c.Symbol)
		}
	}
}

// Example: 6 pairs, a match then a mismatch, then a new game.
func TestEngine_Scenario(t *testing.T) {
	e, sched, rec := createTestEngine(t, 6)

	res := selectCard(t, e, "c1")
	if res.State.Phase != PhaseOneSelected || res.State.Moves != 0 {
		t.Fatalf("Expected one_selected with 0 moves, got %s/%d", res.State.Phase, res.State.Moves)
	}

	res = selectCard(t, e, "c2")
	if res.Outcome != OutcomeMatch {
		t.Fatalf("Expected match, got %s", res.Outcome)
	}
	if res.State.Moves != 1 || res.State.PairsFound != 1 || res.State.Phase != PhaseIdle {
		t.Fatalf("Expected moves=1 pairs=1 idle, got %+v", res.State)
	}

	selectCard(t, e, "c3")
	res = selectCard(t, e, "c7")
	if res.Outcome != OutcomeMismatch {
		t.Fatalf("Expected mismatch, got %s", res.Outcome)
	}
	if res.State.Moves != 2 || !res.State.Locked {
		t.Fatalf("Expected moves=2 locked, got %+v", res.State)
	}

	if got := selectCard(t, e, "c5"); got.Outcome != OutcomeIgnored {
		t.Errorf("Expected selection during the delay to be ignored, got %s", got.Outcome)
	}

	sched.Advance(699 * time.Millisecond)
	if findCard(e.GetState(), "c3").State != FaceUp {
		t.Fatal("Expected mismatched cards to stay face up during the delay")
	}

	sched.Advance(time.Millisecond)
	state := e.GetState()
	if findCard(state, "c3").State != FaceDown || findCard(state, "c7").State != FaceDown {
		t.Error("Expected mismatched cards face down after the delay")
	}
	if state.PairsFound != 1 || state.Phase != PhaseIdle || state.Locked {
		t.Errorf("Expected pairs=1 idle after revert, got %+v", state)
	}
	if rec.count(EventMismatchReverted) != 1 {
		t.Errorf("Expected one mismatch_reverted event, got %d", rec.count(EventMismatchReverted))
	}

	sched.Advance(2 * time.Second)
	before := state.BoardID
	state, err := e.NewGame(0)
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if state.Moves != 0 || state.PairsFound != 0 || state.ElapsedSeconds != 0 || state.TimerRunning {
		t.Errorf("Expected zeroed stats after new game, got %+v", state)
	}
	if len(state.Cards) != 12 || state.BoardID == before {
		t.Errorf("Expected a fresh 12 card board, got %d cards board %d", len(state.Cards), state.BoardID)
	}
	if findCard(state, "c1").ID != "" {
		t.Error("Expected new card ids on the new board")
	}
}

func TestEngine_TimerStartsOnFirstFlip(t *testing.T) {
	e, sched, rec := createTestEngine(t, 6)

	selectCard(t, e, "c1")
	sched.Advance(3 * time.Second)

	state := e.GetState()
	if state.ElapsedSeconds != 3 || state.Elapsed != "00:03" || !state.TimerRunning {
		t.Errorf("Expected running timer at 00:03, got %s running=%v", state.Elapsed, state.TimerRunning)
	}
	if rec.count(EventTick) != 3 {
		t.Errorf("Expected 3 tick events, got %d", rec.count(EventTick))
	}
}

func TestEngine_CompletionFiresOnce(t *testing.T) {
	e, sched, rec := createTestEngine(t, 6)

	for i := 1; i <= 12; i += 2 {
		selectCard(t, e, idOf(i))
		sched.Advance(time.Second)
		res := selectCard(t, e, idOf(i+1))
		if i < 11 && res.State.Completed {
			t.Fatalf("Board completed early after pair %d", i)
		}
	}

	state := e.GetState()
	if !state.Completed || state.Summary == nil {
		t.Fatal("Expected completed board with summary")
	}
	if state.Summary.Moves != 6 || state.Summary.ElapsedSeconds != 6 || state.Summary.PairCount != 6 {
		t.Errorf("Unexpected summary %+v", state.Summary)
	}
	if state.Summary.Elapsed != "00:06" || state.Summary.Message != "All 6 pairs!" {
		t.Errorf("Unexpected summary text %+v", state.Summary)
	}
	if state.TimerRunning {
		t.Error("Expected timer stopped on completion")
	}

	ticks := rec.count(EventTick)
	sched.Advance(time.Minute)
	if rec.count(EventTick) != ticks || e.GetState().ElapsedSeconds != 6 {
		t.Error("Expected no ticks after completion")
	}

	if res := selectCard(t, e, "c1"); res.Outcome != OutcomeIgnored {
		t.Errorf("Expected input after completion to be ignored, got %s", res.Outcome)
	}
	if rec.count(EventGameCompleted) != 1 {
		t.Errorf("Expected exactly one completion event, got %d", rec.count(EventGameCompleted))
	}
	if !e.IsComplete() {
		t.Error("Expected IsComplete")
	}
}

func TestEngine_DismissAndPlayAgain(t *testing.T) {
	e, _, _ := createTestEngine(t, 6)
	for i := 1; i <= 12; i += 2 {
		selectCard(t, e, idOf(i))
		selectCard(t, e, idOf(i+1))
	}

	state := e.DismissSummary()
	if state.Summary == nil || !state.Summary.Dismissed {
		t.Fatalf("Expected dismissed summary, got %+v", state.Summary)
	}
	if !state.Completed {
		t.Error("Expected board to remain completed after dismiss")
	}

	state, err := e.PlayAgain()
	if err != nil {
		t.Fatalf("PlayAgain failed: %v", err)
	}
	if state.Completed || state.Summary != nil || state.PairCount != 6 {
		t.Errorf("Expected fresh 6 pair board, got %+v", state)
	}
}

func TestEngine_NewGameCancelsPendingRevert(t *testing.T) {
	e, sched, rec := createTestEngine(t, 6)

	selectCard(t, e, "c1")
	selectCard(t, e, "c3")
	if sched.Pending() != 2 {
		t.Fatalf("Expected a tick and a revert pending, got %d", sched.Pending())
	}

	state, err := e.NewGame(8)
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if state.PairCount != 8 || len(state.Cards) != 16 {
		t.Fatalf("Expected 8 pair board, got %d", state.PairCount)
	}
	if sched.Pending() != 0 {
		t.Errorf("Expected reset to cancel all scheduled work, got %d pending", sched.Pending())
	}

	first := state.Cards[0].ID
	selectCard(t, e, first)
	sched.Advance(time.Second)

	state = e.GetState()
	if findCard(state, first).State != FaceUp {
		t.Error("Expected the new board's selection to survive the old delay")
	}
	if rec.count(EventMismatchReverted) != 0 {
		t.Error("Expected no revert event for the replaced board")
	}
}

func TestEngine_StaleRevertIgnored(t *testing.T) {
	e, _, _ := createTestEngine(t, 6)

	selectCard(t, e, "c1")
	selectCard(t, e, "c3")
	oldBoard := e.GetState().BoardID

	if _, err := e.NewGame(0); err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	first := e.GetState().Cards[0].ID
	selectCard(t, e, first)

	// A callback that escaped cancellation must not touch the new board.
	e.resolveMismatch(oldBoard)

	if findCard(e.GetState(), first).State != FaceUp {
		t.Error("Expected stale revert to be dropped")
	}
}

func TestEngine_NewGameErrorKeepsBoard(t *testing.T) {
	e, _, _ := createTestEngine(t, 6)
	selectCard(t, e, "c1")
	before := e.GetState()

	if _, err := e.NewGame(7); !errors.Is(err, ErrInvalidPairCount) {
		t.Fatalf("Expected ErrInvalidPairCount, got %v", err)
	}

	after := e.GetState()
	if after.BoardID != before.BoardID || findCard(after, "c1").State != FaceUp {
		t.Error("Expected the current board to survive a failed new game")
	}
}

func TestEngine_MovesCountOncePerTurn(t *testing.T) {
	e, sched, _ := createTestEngine(t, 6)

	turns := [][2]string{{"c1", "c3"}, {"c5", "c6"}, {"c2", "c7"}}
	for i, turn := range turns {
		selectCard(t, e, turn[0])
		if got := e.GetState().Moves; got != i {
			t.Errorf("Turn %d: expected %d moves after one card, got %d", i, i, got)
		}
		selectCard(t, e, turn[0])
		selectCard(t, e, turn[1])
		if got := e.GetState().Moves; got != i+1 {
			t.Errorf("Turn %d: expected %d moves, got %d", i, i+1, got)
		}
		sched.Advance(time.Second)
	}

	history := e.GetHistory()
	if len(history) != 3 || history[1].Outcome != OutcomeMatch {
		t.Errorf("Unexpected history %+v", history)
	}
}

func TestEngine_Close(t *testing.T) {
	e, sched, _ := createTestEngine(t, 6)
	selectCard(t, e, "c1")
	selectCard(t, e, "c3")

	e.Close()
	if sched.Pending() != 0 {
		t.Errorf("Expected close to cancel scheduled work, got %d pending", sched.Pending())
	}
	if _, err := e.Select("c5"); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("Expected ErrEngineClosed, got %v", err)
	}
	if _, err := e.NewGame(0); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("Expected ErrEngineClosed, got %v", err)
	}
	e.Close()
}

func TestEngine_ConfiguredDelay(t *testing.T) {
	sched := clocktest.NewManual()
	e, err := NewEngine(createValidConfig(),
		WithScheduler(sched),
		WithIDGenerator(NewCounterIDs("c")),
		WithRand(identityRand{}),
	)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	defer e.Close()

	selectCard(t, e, "c1")
	selectCard(t, e, "c3")
	sched.Advance(499 * time.Millisecond)
	if !e.GetState().Locked {
		t.Fatal("Expected board locked before the 500ms delay")
	}
	sched.Advance(time.Millisecond)
	if e.GetState().Locked {
		t.Error("Expected board unlocked after the 500ms delay")
	}
}

func TestEngine_SnapshotsAreNumbered(t *testing.T) {
	config := createValidConfig()
	config.PairCount = 6
	sched := clocktest.NewManual()

	var mu sync.Mutex
	var delivered []Event
	tickHeld := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	e, err := NewEngine(config,
		WithScheduler(sched),
		WithIDGenerator(NewCounterIDs("c")),
		WithRand(identityRand{}),
		WithListener(func(ev Event) {
			if ev.Type == EventTick {
				once.Do(func() {
					close(tickHeld)
					<-release
				})
			}
			mu.Lock()
			delivered = append(delivered, ev)
			mu.Unlock()
		}),
	)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	defer e.Close()

	selectCard(t, e, "c1")

	// The tick snapshot is taken, then its delivery stalls while a new board
	// is dealt.
	advanced := make(chan struct{})
	go func() {
		sched.Advance(time.Second)
		close(advanced)
	}()
	<-tickHeld
	if _, err := e.NewGame(0); err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	close(release)
	<-advanced

	mu.Lock()
	defer mu.Unlock()
	if len(delivered) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(delivered))
	}
	last := delivered[2]
	if last.Type != EventTick || last.State.BoardID != 1 {
		t.Fatalf("Expected the old board's tick delivered last, got %s board %d", last.Type, last.State.BoardID)
	}

	// A receiver keeping the highest Seq ends on the new board.
	var newest *GameState
	for _, ev := range delivered {
		if newest == nil || ev.State.Seq > newest.Seq {
			newest = ev.State
		}
	}
	if newest.BoardID != 2 {
		t.Errorf("Expected newest snapshot on board 2, got board %d", newest.BoardID)
	}
	if delivered[0].State.Seq >= last.State.Seq || last.State.Seq >= delivered[1].State.Seq {
		t.Errorf("Expected seq order select < tick < new game, got %d %d %d",
			delivered[0].State.Seq, last.State.Seq, delivered[1].State.Seq)
	}
}

func TestEngine_SeqIncreases(t *testing.T) {
	e, _, _ := createTestEngine(t, 6)

	prev := e.GetState().Seq
	for _, id := range []string{"c1", "c2", "c3"} {
		res := selectCard(t, e, id)
		if res.State.Seq <= prev {
			t.Errorf("Expected seq above %d after selecting %s, got %d", prev, id, res.State.Seq)
		}
		prev = res.State.Seq
	}
	state, _ := e.NewGame(0)
	if state.Seq <= prev {
		t.Errorf("Expected seq to keep increasing across boards, got %d after %d", state.Seq, prev)
	}
}
