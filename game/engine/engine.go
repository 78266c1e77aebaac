package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/memory-match/game/clock"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state
	GetState() *GameState
	IsComplete() bool

	// Player actions
	Select(cardID string) (*SelectResult, error)
	NewGame(pairCount int) (*GameState, error)
	PlayAgain() (*GameState, error)
	DismissSummary() *GameState

	// Configuration
	GetConfig() *GameConfig
	MismatchDelay() time.Duration

	// History
	GetHistory() []TurnRecord

	Close()
}

// Option configures a GameEngine
type Option func(*GameEngine)

// WithScheduler sets the scheduler used for the timer and mismatch delay.
func WithScheduler(s clock.Scheduler) Option {
	return func(e *GameEngine) { e.sched = s }
}

// WithIDGenerator sets the card ID source.
func WithIDGenerator(ids IDGenerator) Option {
	return func(e *GameEngine) { e.ids = ids }
}

// WithRand sets the shuffle source.
func WithRand(r Rand) Option {
	return func(e *GameEngine) { e.rng = r }
}

// WithListener registers an event listener.
func WithListener(l Listener) Option {
	return func(e *GameEngine) { e.listeners = append(e.listeners, l) }
}

// WithMismatchDelay overrides the delay from the config.
func WithMismatchDelay(d time.Duration) Option {
	return func(e *GameEngine) { e.delay = d }
}

// GameEngine is the session controller: it owns the current board, the
// elapsed timer and the pending mismatch revert.
type GameEngine struct {
	config    *GameConfig
	sched     clock.Scheduler
	ids       IDGenerator
	rng       Rand
	delay     time.Duration
	listeners []Listener
	deck      *DeckBuilder

	mu       sync.Mutex
	board    *Board
	boardSeq uint64
	stateSeq uint64
	timer    *clock.Timer
	revert   clock.Task
	summary  *Summary
	closed   bool
}

// NewEngine creates a new game engine with the provided configuration and
// deals the first board. A nil config uses DefaultGameConfig.
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if config == nil {
		config = DefaultGameConfig()
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config: config,
		sched:  clock.Real{},
		delay:  config.MismatchDelay(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.delay < 0 || e.delay > MaxMismatchDelay {
		return nil, fmt.Errorf("mismatch delay must be between 0 and %s, got %s", MaxMismatchDelay, e.delay)
	}

	deck, err := NewDeckBuilder(config.Symbols(), e.ids, e.rng)
	if err != nil {
		return nil, err
	}
	e.deck = deck
	e.timer = clock.NewTimer(e.sched, e.onTick)

	if err := e.dealLocked(config.PairCount); err != nil {
		return nil, err
	}
	return e, nil
}

// GetState returns a snapshot of the current board
func (e *GameEngine) GetState() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// IsComplete reports whether every pair on the current board has been found
func (e *GameEngine) IsComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board.Complete()
}

// GetConfig returns the preset this engine was created with
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// MismatchDelay returns how long a mismatched pair stays face up
func (e *GameEngine) MismatchDelay() time.Duration {
	return e.delay
}

// GetHistory returns the resolved turns of the current board
func (e *GameEngine) GetHistory() []TurnRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board.History()
}

// Select flips a card. Ineligible selections return OutcomeIgnored with no
// state change.
func (e *GameEngine) Select(cardID string) (*SelectResult, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrEngineClosed
	}

	t, err := e.board.Select(cardID)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}

	if t.StartClock {
		e.timer.Start()
	}

	switch t.Outcome {
	case OutcomeMismatch:
		if e.revert != nil {
			panic(fmt.Sprintf("engine: board %d already has a pending revert", e.board.ID))
		}
		boardID := e.board.ID
		e.revert = e.sched.AfterFunc(e.delay, func() { e.resolveMismatch(boardID) })
	case OutcomeMatch:
		if t.Completed {
			e.timer.Stop()
			e.summary = e.summaryLocked()
		}
	}

	state := e.snapshotLocked()
	e.mu.Unlock()

	if t.Outcome != OutcomeIgnored {
		e.emit(newEvent(EventStateUpdate, state))
	}
	if t.Completed {
		e.emit(newEvent(EventGameCompleted, state))
	}

	return &SelectResult{Outcome: t.Outcome, CardIDs: t.CardIDs, State: state}, nil
}

// NewGame discards the current board and deals a fresh one. A pairCount of 0
// keeps the current size. On error the current board is left untouched.
func (e *GameEngine) NewGame(pairCount int) (*GameState, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrEngineClosed
	}
	if pairCount == 0 {
		pairCount = e.board.PairCount
	}
	if err := e.dealLocked(pairCount); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	state := e.snapshotLocked()
	e.mu.Unlock()

	e.emit(newEvent(EventStateUpdate, state))
	return state, nil
}

// PlayAgain deals a new board of the same size
func (e *GameEngine) PlayAgain() (*GameState, error) {
	return e.NewGame(0)
}

// DismissSummary hides the completion summary. The finished board stays in
// place and keeps ignoring input until a new game starts.
func (e *GameEngine) DismissSummary() *GameState {
	e.mu.Lock()
	changed := e.summary != nil && !e.summary.Dismissed
	if changed {
		e.summary.Dismissed = true
	}
	state := e.snapshotLocked()
	e.mu.Unlock()

	if changed {
		e.emit(newEvent(EventStateUpdate, state))
	}
	return state
}

// Close cancels the timer and any pending revert. Later actions fail with
// ErrEngineClosed.
func (e *GameEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.cancelRevertLocked()
	e.timer.Stop()
}

func (e *GameEngine) dealLocked(pairCount int) error {
	cards, err := e.deck.Build(pairCount)
	if err != nil {
		return err
	}
	board, err := NewBoard(e.boardSeq+1, cards)
	if err != nil {
		return err
	}

	e.cancelRevertLocked()
	e.timer.Reset()
	e.boardSeq++
	e.board = board
	e.summary = nil
	return nil
}

func (e *GameEngine) cancelRevertLocked() {
	if e.revert != nil {
		e.revert.Stop()
		e.revert = nil
	}
}

// resolveMismatch runs when the mismatch delay expires. Callbacks for a
// replaced board are dropped.
func (e *GameEngine) resolveMismatch(boardID uint64) {
	e.mu.Lock()
	if e.closed || e.board.ID != boardID || e.revert == nil {
		e.mu.Unlock()
		return
	}
	e.revert = nil
	t := e.board.Revert()
	state := e.snapshotLocked()
	e.mu.Unlock()

	if t.Outcome == OutcomeReverted {
		e.emit(newEvent(EventMismatchReverted, state))
	}
}

func (e *GameEngine) onTick(int) {
	e.mu.Lock()
	if e.closed || e.summary != nil || !e.timer.Running() {
		e.mu.Unlock()
		return
	}
	state := e.snapshotLocked()
	e.mu.Unlock()

	e.emit(newEvent(EventTick, state))
}

func (e *GameEngine) summaryLocked() *Summary {
	stats := e.board.Stats()
	elapsed := e.timer.Elapsed()
	return &Summary{
		Moves:          stats.Moves,
		ElapsedSeconds: elapsed,
		Elapsed:        FormatElapsed(elapsed),
		PairCount:      e.board.PairCount,
		Message:        e.config.CompletedMessage(e.board.PairCount),
	}
}

// snapshotLocked numbers every snapshot. Listeners run outside the lock, so
// events can arrive out of order; Seq tells receivers which state is newer.
func (e *GameEngine) snapshotLocked() *GameState {
	e.stateSeq++
	b := e.board
	stats := b.Stats()
	cards := b.Cards()
	views := make([]CardView, len(cards))
	for i, c := range cards {
		views[i] = CardView{ID: c.ID, State: c.State}
		if c.State != FaceDown {
			views[i].Symbol = c.Symbol
		}
	}

	elapsed := e.timer.Elapsed()
	state := &GameState{
		Seq:            e.stateSeq,
		BoardID:        b.ID,
		ConfigName:     e.config.Name,
		PairCount:      b.PairCount,
		Cards:          views,
		Phase:          b.Phase(),
		Locked:         b.Locked(),
		Moves:          stats.Moves,
		PairsFound:     stats.PairsFound,
		PairsLabel:     fmt.Sprintf("%d / %d", stats.PairsFound, b.PairCount),
		ElapsedSeconds: elapsed,
		Elapsed:        FormatElapsed(elapsed),
		TimerRunning:   e.timer.Running(),
		Completed:      b.Complete(),
	}
	if e.summary != nil {
		summary := *e.summary
		state.Summary = &summary
	}
	return state
}

func (e *GameEngine) emit(ev Event) {
	for _, l := range e.listeners {
		l(ev)
	}
}
