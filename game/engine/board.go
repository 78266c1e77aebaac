package engine

import (
	"fmt"
	"time"
)

// Outcome describes what a selection did to the board
type Outcome string

const (
	OutcomeIgnored  Outcome = "ignored"
	OutcomeFlipped  Outcome = "flipped"
	OutcomeMatch    Outcome = "match"
	OutcomeMismatch Outcome = "mismatch"
	OutcomeReverted Outcome = "reverted"
)

// Transition is the result of applying one input to a Board.
type Transition struct {
	Outcome Outcome
	CardIDs []string
	// StartClock is set on the first flip of a board.
	StartClock bool
	// Completed is set on the match that finds the last pair.
	Completed bool
}

// Board holds one deck and its turn state. It is not safe for concurrent use;
// GameEngine serializes access.
type Board struct {
	ID        uint64
	PairCount int

	cards   []Card
	index   map[string]int
	turn    []int
	phase   Phase
	stats   Stats
	started bool
	history []TurnRecord
	now     func() time.Time
}

// NewBoard wraps a freshly built deck. Every symbol must appear exactly twice.
func NewBoard(id uint64, deck []Card) (*Board, error) {
	if len(deck) == 0 || len(deck)%2 != 0 {
		return nil, fmt.Errorf("%w: deck of %d cards", ErrInvalidDeck, len(deck))
	}
	for symbol, n := range CountSymbols(deck) {
		if n != 2 {
			return nil, fmt.Errorf("%w: symbol %s appears %d times", ErrInvalidDeck, symbol, n)
		}
	}

	b := &Board{
		ID:        id,
		PairCount: len(deck) / 2,
		cards:     make([]Card, len(deck)),
		index:     make(map[string]int, len(deck)),
		turn:      make([]int, 0, 2),
		phase:     PhaseIdle,
		now:       time.Now,
	}
	copy(b.cards, deck)
	for i, c := range b.cards {
		if _, dup := b.index[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate card id %q", ErrInvalidDeck, c.ID)
		}
		b.index[c.ID] = i
	}
	return b, nil
}

// Select applies a card selection. Unknown IDs are an error; ineligible
// selections (face up, matched, locked, finished board) are ignored.
func (b *Board) Select(cardID string) (Transition, error) {
	i, ok := b.index[cardID]
	if !ok {
		return Transition{}, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
	}
	if b.phase == PhaseResolving || b.Complete() || b.cards[i].State != FaceDown {
		return Transition{Outcome: OutcomeIgnored, CardIDs: []string{cardID}}, nil
	}

	b.cards[i].State = FaceUp
	b.turn = append(b.turn, i)
	if len(b.turn) > 2 {
		panic(fmt.Sprintf("engine: board %d turn holds %d cards", b.ID, len(b.turn)))
	}

	if len(b.turn) == 1 {
		b.phase = PhaseOneSelected
		t := Transition{Outcome: OutcomeFlipped, CardIDs: []string{cardID}}
		if !b.started {
			b.started = true
			t.StartClock = true
		}
		return t, nil
	}

	b.stats.Moves++
	b.phase = PhaseResolving
	first, second := &b.cards[b.turn[0]], &b.cards[b.turn[1]]
	ids := []string{first.ID, second.ID}

	if first.Symbol != second.Symbol {
		b.record(first, second, OutcomeMismatch)
		return Transition{Outcome: OutcomeMismatch, CardIDs: ids}, nil
	}

	first.State = Matched
	second.State = Matched
	b.stats.PairsFound++
	b.record(first, second, OutcomeMatch)
	b.clearTurn()
	return Transition{Outcome: OutcomeMatch, CardIDs: ids, Completed: b.Complete()}, nil
}

// Revert flips a mismatched pair back face down and unlocks the board.
// It is a no-op unless the board is resolving.
func (b *Board) Revert() Transition {
	if b.phase != PhaseResolving {
		return Transition{Outcome: OutcomeIgnored}
	}
	ids := make([]string, 0, len(b.turn))
	for _, i := range b.turn {
		if b.cards[i].State == FaceUp {
			b.cards[i].State = FaceDown
		}
		ids = append(ids, b.cards[i].ID)
	}
	b.clearTurn()
	return Transition{Outcome: OutcomeReverted, CardIDs: ids}
}

func (b *Board) clearTurn() {
	b.turn = b.turn[:0]
	b.phase = PhaseIdle
}

func (b *Board) record(first, second *Card, outcome Outcome) {
	b.history = append(b.history, TurnRecord{
		Move:      b.stats.Moves,
		First:     first.ID,
		Second:    second.ID,
		Symbols:   [2]Symbol{first.Symbol, second.Symbol},
		Outcome:   outcome,
		Timestamp: b.now().Unix(),
	})
}

// Phase returns the current turn phase.
func (b *Board) Phase() Phase { return b.phase }

// Locked reports whether selections are currently ignored.
func (b *Board) Locked() bool { return b.phase == PhaseResolving }

// Started reports whether any card has been flipped on this board.
func (b *Board) Started() bool { return b.started }

// Complete reports whether every pair has been found.
func (b *Board) Complete() bool { return b.stats.PairsFound == b.PairCount }

// Stats returns a copy of the board counters.
func (b *Board) Stats() Stats { return b.stats }

// Cards returns a copy of the cards in board order.
func (b *Board) Cards() []Card {
	out := make([]Card, len(b.cards))
	copy(out, b.cards)
	return out
}

// Card looks up a single card by ID.
func (b *Board) Card(id string) (Card, bool) {
	i, ok := b.index[id]
	if !ok {
		return Card{}, false
	}
	return b.cards[i], true
}

// Turn returns the IDs of the cards selected this turn.
func (b *Board) Turn() []string {
	ids := make([]string, len(b.turn))
	for n, i := range b.turn {
		ids[n] = b.cards[i].ID
	}
	return ids
}

// History returns the resolved turns, oldest first.
func (b *Board) History() []TurnRecord {
	out := make([]TurnRecord, len(b.history))
	copy(out, b.history)
	return out
}
