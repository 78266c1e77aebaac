package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces unique card identifiers.
type IDGenerator interface {
	NextID() string
}

// CounterIDs issues monotonic identifiers such as "c1", "c2".
type CounterIDs struct {
	prefix string
	n      atomic.Uint64
}

// NewCounterIDs creates a counter generator with the given prefix.
func NewCounterIDs(prefix string) *CounterIDs {
	return &CounterIDs{prefix: prefix}
}

// NextID returns the next identifier in sequence.
func (c *CounterIDs) NextID() string {
	return fmt.Sprintf("%s%d", c.prefix, c.n.Add(1))
}

// UUIDs issues random version 4 UUIDs.
type UUIDs struct{}

// NextID returns a fresh UUID string.
func (UUIDs) NextID() string {
	return uuid.NewString()
}

// DeckBuilder turns a pair count into a shuffled deck
type DeckBuilder struct {
	palette []Symbol
	ids     IDGenerator
	rng     Rand
}

// NewDeckBuilder validates the palette and returns a builder. A nil ids
// defaults to UUIDs and a nil rng to the process-wide generator.
func NewDeckBuilder(palette []Symbol, ids IDGenerator, rng Rand) (*DeckBuilder, error) {
	if err := ValidatePalette(palette); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = UUIDs{}
	}
	return &DeckBuilder{palette: palette, ids: ids, rng: rng}, nil
}

// Build returns 2*pairCount face-down cards using the first pairCount
// symbols of the palette, each symbol on exactly two cards, shuffled.
func (b *DeckBuilder) Build(pairCount int) ([]Card, error) {
	if !IsSupportedPairCount(pairCount) {
		return nil, fmt.Errorf("%w: %d (supported: %v)", ErrInvalidPairCount, pairCount, SupportedPairCounts)
	}
	if pairCount > len(b.palette) {
		return nil, fmt.Errorf("%w: %d pairs requested, palette has %d symbols", ErrPaletteTooSmall, pairCount, len(b.palette))
	}

	deck := make([]Card, 0, pairCount*2)
	for _, symbol := range b.palette[:pairCount] {
		deck = append(deck,
			Card{ID: b.ids.NextID(), Symbol: symbol, State: FaceDown},
			Card{ID: b.ids.NextID(), Symbol: symbol, State: FaceDown},
		)
	}

	Shuffle(b.rng, deck)
	return deck, nil
}

// CountSymbols returns how many cards carry each symbol.
func CountSymbols(cards []Card) map[Symbol]int {
	counts := make(map[Symbol]int, len(cards)/2)
	for _, c := range cards {
		counts[c.Symbol]++
	}
	return counts
}
