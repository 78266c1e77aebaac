package engine

import (
	"errors"
	"math"
	"testing"
)

// identityRand never swaps, so decks keep palette order.
type identityRand struct{}

func (identityRand) IntN(n int) int { return n - 1 }

func TestDeckBuilder_BuildSupportedSizes(t *testing.T) {
	builder, err := NewDeckBuilder(DefaultPalette, NewCounterIDs("c"), NewSeededRand(1))
	if err != nil {
		t.Fatalf("NewDeckBuilder failed: %v", err)
	}

	for _, pairs := range SupportedPairCounts {
		deck, err := builder.Build(pairs)
		if err != nil {
			t.Fatalf("Build(%d) failed: %v", pairs, err)
		}
		if len(deck) != 2*pairs {
			t.Errorf("Build(%d): expected %d cards, got %d", pairs, 2*pairs, len(deck))
		}

		counts := CountSymbols(deck)
		if len(counts) != pairs {
			t.Errorf("Build(%d): expected %d distinct symbols, got %d", pairs, pairs, len(counts))
		}
		for symbol, n := range counts {
			if n != 2 {
				t.Errorf("Build(%d): symbol %s appears %d times", pairs, symbol, n)
			}
		}

		ids := make(map[string]bool)
		for _, c := range deck {
			if ids[c.ID] {
				t.Errorf("Build(%d): duplicate id %s", pairs, c.ID)
			}
			ids[c.ID] = true
			if c.State != FaceDown {
				t.Errorf("Build(%d): card %s dealt %s", pairs, c.ID, c.State)
			}
		}
	}
}

func TestDeckBuilder_UsesPalettePrefix(t *testing.T) {
	builder, _ := NewDeckBuilder(DefaultPalette, NewCounterIDs("c"), identityRand{})
	deck, err := builder.Build(6)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i, c := range deck {
		if c.Symbol != DefaultPalette[i/2] {
			t.Errorf("Card %d: expected %s, got %s", i, DefaultPalette[i/2], c.Symbol)
		}
	}
	if deck[0].ID != "c1" || deck[11].ID != "c12" {
		t.Errorf("Expected sequential ids, got %s..%s", deck[0].ID, deck[11].ID)
	}
}

func TestDeckBuilder_SeededIsDeterministic(t *testing.T) {
	a, _ := NewDeckBuilder(DefaultPalette, NewCounterIDs("c"), NewSeededRand(42))
	b, _ := NewDeckBuilder(DefaultPalette, NewCounterIDs("c"), NewSeededRand(42))

	da, _ := a.Build(12)
	db, _ := b.Build(12)
	for i := range da {
		if da[i] != db[i] {
			t.Fatalf("Expected identical decks with the same seed, differ at %d", i)
		}
	}
}

func TestDeckBuilder_Errors(t *testing.T) {
	builder, _ := NewDeckBuilder(DefaultPalette, nil, nil)

	for _, pairs := range []int{-1, 0, 7, 19, 36} {
		if _, err := builder.Build(pairs); !errors.Is(err, ErrInvalidPairCount) {
			t.Errorf("Build(%d): expected ErrInvalidPairCount, got %v", pairs, err)
		}
	}

	if _, err := NewDeckBuilder(DefaultPalette[:10], nil, nil); !errors.Is(err, ErrPaletteTooSmall) {
		t.Errorf("Expected ErrPaletteTooSmall, got %v", err)
	}
}

func TestUUIDs_Unique(t *testing.T) {
	var ids UUIDs
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := ids.NextID()
		if len(id) != 36 {
			t.Fatalf("Expected a 36 character uuid, got %q", id)
		}
		if seen[id] {
			t.Fatalf("Duplicate uuid %s", id)
		}
		seen[id] = true
	}
}

func TestShuffle_Permutation(t *testing.T) {
	rng := NewSeededRand(7)
	for trial := 0; trial < 200; trial++ {
		items := make([]int, 20)
		for i := range items {
			items[i] = i
		}
		Shuffle(rng, items)

		seen := make([]bool, len(items))
		for _, v := range items {
			if v < 0 || v >= len(items) || seen[v] {
				t.Fatalf("Trial %d: not a permutation: %v", trial, items)
			}
			seen[v] = true
		}
	}
}

func TestShuffle_UniformPositions(t *testing.T) {
	const (
		n      = 6
		trials = 60000
	)
	rng := NewSeededRand(2024)
	var counts [n][n]int

	for trial := 0; trial < trials; trial++ {
		items := []int{0, 1, 2, 3, 4, 5}
		Shuffle(rng, items)
		for pos, v := range items {
			counts[v][pos]++
		}
	}

	expected := float64(trials) / n
	// Chi-square over all n*n cells; 25 degrees of freedom, p=0.001 is ~52.6.
	chi := 0.0
	for v := 0; v < n; v++ {
		for pos := 0; pos < n; pos++ {
			d := float64(counts[v][pos]) - expected
			chi += d * d / expected
		}
	}
	if chi > 52.6 {
		t.Errorf("Position frequencies not uniform: chi-square %.1f, counts %v", chi, counts)
	}

	for v := 0; v < n; v++ {
		for pos := 0; pos < n; pos++ {
			if math.Abs(float64(counts[v][pos])-expected) > expected*0.1 {
				t.Errorf("Element %d at position %d: %d, expected about %.0f", v, pos, counts[v][pos], expected)
			}
		}
	}
}

func TestShuffle_EdgeCases(t *testing.T) {
	Shuffle[int](nil, nil)

	one := []string{"x"}
	Shuffle(nil, one)
	if one[0] != "x" {
		t.Errorf("Expected single element untouched, got %v", one)
	}
}
