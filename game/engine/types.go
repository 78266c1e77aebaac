package engine

import "time"

// Symbol is the face value printed on a card. Two cards match when their
// symbols are equal.
type Symbol string

// CardState represents the visibility of a card on the board
type CardState string

const (
	FaceDown CardState = "face_down"
	FaceUp   CardState = "face_up"
	Matched  CardState = "matched"
)

// Phase is the state of the turn state machine
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseOneSelected Phase = "one_selected"
	PhaseResolving   Phase = "resolving"
)

const (
	// Board size limits
	MinPairCount     = 6
	MaxPairCount     = 18
	DefaultPairCount = 8

	// Mismatch display delay limits
	DefaultMismatchDelay = 700 * time.Millisecond
	MaxMismatchDelay     = 10 * time.Second

	WebSocketBufferSize = 256
)

// SupportedPairCounts lists the board sizes a player can choose from.
var SupportedPairCounts = []int{6, 8, 12, 18}

// DefaultPalette holds the built-in card faces. Boards use a prefix of it.
var DefaultPalette = []Symbol{
	"🐶", "🐱", "🐵", "🦊", "🦁", "🐼", "🐨", "🐯", "🦄", "🐸", "🐷", "🐮",
	"🐔", "🐧", "🐥", "🦉", "🐴", "🦋", "🐝", "🐙", "🐠", "🦖", "🌵", "🍁",
	"🍓", "🍍", "🍉", "🍇", "🍪", "🍩", "⚽️", "🎵", "🎲", "🚗", "✈️", "🔔",
}

// Card is a single card in a deck
type Card struct {
	ID     string    `json:"id"`
	Symbol Symbol    `json:"symbol"`
	State  CardState `json:"state"`
}

// Stats are the per-board counters shown to the player
type Stats struct {
	Moves      int `json:"moves"`
	PairsFound int `json:"pairs_found"`
}

// GameConfig represents a game preset loaded from YAML or JSON
type GameConfig struct {
	Name            string   `json:"name" yaml:"name"`
	Description     string   `json:"description" yaml:"description"`
	PairCount       int      `json:"pair_count" yaml:"pair_count"`
	MismatchDelayMS int      `json:"mismatch_delay_ms,omitempty" yaml:"mismatch_delay_ms,omitempty"`
	Palette         []Symbol `json:"palette,omitempty" yaml:"palette,omitempty"`
	Messages        struct {
		Completed string `json:"completed" yaml:"completed"`
	} `json:"messages" yaml:"messages"`
}

// MismatchDelay returns how long a mismatched pair stays face up.
func (c *GameConfig) MismatchDelay() time.Duration {
	if c == nil || c.MismatchDelayMS == 0 {
		return DefaultMismatchDelay
	}
	return time.Duration(c.MismatchDelayMS) * time.Millisecond
}

// Symbols returns the palette boards are built from.
func (c *GameConfig) Symbols() []Symbol {
	if c == nil || len(c.Palette) == 0 {
		return DefaultPalette
	}
	return c.Palette
}

// TurnRecord is a single resolved turn in the board history
type TurnRecord struct {
	Move      int       `json:"move"`
	First     string    `json:"first"`
	Second    string    `json:"second"`
	Symbols   [2]Symbol `json:"symbols"`
	Outcome   Outcome   `json:"outcome"`
	Timestamp int64     `json:"timestamp"`
}
