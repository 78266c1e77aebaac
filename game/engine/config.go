package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrInvalidPairCount = errors.New("invalid pair count")
	ErrPaletteTooSmall  = errors.New("palette too small")
	ErrDuplicateSymbol  = errors.New("duplicate palette symbol")
	ErrInvalidDeck      = errors.New("invalid deck")
	ErrCardNotFound     = errors.New("card not found")
	ErrEngineClosed     = errors.New("engine closed")
)

// IsSupportedPairCount reports whether n is one of the selectable board sizes.
func IsSupportedPairCount(n int) bool {
	return slices.Contains(SupportedPairCounts, n)
}

// ValidatePalette checks that a palette can serve every supported board size.
func ValidatePalette(palette []Symbol) error {
	if len(palette) < MaxPairCount {
		return fmt.Errorf("%w: need at least %d symbols, got %d", ErrPaletteTooSmall, MaxPairCount, len(palette))
	}
	seen := make(map[Symbol]bool, len(palette))
	for i, s := range palette {
		if s == "" {
			return fmt.Errorf("config validation: palette entry %d is empty", i+1)
		}
		if seen[s] {
			return fmt.Errorf("%w: %s", ErrDuplicateSymbol, s)
		}
		seen[s] = true
	}
	return nil
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if !IsSupportedPairCount(config.PairCount) {
		return fmt.Errorf("config validation: pair_count must be one of %v, got %d: %w",
			SupportedPairCounts, config.PairCount, ErrInvalidPairCount)
	}

	if config.MismatchDelayMS < 0 || config.MismatchDelay() > MaxMismatchDelay {
		return fmt.Errorf("config validation: mismatch_delay_ms must be between 0 and %d, got %d",
			MaxMismatchDelay.Milliseconds(), config.MismatchDelayMS)
	}

	if len(config.Palette) > 0 {
		if err := ValidatePalette(config.Palette); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
	}

	if msg := config.Messages.Completed; msg != "" {
		if verbs := formatVerbs(msg); len(verbs) != 1 || verbs[0] != "%d" {
			return fmt.Errorf("config validation: messages.completed must contain exactly one %%d for pair count, got %v", verbs)
		}
	}

	return nil
}

// DefaultGameConfig returns the built-in classic preset.
func DefaultGameConfig() *GameConfig {
	config := &GameConfig{
		Name:        "classic",
		Description: "Eight pairs on a four by four grid",
		PairCount:   DefaultPairCount,
	}
	config.Messages.Completed = "You found all %d pairs!"
	return config
}

// CompletedMessage formats the summary line for a finished board.
func (c *GameConfig) CompletedMessage(pairCount int) string {
	msg := "You found all %d pairs!"
	if c != nil && c.Messages.Completed != "" {
		msg = c.Messages.Completed
	}
	return fmt.Sprintf(msg, pairCount)
}

// formatVerbs lists the fmt verbs in s, flags and width included. "%%" is a
// literal percent sign and is skipped.
func formatVerbs(s string) []string {
	var verbs []string
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		j := i + 1
		for j < len(s) && strings.IndexByte("+-# 0123456789.[]*", s[j]) >= 0 {
			j++
		}
		if j == len(s) {
			verbs = append(verbs, s[i:])
			break
		}
		if s[j] != '%' || j != i+1 {
			verbs = append(verbs, s[i:j+1])
		}
		i = j
	}
	return verbs
}
