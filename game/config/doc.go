// Package config provides game preset management for the memory match game.
//
// The config package handles:
//   - Loading presets from YAML or JSON files
//   - Preset validation
//   - Default preset management
//   - Preset discovery and listing
//
// Preset Format:
//
//	name: Classic
//	description: Eight pairs on a four by four grid
//	pair_count: 8            # one of 6, 8, 12, 18
//	mismatch_delay_ms: 700   # optional
//	palette: [...]           # optional, at least 18 distinct symbols
//	messages:
//	  completed: "You found all %d pairs!"
//
// Built-in Presets:
//
// When no directory is configured the manager serves the embedded presets:
//   - quick: 6 pairs
//   - classic: 8 pairs (default)
//   - large: 12 pairs
//   - marathon: 18 pairs with a longer mismatch delay
//
// Usage:
//
//	manager, err := config.NewManager("")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("quick")
//	presets, err := manager.ListConfigs()
package config
