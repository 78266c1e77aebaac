package config

import (
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/wricardo/memory-match/game/engine"
	"github.com/wricardo/memory-match/game/render"
)

// ValidationResult captures the outcome of validating a single preset file.
// Info holds notes for valid files, Errors the problems for invalid ones.
type ValidationResult struct {
	File   string
	Valid  bool
	Info   []string
	Errors []string
}

// ValidateDir validates every preset file in dir. An empty dir checks the
// built-in presets.
func ValidateDir(dir string) ([]ValidationResult, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(embedded, "presets")
		if err != nil {
			return nil, err
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}
	return ValidateFS(fsys)
}

// ValidateFS validates every preset file at the root of fsys.
func ValidateFS(fsys fs.FS) ([]ValidationResult, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var results []ValidationResult
	for _, entry := range entries {
		if entry.IsDir() || !hasExtension(entry.Name()) {
			continue
		}
		results = append(results, validateFile(fsys, entry.Name()))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })
	return results, nil
}

func validateFile(fsys fs.FS, name string) ValidationResult {
	result := ValidationResult{File: name, Valid: true}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	config, err := ParseConfig(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	cols, rows := render.Layout(config.PairCount)
	result.Info = append(result.Info,
		fmt.Sprintf("✓ %s: %d pairs on a %dx%d grid", config.Name, config.PairCount, cols, rows),
		fmt.Sprintf("✓ Mismatch delay %s", config.MismatchDelay()),
	)
	if len(config.Palette) > 0 {
		result.Info = append(result.Info, fmt.Sprintf("✓ Custom palette of %d symbols", len(config.Palette)))
	} else {
		result.Info = append(result.Info, fmt.Sprintf("✓ Default palette of %d symbols", len(engine.DefaultPalette)))
	}
	return result
}
