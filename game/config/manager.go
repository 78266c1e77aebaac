package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/memory-match/game/engine"
	"github.com/wricardo/memory-match/game/service"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = service.ErrInvalidConfig
)

// DefaultConfigID is the preset used when none is requested.
const DefaultConfigID = "classic"

//go:embed presets/*.yaml
var embedded embed.FS

// Extensions lists the preset file suffixes, in lookup order.
var Extensions = []string{".yaml", ".yml", ".json"}

// Manager handles game preset loading and caching
type Manager struct {
	fsys          fs.FS
	source        string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a preset manager reading from configDir, or from the
// built-in presets when configDir is empty.
func NewManager(configDir string) (*Manager, error) {
	if configDir == "" {
		sub, err := fs.Sub(embedded, "presets")
		if err != nil {
			return nil, err
		}
		return NewManagerFS(sub, "embedded")
	}

	if info, err := os.Stat(configDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}
	return NewManagerFS(os.DirFS(configDir), configDir)
}

// NewManagerFS creates a preset manager over any file system.
func NewManagerFS(fsys fs.FS, source string) (*Manager, error) {
	m := &Manager{
		fsys:    fsys,
		source:  source,
		configs: make(map[string]*engine.GameConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}
	return m, nil
}

// Source describes where presets are read from
func (m *Manager) Source() string {
	return m.source
}

// LoadConfig loads a preset by ID (file name without extension)
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	name = trimExtension(name)

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	config, err := m.readConfig(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, exists := m.configs[name]; exists {
		return cached, nil
	}
	m.configs[name] = config
	return config, nil
}

// ListConfigs returns information about all valid presets, sorted by pair count
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := fs.ReadDir(m.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !hasExtension(entry.Name()) {
			continue
		}
		id := trimExtension(entry.Name())
		if seen[id] {
			continue
		}

		config, err := m.LoadConfig(id)
		if err != nil {
			// Skip invalid presets
			continue
		}
		seen[id] = true

		configs = append(configs, &service.ConfigInfo{
			Filename:        entry.Name(),
			ConfigID:        id,
			Name:            config.Name,
			Description:     config.Description,
			PairCount:       config.PairCount,
			MismatchDelayMS: int(config.MismatchDelay().Milliseconds()),
		})
	}

	sort.SliceStable(configs, func(i, j int) bool {
		if configs[i].PairCount != configs[j].PairCount {
			return configs[i].PairCount < configs[j].PairCount
		}
		return configs[i].ConfigID < configs[j].ConfigID
	})
	return configs, nil
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default preset by ID
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops cached presets and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig prefers the classic preset, then the first valid one,
// then the built-in default.
func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig(DefaultConfigID)
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			config = engine.DefaultGameConfig()
		} else if config, err = m.LoadConfig(configs[0].ConfigID); err != nil {
			config = engine.DefaultGameConfig()
		}
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

func (m *Manager) readConfig(id string) (*engine.GameConfig, error) {
	for _, ext := range Extensions {
		data, err := fs.ReadFile(m.fsys, id+ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return ParseConfig(data)
	}
	return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, id)
}

// ParseConfig decodes a YAML or JSON preset and validates it.
func ParseConfig(data []byte) (*engine.GameConfig, error) {
	var config engine.GameConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &config, nil
}

func hasExtension(name string) bool {
	ext := path.Ext(name)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func trimExtension(name string) string {
	if hasExtension(name) {
		return strings.TrimSuffix(name, path.Ext(name))
	}
	return name
}
