// Package config handles site configuration loading and management
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/foreman/foreman/pkg/types"
)

// CurrentVersion is the only config version understood
const CurrentVersion = "1.0"

// DefaultFileName is the config file written by init and searched by the CLI
const DefaultFileName = "foreman.yaml"

// Default simulation timing in milliseconds
const (
	DefaultCycleInterval  = 1000
	DefaultRecallInterval = 3000
	DefaultMaxCycles      = 20
)

// UnlimitedCycles as maxCycles runs until the queue drains or the run is
// interrupted. A zero maxCycles is filled with DefaultMaxCycles.
const UnlimitedCycles = -1

// Manager handles configuration operations
type Manager struct{}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{}
}

// LoadConfig loads and validates a configuration file, JSON or YAML
func (m *Manager) LoadConfig(path string) (*types.SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := m.Parse(data)
	if err != nil {
		return nil, err
	}

	m.ApplyDefaults(cfg)
	if err := m.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes raw config bytes. JSON is tried first, then YAML.
func (m *Manager) Parse(data []byte) (*types.SiteConfig, error) {
	var cfg types.SiteConfig
	if err := json.Unmarshal(data, &cfg); err == nil {
		return &cfg, nil
	}

	cfg = types.SiteConfig{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config as JSON or YAML: %w", err)
	}
	return &cfg, nil
}

// ApplyDefaults fills the optional sections a config may leave out
func (m *Manager) ApplyDefaults(cfg *types.SiteConfig) {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.DefaultProficiency == 0 {
		cfg.DefaultProficiency = types.DefaultProficiency
	}
	if cfg.Weather == nil {
		cfg.Weather = &types.WeatherConfig{Mode: types.WeatherModeRandom}
	}
	if cfg.Weather.Mode == "" {
		cfg.Weather.Mode = types.WeatherModeRandom
	}
	if cfg.Simulation == nil {
		cfg.Simulation = &types.SimulationConfig{}
	}
	if cfg.Simulation.CycleInterval == 0 {
		cfg.Simulation.CycleInterval = DefaultCycleInterval
	}
	if cfg.Simulation.RecallInterval == 0 {
		cfg.Simulation.RecallInterval = DefaultRecallInterval
	}
	if cfg.Simulation.MaxCycles == 0 {
		cfg.Simulation.MaxCycles = DefaultMaxCycles
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = types.LogLevelInfo
	}
}

// ValidateConfig validates a configuration
func (m *Manager) ValidateConfig(cfg *types.SiteConfig) error {
	if cfg.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %s", cfg.Version)
	}

	if cfg.Resources.HasNegative() {
		return fmt.Errorf("%w: resources %s", types.ErrInvalidQuantity, cfg.Resources)
	}
	if cfg.DefaultProficiency < 0 {
		return fmt.Errorf("%w: defaultProficiency %d", types.ErrInvalidProficiency, cfg.DefaultProficiency)
	}

	names := make(map[string]bool)
	for i, w := range cfg.Workers {
		if w.Name == "" {
			return fmt.Errorf("worker %d: %w: missing name", i, types.ErrInvalidWorker)
		}
		if names[w.Name] {
			return fmt.Errorf("%w: %s", types.ErrDuplicateWorker, w.Name)
		}
		names[w.Name] = true
		if w.Proficiency < 0 {
			return fmt.Errorf("worker '%s': %w: %d", w.Name, types.ErrInvalidProficiency, w.Proficiency)
		}
	}

	for i, t := range cfg.Tasks {
		if t.Name == "" {
			return fmt.Errorf("task %d: %w: missing name", i, types.ErrInvalidTask)
		}
		if t.Bricks < 0 || t.Cement < 0 || t.Tools < 0 {
			return fmt.Errorf("task '%s': %w", t.Name, types.ErrInvalidQuantity)
		}
	}

	if cfg.Weather != nil {
		switch cfg.Weather.Mode {
		case "", types.WeatherModeRandom, types.WeatherModeClear, types.WeatherModeRainy, types.WeatherModeStormy:
		default:
			return fmt.Errorf("invalid weather mode: %s", cfg.Weather.Mode)
		}
	}

	if s := cfg.Simulation; s != nil {
		if s.CycleInterval < 0 || s.RecallInterval < 0 {
			return fmt.Errorf("simulation intervals must not be negative")
		}
		if s.MaxCycles < UnlimitedCycles {
			return fmt.Errorf("simulation maxCycles must be positive or %d for no limit", UnlimitedCycles)
		}
	}

	switch cfg.LogLevel {
	case "", types.LogLevelDebug, types.LogLevelInfo, types.LogLevelWarn, types.LogLevelError:
	default:
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	return nil
}

// GetDefaultConfig returns the stock site: 100 bricks, 50 cement, 10 tools
// and a crew of eight with Shahzaib on break.
func (m *Manager) GetDefaultConfig() *types.SiteConfig {
	disabled := false

	workers := []types.WorkerConfig{}
	for _, name := range []string{"Ali", "Bilal", "Mujtaba", "Afaq", "Usman", "Abdullah", "Afnan"} {
		workers = append(workers, types.WorkerConfig{Name: name, Proficiency: types.DefaultProficiency})
	}
	workers = append(workers, types.WorkerConfig{Name: "Shahzaib", Proficiency: types.DefaultProficiency, Resting: true})

	return &types.SiteConfig{
		Version:            CurrentVersion,
		Name:               "site",
		Resources:          types.Resources{Bricks: 100, Cement: 50, Tools: 10},
		DefaultProficiency: types.DefaultProficiency,
		Workers:            workers,
		Tasks:              []types.TaskConfig{},
		Weather:            &types.WeatherConfig{Mode: types.WeatherModeRandom},
		Simulation: &types.SimulationConfig{
			CycleInterval:  DefaultCycleInterval,
			RecallInterval: DefaultRecallInterval,
			MaxCycles:      DefaultMaxCycles,
		},
		Notifications: &types.NotificationConfig{Enabled: &disabled},
		Tracing:       &types.TracingConfig{Enabled: false},
		LogLevel:      types.LogLevelInfo,
	}
}

// WriteConfig writes cfg to path, as JSON for a .json extension and YAML otherwise
func (m *Manager) WriteConfig(path string, cfg *types.SiteConfig) error {
	var (
		data []byte
		err  error
	)
	if filepath.Ext(path) == ".json" {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
