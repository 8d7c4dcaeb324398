package types

import "time"

// WeatherMode selects how the site decides whether work can proceed
type WeatherMode string

const (
	WeatherModeRandom WeatherMode = "random"
	WeatherModeClear  WeatherMode = "clear"
	WeatherModeRainy  WeatherMode = "rainy"
	WeatherModeStormy WeatherMode = "stormy"
)

// SiteConfig represents the main configuration structure
type SiteConfig struct {
	Version            string              `json:"version" yaml:"version"`
	Name               string              `json:"name,omitempty" yaml:"name,omitempty"`
	Resources          Resources           `json:"resources" yaml:"resources"`
	DefaultProficiency int                 `json:"defaultProficiency,omitempty" yaml:"defaultProficiency,omitempty"`
	Workers            []WorkerConfig      `json:"workers,omitempty" yaml:"workers,omitempty"`
	Tasks              []TaskConfig        `json:"tasks,omitempty" yaml:"tasks,omitempty"`
	Weather            *WeatherConfig      `json:"weather,omitempty" yaml:"weather,omitempty"`
	Simulation         *SimulationConfig   `json:"simulation,omitempty" yaml:"simulation,omitempty"`
	Notifications      *NotificationConfig `json:"notifications,omitempty" yaml:"notifications,omitempty"`
	Tracing            *TracingConfig      `json:"tracing,omitempty" yaml:"tracing,omitempty"`
	LogLevel           LogLevel            `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
}

// WorkerConfig declares a worker present when the site opens
type WorkerConfig struct {
	Name        string `json:"name" yaml:"name"`
	Proficiency int    `json:"proficiency,omitempty" yaml:"proficiency,omitempty"`
	Resting     bool   `json:"resting,omitempty" yaml:"resting,omitempty"`
}

// TaskConfig declares a task queued when the site opens
type TaskConfig struct {
	Name     string `json:"name" yaml:"name"`
	Bricks   int    `json:"bricks" yaml:"bricks"`
	Cement   int    `json:"cement" yaml:"cement"`
	Tools    int    `json:"tools" yaml:"tools"`
	Priority int    `json:"priority" yaml:"priority"`
}

// WeatherConfig configures the weather gate
type WeatherConfig struct {
	Mode WeatherMode `json:"mode" yaml:"mode"`
	Seed int64       `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// SimulationConfig configures the unattended simulation loop.
// Intervals are in milliseconds. MaxCycles of -1 removes the cycle limit.
type SimulationConfig struct {
	CycleInterval  int `json:"cycleInterval" yaml:"cycleInterval"`
	RecallInterval int `json:"recallInterval" yaml:"recallInterval"`
	MaxCycles      int `json:"maxCycles" yaml:"maxCycles"`
}

// CycleEvery returns the cycle interval as a duration
func (s *SimulationConfig) CycleEvery() time.Duration {
	return time.Duration(s.CycleInterval) * time.Millisecond
}

// RecallEvery returns the recall interval as a duration
func (s *SimulationConfig) RecallEvery() time.Duration {
	return time.Duration(s.RecallInterval) * time.Millisecond
}

// NotificationConfig represents notification settings
type NotificationConfig struct {
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// IsEnabled reports whether notifications are switched on; they are off by default
func (n *NotificationConfig) IsEnabled() bool {
	return n != nil && n.Enabled != nil && *n.Enabled
}

// TracingConfig represents OpenTelemetry export settings
type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Output  string `json:"output,omitempty" yaml:"output,omitempty"`
}
