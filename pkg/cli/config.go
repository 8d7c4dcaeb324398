package cli

import (
	"context"
	"time"

	fcontext "github.com/foreman/foreman/pkg/context"
)

// Config holds all CLI settings so commands never read globals
type Config struct {
	ConfigFile  string
	ProjectRoot string
	Verbosity   string
	LogFile     string
	Version     string
}

// NewConfig creates a new CLI configuration with defaults
func NewConfig() *Config {
	return &Config{
		ProjectRoot: ".",
		Verbosity:   "info",
		Version:     "dev",
	}
}

// RuntimeConfig carries per-invocation state into long-running commands
type RuntimeConfig struct {
	Config    *Config
	Context   context.Context
	StartTime time.Time
}

// NewRuntimeConfig tags ctx with a fresh correlation ID shared by every cycle of the run
func NewRuntimeConfig(cfg *Config, ctx context.Context) *RuntimeConfig {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = fcontext.WithCorrelationID(ctx, fcontext.GenerateCorrelationID())

	return &RuntimeConfig{
		Config:    cfg,
		Context:   ctx,
		StartTime: time.Now(),
	}
}

// CorrelationID returns the ID tagging this invocation
func (rc *RuntimeConfig) CorrelationID() string {
	return fcontext.GetCorrelationID(rc.Context)
}
