// Package validation checks a site configuration for problems that parse
// fine but would stall a simulation
package validation

import (
	"fmt"

	"github.com/foreman/foreman/pkg/types"
)

// ValidationLevel represents finding severity
type ValidationLevel string

const (
	ValidationLevelError   ValidationLevel = "error"
	ValidationLevelWarning ValidationLevel = "warning"
	ValidationLevelInfo    ValidationLevel = "info"
)

// ValidationError is one finding about a config entry
type ValidationError struct {
	Subject string
	Field   string
	Message string
	Level   ValidationLevel
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s.%s: %s", e.Level, e.Subject, e.Field, e.Message)
}

// ValidationResult collects findings; Valid turns false on the first error
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// AddError adds a finding to the result
func (r *ValidationResult) AddError(subject, field, message string, level ValidationLevel) {
	r.Errors = append(r.Errors, ValidationError{
		Subject: subject,
		Field:   field,
		Message: message,
		Level:   level,
	})
	if level == ValidationLevelError {
		r.Valid = false
	}
}

// Count returns the number of findings at level
func (r *ValidationResult) Count(level ValidationLevel) int {
	n := 0
	for _, e := range r.Errors {
		if e.Level == level {
			n++
		}
	}
	return n
}

// SiteValidator looks for tasks that can never run and crews that cannot
// work. It assumes the config already passed config.Manager validation.
type SiteValidator struct{}

// NewSiteValidator creates a new site validator
func NewSiteValidator() *SiteValidator {
	return &SiteValidator{}
}

// Validate checks cfg and returns every finding
func (v *SiteValidator) Validate(cfg *types.SiteConfig) *ValidationResult {
	result := &ValidationResult{Valid: true}

	v.validateCrew(cfg, result)
	v.validateTasks(cfg, result)
	v.validateWeather(cfg, result)

	return result
}

func (v *SiteValidator) validateCrew(cfg *types.SiteConfig, result *ValidationResult) {
	if len(cfg.Workers) == 0 {
		result.AddError("site", "workers", "no workers configured; every task with demand will abort", ValidationLevelWarning)
		return
	}

	active := 0
	for _, w := range cfg.Workers {
		if !w.Resting {
			active++
		}
	}
	if active == 0 {
		result.AddError("site", "workers", "every worker starts on break; nothing runs until the first recall", ValidationLevelWarning)
	}
}

func (v *SiteValidator) validateTasks(cfg *types.SiteConfig, result *ValidationResult) {
	stamina := 0
	for _, w := range cfg.Workers {
		p := w.Proficiency
		if p == 0 {
			p = cfg.DefaultProficiency
		}
		if p == 0 {
			p = types.DefaultProficiency
		}
		stamina += p
	}

	for _, t := range cfg.Tasks {
		required := types.Resources{Bricks: t.Bricks, Cement: t.Cement, Tools: t.Tools}

		if !cfg.Resources.Covers(required) {
			result.AddError(t.Name, "resources",
				fmt.Sprintf("needs %s but the site only stocks %s; it will be deferred every cycle", required, cfg.Resources),
				ValidationLevelError)
			continue
		}

		if required.IsZero() {
			result.AddError(t.Name, "resources", "needs no resources and completes immediately", ValidationLevelInfo)
			continue
		}

		if units := t.Bricks + t.Cement + t.Tools; units > stamina {
			result.AddError(t.Name, "resources",
				fmt.Sprintf("needs %d units but the whole crew has %d proficiency; it will abort until workers are recalled", units, stamina),
				ValidationLevelWarning)
		}
	}
}

func (v *SiteValidator) validateWeather(cfg *types.SiteConfig, result *ValidationResult) {
	if cfg.Weather != nil && cfg.Weather.Mode == types.WeatherModeRainy {
		result.AddError("site", "weather", "rainy weather blocks every cycle", ValidationLevelWarning)
	}
}
