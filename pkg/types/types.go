// Package types provides core types and configurations for Foreman
package types

import (
	"fmt"
	"time"
)

// DefaultProficiency is the stamina a worker starts with and returns to after rest
const DefaultProficiency = 10

// ResourceKind identifies one of the three shared site resources
type ResourceKind string

const (
	ResourceBricks ResourceKind = "bricks"
	ResourceCement ResourceKind = "cement"
	ResourceTools  ResourceKind = "tools"
)

// ResourceKinds lists the kinds in the order a worker handles them during a turn
var ResourceKinds = []ResourceKind{ResourceBricks, ResourceCement, ResourceTools}

// Unit returns the singular display name used in allocation logs
func (k ResourceKind) Unit() string {
	switch k {
	case ResourceBricks:
		return "brick"
	case ResourceTools:
		return "tool"
	default:
		return string(k)
	}
}

// LogLevel represents logging verbosity levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Resources holds an amount of each resource kind
type Resources struct {
	Bricks int `json:"bricks" yaml:"bricks"`
	Cement int `json:"cement" yaml:"cement"`
	Tools  int `json:"tools" yaml:"tools"`
}

// Get returns the amount held for kind
func (r Resources) Get(kind ResourceKind) int {
	switch kind {
	case ResourceBricks:
		return r.Bricks
	case ResourceCement:
		return r.Cement
	case ResourceTools:
		return r.Tools
	}
	return 0
}

// Add adjusts the amount held for kind by delta
func (r *Resources) Add(kind ResourceKind, delta int) {
	switch kind {
	case ResourceBricks:
		r.Bricks += delta
	case ResourceCement:
		r.Cement += delta
	case ResourceTools:
		r.Tools += delta
	}
}

// Plus returns the component-wise sum
func (r Resources) Plus(o Resources) Resources {
	return Resources{
		Bricks: r.Bricks + o.Bricks,
		Cement: r.Cement + o.Cement,
		Tools:  r.Tools + o.Tools,
	}
}

// Covers reports whether r holds at least need of every kind
func (r Resources) Covers(need Resources) bool {
	return need.Bricks <= r.Bricks && need.Cement <= r.Cement && need.Tools <= r.Tools
}

// IsZero reports whether every amount is zero
func (r Resources) IsZero() bool {
	return r.Bricks == 0 && r.Cement == 0 && r.Tools == 0
}

// HasNegative reports whether any amount is below zero
func (r Resources) HasNegative() bool {
	return r.Bricks < 0 || r.Cement < 0 || r.Tools < 0
}

// String renders the amounts the way the site board shows them
func (r Resources) String() string {
	return fmt.Sprintf("Bricks: %d, Cement: %d, Tools: %d", r.Bricks, r.Cement, r.Tools)
}

// Task is a unit of site work waiting for resources and labour
type Task struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Required    Resources `json:"required" yaml:"required"`
	Priority    int       `json:"priority" yaml:"priority"`
	SubmittedAt time.Time `json:"submittedAt" yaml:"submittedAt"`
}

// String renders the task as shown on submission
func (t Task) String() string {
	return fmt.Sprintf("%s (Bricks=%d, Cement=%d, Tools=%d, Priority=%d)",
		t.Name, t.Required.Bricks, t.Required.Cement, t.Required.Tools, t.Priority)
}

// Worker is a member of the site crew
type Worker struct {
	Name        string `json:"name" yaml:"name"`
	Proficiency int    `json:"proficiency" yaml:"proficiency"`
	Resting     bool   `json:"resting" yaml:"resting"`
}

// WorkerSnapshot splits the roster into workers on duty and workers on break
type WorkerSnapshot struct {
	Active  []Worker `json:"active"`
	Resting []Worker `json:"resting"`
}

// Allocation records a single resource unit handed to a worker
type Allocation struct {
	TaskID    string       `json:"taskId"`
	TaskName  string       `json:"taskName"`
	Worker    string       `json:"worker"`
	Kind      ResourceKind `json:"kind"`
	Remaining int          `json:"remaining"`
}

// CycleReport summarizes one allocation cycle
type CycleReport struct {
	CycleID     string        `json:"cycleId"`
	Weather     string        `json:"weather,omitempty"`
	Skipped     bool          `json:"skipped"`
	Completed   []Task        `json:"completed,omitempty"`
	Deferred    []Task        `json:"deferred,omitempty"`
	Aborted     *Task         `json:"aborted,omitempty"`
	Allocations []Allocation  `json:"allocations,omitempty"`
	Returned    Resources     `json:"returned"`
	Duration    time.Duration `json:"duration"`
	Err         error         `json:"-"`
}

// Idle reports whether the cycle neither completed nor attempted anything
func (r *CycleReport) Idle() bool {
	return len(r.Completed) == 0 && len(r.Deferred) == 0 && r.Aborted == nil
}
