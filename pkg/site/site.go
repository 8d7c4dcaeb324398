// Package site provides the coordinator that owns the resource pool, the
// crew and the task queue of one construction site.
package site

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/foreman/foreman/internal/clock"
	"github.com/foreman/foreman/internal/engine"
	"github.com/foreman/foreman/pkg/logger"
	"github.com/foreman/foreman/pkg/notifier"
	"github.com/foreman/foreman/pkg/pool"
	"github.com/foreman/foreman/pkg/queue"
	"github.com/foreman/foreman/pkg/roster"
	"github.com/foreman/foreman/pkg/types"
	"github.com/foreman/foreman/pkg/weather"
)

// Site serializes every operation on the pool, the roster and the queue
// behind one mutex. Snapshots take the same lock so they never observe a
// cycle half done.
type Site struct {
	mu sync.Mutex

	name      string
	pool      *pool.ResourcePool
	roster    *roster.WorkerRoster
	queue     *queue.TaskQueue
	gate      *weather.Switchable
	allocator *engine.Allocator
	notifier  notifier.Notifier
	logger    logger.Logger
}

// Option configures a Site
type Option func(*Site)

// WithLogger sets the site logger
func WithLogger(log logger.Logger) Option {
	return func(s *Site) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithGate sets the weather gate consulted before each cycle
func WithGate(gate weather.Gate) Option {
	return func(s *Site) {
		if gate != nil {
			s.gate.Set(gate)
		}
	}
}

// WithNotifier sets the receiver of cycle and recall events
func WithNotifier(n notifier.Notifier) Option {
	return func(s *Site) {
		s.notifier = n
	}
}

// WithName labels the site in logs
func WithName(name string) Option {
	return func(s *Site) {
		s.name = name
	}
}

// New opens an empty site with the given stock. Without WithGate the
// weather is always clear.
func New(initial types.Resources, defaultProficiency int, opts ...Option) (*Site, error) {
	p, err := pool.New(initial)
	if err != nil {
		return nil, err
	}

	s := &Site{
		name:   "site",
		pool:   p,
		roster: roster.New(defaultProficiency),
		queue:  queue.New(),
		gate:   weather.NewSwitchable(weather.Fixed(weather.Clear)),
		logger: logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.WithComponent(s.name)
	s.allocator = engine.NewAllocator(s.pool, s.roster, s.queue, s.gate, s.logger)
	return s, nil
}

// FromConfig opens a site with the crew, tasks and weather described by cfg.
// Options are applied after the configured gate, so WithGate wins.
func FromConfig(cfg *types.SiteConfig, opts ...Option) (*Site, error) {
	if cfg == nil {
		return nil, fmt.Errorf("site config is nil")
	}

	gate, err := weather.FromConfig(cfg.Weather)
	if err != nil {
		return nil, err
	}

	all := []Option{WithGate(gate)}
	if cfg.Name != "" {
		all = append(all, WithName(cfg.Name))
	}
	s, err := New(cfg.Resources, cfg.DefaultProficiency, append(all, opts...)...)
	if err != nil {
		return nil, err
	}

	for _, wc := range cfg.Workers {
		if wc.Resting {
			_, err = s.roster.HireResting(wc.Name, wc.Proficiency)
		} else {
			_, err = s.roster.Hire(wc.Name, wc.Proficiency)
		}
		if err != nil {
			return nil, fmt.Errorf("worker %q: %w", wc.Name, err)
		}
	}

	for _, tc := range cfg.Tasks {
		if _, err := s.SubmitTask(tc.Name, tc.Bricks, tc.Cement, tc.Tools, tc.Priority); err != nil {
			return nil, fmt.Errorf("task %q: %w", tc.Name, err)
		}
	}

	return s, nil
}

// Name returns the site label
func (s *Site) Name() string {
	return s.name
}

// SubmitTask queues a new task. Lower priority numbers run first.
func (s *Site) SubmitTask(name string, bricks, cement, tools, priority int) (types.Task, error) {
	if name == "" {
		return types.Task{}, fmt.Errorf("%w: empty name", types.ErrInvalidTask)
	}
	required := types.Resources{Bricks: bricks, Cement: cement, Tools: tools}
	if required.HasNegative() {
		return types.Task{}, fmt.Errorf("%w: %s needs %s", types.ErrInvalidQuantity, name, required)
	}

	task := types.Task{
		ID:          uuid.NewString(),
		Name:        name,
		Required:    required,
		Priority:    priority,
		SubmittedAt: clock.Now(),
	}

	s.mu.Lock()
	s.queue.Push(task)
	s.mu.Unlock()

	s.logger.Info("Task added",
		logger.WithField("task", name),
		logger.WithField("priority", priority),
		logger.WithField("required", required.String()))
	return task, nil
}

// HireWorker adds a worker on duty. Zero proficiency means the site default.
func (s *Site) HireWorker(name string, proficiency int) error {
	s.mu.Lock()
	w, err := s.roster.Hire(name, proficiency)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.logger.Info("Worker hired",
		logger.WithField("worker", w.Name),
		logger.WithField("proficiency", w.Proficiency))
	return nil
}

// TerminateWorker removes a worker from the site, on duty or resting
func (s *Site) TerminateWorker(name string) error {
	s.mu.Lock()
	err := s.roster.Terminate(name)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.logger.Info("Worker terminated", logger.WithField("worker", name))
	return nil
}

// RecallWorker brings the longest-resting worker back with full stamina
func (s *Site) RecallWorker() (string, error) {
	s.mu.Lock()
	w, ok := s.roster.RecallNext()
	s.mu.Unlock()
	if !ok {
		return "", types.ErrNoRestingWorkers
	}

	s.logger.Info("Worker returned from break",
		logger.WithField("worker", w.Name),
		logger.WithField("proficiency", w.Proficiency))
	if s.notifier != nil {
		s.notifier.NotifyWorkerReturned(w.Name)
	}
	return w.Name, nil
}

// RunCycle runs one allocation cycle while holding the site lock
func (s *Site) RunCycle(ctx context.Context) *types.CycleReport {
	s.mu.Lock()
	report := s.allocator.RunCycle(ctx)
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.NotifyCycle(report)
	}
	return report
}

// SetGate replaces the weather gate for later cycles
func (s *Site) SetGate(gate weather.Gate) {
	s.gate.Set(gate)
}

// ResourceSnapshot returns the current pool balance
func (s *Site) ResourceSnapshot() types.Resources {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Snapshot()
}

// WorkerSnapshot returns copies of the active and resting crew
func (s *Site) WorkerSnapshot() types.WorkerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Snapshot()
}

// QueueSnapshot returns the waiting tasks in the order they would run
func (s *Site) QueueSnapshot() []types.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Tasks()
}

// Pending returns the number of waiting tasks
func (s *Site) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}
