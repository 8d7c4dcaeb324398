// Package simulate drives a site unattended: allocation cycles on one
// ticker and break recalls on another.
package simulate

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/foreman/foreman/internal/engine"
	"github.com/foreman/foreman/pkg/logger"
	"github.com/foreman/foreman/pkg/types"
)

// Site is the part of the coordinator the simulator drives
type Site interface {
	RunCycle(ctx context.Context) *types.CycleReport
	RecallWorker() (string, error)
	Pending() int
}

// Options configures a Simulator
type Options struct {
	CycleEvery  time.Duration
	RecallEvery time.Duration
	// MaxCycles stops the run after this many cycles; zero or negative means no limit
	MaxCycles int
	// OnReport is called after every cycle from the cycle loop
	OnReport func(*types.CycleReport)
}

// Summary totals what happened during a run
type Summary struct {
	Cycles    int
	Skipped   int
	Completed int
	Deferred  int
	Aborted   int
	Recalled  int
	Drained   bool
}

// Simulator runs cycles until the queue drains, MaxCycles is reached or
// the context is cancelled. Cancellation is observed between cycles only.
type Simulator struct {
	site    Site
	opts    Options
	logger  logger.Logger
	summary Summary

	recalled atomic.Int64
}

// New creates a simulator over s
func New(s Site, opts Options, log logger.Logger) *Simulator {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if opts.CycleEvery <= 0 {
		opts.CycleEvery = time.Second
	}
	return &Simulator{
		site:   s,
		opts:   opts,
		logger: log.WithComponent("simulate"),
	}
}

// Run blocks until the simulation stops and returns its totals.
// A cancelled parent context is a normal stop, not an error.
func (sim *Simulator) Run(ctx context.Context) (Summary, error) {
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	sg, gctx := engine.NewSafeGroup(runCtx, sim.logger)
	// one cycle loop and at most one recall loop
	sg.SetLimit(2)
	sg.Go("cycle", func() error {
		defer stop()
		return sim.cycleLoop(gctx)
	})
	if sim.opts.RecallEvery > 0 {
		sg.Go("recall", func() error {
			return sim.recallLoop(gctx)
		})
	}

	err := sg.Wait()
	sim.summary.Recalled = int(sim.recalled.Load())

	sim.logger.Info("Simulation finished",
		logger.WithField("cycles", sim.summary.Cycles),
		logger.WithField("completed", sim.summary.Completed),
		logger.WithField("drained", sim.summary.Drained))
	return sim.summary, err
}

func (sim *Simulator) cycleLoop(ctx context.Context) error {
	ticker := time.NewTicker(sim.opts.CycleEvery)
	defer ticker.Stop()

	for {
		if sim.step(ctx) {
			return nil
		}

		select {
		case <-ctx.Done():
			sim.logger.Info("Simulation interrupted")
			return nil
		case <-ticker.C:
		}
	}
}

// step runs one cycle and reports whether the run is over
func (sim *Simulator) step(ctx context.Context) bool {
	report := sim.site.RunCycle(ctx)
	sim.record(report)
	if sim.opts.OnReport != nil {
		sim.opts.OnReport(report)
	}

	if sim.site.Pending() == 0 {
		sim.summary.Drained = true
		sim.logger.Success("All tasks completed")
		return true
	}
	if sim.opts.MaxCycles > 0 && sim.summary.Cycles >= sim.opts.MaxCycles {
		sim.logger.Warn("Cycle limit reached with tasks still queued",
			logger.WithField("pending", sim.site.Pending()))
		return true
	}
	return false
}

func (sim *Simulator) record(report *types.CycleReport) {
	s := &sim.summary
	s.Cycles++
	if report.Skipped {
		s.Skipped++
	}
	s.Completed += len(report.Completed)
	s.Deferred += len(report.Deferred)
	if report.Aborted != nil {
		s.Aborted++
	}
}

func (sim *Simulator) recallLoop(ctx context.Context) error {
	ticker := time.NewTicker(sim.opts.RecallEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			name, err := sim.site.RecallWorker()
			switch {
			case errors.Is(err, types.ErrNoRestingWorkers):
				sim.logger.Debug("No workers are currently on break")
			case err != nil:
				return err
			default:
				sim.recalled.Add(1)
				sim.logger.Debug("Recalled worker", logger.WithField("worker", name))
			}
		}
	}
}
