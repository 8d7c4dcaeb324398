package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/foreman/foreman/internal/clock"
	fcontext "github.com/foreman/foreman/pkg/context"
	"github.com/foreman/foreman/pkg/logger"
	"github.com/foreman/foreman/pkg/pool"
	"github.com/foreman/foreman/pkg/queue"
	"github.com/foreman/foreman/pkg/roster"
	"github.com/foreman/foreman/pkg/tracing"
	"github.com/foreman/foreman/pkg/types"
	"github.com/foreman/foreman/pkg/weather"
)

// Allocator drains the task queue once per cycle, handing resource units
// to workers in rotation. It holds no lock of its own: the caller must
// own the pool, roster and queue exclusively for the whole cycle.
type Allocator struct {
	pool   *pool.ResourcePool
	roster *roster.WorkerRoster
	queue  *queue.TaskQueue
	gate   weather.Gate
	logger logger.Logger
}

// NewAllocator creates an allocator over the given site structures.
// A nil gate lets every cycle run.
func NewAllocator(
	p *pool.ResourcePool,
	r *roster.WorkerRoster,
	q *queue.TaskQueue,
	gate weather.Gate,
	log logger.Logger,
) *Allocator {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Allocator{
		pool:   p,
		roster: r,
		queue:  q,
		gate:   gate,
		logger: log.WithComponent("allocator"),
	}
}

// RunCycle attempts every queued task once in priority order.
// Infeasible tasks are re-queued after the drain. If the crew runs out
// mid-task the task goes back to the front of the queue and the cycle stops.
func (a *Allocator) RunCycle(ctx context.Context) *types.CycleReport {
	start := clock.Now()
	ctx = fcontext.NewCycle(ctx)
	log := logger.WithContext(ctx, a.logger)

	ctx, span := tracing.StartSpan(ctx, "allocation.cycle")
	report := &types.CycleReport{CycleID: fcontext.GetCycleID(ctx)}
	defer func() {
		report.Duration = clock.Since(start)
		span.WithAttributes(map[string]string{"cycle.id": report.CycleID, "weather": report.Weather}).
			SetInt("tasks.completed", len(report.Completed)).
			SetInt("tasks.deferred", len(report.Deferred))
		tracing.EndSpan(span, report.Err)
	}()

	if a.gate != nil {
		condition, ok := a.gate.Allow(ctx)
		report.Weather = condition.String()
		if !ok {
			report.Skipped = true
			log.Warn("Work cannot proceed today due to weather conditions",
				logger.WithField("weather", report.Weather))
			return report
		}
		log.Info("Work can proceed", logger.WithField("weather", report.Weather))
	}

	if a.queue.IsEmpty() {
		log.Info("No tasks available to assign")
		return report
	}

	var retry []types.Task
	for {
		task, ok := a.queue.PopHighest()
		if !ok {
			break
		}

		if !a.pool.TryReserve(task.Required) {
			retry = append(retry, task)
			report.Deferred = append(report.Deferred, task)
			log.Warn("Task cannot proceed, will be retried later",
				logger.WithField("task", task.Name),
				logger.WithField("reason", types.ErrInsufficientResources),
				logger.WithField("required", task.Required.String()),
				logger.WithField("available", a.pool.Snapshot().String()))
			continue
		}

		if err := a.execute(ctx, log, task, report); err != nil {
			a.queue.PushFront(task)
			aborted := task
			report.Aborted = &aborted
			report.Err = err
			log.Error("No available workers to complete the task",
				logger.WithField("task", task.Name),
				logger.WithField("error", err))
			break
		}
		report.Completed = append(report.Completed, task)
	}

	for _, task := range retry {
		a.queue.Push(task)
		log.Info("Retrying task on the next cycle", logger.WithField("task", task.Name))
	}

	return report
}

// execute works a feasible task to completion, returning the borrowed
// units to the pool afterwards. When the rotation empties first it returns
// ErrWorkerCapacityExhausted after handing back whatever was consumed.
func (a *Allocator) execute(ctx context.Context, log logger.Logger, task types.Task, report *types.CycleReport) (err error) {
	_, span := tracing.StartSpan(ctx, "allocation.task")
	span.WithAttributes(map[string]string{"task.id": task.ID, "task.name": task.Name}).
		SetInt("task.priority", task.Priority)
	defer func() { tracing.EndSpan(span, err) }()

	rotation := roster.NewRotation(a.roster.ActiveByProficiencyDesc())
	remaining := task.Required
	var consumed types.Resources

	log.Debug("Starting task",
		logger.WithField("task", task.Name),
		logger.WithField("crew", crewNames(rotation)))

	for !remaining.IsZero() {
		if rotation.Empty() {
			a.pool.ReturnUnits(consumed)
			report.Returned = report.Returned.Plus(consumed)
			span.AddEvent("crew.exhausted", map[string]string{"consumed": consumed.String()})
			return fmt.Errorf("task %s: %w", task.Name, types.ErrWorkerCapacityExhausted)
		}

		worker := rotation.Front()
		for _, kind := range types.ResourceKinds {
			if remaining.Get(kind) <= 0 {
				continue
			}
			a.pool.ConsumeUnit(kind)
			remaining.Add(kind, -1)
			consumed.Add(kind, 1)
			worker.Proficiency--

			report.Allocations = append(report.Allocations, types.Allocation{
				TaskID:    task.ID,
				TaskName:  task.Name,
				Worker:    worker.Name,
				Kind:      kind,
				Remaining: remaining.Get(kind),
			})
			log.Debug(fmt.Sprintf("Worker %s takes 1 %s", worker.Name, kind.Unit()),
				logger.WithField("task", task.Name),
				logger.WithField("remaining", remaining.Get(kind)))
		}

		if worker.Proficiency <= 0 {
			a.roster.Retire(worker)
			rotation.Drop()
			span.AddEvent("worker.rest", map[string]string{"worker": worker.Name})
			log.Info("Worker goes on break", logger.WithField("worker", worker.Name))
		} else {
			rotation.Rotate()
		}
	}

	a.pool.ReturnUnits(consumed)
	report.Returned = report.Returned.Plus(consumed)
	span.WithAttributes(map[string]string{"units": strconv.Itoa(consumed.Bricks + consumed.Cement + consumed.Tools)})

	log.Success("Task fully assigned and completed", logger.WithField("task", task.Name))
	log.Debug("Workers returned their resources", logger.WithField("returned", consumed.String()))
	return nil
}

func crewNames(rotation *roster.Rotation) []string {
	crew := rotation.Workers()
	names := make([]string, len(crew))
	for i, w := range crew {
		names[i] = w.Name
	}
	return names
}
