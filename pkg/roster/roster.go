// Package roster manages the site crew, their stamina and their breaks
package roster

import (
	"fmt"
	"sort"

	"github.com/foreman/foreman/pkg/types"
)

// WorkerRoster holds every worker in hiring order together with the
// FIFO order in which workers went on break.
// It is not safe for concurrent use; the site coordinator serializes access.
type WorkerRoster struct {
	workers            []*types.Worker
	restingOrder       []string
	defaultProficiency int
}

// New creates an empty roster. A non-positive defaultProficiency falls back to types.DefaultProficiency.
func New(defaultProficiency int) *WorkerRoster {
	if defaultProficiency <= 0 {
		defaultProficiency = types.DefaultProficiency
	}
	return &WorkerRoster{defaultProficiency: defaultProficiency}
}

// DefaultProficiency returns the stamina given to new hires and recalled workers
func (r *WorkerRoster) DefaultProficiency() int {
	return r.defaultProficiency
}

// Hire adds a worker on duty. Zero proficiency means the roster default.
func (r *WorkerRoster) Hire(name string, proficiency int) (*types.Worker, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", types.ErrInvalidWorker)
	}
	if proficiency < 0 {
		return nil, fmt.Errorf("%w: %d for %s", types.ErrInvalidProficiency, proficiency, name)
	}
	if r.find(name) >= 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrDuplicateWorker, name)
	}
	if proficiency == 0 {
		proficiency = r.defaultProficiency
	}

	w := &types.Worker{Name: name, Proficiency: proficiency}
	r.workers = append(r.workers, w)
	return w, nil
}

// HireResting adds a worker who starts the day on break
func (r *WorkerRoster) HireResting(name string, proficiency int) (*types.Worker, error) {
	w, err := r.Hire(name, proficiency)
	if err != nil {
		return nil, err
	}
	r.Retire(w)
	return w, nil
}

// Terminate removes the named worker from the roster and from the break queue
func (r *WorkerRoster) Terminate(name string) error {
	idx := r.find(name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", types.ErrNotFound, name)
	}

	r.workers = append(r.workers[:idx], r.workers[idx+1:]...)
	for i, n := range r.restingOrder {
		if n == name {
			r.restingOrder = append(r.restingOrder[:i], r.restingOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Lookup returns the named worker
func (r *WorkerRoster) Lookup(name string) (*types.Worker, error) {
	idx := r.find(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrNotFound, name)
	}
	return r.workers[idx], nil
}

// ActiveByProficiencyDesc returns workers on duty, strongest first.
// Equal proficiency keeps hiring order.
func (r *WorkerRoster) ActiveByProficiencyDesc() []*types.Worker {
	active := make([]*types.Worker, 0, len(r.workers))
	for _, w := range r.workers {
		if !w.Resting {
			active = append(active, w)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Proficiency > active[j].Proficiency
	})
	return active
}

// Retire sends a worker on break and queues them for recall
func (r *WorkerRoster) Retire(w *types.Worker) {
	if w.Resting {
		return
	}
	w.Resting = true
	r.restingOrder = append(r.restingOrder, w.Name)
}

// RecallNext brings back the worker who has been resting longest,
// restoring full proficiency. It returns false when nobody is on break.
func (r *WorkerRoster) RecallNext() (*types.Worker, bool) {
	for len(r.restingOrder) > 0 {
		name := r.restingOrder[0]
		r.restingOrder = r.restingOrder[1:]

		idx := r.find(name)
		if idx < 0 {
			continue
		}
		w := r.workers[idx]
		w.Resting = false
		w.Proficiency = r.defaultProficiency
		return w, true
	}
	return nil, false
}

// RestingOrder returns the names on break, earliest first
func (r *WorkerRoster) RestingOrder() []string {
	out := make([]string, len(r.restingOrder))
	copy(out, r.restingOrder)
	return out
}

// Len returns the number of workers on the roster
func (r *WorkerRoster) Len() int {
	return len(r.workers)
}

// Snapshot copies the roster split into active and resting workers
func (r *WorkerRoster) Snapshot() types.WorkerSnapshot {
	var snap types.WorkerSnapshot
	for _, w := range r.workers {
		if w.Resting {
			snap.Resting = append(snap.Resting, *w)
		} else {
			snap.Active = append(snap.Active, *w)
		}
	}
	return snap
}

func (r *WorkerRoster) find(name string) int {
	for i, w := range r.workers {
		if w.Name == name {
			return i
		}
	}
	return -1
}
