package roster

import "github.com/foreman/foreman/pkg/types"

// Rotation is a fixed-capacity ring of workers taking turns on a task.
// The front worker takes the next turn; Rotate sends it to the back and
// Drop removes it for the rest of the task.
type Rotation struct {
	ring  []*types.Worker
	head  int
	count int
}

// NewRotation builds a rotation in the given order
func NewRotation(workers []*types.Worker) *Rotation {
	ring := make([]*types.Worker, len(workers))
	copy(ring, workers)
	return &Rotation{ring: ring, count: len(ring)}
}

// Len returns the number of workers still in rotation
func (r *Rotation) Len() int {
	return r.count
}

// Empty reports whether nobody is left to take a turn
func (r *Rotation) Empty() bool {
	return r.count == 0
}

// Front returns the worker whose turn it is, or nil
func (r *Rotation) Front() *types.Worker {
	if r.count == 0 {
		return nil
	}
	return r.ring[r.head]
}

// Rotate moves the front worker to the back
func (r *Rotation) Rotate() {
	if r.count == 0 {
		return
	}
	front := r.ring[r.head]
	r.ring[r.head] = nil
	r.head = (r.head + 1) % len(r.ring)
	r.ring[(r.head+r.count-1)%len(r.ring)] = front
}

// Drop removes the front worker
func (r *Rotation) Drop() {
	if r.count == 0 {
		return
	}
	r.ring[r.head] = nil
	r.head = (r.head + 1) % len(r.ring)
	r.count--
}

// Workers returns the rotation in turn order
func (r *Rotation) Workers() []*types.Worker {
	out := make([]*types.Worker, 0, r.count)
	for i := 0; i < r.count; i++ {
		out = append(out, r.ring[(r.head+i)%len(r.ring)])
	}
	return out
}
