// Package queue provides the prioritized task queue for the site
package queue

import (
	"container/heap"

	"github.com/foreman/foreman/pkg/types"
)

// item orders a task by priority, then by sequence
type item struct {
	task types.Task
	seq  int64
}

type taskHeap []item

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].task.Priority != h[j].task.Priority {
		return h[i].task.Priority < h[j].task.Priority
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(item)) }

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// TaskQueue orders pending tasks by ascending priority number.
// Tasks sharing a priority leave in insertion order.
// It is not safe for concurrent use; the site coordinator serializes access.
type TaskQueue struct {
	items    taskHeap
	nextSeq  int64
	frontSeq int64
}

// New creates an empty task queue
func New() *TaskQueue {
	return &TaskQueue{}
}

// Push adds a task behind every queued task of the same priority
func (q *TaskQueue) Push(task types.Task) {
	q.nextSeq++
	heap.Push(&q.items, item{task: task, seq: q.nextSeq})
}

// PushFront adds a task ahead of every queued task of the same priority
func (q *TaskQueue) PushFront(task types.Task) {
	q.frontSeq--
	heap.Push(&q.items, item{task: task, seq: q.frontSeq})
}

// PopHighest removes and returns the most urgent task
func (q *TaskQueue) PopHighest() (types.Task, bool) {
	if len(q.items) == 0 {
		return types.Task{}, false
	}
	it := heap.Pop(&q.items).(item)
	return it.task, true
}

// Peek returns the most urgent task without removing it
func (q *TaskQueue) Peek() (types.Task, bool) {
	if len(q.items) == 0 {
		return types.Task{}, false
	}
	return q.items[0].task, true
}

// IsEmpty reports whether no task is waiting
func (q *TaskQueue) IsEmpty() bool {
	return len(q.items) == 0
}

// Len returns the number of waiting tasks
func (q *TaskQueue) Len() int {
	return len(q.items)
}

// Tasks returns the waiting tasks in the order they would be popped
func (q *TaskQueue) Tasks() []types.Task {
	sorted := make(taskHeap, len(q.items))
	copy(sorted, q.items)

	out := make([]types.Task, 0, len(sorted))
	for sorted.Len() > 0 {
		out = append(out, heap.Pop(&sorted).(item).task)
	}
	return out
}
