package queue_test

import (
	"testing"

	"github.com/foreman/foreman/pkg/queue"
	"github.com/foreman/foreman/pkg/types"
)

func task(name string, priority int) types.Task {
	return types.Task{Name: name, Priority: priority}
}

func drain(q *queue.TaskQueue) []string {
	var out []string
	for !q.IsEmpty() {
		t, _ := q.PopHighest()
		out = append(out, t.Name)
	}
	return out
}

func TestTaskQueue_PriorityOrder(t *testing.T) {
	q := queue.New()
	q.Push(task("five", 5))
	q.Push(task("one", 1))
	q.Push(task("three", 3))

	var got []int
	for !q.IsEmpty() {
		tk, ok := q.PopHighest()
		if !ok {
			t.Fatal("expected a task")
		}
		got = append(got, tk.Priority)
	}

	want := []int{1, 3, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestTaskQueue_StableWithinPriority(t *testing.T) {
	q := queue.New()
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		q.Push(task(name, 2))
	}
	q.Push(task("urgent", 1))

	got := drain(q)
	want := []string{"urgent", "a", "b", "c", "d", "e", "f"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestTaskQueue_PushFront(t *testing.T) {
	q := queue.New()
	q.Push(task("a", 2))
	q.Push(task("b", 2))
	q.PushFront(task("retry", 2))
	q.PushFront(task("retry2", 2))
	q.Push(task("low", 1))

	got := drain(q)
	want := []string{"low", "retry2", "retry", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestTaskQueue_Empty(t *testing.T) {
	q := queue.New()
	if !q.IsEmpty() || q.Len() != 0 {
		t.Error("new queue should be empty")
	}
	if _, ok := q.PopHighest(); ok {
		t.Error("pop on empty queue should report false")
	}
	if _, ok := q.Peek(); ok {
		t.Error("peek on empty queue should report false")
	}
}

func TestTaskQueue_TasksDoesNotMutate(t *testing.T) {
	q := queue.New()
	q.Push(task("c", 3))
	q.Push(task("a", 1))
	q.Push(task("b", 2))

	listed := q.Tasks()
	if len(listed) != 3 || listed[0].Name != "a" || listed[1].Name != "b" || listed[2].Name != "c" {
		t.Errorf("unexpected listing %v", listed)
	}
	if q.Len() != 3 {
		t.Errorf("listing must not drain the queue, len=%d", q.Len())
	}

	head, _ := q.Peek()
	if head.Name != "a" {
		t.Errorf("expected a at head, got %s", head.Name)
	}
}
