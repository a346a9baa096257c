package app

import (
	"context"
	"testing"
	"time"
)

func TestSchedulerRunsDueTasksInOrder(t *testing.T) {
	ctx := context.Background()
	s := NewScheduler()
	var order []string

	s.After(2*time.Second, func(context.Context) { order = append(order, "b") })
	s.After(time.Second, func(context.Context) { order = append(order, "a") })
	s.After(2*time.Second, func(context.Context) { order = append(order, "c") })

	s.Advance(1500 * time.Millisecond)
	s.RunDue(ctx)
	if len(order) != 1 || order[0] != "a" {
		t.Fatalf("expected [a], got %v", order)
	}

	s.Advance(time.Second)
	s.RunDue(ctx)
	if len(order) != 3 || order[1] != "b" || order[2] != "c" {
		t.Fatalf("expected [a b c], got %v", order)
	}
	if s.Pending() != 0 {
		t.Fatalf("expected empty queue, got %d", s.Pending())
	}
}

func TestSchedulerCancel(t *testing.T) {
	ctx := context.Background()
	s := NewScheduler()
	ran := 0

	id := s.After(time.Second, func(context.Context) { ran++ })
	s.After(time.Second, func(context.Context) { ran++ })
	s.Cancel(id)
	s.Advance(time.Second)
	s.RunDue(ctx)
	if ran != 1 {
		t.Fatalf("expected one task to run, got %d", ran)
	}

	s.After(time.Second, func(context.Context) { ran++ })
	s.CancelAll()
	s.Advance(time.Minute)
	s.RunDue(ctx)
	if ran != 1 {
		t.Fatalf("cancelled task ran")
	}
}

func TestSchedulerDefersTasksQueuedWhileRunning(t *testing.T) {
	ctx := context.Background()
	s := NewScheduler()
	ran := 0

	s.After(0, func(context.Context) {
		s.After(0, func(context.Context) { ran++ })
	})
	s.RunDue(ctx)
	if ran != 0 || s.Pending() != 1 {
		t.Fatalf("nested task should wait: ran=%d pending=%d", ran, s.Pending())
	}
	s.RunDue(ctx)
	if ran != 1 {
		t.Fatalf("nested task did not run")
	}
}
