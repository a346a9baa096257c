package app

import (
	"context"
	"sort"
	"time"
)

// Scheduler is a single-threaded queue of delayed continuations. It has no
// goroutines: time only moves when the owner calls Advance.
type Scheduler struct {
	now    time.Duration
	nextID uint64
	tasks  []scheduledTask
}

type scheduledTask struct {
	id  uint64
	due time.Duration
	fn  func(context.Context)
}

// NewScheduler returns an empty scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After queues fn to run once delay has elapsed and returns its id.
func (s *Scheduler) After(delay time.Duration, fn func(context.Context)) uint64 {
	s.nextID++
	s.tasks = append(s.tasks, scheduledTask{id: s.nextID, due: s.now + delay, fn: fn})
	return s.nextID
}

// Cancel drops a pending task. Unknown ids are ignored.
func (s *Scheduler) Cancel(id uint64) {
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// CancelAll drops every pending task.
func (s *Scheduler) CancelAll() {
	s.tasks = nil
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Advance moves time forward by delta without running anything.
func (s *Scheduler) Advance(delta time.Duration) {
	s.now += delta
}

// RunDue runs every task that is due, earliest first and in submission order
// for equal due times. Tasks queued by a running task wait for a later call.
func (s *Scheduler) RunDue(ctx context.Context) {
	var due []scheduledTask
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.due <= s.now {
			due = append(due, t)
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept

	sort.SliceStable(due, func(i, j int) bool { return due[i].due < due[j].due })
	for _, t := range due {
		t.fn(ctx)
	}
}
