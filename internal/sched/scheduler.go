// Package sched runs deferred callbacks one at a time in deadline order.
package sched

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Handle refers to one scheduled callback.
type Handle struct {
	s        *Scheduler
	deadline time.Time
	seq      uint64
	fn       func()
	index    int // position in the queue, -1 once fired or cancelled
}

// Cancel prevents the callback from firing. It reports whether the
// callback was still pending. Safe to call more than once.
func (h *Handle) Cancel() bool {
	if h == nil {
		return false
	}
	return h.s.cancel(h)
}

// Deadline returns the time the callback is due.
func (h *Handle) Deadline() time.Time {
	return h.deadline
}

// Scheduler holds pending callbacks. Callbacks run on the goroutine that
// calls RunDue or Run, never two at once, ordered by deadline and then by
// scheduling order.
type Scheduler struct {
	clock Clock

	mu    sync.Mutex
	queue timerQueue
	seq   uint64
	wake  chan struct{}

	run sync.Mutex // held while callbacks execute
}

// New creates a scheduler. A nil clock selects SystemClock.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock, wake: make(chan struct{}, 1)}
}

// Clock returns the scheduler's time source.
func (s *Scheduler) Clock() Clock {
	return s.clock
}

// After schedules fn to run once d has elapsed.
func (s *Scheduler) After(d time.Duration, fn func()) *Handle {
	s.mu.Lock()
	s.seq++
	h := &Handle{s: s, deadline: s.clock.Now().Add(d), seq: s.seq, fn: fn}
	heap.Push(&s.queue, h)
	s.mu.Unlock()
	s.signal()
	return h
}

func (s *Scheduler) cancel(h *Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.index < 0 {
		return false
	}
	heap.Remove(&s.queue, h.index)
	return true
}

// CancelAll drops every pending callback.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	for _, h := range s.queue {
		h.index = -1
	}
	s.queue = nil
	s.mu.Unlock()
}

// Len returns the number of pending callbacks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Next returns the earliest pending deadline.
func (s *Scheduler) Next() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return time.Time{}, false
	}
	return s.queue[0].deadline, true
}

// RunDue runs every callback whose deadline has passed, including ones
// scheduled by earlier callbacks in the same call. It returns the number run.
func (s *Scheduler) RunDue() int {
	s.run.Lock()
	defer s.run.Unlock()

	n := 0
	for {
		h := s.popDue(s.clock.Now())
		if h == nil {
			return n
		}
		h.fn()
		n++
	}
}

func (s *Scheduler) popDue(now time.Time) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 || s.queue[0].deadline.After(now) {
		return nil
	}
	return heap.Pop(&s.queue).(*Handle)
}

// Run fires callbacks as they come due until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		s.RunDue()

		wait := time.Hour
		if next, ok := s.Next(); ok {
			wait = max(next.Sub(s.clock.Now()), 0)
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		case <-timer.C:
		}
	}
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Advance moves a manual clock forward by d, stopping at each pending
// deadline on the way so callbacks observe the time they were due.
func Advance(s *Scheduler, clock *ManualClock, d time.Duration) int {
	end := clock.Now().Add(d)
	n := 0
	for {
		next, ok := s.Next()
		if !ok || next.After(end) {
			break
		}
		if next.After(clock.Now()) {
			clock.Set(next)
		}
		n += s.RunDue()
	}
	clock.Set(end)
	return n + s.RunDue()
}

// --- priority queue ---

type timerQueue []*Handle

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].deadline.Equal(q[j].deadline) {
		return q[i].seq < q[j].seq
	}
	return q[i].deadline.Before(q[j].deadline)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	h := x.(*Handle)
	h.index = len(*q)
	*q = append(*q, h)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	h := old[n-1]
	old[n-1] = nil
	h.index = -1
	*q = old[:n-1]
	return h
}
