// Package caseviewtest provides a hand-driven Scheduler for tests.
package caseviewtest

import (
	"sync"
	"time"
)

// Timer is a pending After or Every registration.
type Timer struct {
	Delay    time.Duration
	Periodic bool
	fn       func()
	done     bool
}

// Scheduler queues posted functions and records timers without ever firing
// them on its own. Post may be called from any goroutine; everything else
// belongs to the test goroutine, which plays the event loop.
type Scheduler struct {
	posted chan func()

	mu     sync.Mutex
	timers []*Timer
}

func New() *Scheduler {
	return &Scheduler{posted: make(chan func(), 256)}
}

func (s *Scheduler) Post(fn func()) {
	s.posted <- fn
}

func (s *Scheduler) After(d time.Duration, fn func()) func() {
	return s.add(&Timer{Delay: d, fn: fn})
}

func (s *Scheduler) Every(d time.Duration, fn func()) func() {
	return s.add(&Timer{Delay: d, Periodic: true, fn: fn})
}

func (s *Scheduler) add(t *Timer) func() {
	s.mu.Lock()
	s.timers = append(s.timers, t)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		t.done = true
		s.mu.Unlock()
	}
}

// RunPosted waits up to timeout for one posted function and runs it.
func (s *Scheduler) RunPosted(timeout time.Duration) bool {
	select {
	case fn := <-s.posted:
		fn()
		return true
	case <-time.After(timeout):
		return false
	}
}

// Pending reports how many posted functions are queued.
func (s *Scheduler) Pending() int {
	return len(s.posted)
}

// Active returns the timers that are neither cancelled nor fired.
func (s *Scheduler) Active(periodic bool) []*Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Timer
	for _, t := range s.timers {
		if !t.done && t.Periodic == periodic {
			out = append(out, t)
		}
	}
	return out
}

// Fire runs t once. A one-shot timer is spent afterwards.
func (s *Scheduler) Fire(t *Timer) {
	s.mu.Lock()
	if t.done {
		s.mu.Unlock()
		return
	}
	if !t.Periodic {
		t.done = true
	}
	s.mu.Unlock()
	t.fn()
}

// Tick fires every active periodic timer once.
func (s *Scheduler) Tick() {
	for _, t := range s.Active(true) {
		s.Fire(t)
	}
}
