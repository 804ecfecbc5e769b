package tui

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// funcMsg carries a posted function into Update.
type funcMsg func()

// Scheduler delivers posted functions to a bubbletea program in order.
// Post never blocks, so it is safe to call from Update itself. Functions
// posted before Start are held until the program is attached.
type Scheduler struct {
	mu     sync.Mutex
	queue  []func()
	send   func(tea.Msg)
	wake   chan struct{}
	done   chan struct{}
	closed bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Start begins delivery through send, normally (*tea.Program).Send.
func (s *Scheduler) Start(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
	go s.pump()
	s.signal()
}

// Stop ends delivery. Pending and future posts are dropped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.queue = nil
	close(s.done)
}

func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
	s.signal()
}

func (s *Scheduler) After(d time.Duration, fn func()) func() {
	var stopped atomic.Bool
	t := time.AfterFunc(d, func() {
		s.Post(func() {
			if !stopped.Load() {
				fn()
			}
		})
	})
	return func() {
		stopped.Store(true)
		t.Stop()
	}
}

// Every posts fn every d. A tick is skipped while the previous one is still
// queued, and nothing runs on the loop once cancel has been called there.
func (s *Scheduler) Every(d time.Duration, fn func()) func() {
	var stopped, queued atomic.Bool
	ticker := time.NewTicker(d)
	quit := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !queued.CompareAndSwap(false, true) {
					continue
				}
				s.Post(func() {
					queued.Store(false)
					if !stopped.Load() {
						fn()
					}
				})
			case <-quit:
				return
			case <-s.done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		stopped.Store(true)
		once.Do(func() { close(quit) })
	}
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) pump() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}
		for {
			s.mu.Lock()
			if s.closed || len(s.queue) == 0 || s.send == nil {
				s.mu.Unlock()
				break
			}
			fn := s.queue[0]
			s.queue = s.queue[1:]
			send := s.send
			s.mu.Unlock()
			send(funcMsg(fn))
		}
	}
}
