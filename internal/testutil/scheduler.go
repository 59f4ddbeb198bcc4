package testutil

import (
	"sync"
	"time"

	"github.com/tobyward/pace/internal/syncer"
)

// ManualScheduler implements syncer.Scheduler without real timers. Tests
// arm the debounce through the coordinator and then fire it explicitly.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

// NewManualScheduler returns an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule records the callback; nothing runs until Fire.
func (s *ManualScheduler) Schedule(delay time.Duration, fn func()) syncer.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{delay: delay, fn: fn}
	s.pending = append(s.pending, t)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		t.cancelled = true
	}
}

// Pending counts scheduled, uncancelled callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Fire runs every uncancelled callback, simulating all pending timers
// elapsing, and clears the queue.
func (s *ManualScheduler) Fire() {
	s.mu.Lock()
	timers := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, t := range timers {
		if !t.cancelled {
			t.fn()
		}
	}
}

// FireLate runs every callback, cancelled or not, and clears the queue. It
// models a real timer that had already fired when its cancel ran, so the
// callback executes anyway.
func (s *ManualScheduler) FireLate() {
	s.mu.Lock()
	timers := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, t := range timers {
		t.fn()
	}
}

// LastDelay returns the delay of the most recently scheduled callback.
// Zero when nothing was ever scheduled.
func (s *ManualScheduler) LastDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return 0
	}
	return s.pending[len(s.pending)-1].delay
}
