package core

import (
	"fmt"
	"sync"
	"time"
)

// TimerTimeoutScheduler arms one-shot expiry callbacks on process-local
// timers. Arm replaces any timer already held for the memo; Disarm stops a
// pending timer and is a no-op when the callback has already fired or the
// memo was never armed.
type TimerTimeoutScheduler struct {
	mu     sync.Mutex
	timers map[uint64]*time.Timer
	Now    func() time.Time
}

func NewTimerTimeoutScheduler() *TimerTimeoutScheduler {
	return &TimerTimeoutScheduler{
		timers: map[uint64]*time.Timer{},
		Now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (s *TimerTimeoutScheduler) Arm(memo uint64, at time.Time, fire func()) error {
	if s == nil {
		return fmt.Errorf("core: timeout scheduler is not configured")
	}
	if memo == 0 {
		return fmt.Errorf("core: timeout memo is required")
	}
	if fire == nil {
		return fmt.Errorf("core: timeout callback is required")
	}

	delay := at.Sub(s.now())
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[memo]; ok {
		existing.Stop()
	}
	s.timers[memo] = time.AfterFunc(delay, func() {
		s.forget(memo)
		fire()
	})
	return nil
}

func (s *TimerTimeoutScheduler) Disarm(memo uint64) error {
	if s == nil {
		return fmt.Errorf("core: timeout scheduler is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[memo]; ok {
		timer.Stop()
		delete(s.timers, memo)
	}
	return nil
}

func (s *TimerTimeoutScheduler) forget(memo uint64) {
	s.mu.Lock()
	delete(s.timers, memo)
	s.mu.Unlock()
}

func (s *TimerTimeoutScheduler) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

var _ TimeoutScheduler = (*TimerTimeoutScheduler)(nil)
