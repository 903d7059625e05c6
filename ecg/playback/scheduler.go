package playback

import (
	"context"
	"sync"
	"time"
)

// Frame is what one applied tick publishes.
type Frame struct {
	Seq      uint64
	Index    int
	Progress float64
}

// StepFunc applies one tick and reports whether it advanced anything.
type StepFunc func() (Frame, bool)

// Scheduler calls a StepFunc at a fixed cadence from its own goroutine and
// hands every applied frame to a publish callback.
//
// The publish callback runs on the scheduler goroutine and must not call Stop.
type Scheduler struct {
	step     StepFunc
	publish  func(Frame)
	expired  func()
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	seq    uint64
}

// NewScheduler returns a stopped scheduler. A non-positive interval selects
// TickInterval.
func NewScheduler(step StepFunc, publish func(Frame), interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = TickInterval
	}
	return &Scheduler{step: step, publish: publish, interval: interval}
}

// CursorStep adapts a cursor to a StepFunc. The caller is responsible for
// serialising access to the cursor.
func CursorStep(c *Cursor) StepFunc {
	return func() (Frame, bool) {
		p, ok := c.Tick()
		return Frame{Index: c.Index(), Progress: p}, ok
	}
}

// OnExpire registers fn to run when a tick loop ends because its context
// ended rather than through Stop. fn runs on the scheduler goroutine before
// Running reports false and must not call Stop or Start. Set it before the
// first Start.
func (s *Scheduler) OnExpire(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = fn
}

// Start launches the tick loop. It is a no-op while already running. The loop
// ends when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.run(ctx, done)
}

// Stop ends the tick loop and waits for an in-flight tick to finish. After
// Stop returns no further step is applied.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the tick loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done != nil
}

// Wait blocks until the current tick loop has ended, for example because its
// context was cancelled.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer func() {
		s.mu.Lock()
		if s.done == done {
			s.cancel()
			s.cancel, s.done = nil, nil
			if s.expired != nil {
				s.expired()
			}
		}
		s.mu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		// A tick that raced with cancellation is dropped.
		if ctx.Err() != nil {
			return
		}

		f, ok := s.step()
		if !ok {
			continue
		}

		s.seq++
		f.Seq = s.seq
		if s.publish != nil {
			s.publish(f)
		}
	}
}
