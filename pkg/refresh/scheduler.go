// Package refresh drives interface updates at a fixed rate, independent of
// the audio block rate.
package refresh

import (
	"sync"
	"sync/atomic"
	"time"
)

// Rate is the refresh rate in Hz
const Rate = 60

// Interval is the nominal period between ticks (16.67 ms)
const Interval = time.Second / Rate

// Tickable is implemented by components that update on every refresh
type Tickable interface {
	OnTick()
}

// TickFunc adapts a function to Tickable
type TickFunc func()

// OnTick calls f
func (f TickFunc) OnTick() { f() }

// Scheduler calls its target's OnTick at a fixed period while running.
//
// Ticks that cannot be delivered on time are dropped, never queued: the
// next tick simply reflects the state at that moment.
type Scheduler struct {
	target   Tickable
	interval time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool

	ticks atomic.Uint64
}

// New creates a stopped scheduler ticking target at Rate
func New(target Tickable) *Scheduler {
	return newScheduler(target, Interval)
}

func newScheduler(target Tickable, interval time.Duration) *Scheduler {
	return &Scheduler{
		target:   target,
		interval: interval,
	}
}

// Start begins ticking. Starting a running scheduler does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.running = true

	go s.loop(s.stop, s.done)
}

// Stop halts ticking and waits for an in-flight tick to finish. After Stop
// returns no further tick fires until Start is called again. It is safe to
// call at any time, repeatedly, or before Start, but not from OnTick.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	done := s.done
	if s.running {
		s.running = false
		close(s.stop)
	}
	s.mu.Unlock()

	// Every caller waits, not only the one that closed stop
	if done != nil {
		<-done
	}
}

// Running reports whether the scheduler is ticking
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Tick runs one refresh synchronously on the caller's goroutine
func (s *Scheduler) Tick() {
	s.ticks.Add(1)
	s.target.OnTick()
}

// Ticks returns the number of ticks delivered so far
func (s *Scheduler) Ticks() uint64 {
	return s.ticks.Load()
}

// Interval returns the tick period
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

func (s *Scheduler) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A tick and a stop may be ready together; stop wins.
			select {
			case <-stop:
				return
			default:
			}
			s.Tick()
		}
	}
}
