package metering

import (
	"math"
	"runtime"
	"sync/atomic"
)

// Snapshot is the latest published Frame, shared between exactly one writer
// (the audio thread) and any number of readers.
//
// It is a sequence lock over atomic words. The writer makes the sequence odd,
// stores the levels, then makes it even again. A reader retries while the
// sequence is odd or changed during its read, so every frame it returns
// was written by exactly one Publish call. The writer never waits.
type Snapshot struct {
	seq    atomic.Uint64
	_      [56]byte // keep the sequence off the levels' cache line
	levels [NumValues]atomic.Uint64
}

// NewSnapshot returns a snapshot holding SilentFrame
func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	for i, v := range SilentFrame().Values() {
		s.levels[i].Store(math.Float64bits(v))
	}
	return s
}

// Publish makes f the latest frame. Only one goroutine may publish.
// It is bounded, lock free and allocation free.
func (s *Snapshot) Publish(f Frame) {
	seq := s.seq.Load()
	s.seq.Store(seq + 1)

	v := f.Values()
	for i := range v {
		s.levels[i].Store(math.Float64bits(v[i]))
	}

	s.seq.Store(seq + 2)
}

// FetchLatest returns the most recently published frame. Calling it again
// without an intervening Publish returns the same frame.
func (s *Snapshot) FetchLatest() Frame {
	for {
		begin := s.seq.Load()
		if begin&1 != 0 {
			// Publish in flight; it finishes in a handful of stores.
			runtime.Gosched()
			continue
		}

		var v [NumValues]float64
		for i := range v {
			v[i] = math.Float64frombits(s.levels[i].Load())
		}

		if s.seq.Load() == begin {
			return FrameFromValues(v)
		}
	}
}

// Version returns the number of completed Publish calls
func (s *Snapshot) Version() uint64 {
	return s.seq.Load() / 2
}
