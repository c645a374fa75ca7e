package main

import (
	"context"
	"math"
	"time"

	"github.com/justyntemme/mbsync/pkg/config"
	"github.com/justyntemme/mbsync/pkg/engine"
)

// signalSource generates the configured test tones with an optional slow
// amplitude pulse so the meters move.
type signalSource struct {
	sampleRate float64
	tones      []config.Tone
	pulseHz    float64

	phases     []float64
	pulsePhase float64
}

func newSignalSource(sampleRate float64, sc config.SignalConfig) *signalSource {
	return &signalSource{
		sampleRate: sampleRate,
		tones:      sc.Tones,
		pulseHz:    sc.PulseHz,
		phases:     make([]float64, len(sc.Tones)),
	}
}

func (s *signalSource) fill(buf []float64) {
	for i := range buf {
		var x float64
		for t, tone := range s.tones {
			x += tone.Amplitude * math.Sin(s.phases[t])
			s.phases[t] += 2 * math.Pi * tone.FrequencyHz / s.sampleRate
			if s.phases[t] > 2*math.Pi {
				s.phases[t] -= 2 * math.Pi
			}
		}

		if s.pulseHz > 0 {
			// 0.25..1 envelope
			x *= 0.625 + 0.375*math.Sin(s.pulsePhase)
			s.pulsePhase += 2 * math.Pi * s.pulseHz / s.sampleRate
			if s.pulsePhase > 2*math.Pi {
				s.pulsePhase -= 2 * math.Pi
			}
		}
		buf[i] = x
	}
}

// runAudio stands in for the host's audio callback: it processes one block
// per block period until ctx is done. Nothing in the loop allocates, locks
// or logs.
func runAudio(ctx context.Context, eng *engine.Engine, src *signalSource, blockSize int) {
	in := make([]float64, blockSize)
	out := make([]float64, blockSize)

	period := time.Duration(float64(blockSize) / eng.SampleRate() * float64(time.Second))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			src.fill(in)
			eng.ProcessBlock(in, out)
		}
	}
}
