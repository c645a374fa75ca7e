package metering

import (
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/floats"
)

// LevelMeter tracks the RMS level of one signal. Process is called by the
// audio thread only; GetRMSDB may be called from any goroutine.
type LevelMeter struct {
	sampleRate float64
	integMs    float64
	meanSquare float64

	db atomic.Uint64 // float64 bits of the last level in dB
}

// NewLevelMeter creates a meter that integrates the mean square over
// integrationMs. An integration time of zero reports the plain block RMS.
func NewLevelMeter(sampleRate, integrationMs float64) *LevelMeter {
	m := &LevelMeter{
		sampleRate: sampleRate,
		integMs:    integrationMs,
	}
	m.db.Store(math.Float64bits(SilenceDB))
	return m
}

// Process measures one block
func (m *LevelMeter) Process(block []float64) {
	n := len(block)
	if n == 0 {
		return
	}

	blockMeanSquare := floats.Dot(block, block) / float64(n)

	if m.integMs > 0 && m.sampleRate > 0 {
		// One-pole over blocks: the coefficient depends on block length.
		coeff := math.Exp(-float64(n) / (m.integMs * 0.001 * m.sampleRate))
		m.meanSquare = coeff*m.meanSquare + (1-coeff)*blockMeanSquare
	} else {
		m.meanSquare = blockMeanSquare
	}

	m.db.Store(math.Float64bits(MeanSquareToDB(m.meanSquare)))
}

// GetRMSDB returns the current RMS level in decibels
func (m *LevelMeter) GetRMSDB() float64 {
	return math.Float64frombits(m.db.Load())
}

// Reset returns the meter to silence
func (m *LevelMeter) Reset() {
	m.meanSquare = 0
	m.db.Store(math.Float64bits(SilenceDB))
}

// MeanSquareToDB converts a mean-square power to an RMS level in dB, floored
// at SilenceDB.
func MeanSquareToDB(meanSquare float64) float64 {
	if meanSquare <= 0 {
		return SilenceDB
	}
	db := 10 * math.Log10(meanSquare)
	if db < SilenceDB {
		return SilenceDB
	}
	return db
}
