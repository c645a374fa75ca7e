// Package metering moves per-band signal levels from the audio thread to
// the interface without locks or allocation.
package metering

import "github.com/justyntemme/mbsync/pkg/band"

// SilenceDB is the level reported for silence or before any audio arrives
const SilenceDB = -100.0

// NumValues is the length of a flattened frame
const NumValues = band.Count * 2

// LevelPair is one band's RMS input and output level for one block, in dB
type LevelPair struct {
	InputDB  float64
	OutputDB float64
}

// Frame holds one LevelPair per band, indexed by band.Band
type Frame [band.Count]LevelPair

// SilentFrame returns a frame with every level at SilenceDB
func SilentFrame() Frame {
	var f Frame
	for i := range f {
		f[i] = LevelPair{InputDB: SilenceDB, OutputDB: SilenceDB}
	}
	return f
}

// Values flattens the frame as [lowIn, lowOut, midIn, midOut, highIn, highOut]
func (f Frame) Values() [NumValues]float64 {
	var v [NumValues]float64
	for i, p := range f {
		v[2*i] = p.InputDB
		v[2*i+1] = p.OutputDB
	}
	return v
}

// FrameFromValues is the inverse of Frame.Values
func FrameFromValues(v [NumValues]float64) Frame {
	var f Frame
	for i := range f {
		f[i] = LevelPair{InputDB: v[2*i], OutputDB: v[2*i+1]}
	}
	return f
}

// Band returns the level pair of b
func (f Frame) Band(b band.Band) LevelPair {
	return f[b]
}

// BandMeter is the engine's metering surface for one band
type BandMeter interface {
	GetRMSInputLevelDb() float64
	GetRMSOutputLevelDb() float64
}

// Capture reads every band meter into a frame
func Capture(meters [band.Count]BandMeter) Frame {
	var f Frame
	for i, m := range meters {
		f[i] = LevelPair{
			InputDB:  m.GetRMSInputLevelDb(),
			OutputDB: m.GetRMSOutputLevelDb(),
		}
	}
	return f
}
