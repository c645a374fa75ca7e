package main

import (
	"sync"

	"github.com/justyntemme/mbsync/pkg/band"
	"github.com/justyntemme/mbsync/pkg/metering"
)

// displayState receives editor output on the refresh goroutine and hands it
// to the terminal program. Updates coalesce: the program only ever renders
// the latest state.
type displayState struct {
	mu       sync.Mutex
	levels   [metering.NumValues]float64
	global   bool
	analysis bool
	forced   *bool // last ToggleAllBands target

	updates chan struct{}
}

func newDisplayState() *displayState {
	return &displayState{
		levels:   metering.SilentFrame().Values(),
		analysis: true,
		updates:  make(chan struct{}, 1),
	}
}

func (d *displayState) notify() {
	select {
	case d.updates <- struct{}{}:
	default:
	}
}

// Update implements editor.MeterOverlay
func (d *displayState) Update(values [metering.NumValues]float64) {
	d.mu.Lock()
	d.levels = values
	d.mu.Unlock()
	d.notify()
}

// SetGlobalToggleState implements editor.BypassToggleDisplay
func (d *displayState) SetGlobalToggleState(bypassed bool) {
	d.mu.Lock()
	d.global = bypassed
	d.mu.Unlock()
}

// ToggleAllBands implements editor.BandControls
func (d *displayState) ToggleAllBands(bypassed bool) {
	d.mu.Lock()
	d.forced = &bypassed
	d.mu.Unlock()
	d.notify()
}

// SetAnalysisEnabled implements editor.Analyzer
func (d *displayState) SetAnalysisEnabled(enabled bool) {
	d.mu.Lock()
	d.analysis = enabled
	d.mu.Unlock()
	d.notify()
}

type displayView struct {
	frame    metering.Frame
	global   bool
	analysis bool
	forced   *bool
}

func (d *displayState) view() displayView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return displayView{
		frame:    metering.FrameFromValues(d.levels),
		global:   d.global,
		analysis: d.analysis,
		forced:   d.forced,
	}
}

func (v displayView) level(b band.Band) metering.LevelPair {
	return v.frame.Band(b)
}
