// Package editor is the interface layer of the multiband processor. It keeps
// the displayed meters and bypass controls in step with the engine and routes
// user clicks back to the engine as host automation.
package editor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/justyntemme/mbsync/pkg/band"
	"github.com/justyntemme/mbsync/pkg/bridge"
	"github.com/justyntemme/mbsync/pkg/bypass"
	"github.com/justyntemme/mbsync/pkg/framework/debug"
	"github.com/justyntemme/mbsync/pkg/metering"
	"github.com/justyntemme/mbsync/pkg/refresh"
)

// ErrMissingCollaborator means a required Config field was nil
var ErrMissingCollaborator = errors.New("missing editor collaborator")

// FrameSource supplies the most recent metering frame
type FrameSource interface {
	FetchLatest() metering.Frame
}

// MeterOverlay renders level values, ordered
// [lowIn, lowOut, midIn, midOut, highIn, highOut]
type MeterOverlay interface {
	Update(values [metering.NumValues]float64)
}

// BypassToggleDisplay renders the global bypass state
type BypassToggleDisplay interface {
	SetGlobalToggleState(bypassed bool)
}

// BandControls is told when a global toggle forced every band to one state
type BandControls interface {
	ToggleAllBands(bypassed bool)
}

// Analyzer switches spectrum analysis on and off
type Analyzer interface {
	SetAnalysisEnabled(enabled bool)
}

// Config holds the collaborators an Editor is built from
type Config struct {
	Registry    bridge.Lookup
	BypassNames band.Names // zero value selects band.DefaultBypassNames
	Frames      FrameSource
	Overlay     MeterOverlay
	Display     BypassToggleDisplay

	// Optional
	BandControls BandControls
	Analyzer     Analyzer
	Logger       *debug.Logger
	Profiler     *debug.Profiler
}

// Editor implements refresh.Tickable. Ticks and clicks are serialized on one
// mutex that stands in for the interface thread; the audio side never takes it.
type Editor struct {
	mu sync.Mutex

	bridge       *bridge.Bridge
	frames       FrameSource
	overlay      MeterOverlay
	display      BypassToggleDisplay
	bandControls BandControls
	analyzer     Analyzer

	globalBypass   *ToggleButton
	analyzerButton *ToggleButton

	scheduler *refresh.Scheduler
	log       *debug.Logger
	profiler  *debug.Profiler
}

// New wires an editor. Any error is a configuration defect and no editor is
// returned.
func New(cfg Config) (*Editor, error) {
	switch {
	case cfg.Registry == nil:
		return nil, fmt.Errorf("registry: %w", ErrMissingCollaborator)
	case cfg.Frames == nil:
		return nil, fmt.Errorf("frame source: %w", ErrMissingCollaborator)
	case cfg.Overlay == nil:
		return nil, fmt.Errorf("meter overlay: %w", ErrMissingCollaborator)
	case cfg.Display == nil:
		return nil, fmt.Errorf("bypass display: %w", ErrMissingCollaborator)
	}

	names := cfg.BypassNames
	if names == (band.Names{}) {
		names = band.DefaultBypassNames
	}

	br, err := bridge.New(cfg.Registry, names)
	if err != nil {
		return nil, fmt.Errorf("editor: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = debug.Default()
	}

	e := &Editor{
		bridge:         br,
		frames:         cfg.Frames,
		overlay:        cfg.Overlay,
		display:        cfg.Display,
		bandControls:   cfg.BandControls,
		analyzer:       cfg.Analyzer,
		globalBypass:   NewToggleButton("Bypass All", bypass.Current(br)),
		analyzerButton: NewToggleButton("Analyzer", true),
		log:            log.With("component", "editor"),
		profiler:       cfg.Profiler,
	}
	e.globalBypass.SetOnClick(e.onGlobalBypassClick)
	e.analyzerButton.SetOnClick(e.onAnalyzerClick)
	e.scheduler = refresh.New(e)

	return e, nil
}

// Open starts the refresh timer
func (e *Editor) Open() {
	e.scheduler.Start()
	e.log.Debug("refresh started at %d Hz", refresh.Rate)
}

// Close stops the refresh timer. It is safe to call at any time, but not
// from a collaborator invoked during a tick.
func (e *Editor) Close() {
	e.scheduler.Stop()
	e.log.Debug("refresh stopped after %d ticks", e.scheduler.Ticks())
}

// Scheduler exposes the refresh timer
func (e *Editor) Scheduler() *refresh.Scheduler {
	return e.scheduler
}

// OnTick pushes the latest meter frame and the aggregate bypass state to the
// display collaborators.
func (e *Editor) OnTick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.profiler != nil {
		defer e.profiler.Start("editor.tick")()
	}

	e.overlay.Update(e.frames.FetchLatest().Values())

	global := bypass.ComputeGlobalState(e.bridge.GetAllBypassStates())
	e.globalBypass.SetToggleState(global)
	e.display.SetGlobalToggleState(global)
}

// Click delivers a click to a control on the interface thread
func (e *Editor) Click(c Clickable) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c.OnClick()
}

// ClickGlobalBypass clicks the bypass-all button
func (e *Editor) ClickGlobalBypass() {
	e.Click(e.globalBypass)
}

// ClickAnalyzer clicks the analyzer button
func (e *Editor) ClickAnalyzer() {
	e.Click(e.analyzerButton)
}

// GlobalBypassButton returns the bypass-all button
func (e *Editor) GlobalBypassButton() *ToggleButton {
	return e.globalBypass
}

// AnalyzerButton returns the analyzer button
func (e *Editor) AnalyzerButton() *ToggleButton {
	return e.analyzerButton
}

// SetBandBypass writes one band's bypass state as a single host gesture
func (e *Editor) SetBandBypass(b band.Band, bypassed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.bridge.SetBypassState(b, bypassed)
	e.log.Info("band %v bypass=%t", b, bypassed)
}

// ToggleBandBypass flips one band's bypass state
func (e *Editor) ToggleBandBypass(b band.Band) {
	e.mu.Lock()
	defer e.mu.Unlock()

	bypassed := !e.bridge.GetBypassState(b)
	e.bridge.SetBypassState(b, bypassed)
	e.log.Info("band %v bypass=%t", b, bypassed)
}

// BandBypass reads one band's bypass state
func (e *Editor) BandBypass(b band.Band) bool {
	return e.bridge.GetBypassState(b)
}

// BypassStates reads every band, ordered Low, Mid, High
func (e *Editor) BypassStates() [band.Count]bool {
	return e.bridge.GetAllBypassStates()
}

// Called with mu held
func (e *Editor) onGlobalBypassClick(source *ToggleButton) {
	desired := bypass.ToggleGlobal(source.ToggleState(), e.bridge)
	if e.bandControls != nil {
		e.bandControls.ToggleAllBands(desired)
	}
	source.SetToggleState(desired)
	e.log.Info("global bypass=%t", desired)
}

// Called with mu held
func (e *Editor) onAnalyzerClick(source *ToggleButton) {
	enabled := !source.ToggleState()
	source.SetToggleState(enabled)
	if e.analyzer != nil {
		e.analyzer.SetAnalysisEnabled(enabled)
	}
	e.log.Debug("analyzer enabled=%t", enabled)
}
