package main

import (
	"fmt"
	"sync"

	"github.com/justyntemme/mbsync/pkg/framework/debug"
	"github.com/justyntemme/mbsync/pkg/framework/param"
)

// automationRecorder plays the host side of the edit protocol: it logs
// every gesture and remembers the last completed one for display.
type automationRecorder struct {
	params *param.Registry
	log    *debug.Logger

	mu      sync.Mutex
	open    map[uint32]float64
	edits   int
	last    string
	misused int
}

func newAutomationRecorder(params *param.Registry, log *debug.Logger) *automationRecorder {
	return &automationRecorder{
		params: params,
		log:    log.With("component", "host"),
		open:   make(map[uint32]float64),
	}
}

func (r *automationRecorder) name(id uint32) string {
	if p := r.params.Get(id); p != nil {
		return p.Name
	}
	return fmt.Sprintf("param %d", id)
}

func (r *automationRecorder) BeginEdit(id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, nested := r.open[id]; nested {
		r.misused++
		r.log.Warn("nested gesture on %s", r.name(id))
	}
	r.open[id] = -1
	r.log.Debug("begin edit %s", r.name(id))
}

func (r *automationRecorder) PerformEdit(id uint32, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.open[id]; !ok {
		r.misused++
		r.log.Warn("value change outside a gesture on %s", r.name(id))
		return
	}
	r.open[id] = value
}

func (r *automationRecorder) EndEdit(id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, ok := r.open[id]
	if !ok {
		r.misused++
		r.log.Warn("end without begin on %s", r.name(id))
		return
	}
	delete(r.open, id)

	r.edits++
	text := fmt.Sprintf("%.0f", value)
	if p := r.params.Get(id); p != nil && value >= 0 {
		text = p.FormatValue(value)
	}
	r.last = fmt.Sprintf("%s -> %s", r.name(id), text)
	r.log.Info("automation #%d: %s", r.edits, r.last)
}

// summary returns the edit count, the last edit and the protocol violations
func (r *automationRecorder) summary() (int, string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.edits, r.last, r.misused
}
