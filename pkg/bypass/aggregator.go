// Package bypass derives the global bypass state from the per-band states.
package bypass

import "github.com/justyntemme/mbsync/pkg/band"

// StateReader reads the bypass state of every band
type StateReader interface {
	GetAllBypassStates() [band.Count]bool
}

// StateSetter writes the bypass state of one band
type StateSetter interface {
	SetBypassState(b band.Band, bypassed bool)
}

// ComputeGlobalState reports whether every band is bypassed
func ComputeGlobalState(states [band.Count]bool) bool {
	for _, bypassed := range states {
		if !bypassed {
			return false
		}
	}
	return true
}

// Current reads the bands through r and aggregates them
func Current(r StateReader) bool {
	return ComputeGlobalState(r.GetAllBypassStates())
}

// ToggleGlobal drives every band to !current, writing Low, Mid and High in
// that order, and returns the new global state.
//
// The three writes are independent automation events. Until the last one
// lands, the audio thread or the host may observe a mix of old and new
// band states.
func ToggleGlobal(current bool, s StateSetter) bool {
	desired := !current
	for _, b := range band.All() {
		s.SetBypassState(b, desired)
	}
	return desired
}
