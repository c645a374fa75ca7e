// Package bridge gives the interface layer gesture-safe access to the
// per-band bypass parameters of the engine.
package bridge

import (
	"errors"
	"fmt"

	"github.com/justyntemme/mbsync/pkg/band"
	"github.com/justyntemme/mbsync/pkg/framework/param"
)

var (
	// ErrParameterNotFound means a bypass name did not resolve in the registry
	ErrParameterNotFound = errors.New("bypass parameter not found")
	// ErrNotToggle means a bypass name resolved to a non-boolean parameter
	ErrNotToggle = errors.New("bypass parameter is not a toggle")
)

// Lookup is the construction-time view of the parameter registry
type Lookup interface {
	GetByName(name string) *param.Parameter
}

// Bridge holds non-owning handles to the three bypass parameters.
// Handles are resolved once in New and never change afterwards.
//
// Methods taking a band.Band require b.Valid(); any other value is a
// programming error and panics with an index out of range.
type Bridge struct {
	params [band.Count]*param.Parameter
}

// New resolves one bypass parameter per band. A failure is a configuration
// defect: the caller must not continue with a partially wired interface.
func New(reg Lookup, names band.Names) (*Bridge, error) {
	b := &Bridge{}
	for _, bd := range band.All() {
		name := names.Get(bd)
		p := reg.GetByName(name)
		if p == nil {
			return nil, fmt.Errorf("%v band %q: %w", bd, name, ErrParameterNotFound)
		}
		if !p.IsToggle() {
			return nil, fmt.Errorf("%v band %q: %w", bd, name, ErrNotToggle)
		}
		b.params[bd] = p
	}
	return b, nil
}

// Must is like New but panics on a configuration defect
func Must(reg Lookup, names band.Names) *Bridge {
	b, err := New(reg, names)
	if err != nil {
		panic(fmt.Sprintf("bridge: %v", err))
	}
	return b
}

// Resolve returns the parameter handle for a band. b must be Valid.
func (b *Bridge) Resolve(bd band.Band) *param.Parameter {
	return b.params[bd]
}

// GetBypassState reads the current bypass value of a band. b must be Valid.
func (b *Bridge) GetBypassState(bd band.Band) bool {
	return b.params[bd].GetBool()
}

// SetBypassState writes a band's bypass value inside one complete
// begin/set/end gesture, so the host records exactly one automation event.
// b must be Valid.
func (b *Bridge) SetBypassState(bd band.Band, bypassed bool) {
	p := b.params[bd]

	value := 0.0
	if bypassed {
		value = 1.0
	}

	p.BeginChangeGesture()
	p.SetValueNotifyingHost(value)
	p.EndChangeGesture()
}

// GetAllBypassStates reads every band, ordered Low, Mid, High
func (b *Bridge) GetAllBypassStates() [band.Count]bool {
	var states [band.Count]bool
	for _, bd := range band.All() {
		states[bd] = b.params[bd].GetBool()
	}
	return states
}
