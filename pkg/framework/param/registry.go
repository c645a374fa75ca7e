package param

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Registry manages plugin parameters
type Registry struct {
	params map[uint32]*Parameter
	byName map[string]uint32
	order  []uint32 // Maintain order for indexed access
	mu     sync.RWMutex

	handler atomic.Pointer[handlerRef]
}

type handlerRef struct {
	h ComponentHandler
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[uint32]*Parameter),
		byName: make(map[string]uint32),
		order:  make([]uint32, 0),
	}
}

// Add registers parameters. IDs and names must be unique.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if existing, exists := r.params[p.ID]; exists {
			return fmt.Errorf("parameter ID %d already used by '%s'", p.ID, existing.Name)
		}
		if _, exists := r.byName[p.Name]; exists {
			return fmt.Errorf("parameter name '%s' already registered", p.Name)
		}
		p.owner = r
		r.params[p.ID] = p
		r.byName[p.Name] = p.ID
		r.order = append(r.order, p.ID)
	}

	return nil
}

// Get retrieves a parameter by ID
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// GetByName retrieves a parameter by name, or nil if none is registered
func (r *Registry) GetByName(name string) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byName[name]
	if !exists {
		return nil
	}
	return r.params[id]
}

// GetByIndex retrieves a parameter by index
func (r *Registry) GetByIndex(index int32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= int32(len(r.order)) {
		return nil
	}

	return r.params[r.order[index]]
}

// Count returns the number of parameters
func (r *Registry) Count() int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int32(len(r.order))
}

// All returns all parameters in order
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}

	return result
}

// SetComponentHandler installs the host handler used for edit gestures.
// Passing nil detaches the host.
func (r *Registry) SetComponentHandler(h ComponentHandler) {
	if h == nil {
		r.handler.Store(nil)
		return
	}
	r.handler.Store(&handlerRef{h: h})
}

// ComponentHandler returns the installed host handler, if any
func (r *Registry) ComponentHandler() ComponentHandler {
	ref := r.handler.Load()
	if ref == nil {
		return nil
	}
	return ref.h
}
