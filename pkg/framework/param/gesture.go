package param

// ComponentHandler is the host side of parameter automation. It mirrors the
// VST3 IComponentHandler edit calls: every programmatic change is reported as
// BeginEdit, one or more PerformEdit, then EndEdit for the same ID.
type ComponentHandler interface {
	BeginEdit(id uint32)
	PerformEdit(id uint32, valueNormalized float64)
	EndEdit(id uint32)
}

// BeginChangeGesture tells the host a programmatic edit of p is starting
func (p *Parameter) BeginChangeGesture() {
	if h := p.handler(); h != nil {
		h.BeginEdit(p.ID)
	}
}

// SetValueNotifyingHost stores a normalized value and reports it to the host.
// It must be called between BeginChangeGesture and EndChangeGesture.
func (p *Parameter) SetValueNotifyingHost(value float64) {
	p.SetValue(value)
	if h := p.handler(); h != nil {
		h.PerformEdit(p.ID, p.GetValue())
	}
}

// EndChangeGesture closes the edit opened by BeginChangeGesture
func (p *Parameter) EndChangeGesture() {
	if h := p.handler(); h != nil {
		h.EndEdit(p.ID)
	}
}

func (p *Parameter) handler() ComponentHandler {
	if p.owner == nil {
		return nil
	}
	return p.owner.ComponentHandler()
}
