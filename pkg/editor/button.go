package editor

// Clickable is implemented by controls that react to a click
type Clickable interface {
	OnClick()
}

// ClickHandler receives the control that was clicked
type ClickHandler func(source *ToggleButton)

// ToggleButton is a two-state control. Its state is display state only:
// clicking does not flip it; the registered handler decides what to do.
type ToggleButton struct {
	name    string
	state   bool
	onClick ClickHandler
}

// NewToggleButton creates a button with an initial toggle state
func NewToggleButton(name string, initial bool) *ToggleButton {
	return &ToggleButton{name: name, state: initial}
}

// Name returns the button label
func (b *ToggleButton) Name() string {
	return b.name
}

// SetOnClick registers the click handler, replacing any previous one
func (b *ToggleButton) SetOnClick(h ClickHandler) {
	b.onClick = h
}

// OnClick invokes the registered handler with the button itself
func (b *ToggleButton) OnClick() {
	if b.onClick != nil {
		b.onClick(b)
	}
}

// ToggleState returns the displayed state
func (b *ToggleButton) ToggleState() bool {
	return b.state
}

// SetToggleState changes the displayed state without invoking the handler
func (b *ToggleButton) SetToggleState(on bool) {
	b.state = on
}
