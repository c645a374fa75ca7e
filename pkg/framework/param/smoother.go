package param

// Smoother ramps linearly towards a target over a fixed number of samples.
// It is owned by the audio thread and never allocates.
type Smoother struct {
	current     float64
	target      float64
	step        float64
	length      int
	remaining   int
	isSmoothing bool
}

// NewSmoother creates a smoother that reaches each new target after
// lengthSamples calls to Next.
func NewSmoother(lengthSamples int) *Smoother {
	if lengthSamples < 1 {
		lengthSamples = 1
	}
	return &Smoother{length: lengthSamples}
}

// Reset jumps to value with no ramp
func (s *Smoother) Reset(value float64) {
	s.current = value
	s.target = value
	s.step = 0
	s.remaining = 0
	s.isSmoothing = false
}

// SetTarget starts a ramp from the current value to target
func (s *Smoother) SetTarget(target float64) {
	if target == s.target {
		return
	}
	s.target = target
	s.remaining = s.length
	s.step = (target - s.current) / float64(s.length)
	s.isSmoothing = true
}

// Next returns the next value of the ramp
func (s *Smoother) Next() float64 {
	if !s.isSmoothing {
		return s.current
	}

	s.remaining--
	if s.remaining <= 0 {
		s.current = s.target
		s.isSmoothing = false
		return s.current
	}
	s.current += s.step
	return s.current
}

// Current returns the last value produced without advancing
func (s *Smoother) Current() float64 {
	return s.current
}

// Target returns the value the ramp is heading to
func (s *Smoother) Target() float64 {
	return s.target
}

// IsSmoothing reports whether a ramp is in progress
func (s *Smoother) IsSmoothing() bool {
	return s.isSmoothing
}
