package engine

import "math"

// butterworthQ gives a maximally flat second-order section. Two cascaded
// sections form a fourth-order Linkwitz-Riley filter.
const butterworthQ = 1 / math.Sqrt2

// biquad is a single-channel Direct Form I second-order section
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64 // a0 is normalized to 1

	x1, x2 float64
	y1, y2 float64
}

func (b *biquad) setCoefficients(b0, b1, b2, a0, a1, a2 float64) {
	inv := 1 / a0
	b.b0 = b0 * inv
	b.b1 = b1 * inv
	b.b2 = b2 * inv
	b.a1 = a1 * inv
	b.a2 = a2 * inv
}

func (b *biquad) setLowpass(sampleRate, frequency, q float64) {
	cosOmega, alpha := designPrototype(sampleRate, frequency, q)
	b.setCoefficients(
		(1-cosOmega)/2, 1-cosOmega, (1-cosOmega)/2,
		1+alpha, -2*cosOmega, 1-alpha,
	)
}

func (b *biquad) setHighpass(sampleRate, frequency, q float64) {
	cosOmega, alpha := designPrototype(sampleRate, frequency, q)
	b.setCoefficients(
		(1+cosOmega)/2, -(1 + cosOmega), (1+cosOmega)/2,
		1+alpha, -2*cosOmega, 1-alpha,
	)
}

func (b *biquad) setAllpass(sampleRate, frequency, q float64) {
	cosOmega, alpha := designPrototype(sampleRate, frequency, q)
	b.setCoefficients(
		1-alpha, -2*cosOmega, 1+alpha,
		1+alpha, -2*cosOmega, 1-alpha,
	)
}

func designPrototype(sampleRate, frequency, q float64) (cosOmega, alpha float64) {
	omega := 2 * math.Pi * frequency / sampleRate
	return math.Cos(omega), math.Sin(omega) / (2 * q)
}

func (b *biquad) reset() {
	b.x1, b.x2, b.y1, b.y2 = 0, 0, 0, 0
}

// process filters buf in place
func (b *biquad) process(buf []float64) {
	x1, x2, y1, y2 := b.x1, b.x2, b.y1, b.y2

	for i, x0 := range buf {
		y0 := b.b0*x0 + b.b1*x1 + b.b2*x2 - b.a1*y1 - b.a2*y2
		x2, x1 = x1, x0
		y2, y1 = y1, y0
		buf[i] = y0
	}

	b.x1, b.x2, b.y1, b.y2 = x1, x2, y1, y2
}

// lr4 is a fourth-order Linkwitz-Riley section: two identical Butterworth
// biquads in series. A lowpass and highpass pair at the same frequency sums
// to an allpass response.
type lr4 [2]biquad

func (f *lr4) setLowpass(sampleRate, frequency float64) {
	for i := range f {
		f[i].setLowpass(sampleRate, frequency, butterworthQ)
	}
}

func (f *lr4) setHighpass(sampleRate, frequency float64) {
	for i := range f {
		f[i].setHighpass(sampleRate, frequency, butterworthQ)
	}
}

func (f *lr4) reset() {
	for i := range f {
		f[i].reset()
	}
}

func (f *lr4) process(buf []float64) {
	for i := range f {
		f[i].process(buf)
	}
}

// Crossover splits one signal into three bands at two frequencies.
//
// The low band passes through an allpass at the upper crossover so that its
// phase matches the mid and high bands, and the three bands sum flat.
type Crossover struct {
	sampleRate float64
	lowMid     float64
	midHigh    float64

	lp1, hp1 lr4
	lp2, hp2 lr4
	ap2      biquad
}

// NewCrossover creates a three-way crossover. The caller guarantees
// 0 < lowMidHz < midHighHz < sampleRate/2.
func NewCrossover(sampleRate, lowMidHz, midHighHz float64) *Crossover {
	c := &Crossover{sampleRate: sampleRate}
	c.SetFrequencies(lowMidHz, midHighHz)
	return c
}

// SetFrequencies redesigns both crossover points. Filter state is kept.
func (c *Crossover) SetFrequencies(lowMidHz, midHighHz float64) {
	c.lowMid = lowMidHz
	c.midHigh = midHighHz

	c.lp1.setLowpass(c.sampleRate, lowMidHz)
	c.hp1.setHighpass(c.sampleRate, lowMidHz)
	c.lp2.setLowpass(c.sampleRate, midHighHz)
	c.hp2.setHighpass(c.sampleRate, midHighHz)

	// LP+HP of an LR4 pair equals a Butterworth-Q second order allpass
	c.ap2.setAllpass(c.sampleRate, midHighHz, butterworthQ)
}

// Frequencies returns the low/mid and mid/high crossover points in Hz
func (c *Crossover) Frequencies() (lowMidHz, midHighHz float64) {
	return c.lowMid, c.midHigh
}

// Split writes the three bands of in into low, mid and high. All slices
// must have the same length; in may alias none of the outputs.
func (c *Crossover) Split(in, low, mid, high []float64) {
	copy(low, in)
	c.lp1.process(low)
	c.ap2.process(low)

	copy(high, in)
	c.hp1.process(high)
	copy(mid, high)
	c.lp2.process(mid)
	c.hp2.process(high)
}

// Reset clears all filter state
func (c *Crossover) Reset() {
	c.lp1.reset()
	c.hp1.reset()
	c.lp2.reset()
	c.hp2.reset()
	c.ap2.reset()
}
