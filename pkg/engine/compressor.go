package engine

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// detectorFloorDB is the level reported for a fully decayed envelope
const detectorFloorDB = -96.0

// Compressor is a feed-forward peak compressor with a soft knee
type Compressor struct {
	sampleRate float64

	threshold float64 // dB
	ratio     float64
	kneeWidth float64 // dB

	attackCoef  float64
	releaseCoef float64
	envelope    float64

	lastGainReduction float64 // dB
}

// NewCompressor creates a 4:1 compressor at -20 dB with 5 ms attack, 50 ms
// release and a 2 dB knee.
func NewCompressor(sampleRate float64) *Compressor {
	c := &Compressor{
		sampleRate: sampleRate,
		threshold:  -20,
		ratio:      4,
		kneeWidth:  2,
	}
	c.SetTimeConstants(0.005, 0.050)
	return c
}

// SetThreshold sets the compression threshold in dB
func (c *Compressor) SetThreshold(dB float64) {
	c.threshold = dB
}

// SetRatio sets the compression ratio (1.0 = no compression)
func (c *Compressor) SetRatio(ratio float64) {
	c.ratio = math.Max(1, ratio)
}

// SetKnee sets the soft knee width in dB (0 for a hard knee)
func (c *Compressor) SetKnee(widthDB float64) {
	c.kneeWidth = math.Max(0, widthDB)
}

// SetTimeConstants sets attack and release in seconds
func (c *Compressor) SetTimeConstants(attack, release float64) {
	attack = math.Max(0.0001, attack)
	release = math.Max(0.001, release)
	c.attackCoef = 1 - math.Exp(-1/(attack*c.sampleRate))
	c.releaseCoef = 1 - math.Exp(-1/(release*c.sampleRate))
}

// GainReduction returns the gain reduction of the last sample in dB
func (c *Compressor) GainReduction() float64 {
	return c.lastGainReduction
}

// Reset clears the envelope
func (c *Compressor) Reset() {
	c.envelope = 0
	c.lastGainReduction = 0
}

func (c *Compressor) computeGain(inputDB float64) float64 {
	lower := c.threshold - c.kneeWidth/2
	upper := c.threshold + c.kneeWidth/2

	switch {
	case inputDB < lower:
		return 0
	case inputDB > upper || c.kneeWidth == 0:
		return (inputDB - c.threshold) * (1 - 1/c.ratio)
	default:
		// Quadratic knee: zero slope at the lower edge, full ratio at the upper
		over := inputDB - lower
		return (1 - 1/c.ratio) * over * over / (2 * c.kneeWidth)
	}
}

// ComputeGains fills gains with the linear gain for each sample of in.
// len(gains) must be at least len(in).
func (c *Compressor) ComputeGains(in, gains []float64) {
	env := c.envelope
	for i, x := range in {
		level := math.Abs(x)
		if level > env {
			env += (level - env) * c.attackCoef
		} else {
			env += (level - env) * c.releaseCoef
		}

		inputDB := detectorFloorDB
		if env > 0 {
			inputDB = math.Max(detectorFloorDB, 20*math.Log10(env))
		}

		reduction := c.computeGain(inputDB)
		c.lastGainReduction = reduction
		gains[i] = math.Pow(10, -reduction/20)
	}
	c.envelope = env
}

// Process compresses buf in place using gains as scratch space
func (c *Compressor) Process(buf, gains []float64) {
	gains = gains[:len(buf)]
	c.ComputeGains(buf, gains)
	vecmath.MulBlockInPlace(buf, gains)
}
