package engine

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/justyntemme/mbsync/pkg/band"
	"github.com/justyntemme/mbsync/pkg/framework/param"
	"github.com/justyntemme/mbsync/pkg/metering"
)

// BandProcessor compresses one band and meters it before and after
// processing. It implements metering.BandMeter.
type BandProcessor struct {
	band band.Band

	bypass    *param.Parameter
	threshold *param.Parameter
	ratio     *param.Parameter

	comp *Compressor
	mix  *param.Smoother // 1 = processed, 0 = bypassed

	input  *metering.LevelMeter
	output *metering.LevelMeter

	dry   []float64
	gains []float64
	ramp  []float64
}

func newBandProcessor(b band.Band, bypass, threshold, ratio *param.Parameter, cfg Config) *BandProcessor {
	p := &BandProcessor{
		band:      b,
		bypass:    bypass,
		threshold: threshold,
		ratio:     ratio,
		comp:      NewCompressor(cfg.SampleRate),
		mix:       param.NewSmoother(int(cfg.BypassFadeMs * 0.001 * cfg.SampleRate)),
		input:     metering.NewLevelMeter(cfg.SampleRate, cfg.MeterIntegrationMs),
		output:    metering.NewLevelMeter(cfg.SampleRate, cfg.MeterIntegrationMs),
		dry:       make([]float64, cfg.MaxBlockSize),
		gains:     make([]float64, cfg.MaxBlockSize),
		ramp:      make([]float64, cfg.MaxBlockSize),
	}
	p.comp.SetTimeConstants(cfg.AttackMs*0.001, cfg.ReleaseMs*0.001)
	p.mix.Reset(p.targetMix())
	return p
}

// Band returns the band this processor handles
func (p *BandProcessor) Band() band.Band {
	return p.band
}

// GetRMSInputLevelDb returns the band level before compression
func (p *BandProcessor) GetRMSInputLevelDb() float64 {
	return p.input.GetRMSDB()
}

// GetRMSOutputLevelDb returns the band level after compression and bypass
func (p *BandProcessor) GetRMSOutputLevelDb() float64 {
	return p.output.GetRMSDB()
}

// GainReduction returns the compressor's last gain reduction in dB
func (p *BandProcessor) GainReduction() float64 {
	return p.comp.GainReduction()
}

// Bypassed reports the band's bypass parameter
func (p *BandProcessor) Bypassed() bool {
	return p.bypass.GetBool()
}

func (p *BandProcessor) targetMix() float64 {
	if p.bypass.GetBool() {
		return 0
	}
	return 1
}

// process runs one chunk in place. len(buf) <= MaxBlockSize.
func (p *BandProcessor) process(buf []float64) {
	n := len(buf)
	p.input.Process(buf)

	p.comp.SetThreshold(p.threshold.GetPlainValue())
	p.comp.SetRatio(p.ratio.GetPlainValue())
	p.mix.SetTarget(p.targetMix())

	switch {
	case !p.mix.IsSmoothing() && p.mix.Current() == 0:
		// Bypassed: keep the detector running so re-enabling is click free
		p.comp.ComputeGains(buf, p.gains[:n])
	case !p.mix.IsSmoothing():
		p.comp.Process(buf, p.gains[:n])
	default:
		dry := p.dry[:n]
		copy(dry, buf)
		p.comp.Process(buf, p.gains[:n])

		// out = dry + mix*(wet-dry)
		ramp := p.ramp[:n]
		for i := range ramp {
			ramp[i] = p.mix.Next()
			buf[i] -= dry[i]
		}
		vecmath.MulBlockInPlace(buf, ramp)
		vecmath.AddBlockInPlace(buf, dry)
	}

	p.output.Process(buf)
}

func (p *BandProcessor) reset() {
	p.comp.Reset()
	p.mix.Reset(p.targetMix())
	p.input.Reset()
	p.output.Reset()
}
