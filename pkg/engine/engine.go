// Package engine is a three-band compressor that publishes per-band levels
// for the interface layer. It registers one bypass, threshold and ratio
// parameter per band.
package engine

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/justyntemme/mbsync/pkg/band"
	"github.com/justyntemme/mbsync/pkg/framework/param"
	"github.com/justyntemme/mbsync/pkg/framework/plugin"
	"github.com/justyntemme/mbsync/pkg/metering"
)

// Parameter IDs. Each band owns a block of three consecutive IDs.
const (
	ParamBypassBase    uint32 = 0
	ParamThresholdBase uint32 = 1
	ParamRatioBase     uint32 = 2
	paramsPerBand      uint32 = 3
)

// BypassParamID returns the bypass parameter ID of a band
func BypassParamID(b band.Band) uint32 { return uint32(b)*paramsPerBand + ParamBypassBase }

// ThresholdParamID returns the threshold parameter ID of a band
func ThresholdParamID(b band.Band) uint32 { return uint32(b)*paramsPerBand + ParamThresholdBase }

// RatioParamID returns the ratio parameter ID of a band
func RatioParamID(b band.Band) uint32 { return uint32(b)*paramsPerBand + ParamRatioBase }

// Parameter ranges
const (
	MinThresholdDB = -60.0
	MaxThresholdDB = 12.0
	MinRatio       = 1.0
	MaxRatio       = 20.0
)

// ErrInvalidConfig is wrapped by every configuration error from New
var ErrInvalidConfig = errors.New("invalid engine configuration")

// DefaultInfo describes the multiband compressor
var DefaultInfo = plugin.Info{
	ID:       "com.mbsync.multibandcomp",
	Name:     "GM MultiBand Comp",
	Version:  "1.0.0",
	Vendor:   "mbsync",
	Category: "Fx|Dynamics",
}

// Config configures an Engine
type Config struct {
	Info plugin.Info

	SampleRate   float64
	MaxBlockSize int

	LowMidHz  float64
	MidHighHz float64

	BypassNames    band.Names
	ThresholdNames band.Names
	RatioNames     band.Names

	ThresholdDB [band.Count]float64
	Ratio       [band.Count]float64

	AttackMs           float64
	ReleaseMs          float64
	BypassFadeMs       float64
	MeterIntegrationMs float64
}

// DefaultConfig returns a 48 kHz configuration with 400 Hz and 2 kHz
// crossovers.
func DefaultConfig() Config {
	return Config{
		Info:               DefaultInfo,
		SampleRate:         48000,
		MaxBlockSize:       512,
		LowMidHz:           400,
		MidHighHz:          2000,
		BypassNames:        band.DefaultBypassNames,
		ThresholdNames:     band.DefaultThresholdNames,
		RatioNames:         band.DefaultRatioNames,
		ThresholdDB:        [band.Count]float64{0, 0, 0},
		Ratio:              [band.Count]float64{3, 3, 3},
		AttackMs:           50,
		ReleaseMs:          250,
		BypassFadeMs:       10,
		MeterIntegrationMs: 100,
	}
}

// Validate checks that the configuration describes a working engine
func (c Config) Validate() error {
	if err := c.Info.ValidateUID(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %v", ErrInvalidConfig, c.SampleRate)
	case c.MaxBlockSize <= 0:
		return fmt.Errorf("%w: max block size %d", ErrInvalidConfig, c.MaxBlockSize)
	case c.LowMidHz <= 0 || c.LowMidHz >= c.MidHighHz:
		return fmt.Errorf("%w: crossovers %v/%v Hz must be increasing", ErrInvalidConfig, c.LowMidHz, c.MidHighHz)
	case c.MidHighHz >= c.SampleRate/2:
		return fmt.Errorf("%w: crossover %v Hz at or above Nyquist", ErrInvalidConfig, c.MidHighHz)
	case c.AttackMs < 0 || c.ReleaseMs < 0 || c.BypassFadeMs < 0 || c.MeterIntegrationMs < 0:
		return fmt.Errorf("%w: time constants must not be negative", ErrInvalidConfig)
	}

	for _, b := range band.All() {
		if t := c.ThresholdDB[b]; t < MinThresholdDB || t > MaxThresholdDB {
			return fmt.Errorf("%w: %v threshold %v dB out of range", ErrInvalidConfig, b, t)
		}
		if r := c.Ratio[b]; r < MinRatio || r > MaxRatio {
			return fmt.Errorf("%w: %v ratio %v out of range", ErrInvalidConfig, b, r)
		}
	}
	return nil
}

// Engine owns the parameters, the DSP and the metering snapshot.
// ProcessBlock must only be called from one goroutine at a time.
type Engine struct {
	cfg      Config
	info     plugin.Info
	params   *param.Registry
	snapshot *metering.Snapshot

	crossover *Crossover
	bands     [band.Count]*BandProcessor
	meters    [band.Count]metering.BandMeter

	split [band.Count][]float64
}

// New builds an engine and registers its parameters
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		info:      cfg.Info,
		params:    param.NewRegistry(),
		snapshot:  metering.NewSnapshot(),
		crossover: NewCrossover(cfg.SampleRate, cfg.LowMidHz, cfg.MidHighHz),
	}

	for _, b := range band.All() {
		bypass := param.BypassParameter(BypassParamID(b), cfg.BypassNames.Get(b)).
			ShortName(b.String()).
			Build()
		threshold := param.ThresholdParameter(ThresholdParamID(b), cfg.ThresholdNames.Get(b),
			MinThresholdDB, MaxThresholdDB, cfg.ThresholdDB[b]).Build()
		ratio := param.RatioParameter(RatioParamID(b), cfg.RatioNames.Get(b),
			MinRatio, MaxRatio, cfg.Ratio[b]).Build()

		if err := e.params.Add(bypass, threshold, ratio); err != nil {
			return nil, fmt.Errorf("%w: %v band: %v", ErrInvalidConfig, b, err)
		}

		e.bands[b] = newBandProcessor(b, bypass, threshold, ratio, cfg)
		e.meters[b] = e.bands[b]
		e.split[b] = make([]float64, cfg.MaxBlockSize)
	}

	return e, nil
}

// Info returns the plugin metadata
func (e *Engine) Info() plugin.Info {
	return e.info
}

// Parameters returns the parameter registry
func (e *Engine) Parameters() *param.Registry {
	return e.params
}

// Snapshot returns the metering snapshot the engine publishes to
func (e *Engine) Snapshot() *metering.Snapshot {
	return e.snapshot
}

// Band returns the processor of one band
func (e *Engine) Band(b band.Band) *BandProcessor {
	return e.bands[b]
}

// Crossover returns the band splitter
func (e *Engine) Crossover() *Crossover {
	return e.crossover
}

// SampleRate returns the configured sample rate
func (e *Engine) SampleRate() float64 {
	return e.cfg.SampleRate
}

// MaxBlockSize returns the largest chunk processed in one pass
func (e *Engine) MaxBlockSize() int {
	return e.cfg.MaxBlockSize
}

// ProcessBlock processes min(len(in), len(out)) samples and publishes one
// metering frame. in and out may be the same slice. It never allocates,
// blocks or locks.
func (e *Engine) ProcessBlock(in, out []float64) {
	n := len(in)
	if len(out) < n {
		n = len(out)
	}

	for start := 0; start < n; start += e.cfg.MaxBlockSize {
		end := start + e.cfg.MaxBlockSize
		if end > n {
			end = n
		}
		e.processChunk(in[start:end], out[start:end])
	}

	e.snapshot.Publish(metering.Capture(e.meters))
}

func (e *Engine) processChunk(in, out []float64) {
	n := len(in)
	low := e.split[band.Low][:n]
	mid := e.split[band.Mid][:n]
	high := e.split[band.High][:n]

	e.crossover.Split(in, low, mid, high)

	for _, b := range band.All() {
		e.bands[b].process(e.split[b][:n])
	}

	copy(out, low)
	vecmath.AddBlockInPlace(out, mid)
	vecmath.AddBlockInPlace(out, high)
}

// Reset clears all DSP state and meters and publishes a silent frame
func (e *Engine) Reset() {
	e.crossover.Reset()
	for _, bp := range e.bands {
		bp.reset()
	}
	e.snapshot.Publish(metering.SilentFrame())
}
