// Package config loads the settings of the mbsync host from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/justyntemme/mbsync/pkg/band"
	"github.com/justyntemme/mbsync/pkg/engine"
	"github.com/justyntemme/mbsync/pkg/framework/debug"
)

// ErrInvalid is wrapped by every validation error
var ErrInvalid = errors.New("invalid config")

// AudioConfig describes the simulated audio device
type AudioConfig struct {
	SampleRate   float64 `yaml:"sample_rate"`
	BlockSize    int     `yaml:"block_size"`
	MaxBlockSize int     `yaml:"max_block_size"`
}

// CrossoverConfig sets the two band split points
type CrossoverConfig struct {
	LowMidHz  float64 `yaml:"low_mid_hz"`
	MidHighHz float64 `yaml:"mid_high_hz"`
}

// BandConfig holds the per-band settings
type BandConfig struct {
	BypassName    string  `yaml:"bypass_name"`
	ThresholdName string  `yaml:"threshold_name"`
	RatioName     string  `yaml:"ratio_name"`
	ThresholdDB   float64 `yaml:"threshold_db"`
	Ratio         float64 `yaml:"ratio"`
}

// BandsConfig holds one BandConfig per band
type BandsConfig struct {
	Low  BandConfig `yaml:"low"`
	Mid  BandConfig `yaml:"mid"`
	High BandConfig `yaml:"high"`
}

// Get returns the settings of band b
func (c *BandsConfig) Get(b band.Band) *BandConfig {
	switch b {
	case band.Low:
		return &c.Low
	case band.Mid:
		return &c.Mid
	default:
		return &c.High
	}
}

// DynamicsConfig holds the shared compressor time constants
type DynamicsConfig struct {
	AttackMs     float64 `yaml:"attack_ms"`
	ReleaseMs    float64 `yaml:"release_ms"`
	BypassFadeMs float64 `yaml:"bypass_fade_ms"`
}

// MeteringConfig controls the level meters
type MeteringConfig struct {
	IntegrationMs float64 `yaml:"integration_ms"`
}

// Tone is one sine component of the test signal
type Tone struct {
	FrequencyHz float64 `yaml:"frequency_hz"`
	Amplitude   float64 `yaml:"amplitude"`
}

// SignalConfig describes the generated test signal
type SignalConfig struct {
	Tones []Tone `yaml:"tones"`
	// Amplitude modulation rate in Hz, 0 for a steady signal
	PulseHz float64 `yaml:"pulse_hz"`
}

// LogConfig selects log level and destination
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty logs to stderr
}

// Config is the host configuration. The refresh rate is fixed and has no
// setting.
type Config struct {
	Audio     AudioConfig     `yaml:"audio"`
	Crossover CrossoverConfig `yaml:"crossover"`
	Bands     BandsConfig     `yaml:"bands"`
	Dynamics  DynamicsConfig  `yaml:"dynamics"`
	Metering  MeteringConfig  `yaml:"metering"`
	Signal    SignalConfig    `yaml:"signal"`
	Log       LogConfig       `yaml:"log"`
}

// Default returns a config matching engine.DefaultConfig with a three-tone
// test signal.
func Default() *Config {
	ec := engine.DefaultConfig()

	cfg := &Config{
		Audio: AudioConfig{
			SampleRate:   ec.SampleRate,
			BlockSize:    256,
			MaxBlockSize: ec.MaxBlockSize,
		},
		Crossover: CrossoverConfig{
			LowMidHz:  ec.LowMidHz,
			MidHighHz: ec.MidHighHz,
		},
		Dynamics: DynamicsConfig{
			AttackMs:     ec.AttackMs,
			ReleaseMs:    ec.ReleaseMs,
			BypassFadeMs: ec.BypassFadeMs,
		},
		Metering: MeteringConfig{IntegrationMs: ec.MeterIntegrationMs},
		Signal: SignalConfig{
			Tones: []Tone{
				{FrequencyHz: 110, Amplitude: 0.4},
				{FrequencyHz: 880, Amplitude: 0.25},
				{FrequencyHz: 5000, Amplitude: 0.1},
			},
			PulseHz: 0.5,
		},
		Log: LogConfig{Level: "info"},
	}

	for _, b := range band.All() {
		*cfg.Bands.Get(b) = BandConfig{
			BypassName:    ec.BypassNames.Get(b),
			ThresholdName: ec.ThresholdNames.Get(b),
			RatioName:     ec.RatioNames.Get(b),
			ThresholdDB:   ec.ThresholdDB[b],
			Ratio:         ec.Ratio[b],
		}
	}
	return cfg
}

// Parse decodes YAML over the defaults, so omitted keys keep their default
// values, and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads a config file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks host settings and the derived engine configuration
func (c *Config) Validate() error {
	if c.Audio.BlockSize <= 0 {
		return fmt.Errorf("%w: block size %d", ErrInvalid, c.Audio.BlockSize)
	}
	if _, err := debug.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for i, tone := range c.Signal.Tones {
		if tone.FrequencyHz <= 0 || tone.FrequencyHz >= c.Audio.SampleRate/2 {
			return fmt.Errorf("%w: tone %d frequency %v Hz", ErrInvalid, i, tone.FrequencyHz)
		}
	}
	if c.Signal.PulseHz < 0 {
		return fmt.Errorf("%w: pulse rate %v Hz", ErrInvalid, c.Signal.PulseHz)
	}
	for _, b := range band.All() {
		if c.Bands.Get(b).BypassName == "" {
			return fmt.Errorf("%w: %v band has no bypass parameter name", ErrInvalid, b)
		}
	}

	if err := c.Engine().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// LogLevel returns the parsed log level
func (c *Config) LogLevel() debug.LogLevel {
	level, err := debug.ParseLevel(c.Log.Level)
	if err != nil {
		return debug.LogLevelInfo
	}
	return level
}

// BypassNames returns the bypass parameter names ordered by band
func (c *Config) BypassNames() band.Names {
	var names band.Names
	for _, b := range band.All() {
		names[b] = c.Bands.Get(b).BypassName
	}
	return names
}

// Engine converts the settings to an engine configuration
func (c *Config) Engine() engine.Config {
	ec := engine.Config{
		Info:               engine.DefaultInfo,
		SampleRate:         c.Audio.SampleRate,
		MaxBlockSize:       c.Audio.MaxBlockSize,
		LowMidHz:           c.Crossover.LowMidHz,
		MidHighHz:          c.Crossover.MidHighHz,
		AttackMs:           c.Dynamics.AttackMs,
		ReleaseMs:          c.Dynamics.ReleaseMs,
		BypassFadeMs:       c.Dynamics.BypassFadeMs,
		MeterIntegrationMs: c.Metering.IntegrationMs,
	}
	for _, b := range band.All() {
		bc := c.Bands.Get(b)
		ec.BypassNames[b] = bc.BypassName
		ec.ThresholdNames[b] = bc.ThresholdName
		ec.RatioNames[b] = bc.RatioName
		ec.ThresholdDB[b] = bc.ThresholdDB
		ec.Ratio[b] = bc.Ratio
	}
	return ec
}
