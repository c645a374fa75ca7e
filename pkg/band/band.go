// Package band enumerates the three frequency bands of the multiband processor.
package band

import "fmt"

// Band identifies one of the fixed frequency ranges. The numeric value is the
// band's index everywhere bands are enumerated.
type Band int

const (
	// Low is the band below the low/mid crossover
	Low Band = iota
	// Mid is the band between the two crossovers
	Mid
	// High is the band above the mid/high crossover
	High
)

// Count is the number of bands
const Count = 3

// All returns every band in processing order
func All() [Count]Band {
	return [Count]Band{Low, Mid, High}
}

// Valid reports whether b is one of Low, Mid or High
func (b Band) Valid() bool {
	return b >= Low && b <= High
}

// String returns the display name of the band
func (b Band) String() string {
	switch b {
	case Low:
		return "Low"
	case Mid:
		return "Mid"
	case High:
		return "High"
	default:
		return fmt.Sprintf("Band(%d)", int(b))
	}
}

// Names holds one stable parameter name per band, indexed by Band.
type Names [Count]string

// DefaultBypassNames are the registry keys of the per-band bypass parameters.
var DefaultBypassNames = Names{
	Low:  "Bypassed Low Band",
	Mid:  "Bypassed Mid Band",
	High: "Bypassed High Band",
}

// DefaultThresholdNames are the registry keys of the per-band thresholds.
var DefaultThresholdNames = Names{
	Low:  "Threshold Low Band",
	Mid:  "Threshold Mid Band",
	High: "Threshold High Band",
}

// DefaultRatioNames are the registry keys of the per-band ratios.
var DefaultRatioNames = Names{
	Low:  "Ratio Low Band",
	Mid:  "Ratio Mid Band",
	High: "Ratio High Band",
}

// Get returns the name for band b
func (n Names) Get(b Band) string {
	return n[b]
}
