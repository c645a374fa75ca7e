package param

import (
	"fmt"
	"strconv"
	"strings"
)

// DecibelFormatter formats dB values
func DecibelFormatter(db float64) string {
	if db <= -60 {
		return "-∞ dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}

// DecibelParser parses dB strings
func DecibelParser(str string) (float64, error) {
	if strings.Contains(str, "∞") || strings.Contains(str, "inf") {
		return -96.0, nil // Practical minimum
	}
	str = strings.TrimSuffix(strings.TrimSpace(str), "dB")
	str = strings.TrimSuffix(strings.TrimSpace(str), "db")
	return strconv.ParseFloat(strings.TrimSpace(str), 64)
}

// RatioFormatter formats ratio values
func RatioFormatter(value float64) string {
	if value >= 20 {
		return "∞:1"
	}
	return fmt.Sprintf("%.1f:1", value)
}

// OnOffFormatter formats boolean as On/Off
func OnOffFormatter(value float64) string {
	if value > 0.5 {
		return "On"
	}
	return "Off"
}

// OnOffParser parses On/Off strings
func OnOffParser(str string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "on", "yes", "true", "1":
		return 1, nil
	case "off", "no", "false", "0":
		return 0, nil
	default:
		return 0, fmt.Errorf("expected 'on' or 'off', got: %s", str)
	}
}

// BypassFormatter formats a bypass toggle
func BypassFormatter(value float64) string {
	if value > 0.5 {
		return "Bypassed"
	}
	return "Active"
}

// BypassParser accepts Bypassed/Active as well as the On/Off spellings
func BypassParser(str string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "bypassed", "bypass":
		return 1, nil
	case "active":
		return 0, nil
	}
	return OnOffParser(str)
}
