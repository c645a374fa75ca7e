package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/justyntemme/mbsync/pkg/framework/param"
)

var errBadOverride = errors.New("parameter override must be name=value")

// overrides collects repeated -set flags
type overrides []string

func (o *overrides) String() string { return strings.Join(*o, ",") }

func (o *overrides) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("%q: %w", v, errBadOverride)
	}
	*o = append(*o, v)
	return nil
}

// apply sets initial parameter values from "name=value" pairs, parsing the
// value with the parameter's own parser (e.g. "Bypassed", "-24 dB").
// It runs before a host handler is installed, so no automation is recorded.
func (o overrides) apply(reg *param.Registry) error {
	for _, kv := range o {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("%q: %w", kv, errBadOverride)
		}
		name = strings.TrimSpace(name)
		p := reg.GetByName(name)
		if p == nil {
			return fmt.Errorf("unknown parameter %q", name)
		}
		normalized, err := p.ParseValue(value)
		if err != nil {
			return err
		}
		p.SetValue(normalized)
	}
	return nil
}
