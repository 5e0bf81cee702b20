// Package hardware models the device limit record that the core passes
// through, unexamined, to the feasibility oracle and the sequence builder.
package hardware

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Options is the resolved limit set handed to the oracle and builder. All
// fields carry concrete values; resolution happens in Resolve.
type Options struct {
	DeviceName     string  // display only
	MaxGradient    float64 // mT/m
	MaxSlew        float64 // T/m/s
	RFRingdownTime float64 // ms
	RFDeadTime     float64 // ms
	GradRasterTime float64 // ms
	B0             float64 // T
}

// Limits is an overlay of optional limit fields. A nil field means "not set
// at this layer" and defers to the next layer down; there are no sentinel
// values.
type Limits struct {
	DeviceName     *string  `toml:"device_name"`
	MaxGradient    *float64 `toml:"max_gradient"`
	MaxSlew        *float64 `toml:"max_slew"`
	RFRingdownTime *float64 `toml:"rf_ringdown_time"`
	RFDeadTime     *float64 `toml:"rf_dead_time"`
	GradRasterTime *float64 `toml:"grad_raster_time"`
	B0             *float64 `toml:"b0"`
}

// Defaults returns the built-in limit set, the lowest-precedence layer.
func Defaults() Options {
	return Options{
		DeviceName:     "generic",
		MaxGradient:    40.0,
		MaxSlew:        150.0,
		RFRingdownTime: 0.02,
		RFDeadTime:     0.1,
		GradRasterTime: 0.01,
		B0:             1.5,
	}
}

// Resolve merges limit layers by explicit precedence: explicit override >
// device preset > built-in default.
func Resolve(override, preset Limits) Options {
	opts := Defaults()
	apply(&opts, preset)
	apply(&opts, override)
	return opts
}

func apply(opts *Options, l Limits) {
	if l.DeviceName != nil {
		opts.DeviceName = *l.DeviceName
	}
	if l.MaxGradient != nil {
		opts.MaxGradient = *l.MaxGradient
	}
	if l.MaxSlew != nil {
		opts.MaxSlew = *l.MaxSlew
	}
	if l.RFRingdownTime != nil {
		opts.RFRingdownTime = *l.RFRingdownTime
	}
	if l.RFDeadTime != nil {
		opts.RFDeadTime = *l.RFDeadTime
	}
	if l.GradRasterTime != nil {
		opts.GradRasterTime = *l.GradRasterTime
	}
	if l.B0 != nil {
		opts.B0 = *l.B0
	}
}

// LoadPreset decodes a device preset file. Unknown keys are rejected so a
// typo in a preset does not silently fall through to defaults.
func LoadPreset(path string) (Limits, error) {
	var l Limits
	meta, err := toml.DecodeFile(path, &l)
	if err != nil {
		return Limits{}, fmt.Errorf("decode preset %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Limits{}, fmt.Errorf("preset %s: unknown key %q", path, undecoded[0].String())
	}
	return l, nil
}
