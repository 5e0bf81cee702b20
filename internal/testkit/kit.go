// Package testkit provides oracles and protocol fixtures shared by tests.
package testkit

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/fsantini/nimpulseqgui/domain/hardware"
	"github.com/fsantini/nimpulseqgui/domain/protocol"
	"github.com/fsantini/nimpulseqgui/internal/oracle"
	"github.com/fsantini/nimpulseqgui/ports"
)

// ThresholdOracle accepts a protocol whenever the named real property is at
// or above Threshold and at or below Ceiling. It counts its invocations so
// tests can assert probe budgets.
type ThresholdOracle struct {
	Property  string
	Threshold float64
	Ceiling   float64
	Calls     int
}

func NewThresholdOracle(property string, threshold, ceiling float64) *ThresholdOracle {
	return &ThresholdOracle{Property: property, Threshold: threshold, Ceiling: ceiling}
}

func (o *ThresholdOracle) Feasible(_ context.Context, _ hardware.Options, p *protocol.Protocol) (bool, error) {
	o.Calls++
	prop, ok := p.Get(o.Property)
	if !ok {
		return false, nil
	}
	var v float64
	switch pp := prop.(type) {
	case *protocol.RealProperty:
		v = pp.Value
	case *protocol.IntegerProperty:
		v = float64(pp.Value)
	default:
		return false, nil
	}
	return v >= o.Threshold && v <= o.Ceiling, nil
}

// AcceptAllOracle accepts everything and counts calls.
type AcceptAllOracle struct {
	Calls int
}

func (o *AcceptAllOracle) Feasible(context.Context, hardware.Options, *protocol.Protocol) (bool, error) {
	o.Calls++
	return true, nil
}

// RejectAllOracle rejects everything and counts calls.
type RejectAllOracle struct {
	Calls int
}

func (o *RejectAllOracle) Feasible(context.Context, hardware.Options, *protocol.Protocol) (bool, error) {
	o.Calls++
	return false, nil
}

// PanicOracle panics on every call, for exercising fault containment.
type PanicOracle struct{}

func (o *PanicOracle) Feasible(context.Context, hardware.Options, *protocol.Protocol) (bool, error) {
	panic("predicate blew up")
}

// ErrorOracle fails with a plain error on every call.
type ErrorOracle struct{}

func (o *ErrorOracle) Feasible(context.Context, hardware.Options, *protocol.Protocol) (bool, error) {
	return false, errors.New("predicate unavailable")
}

// FuncOracle wraps an accept function over the named real property's value.
type FuncOracle struct {
	Property string
	Accept   func(v float64) bool
	Calls    int
}

func (o *FuncOracle) Feasible(_ context.Context, _ hardware.Options, p *protocol.Protocol) (bool, error) {
	o.Calls++
	prop, ok := p.Get(o.Property)
	if !ok {
		return false, nil
	}
	switch pp := prop.(type) {
	case *protocol.RealProperty:
		return o.Accept(pp.Value), nil
	case *protocol.IntegerProperty:
		return o.Accept(float64(pp.Value)), nil
	}
	return false, nil
}

// SelectionOracle accepts an enumerated property only for the listed
// selections.
type SelectionOracle struct {
	Property string
	Accepted map[string]bool
	Calls    int
}

func (o *SelectionOracle) Feasible(_ context.Context, _ hardware.Options, p *protocol.Protocol) (bool, error) {
	o.Calls++
	prop, ok := p.Get(o.Property)
	if !ok {
		return false, nil
	}
	ep, ok := prop.(*protocol.EnumeratedProperty)
	if !ok {
		return false, nil
	}
	return o.Accepted[ep.Selected], nil
}

// TEProtocol is the canonical fixture around a single searchable echo time.
func TEProtocol() *protocol.Protocol {
	p := protocol.New()
	p.Add("TE", protocol.NewReal(5.0, 1.0, 100.0, 0.1).WithUnit("ms").WithSearch())
	return p
}

// MixedProtocol covers all five property kinds in a fixed order.
func MixedProtocol() *protocol.Protocol {
	p := protocol.New()
	p.Add("TE", protocol.NewReal(5.0, 1.0, 100.0, 0.1).WithUnit("ms").WithSearch())
	p.Add("Averages", protocol.NewInteger(2, 1, 32, 1))
	p.Add("Spoiling", protocol.NewBoolean(true).WithSearch())
	p.Add("Variant", protocol.NewEnumerated("spoiled", []string{"spoiled", "balanced", "fid"}).WithSearch())
	p.Add("Notes", protocol.NewDescription("two\nlines"))
	return p
}

// Wrap builds an oracle wrapper over o with default hardware and a silent
// logger.
func Wrap(o ports.Oracle) *oracle.Wrapper {
	return oracle.NewWrapper(o, hardware.Defaults(), zerolog.Nop())
}
