// Package discovery narrows a property's editable range or candidate set to
// the subset the feasibility oracle accepts. Numeric properties use one-sided
// bisection from an accepted anchor toward each declared bound; enumerated
// properties are filtered exhaustively; booleans probe only the negation of
// the current value. Every probe runs on a deep copy, so the live protocol is
// untouched until the caller commits a result.
package discovery

import (
	"context"
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"

	"github.com/fsantini/nimpulseqgui/domain/core"
	"github.com/fsantini/nimpulseqgui/domain/protocol"
	"github.com/fsantini/nimpulseqgui/internal/oracle"
)

// degenerateSpan is the step count at or below which a one-sided search
// returns the declared bound without probing: with so few representable
// points bisection cannot tighten the bound.
const degenerateSpan = 2

// Engine drives range and candidate discovery through the oracle wrapper.
type Engine struct {
	oracle *oracle.Wrapper
	log    zerolog.Logger
}

func NewEngine(w *oracle.Wrapper, log zerolog.Logger) *Engine {
	return &Engine{oracle: w, log: log}
}

// RangeResult is the outcome of numeric range discovery.
type RangeResult struct {
	Min    float64
	Max    float64
	Probes int
}

// DiscoverRange finds the tightest sub-range of a numeric property that the
// oracle still accepts, assuming the current value is already accepted and
// that feasibility flips at most once between the current value and each
// declared bound. The live protocol is not modified.
func (e *Engine) DiscoverRange(ctx context.Context, live *protocol.Protocol, name string) (*RangeResult, error) {
	prop, err := live.Require(name)
	if err != nil {
		return nil, err
	}

	var value, min, max, step float64
	switch p := prop.(type) {
	case *protocol.IntegerProperty:
		value, min, max, step = float64(p.Value), float64(p.Min), float64(p.Max), float64(p.Step)
	case *protocol.RealProperty:
		value, min, max, step = p.Value, p.Min, p.Max, p.Step
	default:
		return nil, core.NewKindMismatchError(name, "numeric", string(prop.Kind()))
	}

	start := time.Now()
	timings := make([]float64, 0, 32)

	lo, probesLo := e.searchToward(ctx, live, name, min, value, step, &timings)
	hi, probesHi := e.searchToward(ctx, live, name, max, value, step, &timings)

	res := &RangeResult{Min: lo, Max: hi, Probes: probesLo + probesHi}
	e.logProbeStats(name, res.Probes, timings, time.Since(start))
	return res, nil
}

// searchToward bisects the increment lattice between the declared boundary
// (assumed rejected or unknown) and the anchor (assumed accepted). It returns
// the last proven-accepted lattice value, closing the bracket to a single
// increment step so the result is within one increment of the true
// feasibility threshold. A span of degenerateSpan steps or fewer returns the
// boundary as-is with zero probes.
func (e *Engine) searchToward(ctx context.Context, live *protocol.Protocol, name string, boundary, anchor, step float64, timings *[]float64) (float64, int) {
	span := math.Abs(anchor - boundary)
	steps := int(math.Round(span / step))
	if steps <= degenerateSpan {
		return boundary, 0
	}

	sign := 1.0
	if anchor < boundary {
		sign = -1.0
	}
	valueAt := func(i int) float64 {
		return boundary + sign*float64(i)*step
	}

	// Index 0 sits on the boundary, index steps on the anchor. a tracks the
	// rejected side, b the accepted side; the bracket shrinks until a and b
	// are adjacent lattice points.
	a, b := 0, steps
	probes := 0
	for b-a >= 2 {
		mid := (a + b) / 2
		if e.probeNumeric(ctx, live, name, valueAt(mid), timings) {
			b = mid
		} else {
			a = mid
		}
		probes++
	}
	return valueAt(b), probes
}

func (e *Engine) probeNumeric(ctx context.Context, live *protocol.Protocol, name string, v float64, timings *[]float64) bool {
	probe := live.Copy()
	prop, _ := probe.Get(name)
	switch p := prop.(type) {
	case *protocol.IntegerProperty:
		p.Value = int64(math.Round(v))
	case *protocol.RealProperty:
		p.Value = v
	}
	start := time.Now()
	ok := e.oracle.Accepts(ctx, probe)
	*timings = append(*timings, float64(time.Since(start).Microseconds()))
	return ok
}

// FilterCandidates probes every candidate of an enumerated property on its
// own isolated copy and returns the accepted subset in original candidate
// order. The currently selected value is not guaranteed to survive the
// filter.
func (e *Engine) FilterCandidates(ctx context.Context, live *protocol.Protocol, name string) ([]string, error) {
	prop, err := live.Require(name)
	if err != nil {
		return nil, err
	}
	enum, ok := prop.(*protocol.EnumeratedProperty)
	if !ok {
		return nil, core.NewKindMismatchError(name, "enumerated", string(prop.Kind()))
	}

	start := time.Now()
	timings := make([]float64, 0, len(enum.Candidates))
	accepted := make([]string, 0, len(enum.Candidates))
	for _, candidate := range enum.Candidates {
		probe := live.Copy()
		p, _ := probe.Get(name)
		p.(*protocol.EnumeratedProperty).Selected = candidate

		probeStart := time.Now()
		ok := e.oracle.Accepts(ctx, probe)
		timings = append(timings, float64(time.Since(probeStart).Microseconds()))
		if ok {
			accepted = append(accepted, candidate)
		}
	}
	e.logProbeStats(name, len(enum.Candidates), timings, time.Since(start))
	return accepted, nil
}

// CanToggle probes the logical negation of a boolean property, a one-step
// degenerate search. If the negation is rejected, edits to the opposite
// value must be refused; the stored value stays readable either way.
func (e *Engine) CanToggle(ctx context.Context, live *protocol.Protocol, name string) (bool, error) {
	prop, err := live.Require(name)
	if err != nil {
		return false, err
	}
	b, ok := prop.(*protocol.BooleanProperty)
	if !ok {
		return false, core.NewKindMismatchError(name, "boolean", string(prop.Kind()))
	}

	probe := live.Copy()
	p, _ := probe.Get(name)
	p.(*protocol.BooleanProperty).Value = !b.Value
	return e.oracle.Accepts(ctx, probe), nil
}

func (e *Engine) logProbeStats(name string, probes int, timings []float64, elapsed time.Duration) {
	if probes == 0 || len(timings) == 0 {
		e.log.Debug().Str("property", name).Msg("discovery: degenerate span, no probes")
		return
	}
	mean, _ := stats.Mean(timings)
	max, _ := stats.Max(timings)
	e.log.Debug().
		Str("property", name).
		Int("probes", probes).
		Float64("probe_mean_us", mean).
		Float64("probe_max_us", max).
		Dur("elapsed", elapsed).
		Msg("discovery finished")
}
