// Package oracle wraps every call into the caller-supplied feasibility
// predicate. The wrapper is the sole fault-containment boundary between
// caller logic and the rest of the core: a predicate that errors or panics
// is logged and downgraded to a rejection, never propagated.
package oracle

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fsantini/nimpulseqgui/domain/hardware"
	"github.com/fsantini/nimpulseqgui/domain/protocol"
	"github.com/fsantini/nimpulseqgui/ports"
)

// Wrapper binds an oracle to a fixed hardware option record and contains its
// faults.
type Wrapper struct {
	oracle ports.Oracle
	hw     hardware.Options
	log    zerolog.Logger
	calls  int
}

func NewWrapper(o ports.Oracle, hw hardware.Options, log zerolog.Logger) *Wrapper {
	return &Wrapper{oracle: o, hw: hw, log: log}
}

// Accepts evaluates the predicate against p. It returns false on rejection,
// on predicate error, and on predicate panic; only the last two log a
// diagnostic.
func (w *Wrapper) Accepts(ctx context.Context, p *protocol.Protocol) (accepted bool) {
	w.calls++
	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Interface("panic", r).Msg("oracle fault: predicate panicked, treating as rejected")
			accepted = false
		}
	}()

	ok, err := w.oracle.Feasible(ctx, w.hw, p)
	if err != nil {
		w.log.Warn().Err(err).Msg("oracle fault: predicate returned error, treating as rejected")
		return false
	}
	return ok
}

// Calls returns the number of evaluations routed through the wrapper.
func (w *Wrapper) Calls() int {
	return w.calls
}

// Hardware returns the option record the wrapper passes through to the
// predicate.
func (w *Wrapper) Hardware() hardware.Options {
	return w.hw
}
