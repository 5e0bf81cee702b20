package ports

import (
	"context"

	"github.com/fsantini/nimpulseqgui/domain/hardware"
	"github.com/fsantini/nimpulseqgui/domain/protocol"
)

// Oracle is the caller-supplied feasibility predicate. It must be pure,
// deterministic for identical input, side-effect free, and fast: discovery
// invokes it O(log2(range/increment)) times per parameter on the interactive
// path. A false result or an error both count as a rejection; faults are
// contained by the invocation wrapper, never here.
type Oracle interface {
	Feasible(ctx context.Context, hw hardware.Options, p *protocol.Protocol) (bool, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(ctx context.Context, hw hardware.Options, p *protocol.Protocol) (bool, error)

func (f OracleFunc) Feasible(ctx context.Context, hw hardware.Options, p *protocol.Protocol) (bool, error) {
	return f(ctx, hw, p)
}
