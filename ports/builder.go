package ports

import (
	"context"

	"github.com/fsantini/nimpulseqgui/domain/hardware"
	"github.com/fsantini/nimpulseqgui/domain/protocol"
)

// Sequence is the artifact produced by a builder from a validated protocol.
type Sequence struct {
	Body     []byte  // host artifact text, without the protocol preamble
	Duration float64 // total sequence duration in ms
	Blocks   int
}

// SequenceBuilder constructs the output artifact from a protocol that has
// already passed validation. It is invoked once on commit. A build failure
// must be reported to the caller without corrupting any already-written
// output; the artifact writer enforces that.
type SequenceBuilder interface {
	Build(ctx context.Context, hw hardware.Options, p *protocol.Protocol) (*Sequence, error)
}
