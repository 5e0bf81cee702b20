// Package gradientecho implements the feasibility oracle and sequence
// builder for a spoiled/balanced gradient-echo sequence against a hardware
// limit record. It is the reference implementation the CLI and HTTP surface
// run against; the core never depends on it.
package gradientecho

import (
	"github.com/fsantini/nimpulseqgui/domain/protocol"
)

// Property names the gradient-echo model reads from a protocol. Properties
// it does not know are ignored.
const (
	PropTE             = "TE"
	PropTR             = "TR"
	PropFlipAngle      = "FlipAngle"
	PropSliceThickness = "SliceThickness"
	PropFOV            = "FOV"
	PropMatrixSize     = "MatrixSize"
	PropBandwidth      = "Bandwidth"
	PropSpoiling       = "Spoiling"
	PropVariant        = "Variant"
	PropNotes          = "Notes"
)

// Sequence variants offered by the builder.
const (
	VariantSpoiled  = "spoiled"
	VariantBalanced = "balanced"
	VariantFID      = "fid"
)

// DefaultProtocol returns the editable parameter set for a gradient-echo
// session. The defaults are feasible on the built-in hardware limits.
func DefaultProtocol() *protocol.Protocol {
	p := protocol.New()
	p.Add(PropTE, protocol.NewReal(5.0, 1.0, 100.0, 0.1).WithUnit("ms").WithSearch())
	p.Add(PropTR, protocol.NewReal(20.0, 5.0, 5000.0, 0.1).WithUnit("ms").WithSearch())
	p.Add(PropFlipAngle, protocol.NewReal(15.0, 1.0, 90.0, 1.0).WithUnit("deg"))
	p.Add(PropSliceThickness, protocol.NewReal(5.0, 0.5, 10.0, 0.5).WithUnit("mm").WithSearch())
	p.Add(PropFOV, protocol.NewReal(250.0, 100.0, 400.0, 10.0).WithUnit("mm"))
	p.Add(PropMatrixSize, protocol.NewInteger(128, 16, 512, 16).WithSearch())
	p.Add(PropBandwidth, protocol.NewReal(50.0, 10.0, 100.0, 5.0).WithUnit("kHz").WithSearch())
	p.Add(PropSpoiling, protocol.NewBoolean(true).WithSearch())
	p.Add(PropVariant, protocol.NewEnumerated(VariantSpoiled, []string{VariantSpoiled, VariantBalanced, VariantFID}).WithSearch())
	p.Add(PropNotes, protocol.NewDescription("Gradient echo demo protocol"))
	return p
}
