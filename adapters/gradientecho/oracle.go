package gradientecho

import (
	"context"

	"github.com/fsantini/nimpulseqgui/domain/hardware"
	"github.com/fsantini/nimpulseqgui/domain/protocol"
)

// balancedMaxTRMs caps TR for the balanced variant; longer repetition times
// lose the steady state the variant depends on.
const balancedMaxTRMs = 10.0

// Oracle judges whether a parameter combination is achievable on the given
// hardware. It is pure and deterministic: the same protocol and limits
// always produce the same verdict.
type Oracle struct{}

func NewOracle() *Oracle {
	return &Oracle{}
}

func (o *Oracle) Feasible(_ context.Context, hw hardware.Options, p *protocol.Protocol) (bool, error) {
	pm := readParams(p)
	t := deriveTiming(pm, hw)

	if t.ReadAmplitude > hw.MaxGradient || t.SliceAmplitude > hw.MaxGradient {
		return false, nil
	}
	if pm.TE < t.MinTEMs {
		return false, nil
	}
	if pm.TR < t.MinTRMs {
		return false, nil
	}
	if pm.Variant == VariantBalanced {
		if pm.Spoiling || pm.TR > balancedMaxTRMs {
			return false, nil
		}
	}
	return true, nil
}
