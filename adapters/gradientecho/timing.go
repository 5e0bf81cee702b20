package gradientecho

import (
	"github.com/fsantini/nimpulseqgui/domain/hardware"
	"github.com/fsantini/nimpulseqgui/domain/protocol"
)

// gammaKHzPerMT is the proton gyromagnetic ratio expressed as kHz per mT.
const gammaKHzPerMT = 42.577

// rfBandwidthKHz is the excitation pulse bandwidth the model assumes.
const rfBandwidthKHz = 1.0

// rfDurationMs is the fixed excitation pulse duration.
const rfDurationMs = 1.0

// spoilerDurationMs is the gradient spoiler appended when spoiling is on.
const spoilerDurationMs = 1.0

// params is the subset of protocol values the timing model consumes. Fields
// keep their edit units: ms, mm, kHz, degrees.
type params struct {
	TE             float64
	TR             float64
	FlipAngle      float64
	SliceThickness float64
	FOV            float64
	MatrixSize     int64
	Bandwidth      float64
	Spoiling       bool
	Variant        string
}

// timing is the derived block layout of one repetition.
type timing struct {
	ReadAmplitude  float64 // mT/m
	SliceAmplitude float64 // mT/m
	ReadRampMs     float64
	ReadoutMs      float64
	PrephaserMs    float64
	MinTEMs        float64
	MinTRMs        float64
}

func readParams(p *protocol.Protocol) params {
	out := params{Variant: VariantSpoiled}
	if v, ok := realValue(p, PropTE); ok {
		out.TE = v
	}
	if v, ok := realValue(p, PropTR); ok {
		out.TR = v
	}
	if v, ok := realValue(p, PropFlipAngle); ok {
		out.FlipAngle = v
	}
	if v, ok := realValue(p, PropSliceThickness); ok {
		out.SliceThickness = v
	}
	if v, ok := realValue(p, PropFOV); ok {
		out.FOV = v
	}
	if prop, ok := p.Get(PropMatrixSize); ok {
		if ip, ok := prop.(*protocol.IntegerProperty); ok {
			out.MatrixSize = ip.Value
		}
	}
	if v, ok := realValue(p, PropBandwidth); ok {
		out.Bandwidth = v
	}
	if prop, ok := p.Get(PropSpoiling); ok {
		if bp, ok := prop.(*protocol.BooleanProperty); ok {
			out.Spoiling = bp.Value
		}
	}
	if prop, ok := p.Get(PropVariant); ok {
		if ep, ok := prop.(*protocol.EnumeratedProperty); ok {
			out.Variant = ep.Selected
		}
	}
	return out
}

func realValue(p *protocol.Protocol, name string) (float64, bool) {
	prop, ok := p.Get(name)
	if !ok {
		return 0, false
	}
	rp, ok := prop.(*protocol.RealProperty)
	if !ok {
		return 0, false
	}
	return rp.Value, true
}

// deriveTiming lays out one repetition against the hardware limits. Slew is
// given in T/m/s, which is numerically mT/m per ms.
func deriveTiming(pm params, hw hardware.Options) timing {
	var t timing

	// Frequency encoding: the readout gradient must span the full bandwidth
	// across the field of view.
	fovM := pm.FOV / 1000.0
	if fovM > 0 {
		t.ReadAmplitude = pm.Bandwidth / (gammaKHzPerMT * fovM)
	}
	if pm.Bandwidth > 0 {
		t.ReadoutMs = float64(pm.MatrixSize) / pm.Bandwidth
	}
	if hw.MaxSlew > 0 {
		t.ReadRampMs = t.ReadAmplitude / hw.MaxSlew
	}

	// Slice selection amplitude from the excitation bandwidth.
	thicknessM := pm.SliceThickness / 1000.0
	if thicknessM > 0 {
		t.SliceAmplitude = rfBandwidthKHz / (gammaKHzPerMT * thicknessM)
	}

	// Readout prephaser: half the readout area, played at the gradient limit.
	prephaserArea := t.ReadAmplitude * (t.ReadoutMs/2 + t.ReadRampMs/2)
	if hw.MaxGradient > 0 && hw.MaxSlew > 0 {
		t.PrephaserMs = prephaserArea/hw.MaxGradient + hw.MaxGradient/hw.MaxSlew
	}

	t.MinTEMs = rfDurationMs/2 + hw.RFRingdownTime + t.PrephaserMs + t.ReadRampMs + t.ReadoutMs/2
	t.MinTRMs = pm.TE + t.ReadoutMs/2 + t.ReadRampMs + hw.RFDeadTime
	if pm.Spoiling {
		t.MinTRMs += spoilerDurationMs
	}
	return t
}
