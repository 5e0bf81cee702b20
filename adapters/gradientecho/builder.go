package gradientecho

import (
	"bytes"
	"context"
	"fmt"

	"gonum.org/v1/gonum/integrate"

	"github.com/fsantini/nimpulseqgui/domain/hardware"
	"github.com/fsantini/nimpulseqgui/domain/protocol"
	"github.com/fsantini/nimpulseqgui/ports"
)

// Builder renders a validated protocol into a pulseq-style sequence body.
// Validation has already happened by the time Build runs; the builder still
// refuses layouts it cannot render and reports that as an error.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Build(_ context.Context, hw hardware.Options, p *protocol.Protocol) (*ports.Sequence, error) {
	pm := readParams(p)
	t := deriveTiming(pm, hw)

	if pm.MatrixSize <= 0 || pm.Bandwidth <= 0 {
		return nil, fmt.Errorf("cannot lay out readout: matrix %d, bandwidth %.1f kHz", pm.MatrixSize, pm.Bandwidth)
	}
	if pm.TE < t.MinTEMs || pm.TR < t.MinTRMs {
		return nil, fmt.Errorf("timing no longer fits: TE %.2f < %.2f or TR %.2f < %.2f ms", pm.TE, t.MinTEMs, pm.TR, t.MinTRMs)
	}

	// Net zeroth moment of prephaser plus first half of the readout; the
	// echo forms where it crosses zero, so the residual should be negligible.
	times, amps := readoutWaveform(t)
	halfArea := integrate.Trapezoidal(times, amps)
	residual := halfArea - t.ReadAmplitude*(t.ReadoutMs/2+t.ReadRampMs/2)

	var out bytes.Buffer
	fmt.Fprintf(&out, "[VERSION]\nmajor 1\nminor 4\nrevision 0\n\n")
	fmt.Fprintf(&out, "[DEFINITIONS]\n")
	fmt.Fprintf(&out, "Name gre_%s\n", pm.Variant)
	fmt.Fprintf(&out, "FOV %.3f %.3f %.3f\n", pm.FOV/1000, pm.FOV/1000, pm.SliceThickness/1000)
	fmt.Fprintf(&out, "TE %.5f\n", pm.TE/1000)
	fmt.Fprintf(&out, "TR %.5f\n", pm.TR/1000)
	fmt.Fprintf(&out, "ReadoutGradient %.4f mT/m\n", t.ReadAmplitude)
	fmt.Fprintf(&out, "SliceGradient %.4f mT/m\n", t.SliceAmplitude)
	fmt.Fprintf(&out, "EchoResidualMoment %.6f\n", residual)
	fmt.Fprintf(&out, "\n[BLOCKS]\n")

	blocks := 0
	for line := int64(0); line < pm.MatrixSize; line++ {
		// rf, slice select, phase encode + prephase, readout, spoiler
		fmt.Fprintf(&out, "%d rf ss pe%d ro", blocks+1, line)
		if pm.Spoiling {
			out.WriteString(" sp")
		}
		out.WriteByte('\n')
		blocks++
	}

	return &ports.Sequence{
		Body:     out.Bytes(),
		Duration: pm.TR * float64(pm.MatrixSize),
		Blocks:   blocks,
	}, nil
}

// readoutWaveform samples the prephaser and first readout half as a
// piecewise-linear gradient over time, for moment integration.
func readoutWaveform(t timing) (times, amps []float64) {
	ramp := t.ReadRampMs
	pre := t.PrephaserMs
	times = []float64{
		0,
		ramp,
		pre - ramp,
		pre,
		pre + ramp,
		pre + ramp + t.ReadoutMs/2,
	}
	amps = []float64{
		0,
		-t.ReadAmplitude,
		-t.ReadAmplitude,
		0,
		t.ReadAmplitude,
		t.ReadAmplitude,
	}
	return times, amps
}
