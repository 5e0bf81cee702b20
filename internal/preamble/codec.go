// Package preamble serializes a protocol into, and recovers it from, the
// delimited text block embedded inside a host sequence artifact.
package preamble

import (
	"strconv"
	"strings"

	"github.com/fsantini/nimpulseqgui/domain/protocol"
)

const (
	// StartMarker and EndMarker delimit the persisted block inside the host
	// artifact.
	StartMarker = "[NimPulseqGUI Protocol]"
	EndMarker   = "[NimPulseqGUI Protocol End]"

	// versionMarker always precedes the block in a host artifact; hitting it
	// before the end marker means the block is absent.
	versionMarker = "[VERSION]"

	// commentMarker may prefix every persisted line once; it is stripped
	// before interpretation.
	commentMarker = "#"
)

// Encode renders p as the delimited preamble block, one "name: value" line
// per property in collection order.
func Encode(p *protocol.Protocol) string {
	var b strings.Builder
	b.WriteString(StartMarker)
	b.WriteByte('\n')
	for _, name := range p.Names() {
		prop, _ := p.Get(name)
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(FormatValue(prop))
		b.WriteByte('\n')
	}
	b.WriteString(EndMarker)
	b.WriteByte('\n')
	return b.String()
}

// FormatValue renders a property's current value in its persisted encoding.
// Numeric precision follows the edit increment rather than full floating
// precision, so the persisted text matches edit granularity.
func FormatValue(prop protocol.Property) string {
	switch p := prop.(type) {
	case *protocol.IntegerProperty:
		return strconv.FormatInt(p.Value, 10)
	case *protocol.RealProperty:
		return strconv.FormatFloat(p.Value, 'f', decimalsFor(p.Step), 64)
	case *protocol.BooleanProperty:
		if p.Value {
			return "True"
		}
		return "False"
	case *protocol.EnumeratedProperty:
		return p.Selected
	case *protocol.DescriptionProperty:
		return escapeText(p.Text)
	}
	return ""
}

// decimalsFor derives the persisted precision from the edit increment.
func decimalsFor(step float64) int {
	switch {
	case step < 0.01:
		return 3
	case step < 0.1:
		return 2
	default:
		return 1
	}
}

func escapeText(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}

func unescapeText(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
