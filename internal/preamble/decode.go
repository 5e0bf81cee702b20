package preamble

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fsantini/nimpulseqgui/domain/core"
	"github.com/fsantini/nimpulseqgui/domain/protocol"
	"github.com/fsantini/nimpulseqgui/internal/oracle"
)

// ParseResult holds the outcome of scanning a host artifact for a preamble
// block. Candidate is a deep copy of the target with the parsed values
// applied; it is nil when no block was found.
type ParseResult struct {
	Candidate *protocol.Protocol
	Warnings  []Warning
}

// Parse scans host for the preamble block and applies every recognized value
// to an isolated copy of target. The target itself is never modified.
//
// Tolerated findings (unknown names, enumerated values outside the candidate
// set, lines without a separator) are skipped and recorded as warnings. A
// malformed numeric or boolean token for a recognized field is a hard parse
// failure for the whole load. A [VERSION] line before the end marker means
// the block is absent.
func Parse(host io.Reader, target *protocol.Protocol) (*ParseResult, error) {
	res := &ParseResult{}
	candidate := target.Copy()

	inBlock := false
	found := false
	scanner := bufio.NewScanner(host)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, commentMarker) {
			line = strings.TrimSpace(strings.TrimPrefix(line, commentMarker))
		}

		if !inBlock {
			switch line {
			case StartMarker:
				inBlock = true
			case versionMarker:
				// The version section always follows the preamble slot; the
				// block cannot appear past this point.
				res.Warnings = append(res.Warnings, Warning{Code: WarnNoPreamble, Detail: "version marker reached before protocol block"})
				return res, nil
			}
			continue
		}

		if line == EndMarker {
			found = true
			break
		}
		if line == versionMarker {
			// Unterminated block; treat it as absent rather than trusting a
			// partial read.
			res.Warnings = append(res.Warnings, Warning{Code: WarnNoPreamble, Detail: "version marker reached before end marker"})
			return res, nil
		}

		if err := applyLine(candidate, line, res); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan host artifact: %w", err)
	}

	if !found {
		res.Warnings = append(res.Warnings, Warning{Code: WarnNoPreamble, Detail: "no protocol block found in artifact"})
		return res, nil
	}

	res.Candidate = candidate
	return res, nil
}

func applyLine(candidate *protocol.Protocol, line string, res *ParseResult) error {
	if line == "" {
		return nil
	}
	sep := strings.Index(line, ": ")
	if sep < 0 {
		res.Warnings = append(res.Warnings, Warning{Code: WarnMalformedLine, Detail: line})
		return nil
	}
	name := line[:sep]
	value := strings.TrimSpace(line[sep+2:])

	prop, ok := candidate.Get(name)
	if !ok {
		res.Warnings = append(res.Warnings, Warning{Code: WarnUnknownField, Field: name, Detail: "not present in target protocol"})
		return nil
	}

	switch p := prop.(type) {
	case *protocol.IntegerProperty:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return core.NewParseError(name, value, err)
		}
		p.Value = v
	case *protocol.RealProperty:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return core.NewParseError(name, value, err)
		}
		p.Value = v
	case *protocol.BooleanProperty:
		switch value {
		case "True":
			p.Value = true
		case "False":
			p.Value = false
		default:
			return core.NewParseError(name, value, nil)
		}
	case *protocol.EnumeratedProperty:
		if !p.HasCandidate(value) {
			res.Warnings = append(res.Warnings, Warning{Code: WarnOutOfList, Field: name, Detail: value})
			return nil
		}
		p.Selected = value
	case *protocol.DescriptionProperty:
		p.Text = unescapeText(value)
	}
	prop.Meta().Changed = true
	return nil
}

// Load runs the full deserialization sequence against a live protocol: parse
// into an isolated candidate, validate the candidate wholesale through the
// oracle wrapper, and only then commit its values field by field into live.
// On parse failure or wholesale rejection the live protocol is left
// completely unmodified.
func Load(ctx context.Context, host io.Reader, live *protocol.Protocol, w *oracle.Wrapper) ([]Warning, error) {
	res, err := Parse(host, live)
	if err != nil {
		return nil, err
	}
	if res.Candidate == nil {
		return res.Warnings, nil
	}
	if !w.Accepts(ctx, res.Candidate) {
		res.Warnings = append(res.Warnings, Warning{Code: WarnRejectedLoad, Detail: "oracle rejected the loaded parameter set; keeping previous values"})
		return res.Warnings, nil
	}
	live.ApplyValues(res.Candidate)
	return res.Warnings, nil
}
