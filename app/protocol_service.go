package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fsantini/nimpulseqgui/domain/core"
	"github.com/fsantini/nimpulseqgui/domain/protocol"
	"github.com/fsantini/nimpulseqgui/internal/discovery"
	"github.com/fsantini/nimpulseqgui/internal/oracle"
	"github.com/fsantini/nimpulseqgui/internal/preamble"
	"github.com/fsantini/nimpulseqgui/ports"
)

// ProtocolService orchestrates the edit session around one live protocol:
// validate the defaults once, route edits through isolated probes, trigger
// discovery for search-enabled properties, and drive save/load. The live
// protocol is only ever mutated through its ApplyValues commit path.
type ProtocolService struct {
	live    *protocol.Protocol
	oracle  *oracle.Wrapper
	engine  *discovery.Engine
	builder ports.SequenceBuilder
	repo    ports.ProtocolRepository
	log     zerolog.Logger
}

// NewProtocolService creates an edit session over live. repo may be nil when
// snapshot persistence is not configured.
func NewProtocolService(live *protocol.Protocol, w *oracle.Wrapper, builder ports.SequenceBuilder, repo ports.ProtocolRepository, log zerolog.Logger) *ProtocolService {
	return &ProtocolService{
		live:    live,
		oracle:  w,
		engine:  discovery.NewEngine(w, log),
		builder: builder,
		repo:    repo,
		log:     log,
	}
}

// Protocol exposes the live collection for read-only presentation.
func (s *ProtocolService) Protocol() *protocol.Protocol {
	return s.live
}

// ValidateCurrent checks the live protocol once against the oracle. It is
// called at session start so that discovery can assume the current values
// are an accepted anchor.
func (s *ProtocolService) ValidateCurrent(ctx context.Context) error {
	if !s.oracle.Accepts(ctx, s.live.Copy()) {
		return fmt.Errorf("%w: default protocol", core.ErrValidationFailed)
	}
	return nil
}

// SetValue parses raw according to the property's kind and commits it if the
// oracle accepts the tentative edit. For search-enabled numeric properties
// the discovery engine then refines the editable bounds around the new
// value; for search-enabled enumerated properties the candidate set is
// re-filtered. The live protocol is unchanged on any rejection.
func (s *ProtocolService) SetValue(ctx context.Context, name, raw string) error {
	liveProp, err := s.live.Require(name)
	if err != nil {
		return err
	}

	// Booleans with search enabled only ever probe the negation; a rejected
	// negation refuses the toggle outright.
	if b, ok := liveProp.(*protocol.BooleanProperty); ok && b.Strategy == protocol.SearchEnabled {
		want, perr := parseBoolToken(raw)
		if perr != nil {
			return core.NewParseError(name, raw, perr)
		}
		if want == b.Value {
			return nil
		}
		allowed, terr := s.engine.CanToggle(ctx, s.live, name)
		if terr != nil {
			return terr
		}
		if !allowed {
			return fmt.Errorf("%w: %q", core.ErrToggleRefused, name)
		}
		probe := s.live.Copy()
		probeProp, _ := probe.Get(name)
		probeProp.(*protocol.BooleanProperty).Value = want
		probeProp.Meta().Changed = true
		s.live.ApplyValues(probe)
		return nil
	}

	probe := s.live.Copy()
	probeProp, _ := probe.Get(name)
	if err := setFromString(name, probeProp, raw); err != nil {
		return err
	}
	if !s.oracle.Accepts(ctx, probe) {
		return fmt.Errorf("%w: %s = %s", core.ErrValidationFailed, name, raw)
	}
	probeProp.Meta().Changed = true
	s.live.ApplyValues(probe)

	if liveProp.Meta().Strategy == protocol.SearchEnabled {
		return s.refine(ctx, name, liveProp)
	}
	return nil
}

// Search runs discovery for a search-enabled property anchored at its
// current (already accepted) value and commits the refined bounds or
// candidate set into the live protocol.
func (s *ProtocolService) Search(ctx context.Context, name string) error {
	prop, err := s.live.Require(name)
	if err != nil {
		return err
	}
	if prop.Meta().Strategy != protocol.SearchEnabled {
		return fmt.Errorf("%w: search disabled for %q", core.ErrNotSearchable, name)
	}
	return s.refine(ctx, name, prop)
}

func (s *ProtocolService) refine(ctx context.Context, name string, prop protocol.Property) error {
	switch p := prop.(type) {
	case *protocol.IntegerProperty:
		res, err := s.engine.DiscoverRange(ctx, s.live, name)
		if err != nil {
			return err
		}
		p.Min = int64(res.Min)
		p.Max = int64(res.Max)
		s.log.Info().Str("property", name).Int64("min", p.Min).Int64("max", p.Max).Int("probes", res.Probes).Msg("range refined")
	case *protocol.RealProperty:
		res, err := s.engine.DiscoverRange(ctx, s.live, name)
		if err != nil {
			return err
		}
		p.Min = res.Min
		p.Max = res.Max
		s.log.Info().Str("property", name).Float64("min", p.Min).Float64("max", p.Max).Int("probes", res.Probes).Msg("range refined")
	case *protocol.EnumeratedProperty:
		accepted, err := s.engine.FilterCandidates(ctx, s.live, name)
		if err != nil {
			return err
		}
		p.Candidates = accepted
		s.log.Info().Str("property", name).Strs("candidates", accepted).Msg("candidates filtered")
	case *protocol.BooleanProperty:
		// Nothing to refine ahead of time; the negation is probed on edit.
	default:
		return fmt.Errorf("%w: %q", core.ErrNotSearchable, name)
	}
	return nil
}

// EncodePreamble serializes the live protocol to its persisted block.
func (s *ProtocolService) EncodePreamble() string {
	return preamble.Encode(s.live)
}

// LoadArtifact deserializes a host artifact into the live protocol with the
// full isolation sequence; the live protocol is untouched unless the parsed
// candidate passes wholesale validation.
func (s *ProtocolService) LoadArtifact(ctx context.Context, host io.Reader) ([]preamble.Warning, error) {
	warnings, err := preamble.Load(ctx, host, s.live, s.oracle)
	for _, w := range warnings {
		s.log.Warn().Str("code", string(w.Code)).Str("field", w.Field).Msg(w.Detail)
	}
	return warnings, err
}

// BuildSequence invokes the external builder once, after re-validating the
// live protocol. A builder failure is reported as a build error; no output
// has been written at that point.
func (s *ProtocolService) BuildSequence(ctx context.Context) (*ports.Sequence, error) {
	if err := s.ValidateCurrent(ctx); err != nil {
		return nil, err
	}
	seq, err := s.builder.Build(ctx, s.oracle.Hardware(), s.live.Copy())
	if err != nil {
		return nil, core.NewBuildError(err)
	}
	return seq, nil
}

// SaveSnapshot persists the current preamble text under name.
func (s *ProtocolService) SaveSnapshot(ctx context.Context, name string) error {
	if s.repo == nil {
		return fmt.Errorf("no snapshot store configured")
	}
	return s.repo.Save(ctx, ports.ProtocolSnapshot{
		ID:       uuid.New(),
		Name:     name,
		Device:   s.oracle.Hardware().DeviceName,
		Preamble: s.EncodePreamble(),
		SavedAt:  time.Now().UTC(),
	})
}

// RestoreSnapshot loads the most recent snapshot saved under name into the
// live protocol, with the same isolation semantics as LoadArtifact.
func (s *ProtocolService) RestoreSnapshot(ctx context.Context, name string) ([]preamble.Warning, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("no snapshot store configured")
	}
	snap, err := s.repo.Latest(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.LoadArtifact(ctx, strings.NewReader(snap.Preamble))
}

func setFromString(name string, prop protocol.Property, raw string) error {
	switch p := prop.(type) {
	case *protocol.IntegerProperty:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return core.NewParseError(name, raw, err)
		}
		p.Value = v
	case *protocol.RealProperty:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return core.NewParseError(name, raw, err)
		}
		p.Value = v
	case *protocol.BooleanProperty:
		v, err := parseBoolToken(raw)
		if err != nil {
			return core.NewParseError(name, raw, err)
		}
		p.Value = v
	case *protocol.EnumeratedProperty:
		if !p.HasCandidate(raw) {
			return fmt.Errorf("%w: %q is not a candidate of %q", core.ErrValidationFailed, raw, name)
		}
		p.Selected = raw
	case *protocol.DescriptionProperty:
		p.Text = raw
	}
	return nil
}

func parseBoolToken(raw string) (bool, error) {
	switch raw {
	case "True", "true":
		return true, nil
	case "False", "false":
		return false, nil
	}
	return strconv.ParseBool(raw)
}
