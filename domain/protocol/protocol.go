package protocol

import (
	"github.com/fsantini/nimpulseqgui/domain/core"
)

// Protocol is an ordered named collection of properties. Names are unique;
// adding under an existing name replaces the property but keeps its original
// position. Insertion order drives display and serialization order and
// survives Copy and load/save round-trips.
type Protocol struct {
	names []string
	props map[string]Property
}

func New() *Protocol {
	return &Protocol{props: make(map[string]Property)}
}

// Add inserts prop under name, or replaces the existing entry in place.
func (p *Protocol) Add(name string, prop Property) {
	if _, ok := p.props[name]; !ok {
		p.names = append(p.names, name)
	}
	p.props[name] = prop
}

// Get returns the property stored under name.
func (p *Protocol) Get(name string) (Property, bool) {
	prop, ok := p.props[name]
	return prop, ok
}

// Names returns the property names in insertion order. The slice is a copy.
func (p *Protocol) Names() []string {
	return append([]string(nil), p.names...)
}

func (p *Protocol) Len() int {
	return len(p.names)
}

// Copy returns a deep, independent duplicate: identical contents and order,
// with every property payload cloned by value. No mutation of the copy is
// observable on the source.
func (p *Protocol) Copy() *Protocol {
	dup := &Protocol{
		names: append([]string(nil), p.names...),
		props: make(map[string]Property, len(p.props)),
	}
	for name, prop := range p.props {
		dup.props[name] = prop.Clone()
	}
	return dup
}

// ApplyValues copies the payload of every property in src into the matching
// property of the receiver, field by field. The receiver keeps its identity
// and insertion order; names missing from src or stored under a different
// kind are left untouched. This is the single commit path through which an
// accepted probe or load result reaches a live protocol.
func (p *Protocol) ApplyValues(src *Protocol) {
	for _, name := range p.names {
		from, ok := src.props[name]
		if !ok {
			continue
		}
		switch dst := p.props[name].(type) {
		case *IntegerProperty:
			if v, ok := from.(*IntegerProperty); ok {
				dst.Value, dst.Min, dst.Max, dst.Step = v.Value, v.Min, v.Max, v.Step
				dst.Metadata = v.Metadata
			}
		case *RealProperty:
			if v, ok := from.(*RealProperty); ok {
				dst.Value, dst.Min, dst.Max, dst.Step = v.Value, v.Min, v.Max, v.Step
				dst.Metadata = v.Metadata
			}
		case *BooleanProperty:
			if v, ok := from.(*BooleanProperty); ok {
				dst.Value = v.Value
				dst.Metadata = v.Metadata
			}
		case *EnumeratedProperty:
			if v, ok := from.(*EnumeratedProperty); ok {
				dst.Selected = v.Selected
				dst.Candidates = append([]string(nil), v.Candidates...)
				dst.Metadata = v.Metadata
			}
		case *DescriptionProperty:
			if v, ok := from.(*DescriptionProperty); ok {
				dst.Text = v.Text
				dst.Metadata = v.Metadata
			}
		}
	}
}

// Require returns the property stored under name or a not-found error.
func (p *Protocol) Require(name string) (Property, error) {
	prop, ok := p.props[name]
	if !ok {
		return nil, core.NewPropertyNotFoundError(name)
	}
	return prop, nil
}
