package protocol

// Kind identifies the payload variant of a Property.
type Kind string

const (
	KindInteger     Kind = "integer"
	KindReal        Kind = "real"
	KindBoolean     Kind = "boolean"
	KindEnumerated  Kind = "enumerated"
	KindDescription Kind = "description"
)

// SearchStrategy selects whether the discovery engine runs when a property is
// edited. Disabled properties are validated once per edit with no bound
// refinement.
type SearchStrategy string

const (
	SearchDisabled SearchStrategy = "disabled"
	SearchEnabled  SearchStrategy = "enabled"
)

// Metadata carries the fields every property variant shares. Unit is display
// text only and has no semantic effect. Changed is an advisory hint for the
// presentation layer.
type Metadata struct {
	Unit     string         `json:"unit,omitempty"`
	Strategy SearchStrategy `json:"strategy"`
	Changed  bool           `json:"changed"`
}

// Property is the closed variant over the five parameter kinds. The concrete
// types below are the only implementations; consumers match exhaustively with
// a type switch.
type Property interface {
	Kind() Kind
	Meta() *Metadata
	Clone() Property

	// sealed marks the variant set as closed to this package.
	sealed()
}

// IntegerProperty is a bounded integer parameter on the increment lattice
// anchored at Min. Invariant: Min <= Value <= Max.
type IntegerProperty struct {
	Value    int64 `json:"value"`
	Min      int64 `json:"min"`
	Max      int64 `json:"max"`
	Step     int64 `json:"step"`
	Metadata `json:"meta"`
}

// RealProperty is a bounded floating-point parameter. Invariant:
// Min <= Value <= Max. Values are expected to lie on the increment lattice
// anchored at Min; the editing and discovery paths maintain that, not the
// constructor.
type RealProperty struct {
	Value    float64 `json:"value"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Step     float64 `json:"step"`
	Metadata `json:"meta"`
}

// BooleanProperty is an on/off parameter.
type BooleanProperty struct {
	Value    bool `json:"value"`
	Metadata `json:"meta"`
}

// EnumeratedProperty is a selection from a fixed ordered candidate set.
// Membership of Selected in Candidates is enforced by validation, not by
// construction.
type EnumeratedProperty struct {
	Selected   string   `json:"selected"`
	Candidates []string `json:"candidates"`
	Metadata   `json:"meta"`
}

// DescriptionProperty is opaque display text. It has no validity semantics
// and is excluded from search and validation.
type DescriptionProperty struct {
	Text     string `json:"text"`
	Metadata `json:"meta"`
}

// Constructors. Search defaults to disabled; chain WithUnit/WithSearch to
// adjust the shared metadata.

func NewInteger(value, min, max, step int64) *IntegerProperty {
	return &IntegerProperty{Value: value, Min: min, Max: max, Step: step, Metadata: Metadata{Strategy: SearchDisabled}}
}

func NewReal(value, min, max, step float64) *RealProperty {
	return &RealProperty{Value: value, Min: min, Max: max, Step: step, Metadata: Metadata{Strategy: SearchDisabled}}
}

func NewBoolean(value bool) *BooleanProperty {
	return &BooleanProperty{Value: value, Metadata: Metadata{Strategy: SearchDisabled}}
}

func NewEnumerated(selected string, candidates []string) *EnumeratedProperty {
	return &EnumeratedProperty{
		Selected:   selected,
		Candidates: append([]string(nil), candidates...),
		Metadata:   Metadata{Strategy: SearchDisabled},
	}
}

func NewDescription(text string) *DescriptionProperty {
	return &DescriptionProperty{Text: text, Metadata: Metadata{Strategy: SearchDisabled}}
}

func (p *IntegerProperty) WithUnit(unit string) *IntegerProperty {
	p.Unit = unit
	return p
}

func (p *IntegerProperty) WithSearch() *IntegerProperty {
	p.Strategy = SearchEnabled
	return p
}

func (p *RealProperty) WithUnit(unit string) *RealProperty {
	p.Unit = unit
	return p
}

func (p *RealProperty) WithSearch() *RealProperty {
	p.Strategy = SearchEnabled
	return p
}

func (p *BooleanProperty) WithSearch() *BooleanProperty {
	p.Strategy = SearchEnabled
	return p
}

func (p *EnumeratedProperty) WithSearch() *EnumeratedProperty {
	p.Strategy = SearchEnabled
	return p
}

// Kind implementations

func (p *IntegerProperty) Kind() Kind     { return KindInteger }
func (p *RealProperty) Kind() Kind        { return KindReal }
func (p *BooleanProperty) Kind() Kind     { return KindBoolean }
func (p *EnumeratedProperty) Kind() Kind  { return KindEnumerated }
func (p *DescriptionProperty) Kind() Kind { return KindDescription }

func (p *IntegerProperty) Meta() *Metadata     { return &p.Metadata }
func (p *RealProperty) Meta() *Metadata        { return &p.Metadata }
func (p *BooleanProperty) Meta() *Metadata     { return &p.Metadata }
func (p *EnumeratedProperty) Meta() *Metadata  { return &p.Metadata }
func (p *DescriptionProperty) Meta() *Metadata { return &p.Metadata }

// Clone returns an independent duplicate of the property. Every payload
// field is copied by value so a probe mutating the clone can never alias the
// source.

func (p *IntegerProperty) Clone() Property {
	dup := *p
	return &dup
}

func (p *RealProperty) Clone() Property {
	dup := *p
	return &dup
}

func (p *BooleanProperty) Clone() Property {
	dup := *p
	return &dup
}

func (p *EnumeratedProperty) Clone() Property {
	dup := *p
	dup.Candidates = append([]string(nil), p.Candidates...)
	return &dup
}

func (p *DescriptionProperty) Clone() Property {
	dup := *p
	return &dup
}

func (p *IntegerProperty) sealed()     {}
func (p *RealProperty) sealed()        {}
func (p *BooleanProperty) sealed()     {}
func (p *EnumeratedProperty) sealed()  {}
func (p *DescriptionProperty) sealed() {}

// HasCandidate reports whether value is a member of the candidate set.
func (p *EnumeratedProperty) HasCandidate(value string) bool {
	for _, c := range p.Candidates {
		if c == value {
			return true
		}
	}
	return false
}
