package protocol

import (
	"reflect"
	"testing"
)

func sample() *Protocol {
	p := New()
	p.Add("TE", NewReal(5.0, 1.0, 100.0, 0.1).WithUnit("ms").WithSearch())
	p.Add("Averages", NewInteger(2, 1, 32, 1))
	p.Add("Spoiling", NewBoolean(true))
	p.Add("Variant", NewEnumerated("spoiled", []string{"spoiled", "balanced", "fid"}))
	p.Add("Notes", NewDescription("hello"))
	return p
}

func TestProtocol_OrderPreserved(t *testing.T) {
	p := sample()
	want := []string{"TE", "Averages", "Spoiling", "Variant", "Notes"}
	if got := p.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

func TestProtocol_AddOverwritesInPlace(t *testing.T) {
	p := sample()
	p.Add("Averages", NewInteger(4, 1, 64, 1))

	want := []string{"TE", "Averages", "Spoiling", "Variant", "Notes"}
	if got := p.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("overwrite changed order: %v", got)
	}
	prop, _ := p.Get("Averages")
	if prop.(*IntegerProperty).Value != 4 {
		t.Errorf("overwrite did not replace the property")
	}
}

func TestProtocol_CopyIsolation(t *testing.T) {
	p := sample()
	c := p.Copy()

	// Mutate every field of every property in the copy.
	te, _ := c.Get("TE")
	te.(*RealProperty).Value = 99.0
	te.(*RealProperty).Min = 0.0
	te.Meta().Changed = true
	av, _ := c.Get("Averages")
	av.(*IntegerProperty).Value = 31
	sp, _ := c.Get("Spoiling")
	sp.(*BooleanProperty).Value = false
	va, _ := c.Get("Variant")
	va.(*EnumeratedProperty).Selected = "fid"
	va.(*EnumeratedProperty).Candidates[0] = "mutated"
	no, _ := c.Get("Notes")
	no.(*DescriptionProperty).Text = "changed"

	orig, _ := p.Get("TE")
	if orig.(*RealProperty).Value != 5.0 || orig.(*RealProperty).Min != 1.0 || orig.Meta().Changed {
		t.Errorf("mutating copy leaked into source TE: %+v", orig)
	}
	if v, _ := p.Get("Averages"); v.(*IntegerProperty).Value != 2 {
		t.Errorf("mutating copy leaked into source Averages")
	}
	if v, _ := p.Get("Spoiling"); !v.(*BooleanProperty).Value {
		t.Errorf("mutating copy leaked into source Spoiling")
	}
	if v, _ := p.Get("Variant"); v.(*EnumeratedProperty).Selected != "spoiled" || v.(*EnumeratedProperty).Candidates[0] != "spoiled" {
		t.Errorf("mutating copy leaked into source Variant")
	}
	if v, _ := p.Get("Notes"); v.(*DescriptionProperty).Text != "hello" {
		t.Errorf("mutating copy leaked into source Notes")
	}
}

func TestProtocol_CopyKeepsOrder(t *testing.T) {
	p := sample()
	c := p.Copy()
	if !reflect.DeepEqual(p.Names(), c.Names()) {
		t.Fatalf("copy order %v != source order %v", c.Names(), p.Names())
	}
}

func TestProtocol_ApplyValuesKeepsIdentity(t *testing.T) {
	p := sample()
	before, _ := p.Get("TE")

	src := p.Copy()
	te, _ := src.Get("TE")
	te.(*RealProperty).Value = 2.5
	te.(*RealProperty).Min = 1.5
	va, _ := src.Get("Variant")
	va.(*EnumeratedProperty).Candidates = []string{"spoiled", "fid"}

	p.ApplyValues(src)

	after, _ := p.Get("TE")
	if before != after {
		t.Fatalf("ApplyValues replaced the property instance")
	}
	if after.(*RealProperty).Value != 2.5 || after.(*RealProperty).Min != 1.5 {
		t.Errorf("ApplyValues did not copy payload: %+v", after)
	}
	got, _ := p.Get("Variant")
	if !reflect.DeepEqual(got.(*EnumeratedProperty).Candidates, []string{"spoiled", "fid"}) {
		t.Errorf("ApplyValues did not copy candidate list")
	}

	// The applied candidate slice must not alias the source.
	va.(*EnumeratedProperty).Candidates[0] = "mutated"
	if got.(*EnumeratedProperty).Candidates[0] != "spoiled" {
		t.Errorf("ApplyValues aliased the source candidate slice")
	}
}

func TestProtocol_ApplyValuesSkipsKindMismatch(t *testing.T) {
	p := sample()
	src := New()
	src.Add("TE", NewBoolean(true))

	p.ApplyValues(src)
	if v, _ := p.Get("TE"); v.(*RealProperty).Value != 5.0 {
		t.Errorf("kind-mismatched apply should be a no-op")
	}
}
