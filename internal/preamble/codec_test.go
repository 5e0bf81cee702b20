package preamble_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fsantini/nimpulseqgui/domain/core"
	"github.com/fsantini/nimpulseqgui/domain/protocol"
	"github.com/fsantini/nimpulseqgui/internal/preamble"
	"github.com/fsantini/nimpulseqgui/internal/testkit"
)

func TestEncode_Format(t *testing.T) {
	p := testkit.MixedProtocol()
	got := preamble.Encode(p)

	want := "[NimPulseqGUI Protocol]\n" +
		"TE: 5.0\n" +
		"Averages: 2\n" +
		"Spoiling: True\n" +
		"Variant: spoiled\n" +
		`Notes: two\nlines` + "\n" +
		"[NimPulseqGUI Protocol End]\n"
	if got != want {
		t.Errorf("encoded block:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncode_PrecisionFollowsIncrement(t *testing.T) {
	cases := []struct {
		step float64
		want string
	}{
		{0.001, "5.000"},
		{0.05, "5.00"},
		{0.1, "5.0"},
		{1.0, "5.0"},
	}
	for _, tc := range cases {
		p := protocol.New()
		p.Add("X", protocol.NewReal(5.0, 0.0, 10.0, tc.step))
		block := preamble.Encode(p)
		if !strings.Contains(block, "X: "+tc.want+"\n") {
			t.Errorf("step %v: block %q does not contain %q", tc.step, block, tc.want)
		}
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	src := testkit.MixedProtocol()
	te, _ := src.Get("TE")
	te.(*protocol.RealProperty).Value = 2.5
	av, _ := src.Get("Averages")
	av.(*protocol.IntegerProperty).Value = 8
	sp, _ := src.Get("Spoiling")
	sp.(*protocol.BooleanProperty).Value = false
	va, _ := src.Get("Variant")
	va.(*protocol.EnumeratedProperty).Selected = "fid"

	block := preamble.Encode(src)

	target := testkit.MixedProtocol()
	warnings, err := preamble.Load(context.Background(), strings.NewReader(block), target, testkit.Wrap(&testkit.AcceptAllOracle{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	if v, _ := target.Get("TE"); v.(*protocol.RealProperty).Value != 2.5 {
		t.Errorf("TE = %v, want 2.5", v.(*protocol.RealProperty).Value)
	}
	if v, _ := target.Get("Averages"); v.(*protocol.IntegerProperty).Value != 8 {
		t.Errorf("Averages not restored")
	}
	if v, _ := target.Get("Spoiling"); v.(*protocol.BooleanProperty).Value {
		t.Errorf("Spoiling not restored")
	}
	if v, _ := target.Get("Variant"); v.(*protocol.EnumeratedProperty).Selected != "fid" {
		t.Errorf("Variant not restored")
	}
	if v, _ := target.Get("Notes"); v.(*protocol.DescriptionProperty).Text != "two\nlines" {
		t.Errorf("description newline escape did not round-trip: %q", v.(*protocol.DescriptionProperty).Text)
	}
}

func TestLoad_CommentPrefixedLines(t *testing.T) {
	host := "# [NimPulseqGUI Protocol]\n" +
		"# TE: 3.2\n" +
		"# [NimPulseqGUI Protocol End]\n" +
		"[VERSION]\nmajor 1\n"

	target := testkit.TEProtocol()
	warnings, err := preamble.Load(context.Background(), strings.NewReader(host), target, testkit.Wrap(&testkit.AcceptAllOracle{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if v, _ := target.Get("TE"); v.(*protocol.RealProperty).Value != 3.2 {
		t.Errorf("comment-prefixed line not applied")
	}
}

func TestLoad_UnknownFieldWarnsOnce(t *testing.T) {
	host := "[NimPulseqGUI Protocol]\n" +
		"TE: 3.0\n" +
		"Bogus: 7\n" +
		"[NimPulseqGUI Protocol End]\n"

	target := testkit.TEProtocol()
	warnings, err := preamble.Load(context.Background(), strings.NewReader(host), target, testkit.Wrap(&testkit.AcceptAllOracle{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 || warnings[0].Code != preamble.WarnUnknownField {
		t.Fatalf("warnings = %v, want exactly one unknown-field warning", warnings)
	}
	if v, _ := target.Get("TE"); v.(*protocol.RealProperty).Value != 3.0 {
		t.Errorf("recognized field not applied alongside the warning")
	}
}

func TestLoad_OutOfListValueSkipped(t *testing.T) {
	host := "[NimPulseqGUI Protocol]\n" +
		"Variant: turbo\n" +
		"[NimPulseqGUI Protocol End]\n"

	target := testkit.MixedProtocol()
	warnings, err := preamble.Load(context.Background(), strings.NewReader(host), target, testkit.Wrap(&testkit.AcceptAllOracle{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 || warnings[0].Code != preamble.WarnOutOfList {
		t.Fatalf("warnings = %v, want exactly one out-of-list warning", warnings)
	}
	if v, _ := target.Get("Variant"); v.(*protocol.EnumeratedProperty).Selected != "spoiled" {
		t.Errorf("out-of-list value must leave the selection unchanged")
	}
}

func TestLoad_MalformedTokenAbortsWholeLoad(t *testing.T) {
	host := "[NimPulseqGUI Protocol]\n" +
		"TE: not-a-number\n" +
		"[NimPulseqGUI Protocol End]\n"

	target := testkit.TEProtocol()
	_, err := preamble.Load(context.Background(), strings.NewReader(host), target, testkit.Wrap(&testkit.AcceptAllOracle{}))
	if !core.IsParseFailure(err) {
		t.Fatalf("err = %v, want parse failure", err)
	}
	if v, _ := target.Get("TE"); v.(*protocol.RealProperty).Value != 5.0 {
		t.Errorf("aborted load must leave the live protocol unmodified")
	}
}

func TestLoad_RejectedLoadIsNoOp(t *testing.T) {
	host := "[NimPulseqGUI Protocol]\n" +
		"TE: 3.0\n" +
		"[NimPulseqGUI Protocol End]\n"

	target := testkit.TEProtocol()
	warnings, err := preamble.Load(context.Background(), strings.NewReader(host), target, testkit.Wrap(&testkit.RejectAllOracle{}))
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, w := range warnings {
		if w.Code == preamble.WarnRejectedLoad {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want a rejected-load warning", warnings)
	}
	if v, _ := target.Get("TE"); v.(*protocol.RealProperty).Value != 5.0 {
		t.Errorf("rejected load must leave the live protocol unmodified")
	}
}

func TestLoad_MissingBlockWarns(t *testing.T) {
	target := testkit.TEProtocol()
	warnings, err := preamble.Load(context.Background(), strings.NewReader("just some text\n"), target, testkit.Wrap(&testkit.AcceptAllOracle{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 || warnings[0].Code != preamble.WarnNoPreamble {
		t.Fatalf("warnings = %v, want exactly one no-preamble warning", warnings)
	}
}

func TestLoad_VersionMarkerEndsScan(t *testing.T) {
	// The block sits past the version section, so it must not be read.
	host := "[VERSION]\n" +
		"[NimPulseqGUI Protocol]\n" +
		"TE: 3.0\n" +
		"[NimPulseqGUI Protocol End]\n"

	target := testkit.TEProtocol()
	warnings, err := preamble.Load(context.Background(), strings.NewReader(host), target, testkit.Wrap(&testkit.AcceptAllOracle{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 || warnings[0].Code != preamble.WarnNoPreamble {
		t.Fatalf("warnings = %v, want the block treated as absent", warnings)
	}
	if v, _ := target.Get("TE"); v.(*protocol.RealProperty).Value != 5.0 {
		t.Errorf("values past the version marker must not be applied")
	}
}

func TestLoad_UnterminatedBlockTreatedAsAbsent(t *testing.T) {
	host := "[NimPulseqGUI Protocol]\n" +
		"TE: 3.0\n" +
		"[VERSION]\n"

	target := testkit.TEProtocol()
	warnings, err := preamble.Load(context.Background(), strings.NewReader(host), target, testkit.Wrap(&testkit.AcceptAllOracle{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 || warnings[0].Code != preamble.WarnNoPreamble {
		t.Fatalf("warnings = %v, want the unterminated block treated as absent", warnings)
	}
	if v, _ := target.Get("TE"); v.(*protocol.RealProperty).Value != 5.0 {
		t.Errorf("partial block must not be applied")
	}
}

func TestLoad_MalformedLineWarns(t *testing.T) {
	host := "[NimPulseqGUI Protocol]\n" +
		"no separator here\n" +
		"TE: 3.0\n" +
		"[NimPulseqGUI Protocol End]\n"

	target := testkit.TEProtocol()
	warnings, err := preamble.Load(context.Background(), strings.NewReader(host), target, testkit.Wrap(&testkit.AcceptAllOracle{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 || warnings[0].Code != preamble.WarnMalformedLine {
		t.Fatalf("warnings = %v, want one malformed-line warning", warnings)
	}
	if v, _ := target.Get("TE"); v.(*protocol.RealProperty).Value != 3.0 {
		t.Errorf("well-formed lines must still apply")
	}
}
