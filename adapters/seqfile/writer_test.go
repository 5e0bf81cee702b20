package seqfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsantini/nimpulseqgui/domain/protocol"
	"github.com/fsantini/nimpulseqgui/internal/preamble"
	"github.com/fsantini/nimpulseqgui/ports"
)

func TestWrite_EmbedsLoadablePreamble(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.seq")

	p := protocol.New()
	p.Add("TE", protocol.NewReal(3.2, 1.0, 100.0, 0.1))
	seq := &ports.Sequence{Body: []byte("[VERSION]\nmajor 1\n")}

	if err := Write(path, seq, preamble.Encode(p)); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	target := protocol.New()
	target.Add("TE", protocol.NewReal(5.0, 1.0, 100.0, 0.1))
	res, err := preamble.Parse(f, target)
	if err != nil {
		t.Fatal(err)
	}
	if res.Candidate == nil {
		t.Fatalf("written artifact does not contain a loadable preamble: %v", res.Warnings)
	}
	if v, _ := res.Candidate.Get("TE"); v.(*protocol.RealProperty).Value != 3.2 {
		t.Errorf("preamble did not round-trip through the artifact")
	}
}

func TestWrite_FailureKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.seq")
	if err := os.WriteFile(path, []byte("previous artifact"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Writing into a directory that has vanished must fail before the
	// rename, leaving the original artifact in place.
	bad := filepath.Join(dir, "gone", "scan.seq")
	seq := &ports.Sequence{Body: []byte("body")}
	if err := Write(bad, seq, "[NimPulseqGUI Protocol]\n[NimPulseqGUI Protocol End]\n"); err == nil {
		t.Fatalf("expected failure for missing directory")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "previous artifact" {
		t.Errorf("failed write corrupted the existing artifact")
	}
}
