// Package seqfile writes sequence artifacts with the protocol preamble
// embedded, and reads them back for loading.
package seqfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsantini/nimpulseqgui/ports"
)

// Write stores the built sequence at path with the preamble block embedded
// as comment lines ahead of the body. The artifact is assembled in a
// temporary file and renamed into place, so a failure on any exit path
// leaves an existing file at path untouched.
func Write(path string, seq *ports.Sequence, preambleBlock string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".seqfile-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer func() {
		tmp.Close()
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, line := range strings.Split(strings.TrimRight(preambleBlock, "\n"), "\n") {
		if _, err = fmt.Fprintf(w, "# %s\n", line); err != nil {
			return fmt.Errorf("write preamble: %w", err)
		}
	}
	if _, err = w.Write(seq.Body); err != nil {
		return fmt.Errorf("write sequence body: %w", err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("flush artifact: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}

// Open opens an artifact for preamble scanning. Callers own the close.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", path, err)
	}
	return f, nil
}
