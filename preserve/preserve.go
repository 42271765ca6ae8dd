// Package preserve implements crash-recovery serialization of modified
// buffers to a stable temp filename, under one of four policies.
package preserve

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/xvi-go/xvi/buffer"
)

// Policy selects when a buffer gets preserved before a write, as set by
// the `preserve` parameter.
type Policy int

const (
	Unsafe   Policy = iota // never preserve before a write
	Standard               // preserve only if no recent preserve exists
	Safe                   // always preserve before a write
	Paranoid               // as Safe, and never delete the preserve file
)

// PsvKeys is the keystroke threshold below which a Standard-policy
// preserve is skipped as "recent enough", the original's PSVKEYS.
const PsvKeys = 60

// State tracks one buffer's preserve bookkeeping: its temp filename (once
// created) and whether it has already been preserved since the last
// write, the flag the original ties to the Standard policy's "recent
// enough" check.
type State struct {
	TempFile          string
	alreadyPreserved  bool
}

// Preserve serializes buf to a stable temp filename near sourcePath,
// honouring policy and keystrokes (the count since the last preserve).
// It reports whether a preserve actually happened.
func Preserve(buf *buffer.Buffer, st *State, sourcePath string, policy Policy, keystrokes int) (bool, error) {
	if policy == Unsafe {
		return false, nil
	}
	if policy == Standard && st.TempFile != "" && exists(st.TempFile) && st.alreadyPreserved && keystrokes < PsvKeys {
		return false, nil
	}

	path, err := pickTempFile(st, sourcePath)
	if err != nil {
		return false, fmt.Errorf("preserve: %w", err)
	}

	if err := writeBuffer(buf, path); err != nil {
		return false, fmt.Errorf("preserve: write %s: %w", path, err)
	}

	st.TempFile = path
	st.alreadyPreserved = true
	return true, nil
}

// Unpreserve is called when quitting without writing the current buffer:
// it removes the preserve file unless policy is Paranoid, which never
// deletes the preserve file.
func Unpreserve(st *State, policy Policy) error {
	if policy == Paranoid || st.TempFile == "" {
		return nil
	}
	err := os.Remove(st.TempFile)
	st.TempFile = ""
	st.alreadyPreserved = false
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("preserve: unpreserve: %w", err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// pickTempFile names the preserve file `<source>.tmp`, `<source>.001`,
// … in the source file's own directory; if that directory is unwritable
// it falls back to the OS temp directory with a uuid-disambiguated name
// instead of risking a PID race.
func pickTempFile(st *State, sourcePath string) (string, error) {
	if st.TempFile != "" {
		return st.TempFile, nil
	}

	dir := filepath.Dir(sourcePath)
	base := filepath.Base(sourcePath)
	if base == "" || base == "." {
		base = "xvi"
	}

	candidates := []string{filepath.Join(dir, base+".tmp")}
	for n := 1; n <= 999; n++ {
		candidates = append(candidates, filepath.Join(dir, fmt.Sprintf("%s.%03d", base, n)))
	}
	for _, c := range candidates {
		if !exists(c) {
			if f, err := os.OpenFile(c, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600); err == nil {
				f.Close()
				return c, nil
			}
		}
	}

	name := fmt.Sprintf("%s.%s.tmp", base, uuid.NewString())
	return filepath.Join(os.TempDir(), name), nil
}

// writeBuffer serializes buf's current content to path.
func writeBuffer(buf *buffer.Buffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return dumpLines(f, buf)
}

func dumpLines(w io.Writer, buf *buffer.Buffer) error {
	for l := buf.Line0().Next; !buffer.IsLastline(l); l = l.Next {
		if _, err := w.Write(l.Text); err != nil {
			return err
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return err
		}
	}
	return nil
}
