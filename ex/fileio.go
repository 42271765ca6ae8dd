package ex

import (
	"bufio"
	"fmt"
	"os"

	"github.com/xvi-go/xvi/buffer"
)

// No library in the example pack's dependency surface abstracts
// filesystem reads/writes (the pack's third-party stack is terminal/TUI
// and data-structure oriented: lipgloss, uuid, x/term, x/sys, testify —
// nothing file-I/O shaped); os/bufio is the only reasonable choice here.

// readFileLines reads path into a fresh line list, one *buffer.Line per
// newline-terminated record. A missing file is not an error: it yields a
// single empty line, the behaviour ":e newfile" relies on to open a file
// that doesn't exist yet.
func readFileLines(path string) ([]*buffer.Line, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return []*buffer.Line{{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ex: %w", err)
	}
	defer f.Close()

	var lines []*buffer.Line
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		l := &buffer.Line{}
		l.SetText(sc.Bytes())
		lines = append(lines, l)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ex: reading %s: %w", path, err)
	}
	if len(lines) == 0 {
		lines = append(lines, &buffer.Line{})
	}
	return lines, nil
}

// writeLineRange writes the real lines from first up to (but excluding)
// stop, one per line, to path, truncating or creating it. It reports how
// many lines were written.
func writeLineRange(path string, first, stop *buffer.Line) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("ex: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	n := 0
	for l := first; l != stop; l = l.Next {
		if _, err := w.Write(l.Text); err != nil {
			return n, fmt.Errorf("ex: writing %s: %w", path, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return n, fmt.Errorf("ex: writing %s: %w", path, err)
		}
		n++
	}
	if err := w.Flush(); err != nil {
		return n, fmt.Errorf("ex: writing %s: %w", path, err)
	}
	return n, nil
}

// appendLineRange writes the same range as writeLineRange but appends to
// an existing file, for ":w >>path" — kept separate from writeLineRange
// since truncate-vs-append is a distinct open mode, not a parameter of
// one.
func appendLineRange(path string, first, stop *buffer.Line) (int, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("ex: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	n := 0
	for l := first; l != stop; l = l.Next {
		if _, err := w.Write(l.Text); err != nil {
			return n, fmt.Errorf("ex: writing %s: %w", path, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return n, fmt.Errorf("ex: writing %s: %w", path, err)
		}
		n++
	}
	if err := w.Flush(); err != nil {
		return n, fmt.Errorf("ex: writing %s: %w", path, err)
	}
	return n, nil
}
