package register

import (
	"fmt"

	"github.com/xvi-go/xvi/buffer"
)

// Put inserts the named register's content at loc, before the cursor for
// Backward or after it for Forward, mirroring the original's do_put. buf
// must be the buffer owning loc.Line, and buf must already have a
// ChangeRecorder installed (see undo.New).
func (b *Bank) Put(buf *buffer.Buffer, loc buffer.Position, dir Direction, name byte) error {
	r, err := b.Get(name)
	if err != nil {
		return err
	}
	if r.IsEmpty() {
		return fmt.Errorf("register: nothing in register %q", name)
	}

	switch r.Kind {
	case Chars:
		return putChars(buf, loc, dir, r)
	case Lines:
		return putLines(buf, loc, dir, r)
	default:
		return nil
	}
}

func putChars(buf *buffer.Buffer, loc buffer.Position, dir Direction, r *Register) error {
	idx := loc.Index
	if dir == Forward && idx < len(loc.Line.Text) {
		idx++
	}

	if r.LastSegment == nil {
		// Single-segment: a plain character insertion, no line split.
		return buf.ReplChars(loc.Line, idx, 0, r.FirstSegment)
	}

	before := append([]byte(nil), loc.Line.Text[:idx]...)
	after := append([]byte(nil), loc.Line.Text[idx:]...)

	first := &buffer.Line{Text: append(before, r.FirstSegment...)}
	last := &buffer.Line{Text: append(append([]byte(nil), r.LastSegment...), after...)}

	newLines := make([]*buffer.Line, 0, len(r.MidLines)+2)
	newLines = append(newLines, first)
	for _, l := range r.MidLines {
		newLines = append(newLines, l.Clone())
	}
	newLines = append(newLines, last)

	return buf.ReplLines(loc.Line, 1, newLines)
}

func putLines(buf *buffer.Buffer, loc buffer.Position, dir Direction, r *Register) error {
	newLines := make([]*buffer.Line, len(r.WholeLines))
	for i, l := range r.WholeLines {
		newLines[i] = l.Clone()
	}

	anchor := loc.Line
	if dir == Forward {
		anchor = loc.Line.Next
	}
	return buf.ReplLines(anchor, 0, newLines)
}
