package buffer

import "fmt"

// Flag is a bitmask of buffer state flags.
type Flag uint8

const (
	Modified Flag = 1 << iota
	ReadOnly
	NoEdit
)

// ChangeRecorder is implemented by the undo engine (package undo) and is
// the only legal route by which buffer content may be mutated: line
// insertion and deletion is never direct. Buffer holds one and
// delegates its mutating primitives to it, which breaks what would
// otherwise be an import cycle between buffer and undo.
type ChangeRecorder interface {
	ReplChars(line *Line, index, nDel int, insert []byte) error
	ReplLines(anchor *Line, nDel int, newLines []*Line) error
	ReplBuffer(newFirst *Line) error
}

// Buffer is an in-memory editable document: a doubly linked line list
// bracketed by the line0/lastline sentinels, plus marks, registers'
// backing store is elsewhere, and undo state.
type Buffer struct {
	Filename     string
	PreserveName string

	line0    *Line
	file     *Line
	lastline *Line

	Flags    Flag
	NWindows int

	Marks   *MarkTable
	Changes ChangeRecorder

	pool     *linePool
	nextNum  uint64
}

// New creates an empty buffer: line0 <-> file <-> lastline, with file
// holding a single empty line.
func New(filename string) *Buffer {
	b := &Buffer{
		Filename: filename,
		pool:     newLinePool(),
		Marks:    newMarkTable(),
		nextNum:  1,
	}
	b.line0 = &Line{Number: 0}
	b.lastline = &Line{Number: MaxLineNumber}
	b.file = b.newLineAt(1, 0)
	b.line0.Next, b.file.Prev = b.file, b.line0
	b.file.Next, b.lastline.Prev = b.lastline, b.file
	return b
}

// Line0 returns the fictional line before line 1.
func (b *Buffer) Line0() *Line { return b.line0 }

// File returns the first real line.
func (b *Buffer) File() *Line { return b.file }

// Lastline returns the fictional line after the last real line.
func (b *Buffer) Lastline() *Line { return b.lastline }

// newLineAt allocates a pooled line carrying the given number.
func (b *Buffer) newLineAt(number uint64, minChars int) *Line {
	return b.pool.get(number, minChars)
}

// NewLine allocates a fresh line not yet linked into the buffer, numbered
// to sort immediately after 'after'. Renumbering is lazy: if there is no
// integer gap between after and after.Next, the tail of the list from
// after.Next onward is bumped by one.
func (b *Buffer) NewLine(after *Line, minChars int) *Line {
	num := after.Number + 1
	if after.Next != nil && num >= after.Next.Number && !IsLastline(after.Next) {
		b.renumberFrom(after.Next, num+1)
	}
	return b.newLineAt(num, minChars)
}

// renumberFrom bumps l and every line reachable forward from it so that l
// gets at least `want`, preserving strictly increasing line numbers.
func (b *Buffer) renumberFrom(l *Line, want uint64) {
	for cur := l; cur != nil && !IsLastline(cur); cur = cur.Next {
		if cur.Number >= want {
			break
		}
		cur.Number = want
		want++
	}
}

// Throw returns a detached line list to the pool. It must only be called
// on lines that no undo record or register still references.
func (b *Buffer) Throw(first *Line) {
	for l := first; l != nil; {
		next := l.Next
		b.Marks.clearLine(l)
		b.pool.put(l)
		l = next
	}
}

// Clear removes all real content, leaving a single empty line, used by
// :e! style full reloads that don't go through ReplBuffer.
func (b *Buffer) Clear() {
	b.Throw(b.file)
	b.nextNum = 1
	b.file = b.newLineAt(1, 0)
	b.line0.Next, b.file.Prev = b.file, b.line0
	b.file.Next, b.lastline.Prev = b.lastline, b.file
	b.Marks = newMarkTable()
}

// ReplChars mutates one line's content via the undo engine.
func (b *Buffer) ReplChars(line *Line, index, nDel int, insert []byte) error {
	if b.Changes == nil {
		return fmt.Errorf("buffer: no change recorder installed")
	}
	if line == nil {
		return fmt.Errorf("buffer: ReplChars on nil line")
	}
	return b.Changes.ReplChars(line, index, nDel, insert)
}

// ReplLines replaces nDel lines starting at anchor with newLines. anchor
// must be a real line (not line0/lastline unless inserting purely-before-
// lastline with nDel==0).
func (b *Buffer) ReplLines(anchor *Line, nDel int, newLines []*Line) error {
	if b.Changes == nil {
		return fmt.Errorf("buffer: no change recorder installed")
	}
	return b.Changes.ReplLines(anchor, nDel, newLines)
}

// ReplBuffer replaces the buffer's entire visible content, used by :e.
func (b *Buffer) ReplBuffer(newFirst *Line) error {
	if b.Changes == nil {
		return fmt.Errorf("buffer: no change recorder installed")
	}
	return b.Changes.ReplBuffer(newFirst)
}

// SpliceLines detaches nDel lines starting at anchor and splices newLines
// in their place, renumbering as needed to preserve strictly increasing
// line numbers. It returns the detached (old) lines. This is the single
// low-level primitive both repllines' forward application
// and its undo-time reversal use — reversal is just another SpliceLines
// call with the roles of old/new swapped. Command code must never call it
// directly; only the undo engine (package undo) does.
func (b *Buffer) SpliceLines(anchor *Line, nDel int, newLines []*Line) []*Line {
	before := anchor.Prev
	old := make([]*Line, 0, nDel)
	cur := anchor
	for i := 0; i < nDel; i++ {
		old = append(old, cur)
		cur = cur.Next
	}
	after := cur
	if nDel == 0 {
		after = anchor
		before = anchor.Prev
	}

	p := before
	for _, l := range newLines {
		p.Next = l
		l.Prev = p
		p = l
	}
	p.Next = after
	after.Prev = p

	if len(newLines) > 0 {
		want := before.Number + 1
		for _, l := range newLines {
			l.Number = want
			want++
		}
		if !IsLastline(after) && want > after.Number {
			b.renumberFrom(after, want)
		}
	}

	if before == b.line0 {
		if len(newLines) > 0 {
			b.file = newLines[0]
		} else {
			b.file = after
		}
	}

	return old
}

// Count returns the number of real lines in the buffer.
func (b *Buffer) Count() int {
	n := 0
	for l := b.file; !IsLastline(l); l = l.Next {
		n++
	}
	return n
}

// LineAt returns the n'th real line (1-based), or nil if out of range.
func (b *Buffer) LineAt(n int) *Line {
	if n < 1 {
		return nil
	}
	i := 1
	for l := b.file; !IsLastline(l); l = l.Next {
		if i == n {
			return l
		}
		i++
	}
	return nil
}

// LineNo returns the 1-based ordinal of l within the buffer by walking
// from file. O(n); callers on a hot path should track line numbers instead.
func (b *Buffer) LineNo(l *Line) int {
	i := 1
	for cur := b.file; !IsLastline(cur); cur = cur.Next {
		if cur == l {
			return i
		}
		i++
	}
	return 0
}

// IsEmpty reports whether the buffer holds the single, empty initial line.
func (b *Buffer) IsEmpty() bool {
	return b.file == b.lastline.Prev && len(b.file.Text) == 0
}
