// Package screen implements the virtual screen: an internal/external pair
// of line grids that the display pipeline diffs on flush, so only changed
// regions reach the physical terminal.
package screen

import "fmt"

// Backend is what a Screen flushes diffs to. screen/infrastructure provides
// the concrete ANSI implementation; tests can substitute a recording fake.
type Backend interface {
	MoveCursor(row, col int)
	WriteCells(row, col int, cells []byte, colours []Colour)
	ClearToEOL(row, col int)
	Scroll(top, bottom, n int) bool
	Beep()
	Flash()
	Sync()
}

// Screen is the virtual-screen contract: a row×col grid drawn
// to by `Write`/`Putc`/`Insert`, reconciled against the physical device by
// `Flush`.
type Screen struct {
	rows, cols int
	intLines   []*Sline
	extLines   []*Sline

	cursorRow, cursorCol int
	colourIdx            Colour

	backend Backend
}

// New creates a Screen of the given size backed by b. b may be nil for a
// screen used only to compute diffs (e.g. in tests).
func New(rows, cols int, b Backend) *Screen {
	s := &Screen{rows: rows, cols: cols, backend: b}
	s.intLines = make([]*Sline, rows)
	s.extLines = make([]*Sline, rows)
	for i := range s.intLines {
		s.intLines[i] = newSline(cols)
		s.extLines[i] = newSline(cols)
	}
	return s
}

func (s *Screen) Rows() int { return s.rows }
func (s *Screen) Cols() int { return s.cols }

func (s *Screen) line(row int) *Sline {
	if row < 0 || row >= s.rows {
		panic(fmt.Sprintf("screen: row %d out of range [0,%d)", row, s.rows))
	}
	return s.intLines[row]
}

// ClearAll blanks every internal line and marks it dirty.
func (s *Screen) ClearAll() {
	for i := range s.intLines {
		s.intLines[i].clearFrom(0)
		s.intLines[i].flags |= Dirty
	}
}

// ClearRows blanks internal rows [start,end).
func (s *Screen) ClearRows(start, end int) {
	for r := start; r < end; r++ {
		l := s.line(r)
		l.clearFrom(0)
		l.flags |= Dirty
	}
}

// ClearLine clears row from col to end of line.
func (s *Screen) ClearLine(row, col int) {
	l := s.line(row)
	l.clearFrom(col)
	l.flags |= Dirty
}

// Goto hints where the cursor logically belongs next; actual cursor
// movement is deferred to Flush.
func (s *Screen) Goto(row, col int) {
	s.cursorRow, s.cursorCol = row, col
}

// Advise hints that text is already physically present at (row,col) and
// need not be redrawn. The
// virtual screen records it by writing straight into the internal line
// without marking the row dirty, so a matching external line suppresses
// the redraw on Flush.
func (s *Screen) Advise(row, col int, text []byte) {
	l := s.line(row)
	l.ensure(col + len(text))
	copy(l.cells[col:], text)
	for i := range text {
		l.colours[col+i] = s.colourIdx
	}
	if col+len(text) > l.used {
		l.used = col + len(text)
	}
}

// Write draws str at (row,col) in the current colour.
func (s *Screen) Write(row, col int, str []byte) {
	l := s.line(row)
	l.ensure(col + len(str))
	copy(l.cells[col:], str)
	for i := range str {
		l.colours[col+i] = s.colourIdx
	}
	if col+len(str) > l.used {
		l.used = col + len(str)
	}
	l.flags |= Dirty
}

// Putc draws one byte at (row,col).
func (s *Screen) Putc(row, col int, ch byte) {
	s.Write(row, col, []byte{ch})
}

// Insert shifts the line's existing content right by len(str) starting at
// col, then writes str into the opened gap.
func (s *Screen) Insert(row, col int, str []byte) {
	l := s.line(row)
	n := len(str)
	l.ensure(l.used + n)
	copy(l.cells[col+n:l.used+n], l.cells[col:l.used])
	copy(l.colours[col+n:l.used+n], l.colours[col:l.used])
	l.used += n
	if l.used > len(l.cells) {
		l.used = len(l.cells)
	}
	copy(l.cells[col:col+n], str)
	for i := 0; i < n; i++ {
		l.colours[col+i] = s.colourIdx
	}
	l.flags |= Dirty
}

// SetColour selects the colour slot subsequent Write/Putc/Insert calls use.
func (s *Screen) SetColour(ix Colour) { s.colourIdx = ix }

// CanScroll reports whether Scroll(start,end,n) is physically feasible —
// true for any in-bounds, non-empty row range, since the virtual screen
// has no hardware scroll-region limit; a Backend may still decline at
// Flush time.
func (s *Screen) CanScroll(start, end, n int) bool {
	return start >= 0 && end <= s.rows && start < end
}

// Scroll moves rows [start,end) by n rows: positive n moves text up
// (content scrolls toward row start), uncovering blank rows at the
// trailing edge.
func (s *Screen) Scroll(start, end, n int) bool {
	if !s.CanScroll(start, end, n) || n == 0 {
		return false
	}
	region := s.intLines[start:end]
	shifted := make([]*Sline, len(region))
	for i := range region {
		src := i + n
		if src >= 0 && src < len(region) {
			shifted[i] = region[src]
		} else {
			shifted[i] = newSline(s.cols)
		}
	}
	copy(region, shifted)
	for _, l := range region {
		l.flags |= Dirty
	}
	return true
}

// Beep rings the terminal bell.
func (s *Screen) Beep() {
	if s.backend != nil {
		s.backend.Beep()
	}
}

// Flash does a visual flash in place of Beep, for the `vbell` option.
func (s *Screen) Flash() {
	if s.backend != nil {
		s.backend.Flash()
	}
}

// Flush reconciles int_lines against ext_lines: every dirty or differing
// row is redrawn through the backend, then ext_lines is updated to match,
// restoring the diff invariant: after a flush, ext_lines equals int_lines
// for all non-dirty rows.
func (s *Screen) Flush() {
	for row := 0; row < s.rows; row++ {
		in, ex := s.intLines[row], s.extLines[row]
		if in.flags&Dirty == 0 && in.equalThrough(ex) {
			continue
		}
		if s.backend != nil {
			s.backend.WriteCells(row, 0, in.cells[:in.used], in.colours[:in.used])
			if in.used < len(in.cells) {
				s.backend.ClearToEOL(row, in.used)
			}
		}
		ex.ensure(len(in.cells))
		copy(ex.cells, in.cells)
		copy(ex.colours, in.colours)
		ex.used = in.used
		in.flags &^= Dirty
	}
	if s.backend != nil {
		s.backend.MoveCursor(s.cursorRow, s.cursorCol)
		s.backend.Sync()
	}
}
