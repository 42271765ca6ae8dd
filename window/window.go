// Package window implements the window manager: splitting, closing,
// equalising and resizing the stack of windows that share one screen.
package window

import (
	"fmt"

	"github.com/xvi-go/xvi/buffer"
)

// MinRows is the minimum row count a window may be resized down to
// without being hidden entirely.
const MinRows = 2

// Window is one row-span of the screen showing a buffer.
type Window struct {
	Top    int // first screen row this window occupies
	NRows  int // total rows, including its status line
	Buffer *buffer.Buffer
	Cursor buffer.Position
	Top_   *buffer.Line // topmost line currently displayed

	next, prev *Window
}

// Hidden reports whether this window currently occupies no rows — it
// still exists in the stack but draws nothing; windows are hidden to 0
// rows rather than dropped.
func (w *Window) Hidden() bool { return w.NRows == 0 }

// Manager owns the ordered stack of windows sharing one screen and the
// current-window pointer.
type Manager struct {
	screenRows int
	first      *Window
	cur        *Window
	count      int
}

// New creates a Manager with one full-screen window on buf.
func New(screenRows int, buf *buffer.Buffer) *Manager {
	w := &Window{NRows: screenRows, Buffer: buf}
	w.next, w.prev = w, w
	return &Manager{screenRows: screenRows, first: w, cur: w, count: 1}
}

// Current returns the current window.
func (m *Manager) Current() *Window { return m.cur }

// SetCurrent makes w the current window. w must belong to this Manager.
func (m *Manager) SetCurrent(w *Window) { m.cur = w }

// NextDisplayed returns the next non-hidden window after w in stack
// order, wrapping around; w itself if no other window is displayed.
// Grounded on the original's xvNextDisplayedWindow, the target of the
// `^W` "switch to next window" keybinding.
func (m *Manager) NextDisplayed(w *Window) *Window {
	n := w.next
	for n != w {
		if !n.Hidden() {
			return n
		}
		n = n.next
	}
	return w
}

// At returns the window whose row span contains screen row r, or nil if
// r falls outside every displayed window (e.g. the shared command line
// row) — needed to resolve a mouse click/drag/move to a window.
func (m *Manager) At(r int) *Window {
	w := m.first
	for i := 0; i < m.count; i++ {
		if !w.Hidden() && r >= w.Top && r < w.Top+w.NRows {
			return w
		}
		w = w.next
	}
	return nil
}

// Count returns the number of windows, including hidden ones.
func (m *Manager) Count() int { return m.count }

// All returns every window in stack order, top to bottom.
func (m *Manager) All() []*Window {
	out := make([]*Window, 0, m.count)
	w := m.first
	for i := 0; i < m.count; i++ {
		out = append(out, w)
		w = w.next
	}
	return out
}

// Buffers returns every distinct buffer currently shown by some window,
// satisfying mode.BufferLister for the terminate/disconnected preserve
// sweep.
func (m *Manager) Buffers() []*buffer.Buffer {
	seen := make(map[*buffer.Buffer]bool, m.count)
	out := make([]*buffer.Buffer, 0, m.count)
	w := m.first
	for i := 0; i < m.count; i++ {
		if !seen[w.Buffer] {
			seen[w.Buffer] = true
			out = append(out, w.Buffer)
		}
		w = w.next
	}
	return out
}

func (m *Manager) insertAfter(anchor, w *Window) {
	w.next = anchor.next
	w.prev = anchor
	anchor.next.prev = w
	anchor.next = w
	m.count++
}

func (m *Manager) unlink(w *Window) {
	w.prev.next = w.next
	w.next.prev = w.prev
	m.count--
}

// Open splits the current window, creating a new one below it showing
// buf, sized to sizeHint rows. If the current window is shorter than
// 2*MinRows it is grown first, at its neighbours' expense, via Resize.
func (m *Manager) Open(buf *buffer.Buffer, sizeHint int) (*Window, error) {
	old := m.cur
	if old.NRows < 2*MinRows {
		if err := m.Resize(old, 2*MinRows-old.NRows); err != nil {
			return nil, fmt.Errorf("window: open: %w", err)
		}
	}

	take := sizeHint
	if take < MinRows {
		take = MinRows
	}
	if take > old.NRows-MinRows {
		take = old.NRows - MinRows
	}
	if take <= 0 {
		return nil, fmt.Errorf("window: no room to open a new window")
	}

	old.NRows -= take
	nw := &Window{Top: old.Top + old.NRows, NRows: take, Buffer: buf, Cursor: old.Cursor, Top_: old.Top_}
	m.insertAfter(old, nw)
	m.renumberTops()
	m.cur = nw
	return nw, nil
}

// Close removes w, handing its rows to an adjacent sibling — preferring
// the smaller one, so the stack stays as balanced as possible. w must
// not be the last remaining window.
func (m *Manager) Close(w *Window) error {
	if m.count <= 1 {
		return fmt.Errorf("window: cannot close the last window")
	}
	var sib *Window
	switch {
	case w.prev == w:
		sib = w.next
	case w.next.NRows <= w.prev.NRows:
		sib = w.next
	default:
		sib = w.prev
	}
	sib.NRows += w.NRows
	m.unlink(w)
	m.renumberTops()
	if m.cur == w {
		m.cur = sib
	}
	m.fixCurwin()
	return nil
}

// renumberTops recomputes each window's Top from the stack order, since
// NRows changes ripple into every later window's offset.
func (m *Manager) renumberTops() {
	w := m.first
	row := 0
	for i := 0; i < m.count; i++ {
		w.Top = row
		row += w.NRows
		w = w.next
	}
}

// Equalise divides the screen's rows evenly among the first n windows
// (or all windows, if n<=0), remainder rows going to the earliest windows.
func (m *Manager) Equalise(n int) {
	if n <= 0 || n > m.count {
		n = m.count
	}
	base := m.screenRows / n
	spare := m.screenRows % n
	w := m.first
	for i := 0; i < n; i++ {
		w.NRows = base
		if i < spare {
			w.NRows++
		}
		w = w.next
	}
	for i := n; i < m.count; i++ {
		w.NRows = 0
		w = w.next
	}
	m.renumberTops()
	m.fixCurwin()
}

// Resize grows or shrinks w by delta rows, moving its status line and
// cascading into neighbours until MinRows is reached; no other window is
// reduced below MinRows rows.
func (m *Manager) Resize(w *Window, delta int) error {
	if delta == 0 {
		return nil
	}
	if delta > 0 {
		remaining := delta
		n := w.next
		for remaining > 0 && n != w {
			take := n.NRows - MinRows
			if take <= 0 {
				n = n.next
				continue
			}
			if take > remaining {
				take = remaining
			}
			n.NRows -= take
			remaining -= take
			n = n.next
		}
		w.NRows += delta - remaining
	} else {
		shrink := -delta
		if shrink > w.NRows-MinRows {
			shrink = w.NRows - MinRows
		}
		if shrink <= 0 {
			return fmt.Errorf("window: cannot shrink below minimum rows")
		}
		w.NRows -= shrink
		w.next.NRows += shrink
	}
	m.renumberTops()
	return nil
}

// AdjustWindows reacts to a screen resize reported by the backend: added
// rows go to the bottom window; removed rows come off the bottom window
// upward, hiding windows to 0 rows (never dropping them) before shrinking
// visible ones further, and relocating curwin if it was hidden.
func (m *Manager) AdjustWindows(newScreenRows int) {
	delta := newScreenRows - m.screenRows
	m.screenRows = newScreenRows
	if delta == 0 {
		return
	}
	if delta > 0 {
		bottom := m.first.prev
		for bottom.NRows == 0 && bottom.prev != bottom {
			bottom = bottom.prev
		}
		bottom.NRows += delta
	} else {
		need := -delta
		w := m.first.prev
		for need > 0 {
			take := w.NRows
			if take > need {
				take = need
			}
			w.NRows -= take
			need -= take
			if w.prev == w {
				break
			}
			w = w.prev
		}
	}
	m.renumberTops()
	m.fixCurwin()
}

// fixCurwin relocates the current-window pointer if it now points at a
// hidden (0-row) window — curwin must never point to a 0-row window.
func (m *Manager) fixCurwin() {
	if !m.cur.Hidden() {
		return
	}
	w := m.cur.next
	for w != m.cur {
		if !w.Hidden() {
			m.cur = w
			return
		}
		w = w.next
	}
}
