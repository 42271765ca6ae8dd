package main

import (
	"fmt"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/mode"
	"github.com/xvi-go/xvi/screen"
	"github.com/xvi-go/xvi/window"
)

// ensureVisible keeps w.Top_ a line the cursor is actually within
// contentRows of, re-centring on the cursor's own line when it has moved
// outside the currently-visible span. This is a deliberately simple
// snap/recentre policy rather than the original's jumpscroll heuristics,
// left deliberately minimal here.
func ensureVisible(w *window.Window, contentRows int) {
	if contentRows <= 0 || w.Cursor.Line == nil {
		return
	}
	if w.Top_ == nil || buffer.IsLine0(w.Top_) {
		w.Top_ = w.Buffer.File()
	}
	cur := w.Cursor.Line
	if cur.Number < w.Top_.Number {
		w.Top_ = cur
		return
	}
	l := w.Top_
	for i := 0; i < contentRows; i++ {
		if l == cur {
			return
		}
		if l == nil || buffer.IsLastline(l) {
			break
		}
		l = l.Next
	}
	w.Top_ = cur
}

// cursorScreenPos locates w.Cursor within its currently-visible content
// rows, reporting false if ensureVisible hasn't been run since the
// cursor moved past that span.
func cursorScreenPos(w *window.Window) (row, col int, ok bool) {
	contentRows := w.NRows - 1
	l := w.Top_
	for r := 0; r < contentRows; r++ {
		if l == w.Cursor.Line {
			return w.Top + r, w.Cursor.Index, true
		}
		if l == nil || buffer.IsLastline(l) {
			break
		}
		l = l.Next
	}
	return w.Top, 0, false
}

// redrawAll repaints every window and the shared command line into the
// virtual screen and flushes it. Screen.Flush diffs against what was last
// physically written, so a full logical repaint every tick
// costs no more terminal I/O than a targeted one would.
func (ed *Editor) redrawAll() {
	for _, w := range ed.windows.All() {
		ed.drawWindow(w)
	}
	ed.drawCommandLine()
	ed.placeCursor()
	ed.scr.Flush()
}

func (ed *Editor) drawWindow(w *window.Window) {
	if w.Hidden() {
		return
	}
	contentRows := w.NRows - 1
	ensureVisible(w, contentRows)

	numbered := ed.params.Bool("number")
	ed.scr.SetColour(screen.Normal)
	l := w.Top_
	for r := 0; r < contentRows; r++ {
		row := w.Top + r
		ed.scr.ClearLine(row, 0)
		if l == nil || buffer.IsLastline(l) {
			ed.scr.Write(row, 0, []byte("~"))
			continue
		}
		col := 0
		if numbered {
			prefix := fmt.Sprintf("%4d ", l.Number)
			ed.scr.Write(row, 0, []byte(prefix))
			col = len(prefix)
		}
		text := l.Text
		if max := ed.scr.Cols() - col; max > 0 && len(text) > max {
			text = text[:max]
		}
		ed.scr.Write(row, col, text)
		l = l.Next
	}
	ed.drawStatusLine(w)
}

func (ed *Editor) drawStatusLine(w *window.Window) {
	row := w.Top + w.NRows - 1
	name := w.Buffer.Filename
	if name == "" {
		name = "[No Name]"
	}
	var flags string
	if w.Buffer.Flags&buffer.Modified != 0 {
		flags += " [Modified]"
	}
	if w.Buffer.Flags&buffer.ReadOnly != 0 {
		flags += " [Readonly]"
	}
	ed.scr.SetColour(screen.Status)
	ed.scr.ClearLine(row, 0)
	ed.scr.Write(row, 0, []byte(name+flags))
	ed.scr.SetColour(screen.Normal)
}

// drawCommandLine draws the in-progress ex command line while Cmdline
// state is active, else the last status/error message, on the screen's
// very last physical row (outside every window, since windows are given
// only screenRows-1 rows).
func (ed *Editor) drawCommandLine() {
	row := ed.scr.Rows() - 1
	ed.scr.SetColour(screen.Normal)
	ed.scr.ClearLine(row, 0)

	if ed.machine.State == mode.Cmdline {
		ed.scr.Write(row, 0, ed.ex.CmdlineText())
		return
	}
	if ed.statusMsg != "" {
		ed.scr.SetColour(screen.System)
		ed.scr.Write(row, 0, []byte(ed.statusMsg))
		ed.scr.SetColour(screen.Normal)
	}
}

// placeCursor positions the physical cursor: inside the current window's
// content if visible there, else on the command line while a command
// line is being read, else at the current window's top-left as a
// last-resort fallback.
func (ed *Editor) placeCursor() {
	if ed.machine.State == mode.Cmdline {
		ed.scr.Goto(ed.scr.Rows()-1, len(ed.ex.CmdlineText()))
		return
	}
	if row, col, ok := cursorScreenPos(ed.win); ok {
		ed.scr.Goto(row, col)
		return
	}
	ed.scr.Goto(ed.win.Top, 0)
}
