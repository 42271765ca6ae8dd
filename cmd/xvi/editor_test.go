package main

import (
	"testing"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/mode"
	"github.com/xvi-go/xvi/screen"
)

// fakeBackend discards everything; it exists only so a Screen can be built
// without a real terminal.
type fakeBackend struct{}

func (fakeBackend) MoveCursor(row, col int)                             {}
func (fakeBackend) WriteCells(row, col int, cells []byte, c []screen.Colour) {}
func (fakeBackend) ClearToEOL(row, col int)                             {}
func (fakeBackend) Scroll(top, bottom, n int) bool                      { return false }
func (fakeBackend) Beep()                                               {}
func (fakeBackend) Flash()                                              {}
func (fakeBackend) Sync()                                               {}

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	buf := buffer.New("")
	scr := screen.New(24, 80, fakeBackend{})
	return NewEditor(buf, scr, fakeBackend{}, 100, nil)
}

func TestNewEditorStartsInNormal(t *testing.T) {
	ed := newTestEditor(t)
	if ed.machine.State != mode.Normal {
		t.Errorf("initial state = %v, want Normal", ed.machine.State)
	}
	if ed.win.Cursor.Line == nil {
		t.Error("initial window has no cursor line")
	}
}

func TestCtrlWCyclesWindows(t *testing.T) {
	ed := newTestEditor(t)
	firstWin := ed.win
	newWin, err := ed.windows.Open(ed.buf, 5)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ed.windows.SetCurrent(firstWin)
	ed.focusWindow(firstWin)

	out := ed.Normal(ctrlW)
	if out.NextState != mode.Normal {
		t.Errorf("NextState = %v, want Normal", out.NextState)
	}
	if ed.windows.Current() != newWin {
		t.Errorf("current window did not cycle to the split window")
	}
	if ed.win != newWin || ed.norm.Win != newWin || ed.ins.Win != newWin || ed.ex.Win != newWin {
		t.Error("focusWindow did not repoint every handler at the new window")
	}
}

func TestSyncWindowFocusPicksUpExSplit(t *testing.T) {
	ed := newTestEditor(t)
	newWin, err := ed.windows.Open(ed.buf, 5)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	// Open() already makes newWin current; syncWindowFocus should notice
	// ed.win is stale and repoint every handler, as if ":split" had run.
	if ed.win == newWin {
		t.Fatal("test setup: ed.win already points at newWin")
	}
	ed.syncWindowFocus()
	if ed.win != newWin {
		t.Error("syncWindowFocus did not follow the manager's current window")
	}
	if ed.norm.Win != newWin || ed.ins.Win != newWin || ed.ex.Win != newWin {
		t.Error("syncWindowFocus did not repoint every handler")
	}
}

func TestSyncUserMapFollowsState(t *testing.T) {
	ed := newTestEditor(t)

	ed.machine.State = mode.Normal
	ed.syncUserMap()
	if ed.translator.UserMap != ed.cmdMap {
		t.Error("Normal state should select cmdMap")
	}

	ed.machine.State = mode.Insert
	ed.syncUserMap()
	if ed.translator.UserMap != ed.insMap {
		t.Error("Insert state should select insMap")
	}

	ed.machine.State = mode.Cmdline
	ed.syncUserMap()
	if ed.translator.UserMap != ed.insMap {
		t.Error("Cmdline state should select insMap")
	}

	ed.machine.State = mode.Subnormal
	ed.syncUserMap()
	if ed.translator.UserMap != ed.cmdMap {
		t.Error("Subnormal state should select cmdMap")
	}
}

func TestSuspendSetsFlag(t *testing.T) {
	ed := newTestEditor(t)
	out := ed.Suspend()
	if !out.Suspend {
		t.Error("Editor.Suspend() did not set Outcome.Suspend")
	}
}

func TestStuffQueuesBytes(t *testing.T) {
	ed := newTestEditor(t)
	ed.Stuff([]byte("abc"))
	if string(ed.stuffed) != "abc" {
		t.Errorf("stuffed = %q, want abc", ed.stuffed)
	}
	ed.Stuff([]byte("de"))
	if string(ed.stuffed) != "abcde" {
		t.Errorf("stuffed = %q, want abcde", ed.stuffed)
	}
}

func TestResizeUpdatesScreenAndWindows(t *testing.T) {
	ed := newTestEditor(t)
	out := ed.Resize(2, 10)
	if out.NextState != mode.Normal {
		t.Errorf("NextState = %v, want Normal", out.NextState)
	}
	if ed.scr.Rows() != 26 || ed.scr.Cols() != 90 {
		t.Errorf("screen size = %dx%d, want 26x90", ed.scr.Rows(), ed.scr.Cols())
	}
	if ed.ins.Columns != 90 {
		t.Errorf("insert Columns = %d, want 90", ed.ins.Columns)
	}
}

func TestMouseClickOutsideAnyWindowBeeps(t *testing.T) {
	ed := newTestEditor(t)
	out := ed.MouseClick(1000, 0)
	if !out.Beep {
		t.Error("clicking outside every window should beep")
	}
}
