package main

import (
	"testing"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/window"
)

func newTestWindow(nrows int, buf *buffer.Buffer) *window.Window {
	w := &window.Window{NRows: nrows, Buffer: buf}
	w.Top_ = buf.File()
	w.Cursor = buffer.Position{Line: buf.File(), Index: 0}
	return w
}

func TestEnsureVisibleNoopWhenCursorAlreadyVisible(t *testing.T) {
	buf := buffer.New("")
	w := newTestWindow(5, buf)
	ensureVisible(w, 4)
	if w.Top_ != buf.File() {
		t.Error("Top_ should stay on the only line")
	}
}

func TestEnsureVisibleZeroRowsIsNoop(t *testing.T) {
	buf := buffer.New("")
	w := newTestWindow(5, buf)
	before := w.Top_
	ensureVisible(w, 0)
	if w.Top_ != before {
		t.Error("ensureVisible with 0 content rows must not move Top_")
	}
}

func TestEnsureVisibleNilCursorLineIsNoop(t *testing.T) {
	buf := buffer.New("")
	w := newTestWindow(5, buf)
	w.Cursor = buffer.Position{}
	before := w.Top_
	ensureVisible(w, 4)
	if w.Top_ != before {
		t.Error("ensureVisible with a nil cursor line must not move Top_")
	}
}

func TestCursorScreenPosFindsCurrentLine(t *testing.T) {
	buf := buffer.New("")
	w := newTestWindow(5, buf)
	w.Top = 3
	row, col, ok := cursorScreenPos(w)
	if !ok {
		t.Fatal("expected cursor to be found within content rows")
	}
	if row != 3 || col != 0 {
		t.Errorf("row,col = %d,%d, want 3,0", row, col)
	}
}

func TestCursorScreenPosNotFoundWhenTopPastCursor(t *testing.T) {
	buf := buffer.New("")
	w := newTestWindow(5, buf)
	w.Top_ = buf.Lastline()
	_, _, ok := cursorScreenPos(w)
	if ok {
		t.Error("expected cursor not found when Top_ has already passed it")
	}
}
