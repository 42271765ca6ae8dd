// Package main wires the buffer/undo/window/register/search/tags/param
// core into a running terminal editor: argument and environment parsing,
// the composite mode.Dispatcher, the ANSI display pipeline and the
// top-level event loop.
package main

import (
	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/clipboard"
	"github.com/xvi-go/xvi/ex"
	"github.com/xvi-go/xvi/insert"
	"github.com/xvi-go/xvi/keymap"
	"github.com/xvi-go/xvi/mode"
	"github.com/xvi-go/xvi/normal"
	"github.com/xvi-go/xvi/param"
	"github.com/xvi-go/xvi/preserve"
	"github.com/xvi-go/xvi/register"
	"github.com/xvi-go/xvi/screen"
	"github.com/xvi-go/xvi/search"
	"github.com/xvi-go/xvi/tags"
	"github.com/xvi-go/xvi/undo"
	"github.com/xvi-go/xvi/window"
)

const ctrlW = 0x17

// Editor composes the normal/insert/ex handlers into one mode.Dispatcher
// and owns everything the handlers don't: the window-focus/keymap
// bookkeeping that has to track whichever window and mode are current,
// and the display pipeline (render.go).
type Editor struct {
	buf     *buffer.Buffer
	undo    *undo.Engine
	regs    *register.Bank
	se      *search.Engine
	params  *param.Store
	tagc    *tags.Cache
	windows *window.Manager
	clip    *clipboard.Mirror

	win *window.Window

	norm *normal.Handler
	ins  *insert.Handler
	ex   *ex.Handler

	machine *mode.Machine

	scr     *screen.Screen
	backend screen.Backend

	cmdMap, insMap *keymap.Map
	translator     *keymap.Translator

	stuffed []byte

	statusMsg string
	lastResp  mode.Response
}

// NewEditor builds an Editor over one already-loaded buffer, sized to
// scr's window rows (the screen's last row is reserved for the shared
// command line, so the window manager gets scr.Rows()-1).
func NewEditor(buf *buffer.Buffer, scr *screen.Screen, backend screen.Backend, maxUndo int, clip *clipboard.Mirror) *Editor {
	ed := &Editor{
		buf:     buf,
		undo:    undo.New(buf, maxUndo),
		regs:    register.New(),
		se:      search.New(),
		params:  param.New(),
		tagc:    tags.New(),
		windows: window.New(scr.Rows()-1, buf),
		clip:    clip,
		scr:     scr,
		backend: backend,
	}
	ed.win = ed.windows.Current()
	ed.win.Cursor = buffer.Position{Line: buf.File(), Index: 0}
	ed.win.Top_ = buf.File()

	ed.norm = normal.New(ed.buf, ed.win, ed.undo, ed.regs, ed.se)
	ed.ins = insert.New(ed.buf, ed.win, ed.undo, ed.regs, ed.params)
	ed.ex = ex.New(ed.buf, ed.win, ed.windows, ed.undo, ed.regs, ed.se, ed.params)
	ed.ex.Tags = ed.tagc
	ed.ex.Clip = ed.clip

	ed.norm.Cmdline = ed.ex
	ed.norm.Input = ed
	ed.norm.Life = ed
	ed.norm.Ins = ed.ins
	ed.norm.OnMessage = ed.setStatus
	ed.ins.Input = ed
	ed.ex.OnMessage = ed.setStatus

	ed.params.Attach(&param.Hooks{
		InvalidateTags:    func(*param.Store) { ed.tagc.Invalidate() },
		SetPreservePolicy: func(p int) { ed.machine.PreservePolicy = preserve.Policy(p) },
	})

	ed.cmdMap = keymap.NewMap()
	ed.insMap = keymap.NewMap()
	ed.ex.CmdMap = ed.cmdMap
	ed.ex.InsMap = ed.insMap

	ed.translator = keymap.NewTranslator(defaultKeyMap(), ed.cmdMap)
	ed.machine = mode.NewMachine(ed, ed.translator, ed.windows)

	ed.ins.Columns = scr.Cols()

	return ed
}

func (ed *Editor) setStatus(s string) { ed.statusMsg = s }

// Stuff implements normal.Stuffer/insert.Stuffer: queue bytes for replay
// ahead of fresh terminal input, backing "." repeat and "@reg" playback.
func (ed *Editor) Stuff(data []byte) {
	ed.stuffed = append(ed.stuffed, data...)
}

// WriteQuit implements normal.Lifecycle for ZZ: write the current buffer
// and quit, exactly as ":wq" does.
func (ed *Editor) WriteQuit() error {
	err := ed.ex.Execute("wq")
	if ed.ex.ShouldExit {
		ed.machine.State = mode.Exiting
	}
	return err
}

// focusWindow points every per-window handler at w, the one place the
// editing handlers, the keymap's user map and the render pipeline all
// agree on "the current window".
func (ed *Editor) focusWindow(w *window.Window) {
	ed.win = w
	ed.norm.Win = w
	ed.norm.Buf = w.Buffer
	ed.ins.Win = w
	ed.ins.Buf = w.Buffer
	ed.ex.Win = w
	ed.ex.Buf = w.Buffer
	ed.ins.Columns = ed.scr.Cols()
}

// syncWindowFocus catches window changes ex commands (":split", ":close")
// make directly on windows.Manager without going through focusWindow.
func (ed *Editor) syncWindowFocus() {
	if cur := ed.windows.Current(); cur != ed.win {
		ed.focusWindow(cur)
	}
}

// syncUserMap keeps the translator's active user map matched to the
// current mode.State: cmd_map in Normal/Subnormal, ins_map everywhere a
// command line or insert session is reading literal text — cmd_map or
// ins_map, whichever is active.
func (ed *Editor) syncUserMap() {
	switch ed.machine.State {
	case mode.Insert, mode.Replace, mode.Cmdline:
		ed.translator.UserMap = ed.insMap
	default:
		ed.translator.UserMap = ed.cmdMap
	}
}

// syncClipboard mirrors the unnamed register to the clipboard provider,
// best-effort: no register-bank write-hook exists, so this is invoked
// once per dispatched event rather than only on yank/delete (an accepted
// simplification over a precise write-triggered sync).
func (ed *Editor) syncClipboard() {
	if ed.clip == nil {
		return
	}
	ed.clip.Sync(ed.regs, '@')
}

// --- mode.Dispatcher ---

// Normal implements mode.Dispatcher.Normal. ^W cycles to the next
// displayed window here rather than in the normal package, since normal
// has already claimed bare 'g' for the gg/ge/gE family that the original
// used for window-switching; composing the two keeps both live without a
// collision (a REDESIGN FLAG resolution, see DESIGN.md).
func (ed *Editor) Normal(b byte) mode.Outcome {
	if b == ctrlW {
		next := ed.windows.NextDisplayed(ed.win)
		ed.windows.SetCurrent(next)
		ed.focusWindow(next)
		return mode.Outcome{NextState: mode.Normal}
	}
	return ed.norm.Normal(b)
}

func (ed *Editor) Subnormal(b byte) mode.Outcome { return ed.norm.Subnormal(b) }
func (ed *Editor) Insert(b byte) mode.Outcome    { return ed.ins.Insert(b) }
func (ed *Editor) Replace(b byte) mode.Outcome   { return ed.ins.Replace(b) }
func (ed *Editor) Cmdline(b byte) mode.Outcome   { return ed.ex.Cmdline(b) }

// Display is an unreachable stub: this port never transitions into
// mode.Display (no z/^F/^B full-screen display command is implemented),
// so nothing ever dispatches here.
func (ed *Editor) Display(b byte) mode.Outcome {
	return mode.Outcome{NextState: mode.Normal, Beep: true}
}

// Suspend implements mode.Dispatcher.Suspend. normal.Handler.Suspend only
// clears pending command state, by design (actually stopping the process
// is a frontend concern); this layer is the frontend, so it adds the
// Suspend flag the main loop watches for.
func (ed *Editor) Suspend() mode.Outcome {
	o := ed.norm.Suspend()
	o.Suspend = true
	return o
}

func (ed *Editor) Refresh() mode.Outcome {
	ed.scr.ClearAll()
	return mode.Outcome{NextState: ed.machine.State}
}

func (ed *Editor) Resize(drows, dcols int) mode.Outcome {
	rows, cols := ed.scr.Rows()+drows, ed.scr.Cols()+dcols
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	ed.scr = screen.New(rows, cols, ed.backend)
	ed.windows.AdjustWindows(rows - 1)
	ed.ins.Columns = cols
	return mode.Outcome{NextState: ed.machine.State}
}

func (ed *Editor) MouseClick(r, c int) mode.Outcome {
	w := ed.windows.At(r)
	if w == nil {
		return mode.Outcome{NextState: ed.machine.State, Beep: true}
	}
	ed.windows.SetCurrent(w)
	ed.focusWindow(w)
	ed.placeCursorAt(w, r, c)
	return mode.Outcome{NextState: ed.machine.State}
}

func (ed *Editor) MouseDrag(r1, c1, r2, c2 int) mode.Outcome {
	return ed.MouseClick(r2, c2)
}

func (ed *Editor) MouseMove(r int) mode.Outcome {
	if ed.windows.At(r) == nil {
		return mode.Outcome{NextState: ed.machine.State, Beep: true}
	}
	return mode.Outcome{NextState: ed.machine.State}
}

func (ed *Editor) Beep() { ed.scr.Beep() }

// placeCursorAt moves w's cursor to the line displayed at screen row r,
// clamped to w's content (the status line row has no line to move to).
func (ed *Editor) placeCursorAt(w *window.Window, r, c int) {
	row := w.Top
	l := w.Top_
	for row < r && l != nil && !buffer.IsLastline(l) {
		l = l.Next
		row++
	}
	if l == nil || buffer.IsLastline(l) {
		return
	}
	idx := c
	if idx > len(l.Text) {
		idx = len(l.Text)
	}
	if idx < 0 {
		idx = 0
	}
	w.Cursor = buffer.Position{Line: l, Index: idx}
}
