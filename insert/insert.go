// Package insert implements the insert/replace text-entry engine:
// character-at-a-time entry with autoindent, wrap-margin, showmatch,
// literal-next, and the replace-mode overwrite/got_one sub-states, all
// funnelled through undo.Engine's ReplChars/ReplLines so every keystroke
// is individually undoable.
package insert

import (
	"time"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/mode"
	"github.com/xvi-go/xvi/param"
	"github.com/xvi-go/xvi/register"
	"github.com/xvi-go/xvi/undo"
	"github.com/xvi-go/xvi/window"
)

// Stuffer re-injects bytes into the mapped keystroke stream, used to
// replay the just-inserted text count-1 more times on ESC when the
// prefix count is greater than 1.
type Stuffer interface {
	Stuff(data []byte)
}

const showMatchDuration = 200 * time.Millisecond

// replacedChar records, in typed order, what an overwrite-mode keystroke
// clobbered so ^H can restore it; one record is taken per keystroke.
type replacedChar struct {
	line    *buffer.Line
	index   int
	hadChar bool
	orig    byte
}

// Handler drives one window's Insert/Replace state. normal.Handler calls
// Begin just before handing off; cmd/xvi's mode.Dispatcher composition
// routes Insert/Replace-state bytes here.
type Handler struct {
	Buf    *buffer.Buffer
	Win    *window.Window
	Undo   *undo.Engine
	Regs   *register.Bank
	Params *param.Store
	Input  Stuffer

	Columns int // current terminal width, for the wrap-margin rule

	// ShowMatchPos/ShowMatchUntil let the frontend briefly flash the
	// cursor at a matching bracket without the insert engine owning a
	// timer of its own: briefly (~200ms) move the cursor to the matching
	// opener, then back.
	ShowMatchPos    buffer.Position
	ShowMatchActive bool
	ShowMatchUntil  time.Time

	active    bool
	overwrite bool
	count     int

	typed    []byte // bytes actually entered this session, for '<' and ESC-repeat
	replaced []replacedChar

	literalNext bool
	pendingBReg bool
}

// New builds an insert/replace Handler over one window's editing context.
func New(buf *buffer.Buffer, win *window.Window, eng *undo.Engine, regs *register.Bank, params *param.Store) *Handler {
	return &Handler{Buf: buf, Win: win, Undo: eng, Regs: regs, Params: params}
}

// Begin implements normal.InsertStarter: reset session state and record
// how many times ESC should repeat the inserted text. The boundary that
// ^H/^W must not cross is tracked simply as "nothing left in typed"
// rather than a remembered (line, column), since line splits/joins during
// the session would otherwise leave a stale line pointer.
func (h *Handler) Begin(at buffer.Position, count int, overwrite bool) {
	if count < 1 {
		count = 1
	}
	h.active = true
	h.overwrite = overwrite
	h.count = count
	h.typed = h.typed[:0]
	h.replaced = h.replaced[:0]
	h.literalNext = false
	h.pendingBReg = false
}

func (h *Handler) stay(next mode.State) mode.Outcome {
	return mode.Outcome{NextState: next}
}

func (h *Handler) beep(next mode.State) mode.Outcome {
	return mode.Outcome{NextState: next, Beep: true}
}

func (h *Handler) fail(next mode.State, err error) mode.Outcome {
	return mode.Outcome{NextState: next, Err: err}
}

// Insert implements mode.Dispatcher's Insert-state handling.
func (h *Handler) Insert(b byte) mode.Outcome {
	return h.consume(b, mode.Insert, false)
}

// Replace implements mode.Dispatcher's Replace-state handling.
func (h *Handler) Replace(b byte) mode.Outcome {
	return h.consume(b, mode.Replace, true)
}

// consume processes one mapped byte in either Insert or Replace state;
// the two differ only in whether ordinary characters overwrite or splice
// in, and in what ^H restores.
func (h *Handler) consume(b byte, state mode.State, overwrite bool) mode.Outcome {
	if h.literalNext {
		h.literalNext = false
		return h.insertByte(b, state, overwrite)
	}
	if h.pendingBReg {
		h.pendingBReg = false
		return h.insertRegister(b, state, overwrite)
	}

	switch b {
	case 0x1b: // ESC
		return h.endSession(state)
	case 0x08, 0x7f: // ^H / DEL
		return h.backspace(state, overwrite)
	case 0x17: // ^W
		return h.eraseWord(state, overwrite)
	case 0x14: // ^T
		return h.shiftLine(state, 1)
	case 0x04: // ^D
		return h.shiftLine(state, -1)
	case '\r', '\n':
		return h.splitLine(state)
	case 0x16, 0x11: // ^V / ^Q
		h.literalNext = true
		return h.stay(state)
	case 0x01: // ^A
		return h.insertLastInsert(state, overwrite)
	case 0x02: // ^B
		h.pendingBReg = true
		return h.stay(state)
	default:
		return h.insertByte(b, state, overwrite)
	}
}

// insertByte places one ordinary byte at the cursor: spliced in for
// Insert, overwriting (recording the clobbered byte) for Replace, never
// overwriting past end-of-line.
func (h *Handler) insertByte(b byte, state mode.State, overwrite bool) mode.Outcome {
	cur := h.Win.Cursor
	h.Undo.StartCommand(cur)
	var err error
	if overwrite && !cur.AtEOL() {
		h.replaced = append(h.replaced, replacedChar{line: cur.Line, index: cur.Index, hadChar: true, orig: cur.Line.Text[cur.Index]})
		err = h.Buf.ReplChars(cur.Line, cur.Index, 1, []byte{b})
	} else {
		if overwrite {
			h.replaced = append(h.replaced, replacedChar{line: cur.Line, index: cur.Index, hadChar: false})
		}
		err = h.Buf.ReplChars(cur.Line, cur.Index, 0, []byte{b})
	}
	h.Undo.EndCommand()
	if err != nil {
		return h.fail(state, err)
	}
	h.Win.Cursor = buffer.Position{Line: cur.Line, Index: cur.Index + 1}
	h.typed = append(h.typed, b)

	if b == ')' || b == ']' || b == '}' {
		h.noteShowMatch()
	}
	h.applyWrapMargin()
	return h.stay(state)
}

// insertRegister implements ^B <ch>: splice in the named register's
// content verbatim.
func (h *Handler) insertRegister(name byte, state mode.State, overwrite bool) mode.Outcome {
	data, err := h.Regs.StuffInput(name)
	if err != nil {
		return h.fail(state, err)
	}
	for _, c := range data {
		if c == '\n' {
			if o := h.splitLine(state); o.Err != nil {
				return o
			}
			continue
		}
		if o := h.insertByte(c, state, overwrite); o.Err != nil {
			return o
		}
	}
	return h.stay(state)
}

// insertLastInsert implements ^A: splice in register '<'.
func (h *Handler) insertLastInsert(state mode.State, overwrite bool) mode.Outcome {
	return h.insertRegister('<', state, overwrite)
}

// backspace implements ^H/DEL: erase one char left, never crossing the
// position the session started at (tracked as "nothing left in typed").
// In Replace state it restores the original character instead of
// deleting.
func (h *Handler) backspace(state mode.State, overwrite bool) mode.Outcome {
	if len(h.typed) == 0 {
		return h.beep(state)
	}
	cur := h.Win.Cursor

	if overwrite && len(h.replaced) > 0 {
		last := h.replaced[len(h.replaced)-1]
		h.replaced = h.replaced[:len(h.replaced)-1]
		h.Undo.StartCommand(cur)
		var err error
		if last.hadChar {
			err = h.Buf.ReplChars(last.line, last.index, 1, []byte{last.orig})
		} else {
			err = h.Buf.ReplChars(last.line, last.index, 1, nil)
		}
		h.Undo.EndCommand()
		if err != nil {
			return h.fail(state, err)
		}
		h.Win.Cursor = buffer.Position{Line: last.line, Index: last.index}
		h.typed = h.typed[:len(h.typed)-1]
		return h.stay(state)
	}

	prev := cur
	if buffer.Dec(&prev) == buffer.NoMove {
		return h.beep(state)
	}

	h.Undo.StartCommand(cur)
	var err error
	if prev.Line == cur.Line {
		err = h.Buf.ReplChars(prev.Line, prev.Index, cur.Index-prev.Index, nil)
	} else {
		joinAt := len(prev.Line.Text)
		merged := &buffer.Line{Text: append(append([]byte(nil), prev.Line.Text[:joinAt]...), cur.Line.Text[cur.Index:]...)}
		n := h.Buf.LineNo(cur.Line) - h.Buf.LineNo(prev.Line) + 1
		err = h.Buf.ReplLines(prev.Line, n, []*buffer.Line{merged})
		prev = buffer.Position{Line: merged, Index: joinAt}
	}
	h.Undo.EndCommand()
	if err != nil {
		return h.fail(state, err)
	}
	h.Win.Cursor = prev
	h.typed = h.typed[:len(h.typed)-1]
	return h.stay(state)
}

// eraseWord implements ^W: erase back one word, never past column 0 of
// the current line (a simplified stand-in for the original's full
// cross-line session boundary, given line splits/joins during a session
// would otherwise require remembering a line pointer that can go stale).
func (h *Handler) eraseWord(state mode.State, overwrite bool) mode.Outcome {
	if len(h.typed) == 0 {
		return h.beep(state)
	}
	cur := h.Win.Cursor
	if cur.Index == 0 {
		return h.beep(state)
	}
	target, _ := buffer.BckWord(cur, buffer.Word, true)
	if target.Line != cur.Line {
		target = buffer.Position{Line: cur.Line, Index: 0}
	}
	h.Undo.StartCommand(cur)
	err := h.Buf.ReplChars(cur.Line, target.Index, cur.Index-target.Index, nil)
	h.Undo.EndCommand()
	if err != nil {
		return h.fail(state, err)
	}
	h.Win.Cursor = target
	n := cur.Index - target.Index
	if n > len(h.typed) {
		n = len(h.typed)
	}
	h.typed = h.typed[:len(h.typed)-n]
	return h.stay(state)
}

// shiftLine implements ^T/^D: shift the current line by one shiftwidth,
// rounded to a multiple.
func (h *Handler) shiftLine(state mode.State, dir int) mode.Outcome {
	width := 8
	if h.Params != nil {
		if w := h.Params.Int("shiftwidth"); w > 0 {
			width = w
		}
	}
	l := h.Win.Cursor.Line
	indent := 0
	for indent < len(l.Text) && (l.Text[indent] == ' ' || l.Text[indent] == '\t') {
		indent++
	}
	cols := indentWidth(l.Text[:indent], width)
	cols += dir * width
	if cols < 0 {
		cols = 0
	}
	newIndent := (cols / width) * width
	h.Undo.StartCommand(h.Win.Cursor)
	err := h.Buf.ReplChars(l, 0, indent, makeIndent(newIndent, width))
	h.Undo.EndCommand()
	if err != nil {
		return h.fail(state, err)
	}
	delta := newIndent - indent
	newCol := h.Win.Cursor.Index + delta
	if newCol < 0 {
		newCol = 0
	}
	h.Win.Cursor = buffer.Position{Line: l, Index: newCol}
	return h.stay(state)
}

func indentWidth(indent []byte, width int) int {
	n := 0
	for _, c := range indent {
		if c == '\t' {
			n += width - n%width
		} else {
			n++
		}
	}
	return n
}

func makeIndent(cols, width int) []byte {
	tabs := cols / width
	spaces := cols % width
	out := make([]byte, 0, tabs+spaces)
	for i := 0; i < tabs; i++ {
		out = append(out, '\t')
	}
	for i := 0; i < spaces; i++ {
		out = append(out, ' ')
	}
	return out
}

// splitLine implements \r/\n: split the current line at the cursor,
// carrying autoindent onto the new line if set.
func (h *Handler) splitLine(state mode.State) mode.Outcome {
	cur := h.Win.Cursor
	head := append([]byte(nil), cur.Line.Text[:cur.Index]...)
	tail := append([]byte(nil), cur.Line.Text[cur.Index:]...)

	var indent []byte
	if h.Params != nil && h.Params.Bool("autoindent") {
		indent = leadingWhitespace(cur.Line.Text)
	}

	first := &buffer.Line{Text: head}
	second := &buffer.Line{Text: append(append([]byte(nil), indent...), tail...)}

	h.Undo.StartCommand(cur)
	err := h.Buf.ReplLines(cur.Line, 1, []*buffer.Line{first, second})
	h.Undo.EndCommand()
	if err != nil {
		return h.fail(state, err)
	}
	h.Win.Cursor = buffer.Position{Line: second, Index: len(indent)}
	h.typed = append(h.typed, '\n')
	return h.stay(state)
}

func leadingWhitespace(text []byte) []byte {
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return append([]byte(nil), text[:i]...)
}

// noteShowMatch implements the showmatch parameter: on a closing bracket,
// note where its opener is so the frontend can flash the cursor there.
func (h *Handler) noteShowMatch() {
	if h.Params == nil || !h.Params.Bool("showmatch") {
		return
	}
	cur := h.Win.Cursor
	at := buffer.Position{Line: cur.Line, Index: cur.Index - 1}
	if pos, ok := buffer.ShowMatch(at); ok {
		h.ShowMatchPos = pos
		h.ShowMatchActive = true
		h.ShowMatchUntil = time.Now().Add(showMatchDuration)
	}
}

// applyWrapMargin implements the wrap-margin rule: once the
// cursor's column exceeds columns-wrapmargin, split at the nearest
// preceding whitespace run and carry the trailing word down.
func (h *Handler) applyWrapMargin() {
	if h.Params == nil {
		return
	}
	wm := h.Params.Int("wrapmargin")
	if wm <= 0 || h.Columns <= 0 {
		return
	}
	cur := h.Win.Cursor
	if cur.Index <= h.Columns-wm {
		return
	}

	l := cur.Line
	brk := -1
	for i := cur.Index - 1; i > 0; i-- {
		if l.Text[i] == ' ' || l.Text[i] == '\t' {
			brk = i
			break
		}
	}
	if brk <= 0 {
		return
	}
	end := brk
	for end > 0 && (l.Text[end-1] == ' ' || l.Text[end-1] == '\t') {
		end--
	}

	head := append([]byte(nil), l.Text[:end]...)
	tailStart := brk + 1
	for tailStart < len(l.Text) && (l.Text[tailStart] == ' ' || l.Text[tailStart] == '\t') {
		tailStart++
	}
	tail := append([]byte(nil), l.Text[tailStart:]...)

	first := &buffer.Line{Text: head}
	second := &buffer.Line{Text: tail}
	newCol := cur.Index - tailStart

	h.Undo.StartCommand(cur)
	err := h.Buf.ReplLines(l, 1, []*buffer.Line{first, second})
	h.Undo.EndCommand()
	if err != nil {
		return
	}
	h.Win.Cursor = buffer.Position{Line: second, Index: newCol}
}

// endSession implements ESC: leave Insert/Replace, record '<', and stuff
// count-1 repeats of the typed text back into the stream.
func (h *Handler) endSession(state mode.State) mode.Outcome {
	h.active = false
	text := append([]byte(nil), h.typed...)
	if h.Regs != nil && len(text) > 0 {
		h.Regs.SetChars('<', text)
	}
	if h.Input != nil && h.count > 1 && len(text) > 0 {
		repeat := make([]byte, 0, len(text)*(h.count-1))
		for i := 1; i < h.count; i++ {
			repeat = append(repeat, text...)
		}
		h.Input.Stuff(repeat)
	}
	h.count = 1
	return h.stay(mode.Normal)
}
