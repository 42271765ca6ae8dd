package normal

import (
	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/mode"
	"github.com/xvi-go/xvi/register"
	"github.com/xvi-go/xvi/search"
)

// dispatchNoun resolves b as either the target motion of an active
// operator, or (with no operator pending) a motion that just moves the
// cursor, or a standalone one-character command: the grammar's `noun`
// production.
func (h *Handler) dispatchNoun(b byte) mode.Outcome {
	if pk, needsArg := pendingForByte(b); needsArg {
		h.cmd.pending = pk
		return h.toSubnormal()
	}

	switch b {
	case 'm':
		h.cmd.pending = pendMarkSet
		return h.toSubnormal()
	case 'r':
		h.cmd.pending = pendReplaceChar
		return h.toSubnormal()
	case '@':
		h.cmd.pending = pendMacroPlay
		return h.toSubnormal()
	case 'g':
		h.cmd.pending = pendGPrefix
		return h.toSubnormal()
	case 'z':
		h.cmd.pending = pendZPrefix
		return h.toSubnormal()
	case 'Z':
		h.cmd.pending = pendCapZPrefix
		return h.toSubnormal()
	case '/':
		return h.startSearch(search.Forward, h.cmd.haveOp)
	case '?':
		return h.startSearch(search.Backward, h.cmd.haveOp)
	case ';':
		return h.repeatFind(false)
	case ',':
		return h.repeatFind(true)
	}

	if to, linewise, ok := h.charMotion(b, h.cmd.count()); ok {
		if h.cmd.haveOp {
			return h.finishOperator(h.Win.Cursor, to, linewise)
		}
		h.Win.Cursor = to
		h.cmd.reset()
		return h.stay()
	}

	if h.cmd.haveOp {
		return h.beep()
	}

	return h.dispatchStandalone(b)
}

func (h *Handler) repeatFind(reverse bool) mode.Outcome {
	kind := h.cmd.lastFindKind
	if kind == pendNone {
		return h.beep()
	}
	if reverse {
		kind = reverseFind(kind)
	}
	to, ok := findChar(h.Win.Cursor, kind, h.cmd.lastFindCh)
	if !ok {
		h.cmd.reset()
		return h.beep()
	}
	if h.cmd.haveOp {
		return h.finishOperator(h.Win.Cursor, to, false)
	}
	h.Win.Cursor = to
	h.cmd.reset()
	return h.stay()
}

func reverseFind(k pendingKind) pendingKind {
	switch k {
	case pendFindFwd:
		return pendFindBack
	case pendFindFwdTill:
		return pendFindBackTill
	case pendFindBack:
		return pendFindFwd
	case pendFindBackTill:
		return pendFindFwdTill
	default:
		return k
	}
}

// dispatchStandalone handles the one-character commands that are never
// operator targets: deletion/replacement/undo/insert-entry/etc.
func (h *Handler) dispatchStandalone(b byte) mode.Outcome {
	count := h.cmd.count()
	switch b {
	case 'x':
		return h.deleteChars(count)
	case 'X':
		return h.deleteCharsBefore(count)
	case 'D':
		to := buffer.Position{Line: h.Win.Cursor.Line, Index: len(h.Win.Cursor.Line.Text)}
		h.cmd.operator = 'd'
		h.cmd.haveOp = true
		return h.finishOperator(h.Win.Cursor, to, false)
	case 'C':
		to := buffer.Position{Line: h.Win.Cursor.Line, Index: len(h.Win.Cursor.Line.Text)}
		h.cmd.operator = 'c'
		h.cmd.haveOp = true
		return h.finishOperator(h.Win.Cursor, to, false)
	case 'Y':
		to, _ := lineSpan(h.Buf, h.Win.Cursor.Line, count)
		h.cmd.operator = 'y'
		h.cmd.haveOp = true
		return h.finishOperator(h.Win.Cursor, to, true)
	case 'p':
		return h.put(register.Forward)
	case 'P':
		return h.put(register.Backward)
	case 'u':
		return h.undo()
	case 0x12: // ^R
		return h.redo()
	case 'i':
		h.cmd.reset()
		h.beginInsert(count, false)
		return mode.Outcome{NextState: mode.Insert}
	case 'I':
		h.Win.Cursor = buffer.Position{Line: h.Win.Cursor.Line, Index: firstNonBlank(h.Win.Cursor.Line)}
		h.cmd.reset()
		h.beginInsert(count, false)
		return mode.Outcome{NextState: mode.Insert}
	case 'a':
		if !h.Win.Cursor.AtEOL() {
			buffer.Inc(&h.Win.Cursor)
		}
		h.cmd.reset()
		h.beginInsert(count, false)
		return mode.Outcome{NextState: mode.Insert}
	case 'A':
		h.Win.Cursor = buffer.Position{Line: h.Win.Cursor.Line, Index: len(h.Win.Cursor.Line.Text)}
		h.cmd.reset()
		h.beginInsert(count, false)
		return mode.Outcome{NextState: mode.Insert}
	case 'o':
		return h.openLine(true)
	case 'O':
		return h.openLine(false)
	case 'R':
		h.cmd.reset()
		h.beginInsert(count, true)
		return mode.Outcome{NextState: mode.Replace}
	case 'J':
		return h.joinLines(count)
	case '~':
		return h.toggleCase()
	case '.':
		h.cmd.reset()
		if h.Input == nil || len(h.redoText) == 0 {
			return h.beep()
		}
		h.Input.Stuff(h.redoText)
		return h.stay()
	case ':':
		h.cmd.reset()
		if h.Cmdline == nil {
			return h.beep()
		}
		h.Cmdline.Begin(':')
		return mode.Outcome{NextState: mode.Cmdline}
	default:
		h.cmd.reset()
		return h.fail(errNoMotion(b))
	}
}

func (h *Handler) deleteChars(count int) mode.Outcome {
	cur := h.Win.Cursor
	end := cur
	for i := 0; i < count && end.Index < len(end.Line.Text); i++ {
		buffer.Inc(&end)
	}
	if end.Equal(cur) {
		return h.beep()
	}
	h.Regs.PushDeleted()
	if err := h.Regs.Yank(cur, end, true, '@'); err != nil {
		return h.fail(err)
	}
	h.Undo.StartCommand(cur)
	err := h.Buf.ReplChars(cur.Line, cur.Index, end.Index-cur.Index, nil)
	h.Undo.EndCommand()
	h.cmd.reset()
	if err != nil {
		return h.fail(err)
	}
	return h.stay()
}

func (h *Handler) deleteCharsBefore(count int) mode.Outcome {
	cur := h.Win.Cursor
	start := cur
	for i := 0; i < count && start.Index > 0; i++ {
		buffer.Dec(&start)
	}
	if start.Equal(cur) {
		return h.beep()
	}
	h.Regs.PushDeleted()
	if err := h.Regs.Yank(start, cur, true, '@'); err != nil {
		return h.fail(err)
	}
	h.Undo.StartCommand(start)
	err := h.Buf.ReplChars(start.Line, start.Index, cur.Index-start.Index, nil)
	h.Undo.EndCommand()
	h.Win.Cursor = start
	h.cmd.reset()
	if err != nil {
		return h.fail(err)
	}
	return h.stay()
}

func (h *Handler) put(dir register.Direction) mode.Outcome {
	reg := h.regOrDefault()
	h.Undo.StartCommand(h.Win.Cursor)
	err := h.Regs.Put(h.Buf, h.Win.Cursor, dir, reg)
	h.Undo.EndCommand()
	h.cmd.reset()
	if err != nil {
		return h.fail(err)
	}
	return h.stay()
}

func (h *Handler) undo() mode.Outcome {
	pos, ok := h.Undo.Undo()
	h.cmd.reset()
	if !ok {
		return h.beep()
	}
	h.Win.Cursor = pos
	return h.stay()
}

func (h *Handler) redo() mode.Outcome {
	pos, ok := h.Undo.Redo()
	h.cmd.reset()
	if !ok {
		return h.beep()
	}
	h.Win.Cursor = pos
	return h.stay()
}

func (h *Handler) openLine(below bool) mode.Outcome {
	anchor := h.Win.Cursor.Line
	if below {
		anchor = anchor.Next
	}
	newLine := &buffer.Line{}
	h.Undo.StartCommand(h.Win.Cursor)
	err := h.Buf.ReplLines(anchor, 0, []*buffer.Line{newLine})
	h.Undo.EndCommand()
	h.cmd.reset()
	if err != nil {
		return h.fail(err)
	}
	h.Win.Cursor = buffer.Position{Line: newLine, Index: 0}
	h.beginInsert(1, false)
	return mode.Outcome{NextState: mode.Insert}
}

func (h *Handler) joinLines(count int) mode.Outcome {
	if count < 2 {
		count = 2
	}
	first := h.Win.Cursor.Line
	h.Undo.StartCommand(h.Win.Cursor)
	defer h.Undo.EndCommand()

	joinCol := len(first.Text)
	cur := first
	for i := 1; i < count; i++ {
		next := cur.Next
		if buffer.IsLastline(next) {
			break
		}
		sep := []byte(" ")
		merged := append(append([]byte(nil), cur.Text...), sep...)
		merged = append(merged, trimLeadingBlanks(next.Text)...)
		m := &buffer.Line{Text: merged}
		if err := h.Buf.ReplLines(cur, 2, []*buffer.Line{m}); err != nil {
			h.cmd.reset()
			return h.fail(err)
		}
		cur = m
	}
	h.Win.Cursor = buffer.Position{Line: cur, Index: joinCol}
	h.cmd.reset()
	return h.stay()
}

func trimLeadingBlanks(text []byte) []byte {
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return text[i:]
}

func (h *Handler) toggleCase() mode.Outcome {
	cur := h.Win.Cursor
	if cur.AtEOL() {
		return h.beep()
	}
	c := cur.Line.Text[cur.Index]
	var nc byte
	switch {
	case c >= 'a' && c <= 'z':
		nc = c - 'a' + 'A'
	case c >= 'A' && c <= 'Z':
		nc = c - 'A' + 'a'
	default:
		nc = c
	}
	h.Undo.StartCommand(cur)
	err := h.Buf.ReplChars(cur.Line, cur.Index, 1, []byte{nc})
	h.Undo.EndCommand()
	if err != nil {
		h.cmd.reset()
		return h.fail(err)
	}
	buffer.Inc(&h.Win.Cursor)
	h.cmd.reset()
	return h.stay()
}

func (h *Handler) completeCapZPrefix(b byte) mode.Outcome {
	h.cmd.pending = pendNone
	defer h.cmd.reset()
	if b != 'Z' {
		return h.beep()
	}
	if h.Life == nil {
		return h.beep()
	}
	if err := h.Life.WriteQuit(); err != nil {
		return h.fail(err)
	}
	return mode.Outcome{NextState: mode.Exiting}
}
