package normal

import (
	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/mode"
	"github.com/xvi-go/xvi/search"
)

// lineSpan returns the position (at index 0) of the last line of the span
// n lines long starting at start, the span a doubled operator operates
// linewise over, clamped to the buffer's last real line; the bool is
// always true.
func lineSpan(buf *buffer.Buffer, start *buffer.Line, n int) (buffer.Position, bool) {
	if n < 1 {
		n = 1
	}
	end := start
	for i := 1; i < n; i++ {
		if buffer.IsLastline(end.Next) {
			break
		}
		end = end.Next
	}
	return buffer.Position{Line: end, Index: 0}, true
}

func firstNonBlank(l *buffer.Line) int {
	for i, c := range l.Text {
		if c != ' ' && c != '\t' {
			return i
		}
	}
	return 0
}

// charMotion resolves every motion that needs no further input byte,
// multiplied by count where the motion is naturally repeatable: count
// multiplication for the common single-step motions h/l/j/k/w/b/e/W/B/E,
// so "2d3w" deletes 6 words.
func (h *Handler) charMotion(b byte, count int) (to buffer.Position, linewise bool, ok bool) {
	cur := h.Win.Cursor
	switch b {
	case 'h':
		for i := 0; i < count; i++ {
			if buffer.Dec(&cur) == buffer.NoMove {
				break
			}
		}
		return cur, false, true
	case 'l', ' ':
		for i := 0; i < count; i++ {
			if buffer.Inc(&cur) == buffer.NoMove {
				break
			}
		}
		return cur, false, true
	case 'j', '\n':
		l := cur.Line
		for i := 0; i < count && !buffer.IsLastline(l.Next); i++ {
			l = l.Next
		}
		return buffer.Position{Line: l, Index: clampIndex(l, cur.Index)}, true, true
	case 'k':
		l := cur.Line
		for i := 0; i < count && !buffer.IsLine0(l.Prev); i++ {
			l = l.Prev
		}
		return buffer.Position{Line: l, Index: clampIndex(l, cur.Index)}, true, true
	case '+', '\r':
		l := cur.Line
		for i := 0; i < count && !buffer.IsLastline(l.Next); i++ {
			l = l.Next
		}
		return buffer.Position{Line: l, Index: firstNonBlank(l)}, true, true
	case '-':
		l := cur.Line
		for i := 0; i < count && !buffer.IsLine0(l.Prev); i++ {
			l = l.Prev
		}
		return buffer.Position{Line: l, Index: firstNonBlank(l)}, true, true
	case '0':
		return buffer.Position{Line: cur.Line, Index: 0}, false, true
	case '^':
		return buffer.Position{Line: cur.Line, Index: firstNonBlank(cur.Line)}, false, true
	case '$':
		l := cur.Line
		for i := 1; i < count && !buffer.IsLastline(l.Next); i++ {
			l = l.Next
		}
		return buffer.Position{Line: l, Index: len(l.Text)}, false, true
	case 'w':
		pos := cur
		for i := 0; i < count; i++ {
			pos, _ = buffer.FwdWord(pos, buffer.Word, true)
		}
		return pos, false, true
	case 'W':
		pos := cur
		for i := 0; i < count; i++ {
			pos, _ = buffer.FwdWord(pos, buffer.WORD, true)
		}
		return pos, false, true
	case 'b':
		pos := cur
		for i := 0; i < count; i++ {
			pos, _ = buffer.BckWord(pos, buffer.Word, true)
		}
		return pos, false, true
	case 'B':
		pos := cur
		for i := 0; i < count; i++ {
			pos, _ = buffer.BckWord(pos, buffer.WORD, true)
		}
		return pos, false, true
	case 'e':
		pos := cur
		for i := 0; i < count; i++ {
			pos, _ = buffer.EndWord(pos, buffer.Word, true)
		}
		return pos, false, true
	case 'E':
		pos := cur
		for i := 0; i < count; i++ {
			pos, _ = buffer.EndWord(pos, buffer.WORD, true)
		}
		return pos, false, true
	case 'G':
		n := count
		if !h.cmd.havePre {
			n = h.Buf.Count()
		}
		l := h.Buf.LineAt(n)
		if l == nil {
			l = h.Buf.Lastline().Prev
		}
		return buffer.Position{Line: l, Index: firstNonBlank(l)}, true, true
	case '%':
		if m, ok := buffer.ShowMatch(cur); ok {
			return m, false, true
		}
		return cur, false, false
	case 'H':
		l := h.Win.Top_
		for i := 1; i < count && !buffer.IsLastline(l.Next); i++ {
			l = l.Next
		}
		if l == nil {
			l = h.Buf.File()
		}
		return buffer.Position{Line: l, Index: firstNonBlank(l)}, true, true
	case 'L':
		l := h.Win.Top_
		rows := h.Win.NRows
		if l == nil {
			l = h.Buf.File()
		}
		for i := 1; i < rows && !buffer.IsLastline(l.Next); i++ {
			l = l.Next
		}
		return buffer.Position{Line: l, Index: firstNonBlank(l)}, true, true
	case 'M':
		l := h.Win.Top_
		if l == nil {
			l = h.Buf.File()
		}
		for i := 1; i < h.Win.NRows/2 && !buffer.IsLastline(l.Next); i++ {
			l = l.Next
		}
		return buffer.Position{Line: l, Index: firstNonBlank(l)}, true, true
	case 'n':
		return h.repeatSearch(h.Search.LastDirection())
	case 'N':
		return h.repeatSearch(oppositeDir(h.Search.LastDirection()))
	default:
		return buffer.Position{}, false, false
	}
}

func clampIndex(l *buffer.Line, idx int) int {
	if idx > len(l.Text) {
		return len(l.Text)
	}
	return idx
}

func oppositeDir(d search.Direction) search.Direction {
	if d == search.Forward {
		return search.Backward
	}
	return search.Forward
}

func (h *Handler) repeatSearch(dir search.Direction) (buffer.Position, bool, bool) {
	pos, found, err := h.Search.Search(h.Win.Cursor, dir, "", search.DialectGrep)
	if err != nil || !found {
		return buffer.Position{}, false, false
	}
	return pos, false, true
}

// pendingForByte reports the pending state a motion/noun byte switches into
// when it requires one more byte before it can be resolved, and whether
// a resulting motion should feed an active operator.
func pendingForByte(b byte) (pendingKind, bool) {
	switch b {
	case 'f':
		return pendFindFwd, true
	case 't':
		return pendFindFwdTill, true
	case 'F':
		return pendFindBack, true
	case 'T':
		return pendFindBackTill, true
	case '`', '\'':
		return pendMarkGoto, true
	default:
		return pendNone, false
	}
}

func (h *Handler) startSearch(dir search.Direction, forOp bool) mode.Outcome {
	h.cmd.pending = pendReadSearch
	h.cmd.searchDir = dir
	h.cmd.forOp = forOp
	h.cmd.searchBuf = h.cmd.searchBuf[:0]
	return h.stay()
}

// feedSearchByte collects the pattern typed after '/' or '?' until CR
// (accept) or ESC (cancel), a simplified stand-in for nesting the full
// ex/cmdline reader mid-command for the `/` and `?` motions; see
// DESIGN.md for why this is read inline rather than via mode.Cmdline.
func (h *Handler) feedSearchByte(b byte) mode.Outcome {
	switch b {
	case '\r', '\n':
		pattern := string(h.cmd.searchBuf)
		to, found, err := h.Search.Search(h.Win.Cursor, h.cmd.searchDir, pattern, search.DialectGrep)
		forOp := h.cmd.forOp
		op := h.cmd.operator
		from := h.Win.Cursor
		h.cmd.pending = pendNone
		if err != nil {
			h.cmd.reset()
			return h.fail(err)
		}
		if !found {
			h.cmd.reset()
			return h.beep()
		}
		if forOp {
			h.cmd.operator = op
			h.cmd.haveOp = true
			return h.finishOperator(from, to, false)
		}
		h.Win.Cursor = to
		h.cmd.reset()
		return h.stay()
	case 0x1b:
		h.cmd.reset()
		return h.stay()
	default:
		h.cmd.searchBuf = append(h.cmd.searchBuf, b)
		return h.stay()
	}
}

func (h *Handler) completeFind(kind pendingKind, b byte) mode.Outcome {
	h.cmd.pending = pendNone
	h.cmd.lastFindKind = kind
	h.cmd.lastFindCh = b
	to, ok := findChar(h.Win.Cursor, kind, b)
	if !ok {
		h.cmd.reset()
		return h.beep()
	}
	if h.cmd.haveOp {
		if kind == pendFindFwd || kind == pendFindFwdTill {
			buffer.Inc(&to)
		}
		return h.finishOperator(h.Win.Cursor, to, false)
	}
	h.Win.Cursor = to
	h.cmd.reset()
	return h.stay()
}

func findChar(from buffer.Position, kind pendingKind, ch byte) (buffer.Position, bool) {
	pos := from
	switch kind {
	case pendFindFwd, pendFindFwdTill:
		for {
			if buffer.Inc(&pos) == buffer.NoMove || pos.Line != from.Line {
				return buffer.Position{}, false
			}
			if pos.Index < len(pos.Line.Text) && pos.Line.Text[pos.Index] == ch {
				if kind == pendFindFwdTill {
					buffer.Dec(&pos)
				}
				return pos, true
			}
		}
	case pendFindBack, pendFindBackTill:
		for {
			if buffer.Dec(&pos) == buffer.NoMove || pos.Line != from.Line {
				return buffer.Position{}, false
			}
			if pos.Index < len(pos.Line.Text) && pos.Line.Text[pos.Index] == ch {
				if kind == pendFindBackTill {
					buffer.Inc(&pos)
				}
				return pos, true
			}
		}
	}
	return buffer.Position{}, false
}

func (h *Handler) completeReplace(b byte) mode.Outcome {
	h.cmd.pending = pendNone
	cur := h.Win.Cursor
	if cur.AtEOL() {
		h.cmd.reset()
		return h.beep()
	}
	h.Undo.StartCommand(cur)
	err := h.Buf.ReplChars(cur.Line, cur.Index, 1, []byte{b})
	h.Undo.EndCommand()
	h.cmd.reset()
	if err != nil {
		return h.fail(err)
	}
	return h.stay()
}

func (h *Handler) completeMarkGoto(b byte) mode.Outcome {
	h.cmd.pending = pendNone
	pos, ok := h.Buf.Marks.Get(b)
	h.cmd.reset()
	if !ok {
		return h.beep()
	}
	h.Win.Cursor = pos
	return h.stay()
}

func (h *Handler) completeMacroPlay(b byte) mode.Outcome {
	h.cmd.pending = pendNone
	name := b
	if name == '@' {
		name = '@' // "@@" plays the unnamed register, which is named '@'
	}
	h.cmd.reset()
	if h.Input == nil {
		return h.beep()
	}
	data, err := h.Regs.StuffInput(name)
	if err != nil {
		return h.fail(err)
	}
	h.Input.Stuff(data)
	return h.stay()
}

func (h *Handler) completeGPrefix(b byte) mode.Outcome {
	h.cmd.pending = pendNone
	if b != 'g' {
		h.cmd.reset()
		return h.beep()
	}
	n := 1
	if h.cmd.havePre {
		n = h.cmd.prenum
	} else {
		n = 1
	}
	l := h.Buf.LineAt(n)
	if l == nil {
		h.cmd.reset()
		return h.beep()
	}
	to := buffer.Position{Line: l, Index: firstNonBlank(l)}
	if h.cmd.haveOp {
		return h.finishOperator(h.Win.Cursor, to, true)
	}
	h.Win.Cursor = to
	h.cmd.reset()
	return h.stay()
}

func (h *Handler) completeZPrefix(b byte) mode.Outcome {
	h.cmd.pending = pendNone
	defer h.cmd.reset()
	switch b {
	case '.', '\r', '-':
		h.Win.Top_ = h.Win.Cursor.Line
		return h.stay()
	default:
		return h.beep()
	}
}
