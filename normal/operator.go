package normal

import (
	"github.com/xvi-go/xvi/buffer"
)

// applyOperator executes d/c/y/</>/! over [from,to]: the span
// is ordered, linewise operators round to whole lines, d/c push the kill
// ring before overwriting the unnamed register, and c leaves the range
// deleted ready for the caller to switch to Insert.
func applyOperator(h *Handler, op byte, from, to buffer.Position, linewise bool, regName byte) error {
	if to.Less(from) {
		from, to = to, from
	}

	switch op {
	case 'd', 'c':
		h.Regs.PushDeleted()
		return deleteRange(h, from, to, linewise, regName)
	case 'y':
		return yankRange(h, from, to, linewise, regName)
	case '<':
		return shiftRange(h, from, to, -1)
	case '>':
		return shiftRange(h, from, to, 1)
	case '!':
		// The '!' operator only moves the cursor to the range start: it
		// opens no command line and runs no filter, so the text of the
		// range is left unchanged.
		h.Win.Cursor = from
		return nil
	}
	return nil
}

func deleteRange(h *Handler, from, to buffer.Position, linewise bool, regName byte) error {
	if linewise {
		n := h.Buf.LineNo(to.Line) - h.Buf.LineNo(from.Line) + 1
		if err := h.Regs.Yank(buffer.Position{Line: from.Line}, buffer.Position{Line: to.Line}, false, regName); err != nil {
			return err
		}
		h.Undo.StartCommand(from)
		defer h.Undo.EndCommand()
		if n >= h.Buf.Count() {
			return h.Buf.ReplLines(from.Line, n, []*buffer.Line{{}})
		}
		return h.Buf.ReplLines(from.Line, n, nil)
	}

	if err := h.Regs.Yank(from, to, true, regName); err != nil {
		return err
	}
	h.Undo.StartCommand(from)
	defer h.Undo.EndCommand()
	if from.Line == to.Line {
		h.Win.Cursor = from
		return h.Buf.ReplChars(from.Line, from.Index, to.Index-from.Index, nil)
	}

	head := append([]byte(nil), from.Line.Text[:from.Index]...)
	tail := append([]byte(nil), to.Line.Text[to.Index:]...)
	merged := &buffer.Line{Text: append(head, tail...)}
	n := h.Buf.LineNo(to.Line) - h.Buf.LineNo(from.Line) + 1
	h.Win.Cursor = buffer.Position{Line: merged, Index: len(head)}
	return h.Buf.ReplLines(from.Line, n, []*buffer.Line{merged})
}

func yankRange(h *Handler, from, to buffer.Position, linewise bool, regName byte) error {
	charBased := !linewise
	if err := h.Regs.Yank(from, to, charBased, regName); err != nil {
		return err
	}
	h.Win.Cursor = from
	return nil
}

func shiftRange(h *Handler, from, to buffer.Position, dir int) error {
	const shiftWidth = 8
	n := h.Buf.LineNo(to.Line) - h.Buf.LineNo(from.Line) + 1
	h.Undo.StartCommand(from)
	defer h.Undo.EndCommand()
	l := from.Line
	for i := 0; i < n; i++ {
		if err := shiftLine(h.Buf, l, shiftWidth, dir); err != nil {
			return err
		}
		l = l.Next
	}
	h.Win.Cursor = buffer.Position{Line: from.Line, Index: firstNonBlank(from.Line)}
	return nil
}

func shiftLine(buf *buffer.Buffer, l *buffer.Line, width, dir int) error {
	indent := 0
	for indent < len(l.Text) && (l.Text[indent] == ' ' || l.Text[indent] == '\t') {
		indent++
	}
	cols := indentWidth(l.Text[:indent], width)
	switch {
	case dir > 0:
		cols += width
	case dir < 0:
		cols -= width
		if cols < 0 {
			cols = 0
		}
	}
	newIndent := (cols / width) * width
	if cols%width != 0 && dir > 0 {
		newIndent = cols
	}
	return buf.ReplChars(l, 0, indent, makeIndent(newIndent, width))
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
