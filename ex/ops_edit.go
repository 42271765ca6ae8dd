package ex

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/flexbuf"
	"github.com/xvi-go/xvi/register"
)

// countLines returns how many real lines lie between first and last,
// inclusive, by walking Next (first and last must be on the same list,
// first at or before last).
func countLines(first, last *buffer.Line) int {
	n := 0
	for l := first; ; l = l.Next {
		n++
		if l == last {
			break
		}
	}
	return n
}

// cloneRange returns independent copies of [first,last], for :move/:copy,
// which must not hand the undo engine a line still linked into the buffer.
func cloneRange(first, last *buffer.Line) []*buffer.Line {
	var out []*buffer.Line
	for l := first; ; l = l.Next {
		out = append(out, l.Clone())
		if l == last {
			break
		}
	}
	return out
}

func isRegNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// parseRegCount reads an optional leading register-name field and an
// optional trailing count field off fields, the "[x] [count]" trailer
// :d and :y both accept (grounded on ex_cmds1.c's doyank/dodelete).
func parseRegCount(fields []string) (reg byte, count int, hasCount bool, err error) {
	for _, f := range fields {
		switch {
		case len(f) == 1 && isRegNameChar(f[0]) && reg == 0:
			reg = f[0]
		default:
			n, cerr := strconv.Atoi(f)
			if cerr != nil {
				return 0, 0, false, fmt.Errorf("ex: bad argument %q", f)
			}
			count, hasCount = n, true
		}
	}
	return reg, count, hasCount, nil
}

func runDelete(h *Handler, ctx *Context) error {
	first, last := ctx.Range(h)
	reg, count, hasCount, err := parseRegCount(ctx.Fields())
	if err != nil {
		return err
	}
	if hasCount {
		nl, serr := stepLines(last, count-1)
		if serr != nil {
			return serr
		}
		last = nl
	}
	if reg == 0 {
		reg = '@'
	}

	before := first.Prev
	after := last.Next
	n := countLines(first, last)

	h.Regs.PushDeleted()
	if err := h.Regs.Yank(buffer.Position{Line: first}, buffer.Position{Line: last}, false, reg); err != nil {
		return err
	}

	h.Undo.StartCommand(h.Win.Cursor)
	err = h.Buf.ReplLines(first, n, nil)
	h.Undo.EndCommand()
	if err != nil {
		return err
	}

	cur := after
	if buffer.IsLastline(cur) {
		cur = before
		if buffer.IsLine0(cur) {
			cur = h.Buf.File()
		}
	}
	h.Win.Cursor = buffer.Position{Line: cur}
	return nil
}

func runYank(h *Handler, ctx *Context) error {
	first, last := ctx.Range(h)
	reg, count, hasCount, err := parseRegCount(ctx.Fields())
	if err != nil {
		return err
	}
	if hasCount {
		nl, serr := stepLines(last, count-1)
		if serr != nil {
			return serr
		}
		last = nl
	}
	if reg == 0 {
		reg = '@'
	}
	return h.Regs.Yank(buffer.Position{Line: first}, buffer.Position{Line: last}, false, reg)
}

func runPut(h *Handler, ctx *Context) error {
	reg := byte('@')
	if fields := ctx.Fields(); len(fields) > 0 && len(fields[0]) == 1 && isRegNameChar(fields[0][0]) {
		reg = fields[0][0]
	}
	loc, _ := ctx.Range(h)

	h.Undo.StartCommand(h.Win.Cursor)
	defer h.Undo.EndCommand()
	if ctx.HaveRange && buffer.IsLine0(loc) {
		return h.Regs.Put(h.Buf, buffer.Position{Line: h.Buf.File(), Index: 0}, register.Backward, reg)
	}
	return h.Regs.Put(h.Buf, buffer.Position{Line: loc, Index: 0}, register.Forward, reg)
}

func runMove(h *Handler, ctx *Context) error {
	first, last := ctx.Range(h)
	dest, _, present, err := h.parseAddr(ctx.Arg, 0)
	if err != nil {
		return err
	}
	if !present {
		dest = h.Win.Cursor.Line
	}

	clones := cloneRange(first, last)
	n := countLines(first, last)

	h.Undo.StartCommand(h.Win.Cursor)
	defer h.Undo.EndCommand()
	if err := h.Buf.ReplLines(first, n, nil); err != nil {
		return err
	}
	if buffer.IsLine0(dest) {
		err = h.Buf.ReplLines(h.Buf.File(), 0, clones)
	} else {
		err = h.Buf.ReplLines(dest.Next, 0, clones)
	}
	if err != nil {
		return err
	}
	h.Win.Cursor = buffer.Position{Line: clones[len(clones)-1]}
	return nil
}

func runCopy(h *Handler, ctx *Context) error {
	first, last := ctx.Range(h)
	dest, _, present, err := h.parseAddr(ctx.Arg, 0)
	if err != nil {
		return err
	}
	if !present {
		dest = h.Win.Cursor.Line
	}

	clones := cloneRange(first, last)

	h.Undo.StartCommand(h.Win.Cursor)
	defer h.Undo.EndCommand()
	if buffer.IsLine0(dest) {
		err = h.Buf.ReplLines(h.Buf.File(), 0, clones)
	} else {
		err = h.Buf.ReplLines(dest.Next, 0, clones)
	}
	if err != nil {
		return err
	}
	h.Win.Cursor = buffer.Position{Line: clones[len(clones)-1]}
	return nil
}

func trimLeadingBlanks(text []byte) []byte {
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return text[i:]
}

// runJoin ports normal.joinLines to a range, grounded on normal/noun.go's
// joinLines. "!" suppresses the usual inserted space between joined lines.
func runJoin(h *Handler, ctx *Context) error {
	first, last := ctx.Range(h)
	count := countLines(first, last)
	if count < 2 {
		count = 2
	}
	if fields := ctx.Fields(); len(fields) > 0 {
		if n, err := strconv.Atoi(fields[0]); err == nil && n > count {
			count = n
		}
	}

	h.Undo.StartCommand(h.Win.Cursor)
	defer h.Undo.EndCommand()

	cur := first
	joinCol := len(cur.Text)
	for i := 1; i < count; i++ {
		next := cur.Next
		if buffer.IsLastline(next) {
			break
		}
		var merged []byte
		if ctx.Force {
			merged = append(append([]byte(nil), cur.Text...), next.Text...)
		} else {
			merged = append(append([]byte(nil), cur.Text...), ' ')
			merged = append(merged, trimLeadingBlanks(next.Text)...)
		}
		m := &buffer.Line{Text: merged}
		if err := h.Buf.ReplLines(cur, 2, []*buffer.Line{m}); err != nil {
			return err
		}
		cur = m
	}
	h.Win.Cursor = buffer.Position{Line: cur, Index: joinCol}
	return nil
}

func makeIndentSpaces(cols, tabstop int) []byte {
	if tabstop <= 0 {
		tabstop = 8
	}
	var out []byte
	for i := 0; i < cols/tabstop; i++ {
		out = append(out, '\t')
	}
	out = append(out, bytes.Repeat([]byte{' '}, cols%tabstop)...)
	return out
}

// shiftLineText replaces l's leading whitespace with an indent delta
// columns wider or narrower, leaving blank lines untouched. Grounded on
// the same indent arithmetic insert.Handler's autoindent shift uses.
func shiftLineText(buf *buffer.Buffer, l *buffer.Line, delta, tabstop int) error {
	if tabstop <= 0 {
		tabstop = 8
	}
	i, col := 0, 0
	for i < len(l.Text) && (l.Text[i] == ' ' || l.Text[i] == '\t') {
		if l.Text[i] == '\t' {
			col += tabstop - col%tabstop
		} else {
			col++
		}
		i++
	}
	if i == len(l.Text) {
		return nil
	}
	newCol := col + delta
	if newCol < 0 {
		newCol = 0
	}
	return buf.ReplChars(l, 0, i, makeIndentSpaces(newCol, tabstop))
}

func (h *Handler) shiftRange(ctx *Context, dir int) error {
	first, last := ctx.Range(h)
	sw := h.Params.Int("shiftwidth")
	if sw <= 0 {
		sw = 8
	}
	ts := h.Params.Int("tabstop")

	h.Undo.StartCommand(h.Win.Cursor)
	defer h.Undo.EndCommand()
	for l := first; ; l = l.Next {
		if err := shiftLineText(h.Buf, l, dir*sw, ts); err != nil {
			return err
		}
		if l == last {
			break
		}
	}
	h.Win.Cursor = buffer.Position{Line: last, Index: 0}
	return nil
}

func runShiftLeft(h *Handler, ctx *Context) error  { return h.shiftRange(ctx, -1) }
func runShiftRight(h *Handler, ctx *Context) error { return h.shiftRange(ctx, 1) }

func runMark(h *Handler, ctx *Context) error {
	name := strings.TrimSpace(ctx.Arg)
	if len(name) != 1 {
		return fmt.Errorf("ex: mark requires a single lowercase letter")
	}
	_, last := ctx.Range(h)
	if !h.Buf.Marks.Set(name[0], buffer.Position{Line: last, Index: 0}) {
		return fmt.Errorf("ex: invalid mark name %q", name)
	}
	return nil
}

func runEquals(h *Handler, ctx *Context) error {
	_, last := ctx.Range(h)
	if h.OnMessage != nil {
		var msg flexbuf.Flexbuf
		msg.Printf("%d", h.Buf.LineNo(last))
		h.OnMessage(msg.String())
	}
	return nil
}

func runGotoLine(h *Handler, ctx *Context) error {
	_, last := ctx.Range(h)
	h.Win.Cursor = buffer.Position{Line: last, Index: 0}
	return nil
}

// runAtRegister replays a register's content as ex command lines, reusing
// yp_stuff_input's semantics for ":@x" rather than only normal mode's "@x".
func runAtRegister(h *Handler, ctx *Context) error {
	name := strings.TrimSpace(ctx.Arg)
	if name == "@" {
		name = string(h.lastAtReg)
	}
	if len(name) != 1 {
		return fmt.Errorf("ex: @ requires a single register name")
	}
	h.lastAtReg = name[0]

	data, err := h.Regs.StuffInput(name[0])
	if err != nil {
		return err
	}
	for _, line := range splitNonEmptyLines(data) {
		if err := h.Execute(line); err != nil {
			return err
		}
	}
	return nil
}

func splitNonEmptyLines(data []byte) []string {
	var out []string
	start := 0
	for i, c := range data {
		if c == '\n' {
			out = append(out, string(data[start:i]))
			start = i + 1
		}
	}
	if start < len(data) {
		out = append(out, string(data[start:]))
	}
	return out
}
