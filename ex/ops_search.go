package ex

import (
	"fmt"
	"strings"

	"github.com/xvi-go/xvi/buffer"
)

// doGlobal implements ":g" and ":v": parse ctx.Arg as
// delim+pattern+delim+cmdText, mark every line in the range matching (or,
// if negate, not matching) pattern, then run cmdText on each marked line
// in turn via Execute. With no cmdText, "p" (print) is the default in the
// original; here a bare match just leaves the cursor on the last marked
// line, since printing is a display-layer concern outside this package.
func (h *Handler) doGlobal(ctx *Context, negate bool) error {
	arg := ctx.Arg
	if arg == "" {
		return fmt.Errorf("ex: global requires a pattern")
	}
	delim := arg[0]
	pat, pos, err := scanDelim(arg, 1, delim)
	if err != nil {
		return err
	}
	cmdText := strings.TrimLeft(arg[pos:], " \t")

	first, last := h.Buf.File(), h.Buf.Lastline().Prev
	if ctx.HaveRange {
		first, last = ctx.First, ctx.Last
	}

	h.Undo.StartCommand(h.Win.Cursor)
	defer h.Undo.EndCommand()

	_, gerr := h.Search.Global(h.Buf, first, last, pat, h.searchDialect(), negate, func(buf *buffer.Buffer, line *buffer.Line) error {
		h.Win.Cursor = buffer.Position{Line: line}
		if cmdText == "" {
			return nil
		}
		return h.Execute(cmdText)
	})
	return gerr
}

func runGlobal(h *Handler, ctx *Context) error { return h.doGlobal(ctx, false) }
func runV(h *Handler, ctx *Context) error      { return h.doGlobal(ctx, true) }

// parseSubstArgs splits ":s/lhs/rhs/flags" into its three parts. An empty
// arg, or one with no delimiter at all, returns ok=false so the caller
// falls back to repeating the last substitution — bare ":s" repeats the
// last substitution.
func parseSubstArgs(arg string) (lhs, rhs, flags string, ok bool) {
	if arg == "" {
		return "", "", "", false
	}
	delim := arg[0]
	if isAlnum(delim) || delim == '\\' || delim == '"' || delim == '|' {
		return "", "", "", false
	}
	lhsPart, pos, err := scanDelim(arg, 1, delim)
	if err != nil {
		return "", "", "", false
	}
	if pos >= len(arg) {
		return lhsPart, "", "", true
	}
	rhsPart, pos2, err := scanDelim(arg, pos+1, delim)
	if err != nil {
		return "", "", "", false
	}
	return lhsPart, rhsPart, arg[pos2:], true
}

func (h *Handler) substitute(ctx *Context, lhs, rhs, flags string) error {
	first, last := ctx.Range(h)
	global := strings.ContainsRune(flags, 'g')

	h.Undo.StartCommand(h.Win.Cursor)
	defer h.Undo.EndCommand()

	n, err := h.Search.Substitute(h.Buf, first, last, lhs, rhs, h.searchDialect(), global)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("ex: pattern not found")
	}
	h.Win.Cursor = buffer.Position{Line: last, Index: 0}
	return nil
}

// runSubstitute implements ":s/lhs/rhs/flags", falling back to the last
// substitution's lhs/rhs when no delimited
// arguments are given at all (bare ":s" repeats it over the new range).
func runSubstitute(h *Handler, ctx *Context) error {
	lhs, rhs, flags, ok := parseSubstArgs(ctx.Arg)
	if !ok {
		lastLhs, lastRhs, have := h.Search.LastSubstitution()
		if !have {
			return fmt.Errorf("ex: no previous substitution")
		}
		lhs, rhs, flags = lastLhs, lastRhs, strings.TrimSpace(ctx.Arg)
	}
	return h.substitute(ctx, lhs, rhs, flags)
}

// runAmpersand implements ":&" (repeat the last substitution's lhs and
// rhs over a new range).
func runAmpersand(h *Handler, ctx *Context) error {
	lhs, rhs, have := h.Search.LastSubstitution()
	if !have {
		return fmt.Errorf("ex: no previous substitution")
	}
	return h.substitute(ctx, lhs, rhs, strings.TrimSpace(ctx.Arg))
}

// runTilde implements ":~" (repeat the last substitution's rhs, but using
// the last SEARCH pattern, not the last substitution pattern, as lhs).
func runTilde(h *Handler, ctx *Context) error {
	_, rhs, have := h.Search.LastSubstitution()
	if !have {
		return fmt.Errorf("ex: no previous substitution")
	}
	lhs, have := h.Search.LastSearchPattern()
	if !have {
		return fmt.Errorf("ex: no previous search pattern")
	}
	return h.substitute(ctx, lhs, rhs, strings.TrimSpace(ctx.Arg))
}
