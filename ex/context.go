package ex

import (
	"fmt"
	"strings"

	"github.com/xvi-go/xvi/buffer"
)

// Context is the parsed shape of one ex command: its address range (if
// any), whether '!' followed the command name, and the argument text
// (already filename-expanded, if the command's flags call for it).
type Context struct {
	HaveRange bool
	First     *buffer.Line
	Last      *buffer.Line
	Force     bool
	Arg       string
}

// Range returns the addressed range, defaulting to the handler's current
// line when the command was given no range at all — most commands
// default to the current line.
func (ctx *Context) Range(h *Handler) (*buffer.Line, *buffer.Line) {
	if ctx.HaveRange {
		return ctx.First, ctx.Last
	}
	cur := h.Win.Cursor.Line
	return cur, cur
}

// Fields splits Arg on whitespace, the shape :d/:y/:pu/:co/:m/:t's
// "[register] [count]" trailing arguments take.
func (ctx *Context) Fields() []string {
	return strings.Fields(ctx.Arg)
}

func errUnknownCommand(text string) error {
	word := text
	if i := strings.IndexAny(text, " \t!"); i >= 0 {
		word = text[:i]
	}
	return fmt.Errorf("ex: not an editor command: %q", word)
}

func errAmbiguousCommand(text string) error {
	word := text
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		word = text[:i]
	}
	return fmt.Errorf("ex: ambiguous command: %q", word)
}
