package ex

import (
	"fmt"
	"strings"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/pipeline"
	"github.com/xvi-go/xvi/search"
	"github.com/xvi-go/xvi/tags"
)

// runShellFilter implements both forms of ":!": with a range, pipe.Filter
// pipes [first,last] through the command and replaces them with its
// output; with no range, it is a plain shell escape that
// runs the command with no buffer interaction. "!!" repeats the last
// command either way, grounded on pipe.c.
func runShellFilter(h *Handler, ctx *Context) error {
	shell := h.Params.Str("shell")
	if shell == "" {
		shell = "/bin/sh"
	}
	command, err := h.Filter.Resolve(ctx.Arg)
	if err != nil {
		return err
	}

	if !ctx.HaveRange {
		_, err := pipeline.Filter(shellContext(), h.Buf, shell, h.Buf.File(), h.Buf.File(), command)
		return err
	}

	first, last := ctx.Range(h)
	h.Undo.StartCommand(h.Win.Cursor)
	defer h.Undo.EndCommand()
	ok, err := pipeline.Filter(shellContext(), h.Buf, shell, first, last, command)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("ex: command produced no output")
	}
	return nil
}

// runMap implements ":map"/":map!": with no argument, it
// would list the current mappings — here, a no-op, since listing is a
// display-layer concern; with "lhs rhs" it defines one. "!" selects the
// insert-mode map instead of the normal-mode one.
func runMap(h *Handler, ctx *Context) error {
	fields := strings.Fields(ctx.Arg)
	if len(fields) < 2 {
		return fmt.Errorf("ex: map requires lhs and rhs")
	}
	m := h.CmdMap
	if ctx.Force {
		m = h.InsMap
	}
	if m == nil {
		return fmt.Errorf("ex: no map attached")
	}
	m.Define(fields[0], strings.Join(fields[1:], " "))
	return nil
}

func runUnmap(h *Handler, ctx *Context) error {
	fields := ctx.Fields()
	if len(fields) != 1 {
		return fmt.Errorf("ex: unmap requires exactly one lhs")
	}
	m := h.CmdMap
	if ctx.Force {
		m = h.InsMap
	}
	if m == nil {
		return fmt.Errorf("ex: no map attached")
	}
	m.Unmap(fields[0])
	return nil
}

// runSet implements ":set": each field is "name" (bool on),
// "noname" (bool off), "name!" (bool toggle), or "name=value" (any
// param). A bare ":set" with no fields would list current values, which
// here is a no-op for the same reason ":map" with no arguments is.
func runSet(h *Handler, ctx *Context) error {
	for _, f := range ctx.Fields() {
		if err := applySetField(h, f); err != nil {
			return err
		}
	}
	return nil
}

func applySetField(h *Handler, f string) error {
	if eq := strings.IndexByte(f, '='); eq >= 0 {
		return h.Params.Set(f[:eq], f[eq+1:])
	}
	if strings.HasSuffix(f, "!") {
		name := f[:len(f)-1]
		return h.Params.SetBool(name, !h.Params.Bool(name))
	}
	if strings.HasPrefix(f, "no") {
		return h.Params.SetBool(f[2:], false)
	}
	return h.Params.SetBool(f, true)
}

// runTag implements ":tag name": look the tag up,
// switch buffers if it names another file, push the jump-from position
// as the '' context mark, then land on the tag's line number or search
// pattern.
func runTag(h *Handler, ctx *Context) error {
	name := strings.TrimSpace(ctx.Arg)
	if name == "" {
		return fmt.Errorf("ex: no tag name given")
	}
	if h.Tags == nil {
		return fmt.Errorf("ex: no tag cache attached")
	}
	entry, _, _, err := h.Tags.Lookup(name)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("ex: tag not found: %s", name)
	}

	h.Buf.Marks.SetPrevContext(h.Win.Cursor)

	if entry.File != "" && entry.File != h.Buf.Filename {
		if err := h.reload(entry.File, ctx.Force); err != nil {
			return err
		}
	}

	if lineNo, ok := tags.ParseLocator(entry.Locator); ok {
		l, serr := stepLines(h.Buf.File(), lineNo-1)
		if serr != nil {
			return serr
		}
		h.Win.Cursor = buffer.Position{Line: l, Index: 0}
		return nil
	}

	pos, found, serr := h.Search.FindPattern(buffer.Position{Line: h.Buf.File(), Index: 0}, search.Forward, tagSearchPattern(entry.Locator), h.searchDialect())
	if serr != nil {
		return serr
	}
	if !found {
		return fmt.Errorf("ex: tag %s: pattern not found in %s", name, entry.File)
	}
	h.Win.Cursor = pos
	return nil
}

// tagSearchPattern strips a ctags locator's "/pat/" or "?pat?" delimiters,
// leaving the bare pattern FindPattern expects.
func tagSearchPattern(locator string) string {
	if len(locator) >= 2 {
		d := locator[0]
		if (d == '/' || d == '?') && locator[len(locator)-1] == d {
			return locator[1 : len(locator)-1]
		}
	}
	return locator
}

func runUndo(h *Handler, ctx *Context) error {
	pos, ok := h.Undo.Undo()
	if !ok {
		return fmt.Errorf("ex: nothing to undo")
	}
	h.Win.Cursor = pos
	return nil
}

func runRedo(h *Handler, ctx *Context) error {
	pos, ok := h.Undo.Redo()
	if !ok {
		return fmt.Errorf("ex: nothing to redo")
	}
	h.Win.Cursor = pos
	return nil
}

// runSuspend implements ":stop"/":suspend". Actually suspending the
// process is a frontend concern (terminal raw mode, SIGTSTP) handled by
// whatever installs this Handler, the same split normal.Handler.Suspend
// makes; this just raises ShouldSuspend for Cmdline to report.
func runSuspend(h *Handler, ctx *Context) error {
	h.ShouldSuspend = true
	return nil
}
