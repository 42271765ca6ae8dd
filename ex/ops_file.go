package ex

import (
	"fmt"
	"os"
	"strings"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/flexbuf"
)

// reload swaps path's content into h.Buf in place. Because buffer.Buffer
// is a stable pointer and only its
// internal line list changes, every already-wired reference to this
// buffer — normal.Handler.Buf, insert.Handler.Buf, h.Win.Buffer — keeps
// working unchanged; there is no separate "rebind the current buffer"
// hook anywhere in the port.
func (h *Handler) reload(path string, force bool) error {
	if !force && h.Buf.Flags&buffer.Modified != 0 {
		return fmt.Errorf("ex: no write since last change (add ! to override)")
	}
	lines, err := readFileLines(path)
	if err != nil {
		return err
	}
	for i := 1; i < len(lines); i++ {
		lines[i-1].Next = lines[i]
		lines[i].Prev = lines[i-1]
	}

	h.Undo.StartCommand(h.Win.Cursor)
	err = h.Buf.ReplBuffer(lines[0])
	h.Undo.EndCommand()
	if err != nil {
		return err
	}

	if h.Buf.Filename != "" && h.Buf.Filename != path {
		h.AltFile = h.Buf.Filename
	}
	h.Buf.Filename = path
	h.Buf.Flags &^= buffer.Modified
	h.Win.Cursor = buffer.Position{Line: h.Buf.File(), Index: 0}
	h.Win.Top_ = h.Buf.File()
	return nil
}

func runEdit(h *Handler, ctx *Context) error {
	if ctx.Arg == "" {
		return h.reload(h.Buf.Filename, ctx.Force)
	}
	return h.reload(ctx.Arg, ctx.Force)
}

func runRewind(h *Handler, ctx *Context) error {
	if len(h.Files) == 0 {
		return fmt.Errorf("ex: no file list")
	}
	h.FileIdx = 0
	return h.reload(h.Files[0], ctx.Force)
}

func runNext(h *Handler, ctx *Context) error {
	if ctx.Arg != "" {
		h.Files = ctx.Fields()
		h.FileIdx = 0
		return h.reload(h.Files[0], ctx.Force)
	}
	if h.FileIdx+1 >= len(h.Files) {
		return fmt.Errorf("ex: no more files")
	}
	h.FileIdx++
	return h.reload(h.Files[h.FileIdx], ctx.Force)
}

func runArgs(h *Handler, ctx *Context) error {
	if h.OnMessage == nil {
		return nil
	}
	msg := ""
	for i, f := range h.Files {
		if i == h.FileIdx {
			msg += "[" + f + "] "
		} else {
			msg += f + " "
		}
	}
	h.OnMessage(msg)
	return nil
}

func runRead(h *Handler, ctx *Context) error {
	if ctx.Arg == "" {
		return fmt.Errorf("ex: no filename given")
	}
	lines, err := readFileLines(ctx.Arg)
	if err != nil {
		return err
	}
	anchor, _ := ctx.Range(h)
	if buffer.IsLine0(anchor) {
		anchor = h.Buf.File()
		return h.insertLinesBefore(anchor, lines)
	}
	return h.insertLinesAfter(anchor, lines)
}

func (h *Handler) insertLinesAfter(after *buffer.Line, lines []*buffer.Line) error {
	h.Undo.StartCommand(h.Win.Cursor)
	defer h.Undo.EndCommand()
	return h.Buf.ReplLines(after.Next, 0, lines)
}

func (h *Handler) insertLinesBefore(before *buffer.Line, lines []*buffer.Line) error {
	h.Undo.StartCommand(h.Win.Cursor)
	defer h.Undo.EndCommand()
	return h.Buf.ReplLines(before, 0, lines)
}

func runWrite(h *Handler, ctx *Context) error {
	path := ctx.Arg
	if path == "" {
		path = h.Buf.Filename
	}
	appending := false
	if rest := strings.TrimPrefix(path, ">>"); rest != path {
		appending = true
		path = strings.TrimSpace(rest)
	}
	if path == "" {
		return fmt.Errorf("ex: no filename")
	}
	if h.Params.Bool("readonly") && !ctx.Force && !appending && path == h.Buf.Filename {
		return fmt.Errorf("ex: file is read only (add ! to override)")
	}
	first, last := ctx.Range(h)
	if !ctx.HaveRange {
		first, last = h.Buf.File(), h.Buf.Lastline().Prev
	}
	writeFn := writeLineRange
	if appending {
		writeFn = appendLineRange
	}
	n, err := writeFn(path, first, last.Next)
	if err != nil {
		return err
	}
	if path == h.Buf.Filename {
		h.Buf.Flags &^= buffer.Modified
	}
	if h.OnMessage != nil {
		var msg flexbuf.Flexbuf
		msg.Printf("\"%s\" %d lines written", path, n)
		h.OnMessage(msg.String())
	}
	return nil
}

func runWriteQuit(h *Handler, ctx *Context) error {
	if err := runWrite(h, ctx); err != nil {
		return err
	}
	return runQuit(h, ctx)
}

func runXit(h *Handler, ctx *Context) error {
	if h.Buf.Flags&buffer.Modified != 0 {
		if err := runWrite(h, ctx); err != nil {
			return err
		}
	}
	return runQuit(h, ctx)
}

func runQuit(h *Handler, ctx *Context) error {
	if !ctx.Force && h.Buf.Flags&buffer.Modified != 0 {
		return fmt.Errorf("ex: no write since last change (add ! to override)")
	}
	if h.Windows != nil && h.Windows.Count() > 1 {
		return h.Windows.Close(h.Win)
	}
	h.ShouldExit = true
	return nil
}

func runSplit(h *Handler, ctx *Context) error {
	if h.Windows == nil {
		return fmt.Errorf("ex: no window manager attached")
	}
	_, err := h.Windows.Open(h.Buf, h.Win.NRows/2)
	return err
}

func runClose(h *Handler, ctx *Context) error {
	if h.Windows == nil {
		return fmt.Errorf("ex: no window manager attached")
	}
	return h.Windows.Close(h.Win)
}

func runSource(h *Handler, ctx *Context) error {
	if ctx.Arg == "" {
		return fmt.Errorf("ex: no filename given")
	}
	lines, err := readFileLines(ctx.Arg)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if err := h.Execute(string(l.Text)); err != nil {
			return err
		}
	}
	return nil
}

func runChdir(h *Handler, ctx *Context) error {
	dir := ctx.Arg
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("ex: %w", err)
		}
		dir = home
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("ex: %w", err)
	}
	return nil
}

func runHelp(h *Handler, ctx *Context) error {
	if h.OnMessage != nil {
		h.OnMessage("see xvi(1)")
	}
	return nil
}

func runVersion(h *Handler, ctx *Context) error {
	if h.OnMessage != nil {
		h.OnMessage("xvi-go")
	}
	return nil
}

func runPreserve(h *Handler, ctx *Context) error {
	return h.doPreserve()
}
