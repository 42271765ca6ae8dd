// Package ex implements the ex command-line language: range/address
// parsing, the command table and its prefix-match disambiguation,
// filename expansion, and dispatch to the concrete editing, file and
// window operations it names, grounded on the original's cmdline.c,
// ex_cmds1.c and ex_cmds2.c.
package ex

import (
	"context"
	"fmt"
	"strings"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/clipboard"
	"github.com/xvi-go/xvi/keymap"
	"github.com/xvi-go/xvi/mode"
	"github.com/xvi-go/xvi/param"
	"github.com/xvi-go/xvi/pipeline"
	"github.com/xvi-go/xvi/preserve"
	"github.com/xvi-go/xvi/register"
	"github.com/xvi-go/xvi/search"
	"github.com/xvi-go/xvi/tags"
	"github.com/xvi-go/xvi/undo"
	"github.com/xvi-go/xvi/window"
)

// Handler drives ex command-line reading and dispatch for one window. It
// implements normal.CmdlineStarter (Begin) and the Cmdline corner of
// mode.Dispatcher; cmd/xvi composes it with normal/insert to form the
// full Dispatcher, and also calls Execute directly for ":source" files,
// "@register" playback landing on a colon-line, and the "+cmd" startup
// option.
type Handler struct {
	Buf    *buffer.Buffer
	Win    *window.Window
	Windows *window.Manager
	Undo   *undo.Engine
	Regs   *register.Bank
	Search *search.Engine
	Params *param.Store
	Tags   *tags.Cache
	Clip   *clipboard.Mirror

	CmdMap *keymap.Map
	InsMap *keymap.Map

	PreserveState *preserve.State

	// Keystrokes is handed to preserve.Preserve by doPreserve; nothing in
	// cmd/xvi updates it. See preserve.go.
	Keystrokes int

	Filter pipeline.LastCmd

	// OnMessage surfaces ex's informational output (":=", ":version",
	// "N lines written", ...); nil is fine, it just goes nowhere.
	OnMessage func(string)

	// AltFile is the alternate filename '#' expands to: the buffer's
	// filename before the most recent ":e"/":n" switched it.
	AltFile string

	// Files/FileIdx back ":n"/":args"/":rewind": the argument list xvi
	// was invoked with, and which member is the current buffer.
	Files   []string
	FileIdx int

	// ShouldExit and ExitErr let Cmdline report a whole-session exit
	// (":q" on the last window, ":x", ":wq", bare EOF) back through
	// mode.Outcome, which has no room for a custom payload; cmd/xvi reads
	// these after seeing NextState == mode.Exiting.
	ShouldExit bool
	ExitErr    error

	// ShouldSuspend mirrors normal.Handler.Suspend's split: actually
	// stopping the process is a frontend concern, so ":stop"/":suspend"
	// just raises this for Cmdline to fold into Outcome.Suspend.
	ShouldSuspend bool

	lastAtReg byte

	prefix byte
	typed  []byte
	active bool
}

// New builds an ex Handler bound to one window's editing context.
func New(buf *buffer.Buffer, win *window.Window, windows *window.Manager, eng *undo.Engine, regs *register.Bank, se *search.Engine, params *param.Store) *Handler {
	return &Handler{
		Buf:     buf,
		Win:     win,
		Windows: windows,
		Undo:    eng,
		Regs:    regs,
		Search:  se,
		Params:  params,
	}
}

// CmdlineText returns the in-progress command line as it should be
// echoed on the shared command-line row: the prefix byte (':', '/' or
// '?') followed by everything typed so far. The command line is drawn
// on the screen's bottom row as it is typed.
func (h *Handler) CmdlineText() []byte {
	if !h.active {
		return nil
	}
	out := make([]byte, 0, len(h.typed)+1)
	out = append(out, h.prefix)
	return append(out, h.typed...)
}

// Begin implements normal.CmdlineStarter: a ':' was just typed in Normal
// state, so start accumulating a command line.
func (h *Handler) Begin(prefix byte) {
	h.prefix = prefix
	h.typed = h.typed[:0]
	h.active = true
}

// Cmdline implements the Cmdline corner of mode.Dispatcher: accumulate
// bytes until Enter (execute), ESC (cancel), or backspace past the start
// (cancel), same as the original's getcmdline.
func (h *Handler) Cmdline(b byte) mode.Outcome {
	switch b {
	case 0x1b: // ESC
		h.active = false
		return mode.Outcome{NextState: mode.Normal}

	case '\r', '\n':
		h.active = false
		line := string(h.typed)
		err := h.Execute(line)
		next := mode.Normal
		if h.ShouldExit {
			next = mode.Exiting
		}
		out := mode.Outcome{NextState: next, Err: err, Suspend: h.ShouldSuspend}
		h.ShouldSuspend = false
		if err != nil {
			out.Beep = true
			if h.OnMessage != nil {
				h.OnMessage(err.Error())
			}
		}
		return out

	case 0x08, 0x7f: // ^H, DEL
		if len(h.typed) == 0 {
			h.active = false
			return mode.Outcome{NextState: mode.Normal}
		}
		h.typed = h.typed[:len(h.typed)-1]
		return mode.Outcome{NextState: mode.Cmdline}

	default:
		h.typed = append(h.typed, b)
		return mode.Outcome{NextState: mode.Cmdline}
	}
}

// Execute parses and runs one complete ex command line. It is the single
// entry point both Cmdline and ":source"/"@macro"/"+cmd" callers use.
func (h *Handler) Execute(line string) error {
	s := strings.TrimLeft(line, " \t")
	if s == "" {
		return nil
	}
	// A line consisting only of a range (e.g. a bare line number, or a
	// search address) moves the cursor there rather than naming a
	// command.
	first, last, have, pos, err := h.parseRange(s, 0)
	if err != nil {
		return err
	}
	pos = skipSpace(s, pos)
	rest := s[pos:]

	if rest == "" {
		if !have {
			return nil
		}
		return runGotoLine(h, &Context{HaveRange: true, First: first, Last: last})
	}

	m, err := lookupCommand(rest)
	if err != nil {
		return err
	}
	if m.sawExclam && m.cmd.Flags&EXCLAM == 0 && m.cmd.Arg != ArgFilecmd {
		return fmt.Errorf("ex: %s doesn't allow !", m.cmd.Name)
	}
	if have && !validRange0(m.cmd, first, last) {
		return fmt.Errorf("ex: invalid use of line 0")
	}

	argStart := m.nameLen
	if m.sawExclam {
		argStart++
	}
	arg := rest[argStart:]
	if m.cmd.Arg != ArgRest && m.cmd.Arg != ArgNonAlnum {
		arg = strings.TrimLeft(arg, " \t")
	}
	if m.cmd.Flags&INTEXP != 0 {
		arg = h.expandSpecials(arg)
	}
	if m.cmd.Flags&FILEXP != 0 {
		arg = expandGlob(arg)
	}

	ctx := &Context{HaveRange: have, First: first, Last: last, Force: m.sawExclam, Arg: arg}
	return m.cmd.Run(h, ctx)
}

func validRange0(c *Command, first, last *buffer.Line) bool {
	if c.Flags&RANGE0 != 0 {
		return true
	}
	return !buffer.IsLine0(first) && !buffer.IsLine0(last)
}

// shellContext is the Context pipeline.Filter/exec.Command calls run
// under; ex commands are synchronous and uncancellable once started —
// filter/shell-out is not itself a preemption point.
func shellContext() context.Context { return context.Background() }
