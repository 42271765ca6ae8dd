// Package normal implements the normal-mode command parser:
// prenum/operator/opnum/register/motion grammar, doubled-operator
// linewise shortcuts, and the redo buffer behind `.`.
package normal

import (
	"fmt"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/mode"
	"github.com/xvi-go/xvi/register"
	"github.com/xvi-go/xvi/search"
	"github.com/xvi-go/xvi/undo"
	"github.com/xvi-go/xvi/window"
)

// CmdlineStarter is notified when a ':' command line begins, so the
// ex/cmdline component knows which prefix it is reading; '/' and '?'
// patterns are read inside the normal handler and do not notify it.
// Implemented by the ex package; kept as an interface here to avoid an
// import cycle, the same inversion buffer.ChangeRecorder uses.
type CmdlineStarter interface {
	Begin(prefix byte)
}

// Stuffer re-injects bytes into the mapped keystroke stream, used for `.`
// replay and "@reg" macro playback.
type Stuffer interface {
	Stuff(data []byte)
}

// Lifecycle is notified of whole-session commands normal-mode parsing
// triggers but does not itself own: ZZ (write current buffer, then quit).
type Lifecycle interface {
	WriteQuit() error
}

// InsertStarter is notified whenever normal-mode parsing resolves to
// entering Insert or Replace state (i/I/a/A/o/O/c-operator/R), so the
// insert/replace engine knows where the insert point began, how many
// times to repeat the inserted text on ESC, and whether it is overwriting
// rather than inserting — the `i`/`a`/... command table.
type InsertStarter interface {
	Begin(at buffer.Position, count int, overwrite bool)
}

// pendingKind names what a single held byte will complete once the next
// byte arrives — the Subnormal state awaiting the 2nd char of a two-char
// command, widened here to cover every normal-mode command that takes
// exactly one literal argument byte, e.g. f/F/t/T/r/m/`/').
type pendingKind int

const (
	pendNone pendingKind = iota
	pendRegisterName
	pendFindFwd
	pendFindFwdTill
	pendFindBack
	pendFindBackTill
	pendReplaceChar
	pendMarkSet
	pendMarkGoto
	pendMacroPlay
	pendGPrefix    // "g" awaiting gg/ge/gE etc.
	pendZPrefix    // "z" awaiting z./z-/zz
	pendCapZPrefix // "Z" awaiting "ZZ"
	pendReadSearch
)

// cmdState is the in-progress Cmd record.
type cmdState struct {
	regName  byte // 0 = unnamed default
	havePre  bool
	prenum   int
	operator byte
	haveOp   bool
	opnum    int
	haveOpnum bool
	pending  pendingKind

	searchBuf []byte
	searchDir search.Direction
	forOp     bool // the pending search motion feeds an active operator

	lastFindKind pendingKind // for ';'/',' repeat
	lastFindCh   byte

	keys []byte // raw bytes of the command in progress, for the redo buffer
}

// reset clears everything in c except the ';'/',' repeat-find memory,
// which is session state that outlives any single command.
func (c *cmdState) reset() {
	lastFindKind, lastFindCh := c.lastFindKind, c.lastFindCh
	*c = cmdState{}
	c.lastFindKind, c.lastFindCh = lastFindKind, lastFindCh
}

func (c *cmdState) count() int {
	n := 1
	if c.havePre && c.prenum > 0 {
		n *= c.prenum
	}
	if c.haveOpnum && c.opnum > 0 {
		n *= c.opnum
	}
	return n
}

// Handler drives normal-mode parsing for one window. It implements the
// Normal/Subnormal/Suspend corner of mode.Dispatcher; cmd/xvi composes it
// with insert/ex handlers to form the full Dispatcher.
type Handler struct {
	Buf    *buffer.Buffer
	Win    *window.Window
	Undo   *undo.Engine
	Regs   *register.Bank
	Search *search.Engine

	Cmdline CmdlineStarter
	Input   Stuffer
	Life    Lifecycle
	Ins     InsertStarter

	OnMessage func(string) // surfaces "N fewer/more lines" etc; nil is fine

	cmd      cmdState
	redoText []byte
}

// New builds a Handler over one window's editing context.
func New(buf *buffer.Buffer, win *window.Window, eng *undo.Engine, regs *register.Bank, se *search.Engine) *Handler {
	return &Handler{Buf: buf, Win: win, Undo: eng, Regs: regs, Search: se}
}

func (h *Handler) beep() mode.Outcome {
	h.cmd.reset()
	return mode.Outcome{NextState: mode.Normal, Beep: true}
}

func (h *Handler) fail(err error) mode.Outcome {
	h.cmd.reset()
	return mode.Outcome{NextState: mode.Normal, Err: err}
}

func (h *Handler) stay() mode.Outcome {
	return mode.Outcome{NextState: mode.Normal}
}

func (h *Handler) toSubnormal() mode.Outcome {
	return mode.Outcome{NextState: mode.Subnormal}
}

// Suspend implements mode.Dispatcher's Normal-state suspend_request.
// Actually suspending the process is a frontend concern (terminal raw
// mode, SIGTSTP) handled by whatever installs this Handler; this just
// clears any in-progress command, since a suspend abandons it.
func (h *Handler) Suspend() mode.Outcome {
	h.cmd.reset()
	return mode.Outcome{NextState: mode.Normal}
}

// Normal consumes one mapped byte while in Normal state.
func (h *Handler) Normal(b byte) mode.Outcome {
	h.cmd.keys = append(h.cmd.keys, b)

	if h.cmd.pending == pendReadSearch {
		return h.feedSearchByte(b)
	}

	switch {
	case b == '"' && h.cmd.pending == pendNone:
		h.cmd.pending = pendRegisterName
		return h.toSubnormal()

	case b >= '1' && b <= '9' && !h.cmd.haveOp:
		return h.accumulatePrenum(b)
	case b == '0' && h.cmd.havePre:
		return h.accumulatePrenum(b)
	case b >= '1' && b <= '9' && h.cmd.haveOp:
		return h.accumulateOpnum(b)
	case b == '0' && h.cmd.haveOp && h.cmd.haveOpnum:
		return h.accumulateOpnum(b)

	case isOperatorByte(b):
		return h.startOperator(b)

	default:
		return h.dispatchNoun(b)
	}
}

func (h *Handler) accumulatePrenum(b byte) mode.Outcome {
	h.cmd.prenum = h.cmd.prenum*10 + int(b-'0')
	h.cmd.havePre = true
	return h.stay()
}

func (h *Handler) accumulateOpnum(b byte) mode.Outcome {
	h.cmd.opnum = h.cmd.opnum*10 + int(b-'0')
	h.cmd.haveOpnum = true
	return h.stay()
}

func isOperatorByte(b byte) bool {
	switch b {
	case 'd', 'c', 'y', '<', '>', '!':
		return true
	default:
		return false
	}
}

// startOperator begins (or, for a doubled operator, immediately resolves)
// an operator command: dd/yy/cc/<</>>/!! operate linewise on count lines.
func (h *Handler) startOperator(b byte) mode.Outcome {
	if h.cmd.haveOp && h.cmd.operator == b {
		n := h.cmd.count()
		from := h.Win.Cursor
		to, ok := lineSpan(h.Buf, from.Line, n)
		if !ok {
			return h.beep()
		}
		return h.finishOperator(from, to, true)
	}
	h.cmd.haveOp = true
	h.cmd.operator = b
	h.cmd.opnum = 0
	h.cmd.haveOpnum = false
	return h.stay()
}

// Subnormal completes whatever byte sequence startOperator/dispatchNoun
// left pending.
func (h *Handler) Subnormal(b byte) mode.Outcome {
	h.cmd.keys = append(h.cmd.keys, b)

	switch h.cmd.pending {
	case pendRegisterName:
		h.cmd.regName = b
		h.cmd.pending = pendNone
		return h.stay()
	case pendFindFwd, pendFindFwdTill, pendFindBack, pendFindBackTill:
		return h.completeFind(h.cmd.pending, b)
	case pendReplaceChar:
		return h.completeReplace(b)
	case pendMarkSet:
		h.cmd.pending = pendNone
		if !(b >= 'a' && b <= 'z') {
			return h.beep()
		}
		h.Buf.Marks.Set(b, h.Win.Cursor)
		h.cmd.reset()
		return h.stay()
	case pendMarkGoto:
		return h.completeMarkGoto(b)
	case pendMacroPlay:
		return h.completeMacroPlay(b)
	case pendGPrefix:
		return h.completeGPrefix(b)
	case pendZPrefix:
		return h.completeZPrefix(b)
	case pendCapZPrefix:
		return h.completeCapZPrefix(b)
	default:
		return h.beep()
	}
}

// finishOperator applies the operator over [from,to] (ordering and
// line-rounding handled by applyOperator), records the redo text, and
// resets parse state.
func (h *Handler) finishOperator(from, to buffer.Position, linewise bool) mode.Outcome {
	op := h.cmd.operator
	reg := h.regOrDefault()
	keys := append([]byte(nil), h.cmd.keys...)

	if err := applyOperator(h, op, from, to, linewise, reg); err != nil {
		h.cmd.reset()
		return h.fail(err)
	}

	h.redoText = keys
	next := mode.Normal
	if op == 'c' {
		h.beginInsert(1, false)
		next = mode.Insert
	}
	h.cmd.reset()
	return mode.Outcome{NextState: next}
}

// beginInsert notifies Ins, if wired, that Normal/Subnormal handling is
// about to hand off to Insert or Replace state.
func (h *Handler) beginInsert(count int, overwrite bool) {
	if h.Ins != nil {
		h.Ins.Begin(h.Win.Cursor, count, overwrite)
	}
}

func (h *Handler) regOrDefault() byte {
	if h.cmd.regName == 0 {
		return '@'
	}
	return h.cmd.regName
}

func errNoMotion(b byte) error {
	return fmt.Errorf("normal: %q is not a motion or command", b)
}
