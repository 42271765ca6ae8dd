package mode

import (
	"fmt"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/keymap"
	"github.com/xvi-go/xvi/preserve"
)

// PsvKeys is the keystroke threshold past which the loop asks to be woken
// for a preserve sweep even with no input pending, shared with
// preserve.PsvKeys's "recent enough" threshold.
const PsvKeys = preserve.PsvKeys

// DefaultPreserveTimeoutMS is how long HandleEvent asks to be polled once
// Keystrokes exceeds PsvKeys with no map pending; 2s matches the "timeout"
// parameter's default for "idle a little, then consider preserving."
const DefaultPreserveTimeoutMS = 2000

// Outcome is what a Dispatcher method returns after handling one mapped
// byte: the state to move to next (usually unchanged) and any
// side-effects the loop itself must carry out (it owns the terminal and
// the preserve bookkeeping, not the dispatcher).
type Outcome struct {
	NextState State
	Beep      bool
	Suspend   bool
	Err       error
}

// Dispatcher is implemented by the mode-specific command handlers
// (normal, insert, ex); Machine never interprets a keystroke itself, it
// only routes it to the mode-appropriate handler.
type Dispatcher interface {
	Normal(b byte) Outcome
	Subnormal(b byte) Outcome
	Insert(b byte) Outcome
	Replace(b byte) Outcome
	Cmdline(b byte) Outcome
	Display(b byte) Outcome

	// Suspend carries out a Normal-state suspend_request: stop the editor
	// and return to the shell until it is resumed.
	Suspend() Outcome

	Refresh() Outcome
	Resize(drows, dcols int) Outcome
	MouseClick(r, c int) Outcome
	MouseDrag(r1, c1, r2, c2 int) Outcome
	MouseMove(r int) Outcome

	// Beep is called whenever the loop itself decides to beep (e.g. a
	// breakin or suspend_request that the current state doesn't handle
	// specially), rather than a dispatcher method reporting Outcome.Beep.
	Beep()
}

// Machine runs the event loop: it feeds Char events through a
// keymap.Translator and dispatches every mapped byte to the handler for
// the current State, then reports what timeout the caller should next
// poll with.
type Machine struct {
	Disp       Dispatcher
	Translator *keymap.Translator
	Windows    BufferLister

	PreservePolicy preserve.Policy
	PreserveStates map[*buffer.Buffer]*preserve.State

	State      State
	Keystrokes int

	pendingSuspend bool
}

// BufferLister supplies the set of open buffers so terminate/disconnected
// can preserve every modified one. window.Manager satisfies
// this with its Buffers method.
type BufferLister interface {
	Buffers() []*buffer.Buffer
}

// NewMachine builds a Machine starting in Normal state.
func NewMachine(disp Dispatcher, tr *keymap.Translator, windows BufferLister) *Machine {
	return &Machine{
		Disp:           disp,
		Translator:     tr,
		Windows:        windows,
		PreserveStates: make(map[*buffer.Buffer]*preserve.State),
		State:          Normal,
	}
}

// HandleEvent consumes one input event and returns what the frontend
// should do next.
func (m *Machine) HandleEvent(ev Event) (Response, error) {
	switch ev.Kind {
	case Char:
		if err := m.feedAndDispatch(ev.Byte); err != nil {
			return Response{}, err
		}
	case Timeout:
		if err := m.flushAndDispatch(); err != nil {
			return Response{}, err
		}
	case Refresh:
		m.apply(m.Disp.Refresh())
	case Resize:
		m.apply(m.Disp.Resize(ev.DRows, ev.DCols))
	case MouseClick:
		m.apply(m.Disp.MouseClick(ev.R, ev.C))
	case MouseDrag:
		m.apply(m.Disp.MouseDrag(ev.R1, ev.C1, ev.R2, ev.C2))
	case MouseMove:
		m.apply(m.Disp.MouseMove(ev.R))
	case Breakin:
		m.handleBreakin()
	case SuspendRequest:
		m.handleSuspendRequest()
	case Terminate, Disconnected:
		if err := m.preserveAll(); err != nil {
			return Response{}, err
		}
		m.State = Exiting
	}

	suspend := m.pendingSuspend
	m.pendingSuspend = false

	if m.State == Exiting {
		return Response{Exit: true, Suspend: suspend}, nil
	}
	return Response{Suspend: suspend, TimeoutMS: m.nextTimeoutMS()}, nil
}

// feedAndDispatch runs one raw byte through the translator and dispatches
// every keystroke it yields.
func (m *Machine) feedAndDispatch(b byte) error {
	for _, mapped := range m.Translator.Feed(b) {
		m.Keystrokes++
		if err := m.dispatchOne(mapped); err != nil {
			return err
		}
		if m.State == Exiting {
			return nil
		}
	}
	return nil
}

// flushAndDispatch forces resolution of a stalled partial match (a
// timed_input response firing with no further input) and dispatches
// whatever it resolves to.
func (m *Machine) flushAndDispatch() error {
	for _, mapped := range m.Translator.Flush() {
		m.Keystrokes++
		if err := m.dispatchOne(mapped); err != nil {
			return err
		}
		if m.State == Exiting {
			return nil
		}
	}
	return nil
}

func (m *Machine) dispatchOne(b byte) error {
	var o Outcome
	switch m.State {
	case Normal:
		o = m.Disp.Normal(b)
	case Subnormal:
		o = m.Disp.Subnormal(b)
	case Insert:
		o = m.Disp.Insert(b)
	case Replace:
		o = m.Disp.Replace(b)
	case Cmdline:
		o = m.Disp.Cmdline(b)
	case Display:
		o = m.Disp.Display(b)
	default:
		return fmt.Errorf("mode: dispatch in state %s", m.State)
	}
	m.apply(o)
	return o.Err
}

func (m *Machine) apply(o Outcome) {
	if o.Beep {
		m.Disp.Beep()
	}
	if o.Suspend {
		m.pendingSuspend = true
	}
	if o.NextState != m.State {
		m.State = o.NextState
	}
}

// handleBreakin: during Display a ^C is injected
// into the mapped stream (so the display command can abort itself the
// same way it would abort on any other keystroke); in every other state
// it just beeps.
func (m *Machine) handleBreakin() {
	const ctrlC = 0x03
	if m.State == Display {
		m.apply(m.Disp.Display(ctrlC))
		return
	}
	m.Disp.Beep()
}

// handleSuspendRequest: Normal suspends the editor,
// Subnormal treats it as an ESC (cancelling the pending 2nd-char
// command), anything else just beeps.
func (m *Machine) handleSuspendRequest() {
	switch m.State {
	case Normal:
		m.apply(m.Disp.Suspend())
	case Subnormal:
		const esc = 0x1b
		m.apply(m.Disp.Subnormal(esc))
	default:
		m.Disp.Beep()
	}
}

// preserveAll serializes every modified buffer before exit — on
// terminate/disconnected all modified buffers are preserved before exit —
// reusing each buffer's own preserve.State so a prior preserve in
// the session is recognised rather than re-done from scratch.
func (m *Machine) preserveAll() error {
	if m.Windows == nil {
		return nil
	}
	for _, buf := range m.Windows.Buffers() {
		if buf.Flags&buffer.Modified == 0 {
			continue
		}
		st, ok := m.PreserveStates[buf]
		if !ok {
			st = &preserve.State{}
			m.PreserveStates[buf] = st
		}
		if _, err := preserve.Preserve(buf, st, buf.Filename, m.PreservePolicy, m.Keystrokes); err != nil {
			return fmt.Errorf("mode: preserve %s: %w", buf.Filename, err)
		}
	}
	return nil
}

// nextTimeoutMS picks the poll timeout: the keymap timeout
// while a map is mid-match, else the preserve timeout once Keystrokes has
// crossed PsvKeys, else 0 (return immediately).
func (m *Machine) nextTimeoutMS() int {
	if m.Translator.Pending() {
		return int(m.Translator.Timeout.Milliseconds())
	}
	if m.Keystrokes > PsvKeys {
		return DefaultPreserveTimeoutMS
	}
	return 0
}
