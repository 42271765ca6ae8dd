// Package infrastructure provides the ANSI-terminal Backend implementation
// of screen.Backend, the concrete analogue of the original's tcap_scr.c.
package infrastructure

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/xvi-go/xvi/screen"
)

// ANSIBackend writes virtual-screen diffs to a terminal using ANSI escape
// sequences, extended to cover colour-indexed cell writes instead of
// whole-string output.
type ANSIBackend struct {
	out    io.Writer
	fd     int
	styles [5]lipgloss.Style
	raw    *term.State
}

// NewANSIBackend creates a backend writing to out, with fd identifying the
// underlying terminal file descriptor (used for raw mode and size
// queries). Colour slots start mapped to a conservative default palette;
// SetPalette overrides one slot, giving each backend its own colour
// redefinition.
func NewANSIBackend(out io.Writer, fd int) *ANSIBackend {
	b := &ANSIBackend{out: out, fd: fd}
	b.styles[screen.Normal] = lipgloss.NewStyle()
	b.styles[screen.Status] = lipgloss.NewStyle().Reverse(true)
	b.styles[screen.Readonly] = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	b.styles[screen.System] = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	b.styles[screen.Tag] = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	return b
}

// SetPalette overrides the rendering style for one colour slot.
func (b *ANSIBackend) SetPalette(c screen.Colour, style lipgloss.Style) {
	b.styles[c] = style
}

// EnterRaw puts the terminal into raw mode, the precondition for a modal
// editor to see individual keystrokes instead of line-buffered input.
func (b *ANSIBackend) EnterRaw() error {
	st, err := term.MakeRaw(b.fd)
	if err != nil {
		return fmt.Errorf("infrastructure: enter raw mode: %w", err)
	}
	b.raw = st
	return nil
}

// ExitRaw restores the terminal's prior mode. Safe to call when EnterRaw
// was never called or already undone.
func (b *ANSIBackend) ExitRaw() error {
	if b.raw == nil {
		return nil
	}
	err := term.Restore(b.fd, b.raw)
	b.raw = nil
	if err != nil {
		return fmt.Errorf("infrastructure: restore terminal mode: %w", err)
	}
	return nil
}

// Size returns the current terminal dimensions as (rows, cols).
func (b *ANSIBackend) Size() (rows, cols int, err error) {
	w, h, err := term.GetSize(b.fd)
	if err != nil {
		return 24, 80, fmt.Errorf("infrastructure: get terminal size: %w", err)
	}
	return h, w, nil
}

func (b *ANSIBackend) MoveCursor(row, col int) {
	fmt.Fprintf(b.out, "\033[%d;%dH", row+1, col+1)
}

// WriteCells renders cells through the style for each colour run; bytes
// above 0x7e are rendered as \xHH escapes, matching the screen's
// byte-oriented (non-Unicode) contract.
func (b *ANSIBackend) WriteCells(row, col int, cells []byte, colours []screen.Colour) {
	b.MoveCursor(row, col)
	i := 0
	for i < len(cells) {
		j := i + 1
		for j < len(cells) && colours[j] == colours[i] {
			j++
		}
		io.WriteString(b.out, b.styles[colours[i]].Render(renderRun(cells[i:j])))
		i = j
	}
}

func renderRun(cells []byte) string {
	out := make([]byte, 0, len(cells))
	for _, c := range cells {
		if c >= 0x20 && c < 0x7f {
			out = append(out, c)
			continue
		}
		out = append(out, []byte(fmt.Sprintf("\\x%02x", c))...)
	}
	return string(out)
}

func (b *ANSIBackend) ClearToEOL(row, col int) {
	b.MoveCursor(row, col)
	io.WriteString(b.out, "\033[K")
}

// Scroll uses the terminal's scroll-region escape sequences; it always
// reports success since ANSI scroll regions have no hard failure mode
// short of a write error, which this interface has no channel to report.
func (b *ANSIBackend) Scroll(top, bottom, n int) bool {
	fmt.Fprintf(b.out, "\033[%d;%dr", top+1, bottom+1)
	if n > 0 {
		fmt.Fprintf(b.out, "\033[%dS", n)
	} else if n < 0 {
		fmt.Fprintf(b.out, "\033[%dT", -n)
	}
	io.WriteString(b.out, "\033[r")
	return true
}

func (b *ANSIBackend) Beep() { io.WriteString(b.out, "\a") }

func (b *ANSIBackend) Flash() {
	io.WriteString(b.out, "\033[?5h")
	io.WriteString(b.out, "\033[?5l")
}

func (b *ANSIBackend) Sync() {
	if f, ok := b.out.(*os.File); ok {
		f.Sync()
	}
}
