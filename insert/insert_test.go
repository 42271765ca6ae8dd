package insert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/mode"
	"github.com/xvi-go/xvi/param"
	"github.com/xvi-go/xvi/register"
	"github.com/xvi-go/xvi/undo"
	"github.com/xvi-go/xvi/window"
)

func newTestHandler(t *testing.T, lines ...string) (*Handler, *buffer.Buffer) {
	t.Helper()
	buf := buffer.New("")
	eng := undo.New(buf, 100)

	newLines := make([]*buffer.Line, len(lines))
	for i, text := range lines {
		l := &buffer.Line{}
		l.SetText([]byte(text))
		newLines[i] = l
	}
	eng.StartCommand(buffer.Position{})
	require.NoError(t, eng.ReplLines(buf.File(), 1, newLines))
	eng.EndCommand()

	win := &window.Window{Buffer: buf, NRows: 24, Cursor: buffer.Position{Line: buf.File(), Index: 0}}
	regs := register.New()
	params := param.New()
	h := New(buf, win, eng, regs, params)
	return h, buf
}

func bufLines(buf *buffer.Buffer) []string {
	var out []string
	for l := buf.File(); !buffer.IsLastline(l); l = l.Next {
		out = append(out, string(l.Text))
	}
	return out
}

func typeText(h *Handler, s string) mode.Outcome {
	var o mode.Outcome
	for i := 0; i < len(s); i++ {
		o = h.Insert(s[i])
	}
	return o
}

func TestInsertSplicesCharsAtCursor(t *testing.T) {
	h, buf := newTestHandler(t, "bd")
	h.Begin(buffer.Position{Line: buf.File(), Index: 1}, 1, false)
	h.Win.Cursor = buffer.Position{Line: buf.File(), Index: 1}
	typeText(h, "c")
	assert.Equal(t, []string{"bcd"}, bufLines(buf))
}

func TestBackspaceErasesJustTyped(t *testing.T) {
	h, buf := newTestHandler(t, "")
	h.Begin(buffer.Position{Line: buf.File(), Index: 0}, 1, false)
	typeText(h, "ab")
	h.Insert(0x08)
	assert.Equal(t, []string{"a"}, bufLines(buf))
}

func TestBackspaceBeepsAtSessionStart(t *testing.T) {
	h, buf := newTestHandler(t, "x")
	h.Begin(buffer.Position{Line: buf.File(), Index: 0}, 1, false)
	o := h.Insert(0x08)
	assert.True(t, o.Beep)
	assert.Equal(t, []string{"x"}, bufLines(buf))
}

func TestBackspaceJoinsLinesAcrossSplit(t *testing.T) {
	h, buf := newTestHandler(t, "ab")
	h.Begin(buffer.Position{Line: buf.File(), Index: 2}, 1, false)
	h.Win.Cursor = buffer.Position{Line: buf.File(), Index: 2}
	h.Insert('\r')
	require.Equal(t, []string{"ab", ""}, bufLines(buf))
	h.Insert(0x08)
	assert.Equal(t, []string{"ab"}, bufLines(buf))
}

func TestEnterSplitsLineCarryingAutoindent(t *testing.T) {
	h, buf := newTestHandler(t, "  ab")
	require.NoError(t, h.Params.SetBool("autoindent", true))
	h.Begin(buffer.Position{Line: buf.File(), Index: 4}, 1, false)
	h.Win.Cursor = buffer.Position{Line: buf.File(), Index: 4}
	h.Insert('\r')
	typeText(h, "cd")
	assert.Equal(t, []string{"  ab", "  cd"}, bufLines(buf))
}

func TestEraseWordErasesOneWord(t *testing.T) {
	h, buf := newTestHandler(t, "")
	h.Begin(buffer.Position{Line: buf.File(), Index: 0}, 1, false)
	typeText(h, "hello world")
	h.Insert(0x17)
	assert.Equal(t, []string{"hello "}, bufLines(buf))
}

func TestOverwriteReplacesCharAndBackspaceRestoresIt(t *testing.T) {
	h, buf := newTestHandler(t, "abc")
	h.Begin(buffer.Position{Line: buf.File(), Index: 0}, 1, true)
	h.Replace('X')
	assert.Equal(t, []string{"Xbc"}, bufLines(buf))
	h.Replace(0x08)
	assert.Equal(t, []string{"abc"}, bufLines(buf))
}

func TestEscRecordsLastInsertRegister(t *testing.T) {
	h, buf := newTestHandler(t, "")
	h.Begin(buffer.Position{Line: buf.File(), Index: 0}, 1, false)
	typeText(h, "hi")
	h.Insert(0x1b)
	reg, err := h.Regs.Get('<')
	require.NoError(t, err)
	assert.Equal(t, "hi", string(reg.FirstSegment))
}

func TestEscWithCountStuffsRepeats(t *testing.T) {
	h, buf := newTestHandler(t, "")
	var stuffed []byte
	h.Input = stuffFunc(func(b []byte) { stuffed = append(stuffed, b...) })
	h.Begin(buffer.Position{Line: buf.File(), Index: 0}, 3, false)
	typeText(h, "x")
	h.Insert(0x1b)
	assert.Equal(t, []byte("xx"), stuffed)
}

func TestLiteralNextInsertsControlByteVerbatim(t *testing.T) {
	h, buf := newTestHandler(t, "")
	h.Begin(buffer.Position{Line: buf.File(), Index: 0}, 1, false)
	h.Insert(0x16) // ^V
	h.Insert(0x1b) // literal ESC, not end-of-session
	assert.Equal(t, "\x1b", bufLines(buf)[0])
}

func TestCtrlBInsertsNamedRegister(t *testing.T) {
	h, buf := newTestHandler(t, "")
	require.NoError(t, h.Regs.SetChars('a', []byte("yo")))
	h.Begin(buffer.Position{Line: buf.File(), Index: 0}, 1, false)
	h.Insert(0x02) // ^B
	h.Insert('a')
	assert.Equal(t, []string{"yo"}, bufLines(buf))
}

func TestShowMatchNotesOpenerPosition(t *testing.T) {
	h, buf := newTestHandler(t, "(")
	require.NoError(t, h.Params.SetBool("showmatch", true))
	h.Begin(buffer.Position{Line: buf.File(), Index: 1}, 1, false)
	h.Win.Cursor = buffer.Position{Line: buf.File(), Index: 1}
	h.Insert(')')
	assert.True(t, h.ShowMatchActive)
	assert.Equal(t, 0, h.ShowMatchPos.Index)
}

type stuffFunc func([]byte)

func (f stuffFunc) Stuff(data []byte) { f(data) }
