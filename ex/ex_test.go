package ex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/param"
	"github.com/xvi-go/xvi/register"
	"github.com/xvi-go/xvi/search"
	"github.com/xvi-go/xvi/undo"
	"github.com/xvi-go/xvi/window"
)

// newFixture builds a Handler over a 3-line buffer ("one", "two",
// "three"), wired the way cmd/xvi's composition layer would.
func newFixture(t *testing.T) *Handler {
	t.Helper()
	buf := buffer.New("test.txt")
	eng := undo.New(buf, undo.MaxUndo)
	lines := []*buffer.Line{{}, {}}
	lines[0].SetText([]byte("two"))
	lines[1].SetText([]byte("three"))
	eng.StartCommand(buffer.Position{Line: buf.File()})
	require.NoError(t, eng.ReplChars(buf.File(), 0, 0, []byte("one")))
	require.NoError(t, eng.ReplLines(buf.File().Next, 0, lines))
	eng.EndCommand()

	win := &window.Window{Buffer: buf, Cursor: buffer.Position{Line: buf.File(), Index: 0}, NRows: 24}
	mgr := window.New(24, buf)

	h := New(buf, win, mgr, eng, register.New(), search.New(), param.New())
	return h
}

func TestExecuteGotoLineMovesCursor(t *testing.T) {
	h := newFixture(t)
	require.NoError(t, h.Execute("2"))
	assert.Equal(t, "two", string(h.Win.Cursor.Line.Text))
}

func TestExecuteDeleteRemovesLine(t *testing.T) {
	h := newFixture(t)
	require.NoError(t, h.Execute("2d"))
	assert.Equal(t, "one", string(h.Buf.File().Text))
	assert.Equal(t, "three", string(h.Buf.File().Next.Text))
}

func TestExecuteDeleteThenPutRestoresLine(t *testing.T) {
	h := newFixture(t)
	require.NoError(t, h.Execute("2d"))
	require.NoError(t, h.Execute("1pu"))
	assert.Equal(t, "two", string(h.Buf.File().Next.Text))
}

func TestExecuteSubstituteReplacesText(t *testing.T) {
	h := newFixture(t)
	require.NoError(t, h.Execute("%s/o/0/g"))
	assert.Equal(t, "0ne", string(h.Buf.File().Text))
	assert.Equal(t, "tw0", string(h.Buf.File().Next.Text))
}

func TestExecuteSubstituteNoMatchErrors(t *testing.T) {
	h := newFixture(t)
	err := h.Execute("%s/zzz/x/")
	assert.Error(t, err)
}

func TestExecuteGlobalDeletesMatchingLines(t *testing.T) {
	h := newFixture(t)
	require.NoError(t, h.Execute("g/t/d"))
	assert.Equal(t, "one", string(h.Buf.File().Text))
	assert.True(t, buffer.IsLastline(h.Buf.File().Next))
}

func TestExecuteJoinMergesLines(t *testing.T) {
	h := newFixture(t)
	require.NoError(t, h.Execute("1,2j"))
	assert.Equal(t, "one two", string(h.Buf.File().Text))
}

func TestExecuteUnknownCommandErrors(t *testing.T) {
	h := newFixture(t)
	err := h.Execute("bogus")
	assert.Error(t, err)
}

func TestExecuteAmbiguousCommandErrors(t *testing.T) {
	h := newFixture(t)
	// "c" alone is a tie among cd/chdir/close/copy, all Priority 1.
	err := h.Execute("c")
	assert.Error(t, err)
}

func TestExecuteUnknownPrefixErrors(t *testing.T) {
	h := newFixture(t)
	err := h.Execute("zz")
	assert.Error(t, err)
}

func TestExecuteSetTogglesBoolParam(t *testing.T) {
	h := newFixture(t)
	require.NoError(t, h.Execute("set readonly"))
	assert.True(t, h.Params.Bool("readonly"))
	require.NoError(t, h.Execute("set noreadonly"))
	assert.False(t, h.Params.Bool("readonly"))
}

func TestExecuteUndoRevertsChange(t *testing.T) {
	h := newFixture(t)
	require.NoError(t, h.Execute("2d"))
	require.NoError(t, h.Execute("u"))
	assert.Equal(t, "two", string(h.Buf.File().Next.Text))
}

func TestExecuteWriteQuitSetsShouldExit(t *testing.T) {
	h := newFixture(t)
	dir := t.TempDir()
	h.Buf.Filename = dir + "/out.txt"
	require.NoError(t, h.Execute("wq"))
	assert.True(t, h.ShouldExit)
}

func TestExecuteMoveRelocatesRange(t *testing.T) {
	h := newFixture(t)
	require.NoError(t, h.Execute("1m$"))
	assert.Equal(t, "two", string(h.Buf.File().Text))
	assert.Equal(t, "one", string(h.Buf.Lastline().Prev.Text))
}

func TestLookupCommandPrefersLongerPriorityMatch(t *testing.T) {
	m, err := lookupCommand("s/x/y/")
	require.NoError(t, err)
	assert.Equal(t, "substitute", m.cmd.Name)
}

func TestLookupCommandRejectsUnknown(t *testing.T) {
	_, err := lookupCommand("qqq!!!")
	assert.Error(t, err)
}

func TestParseRangePercentSpansWholeBuffer(t *testing.T) {
	h := newFixture(t)
	first, last, have, _, err := h.parseRange("%", 0)
	require.NoError(t, err)
	require.True(t, have)
	assert.Equal(t, h.Buf.File(), first)
	assert.Equal(t, h.Buf.Lastline().Prev, last)
}

func TestParseRangeSemicolonMovesCursorForSecondAddr(t *testing.T) {
	h := newFixture(t)
	_, last, have, _, err := h.parseRange("1;$", 0)
	require.NoError(t, err)
	require.True(t, have)
	assert.Equal(t, h.Buf.Lastline().Prev, last)
	assert.Equal(t, h.Buf.File(), h.Win.Cursor.Line)
}
