package undo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvi-go/xvi/buffer"
)

func lineTexts(buf *buffer.Buffer) []string {
	var out []string
	for l := buf.File(); !buffer.IsLastline(l); l = l.Next {
		out = append(out, string(l.Text))
	}
	return out
}

func TestEngine_ReplChars_UndoRedo(t *testing.T) {
	buf := buffer.New("t")
	eng := New(buf, 10)

	line := buf.File()
	pos := buffer.Position{Line: line, Index: 0}

	eng.StartCommand(pos)
	require.NoError(t, eng.ReplChars(line, 0, 0, []byte("hello")))
	eng.EndCommand()

	assert.Equal(t, "hello", string(line.Text))
	assert.True(t, eng.CanUndo())
	assert.False(t, eng.CanRedo())

	restored, ok := eng.Undo()
	require.True(t, ok)
	assert.Equal(t, pos, restored)
	assert.Equal(t, "", string(line.Text))
	assert.False(t, eng.CanUndo())
	assert.True(t, eng.CanRedo())

	_, ok = eng.Redo()
	require.True(t, ok)
	assert.Equal(t, "hello", string(line.Text))
	assert.True(t, eng.CanUndo())
	assert.False(t, eng.CanRedo())
}

func TestEngine_ReplChars_DeleteThenUndo(t *testing.T) {
	buf := buffer.New("t")
	eng := New(buf, 10)
	line := buf.File()

	eng.StartCommand(buffer.Position{Line: line, Index: 0})
	require.NoError(t, eng.ReplChars(line, 0, 0, []byte("abcdef")))
	eng.EndCommand()

	eng.StartCommand(buffer.Position{Line: line, Index: 2})
	require.NoError(t, eng.ReplChars(line, 2, 3, nil))
	eng.EndCommand()
	assert.Equal(t, "abf", string(line.Text))

	_, ok := eng.Undo()
	require.True(t, ok)
	assert.Equal(t, "abcdef", string(line.Text))
}

func TestEngine_ReplLines_UndoRedo(t *testing.T) {
	buf := buffer.New("t")
	eng := New(buf, 10)

	pos := buffer.Position{Line: buf.File(), Index: 0}
	eng.StartCommand(pos)
	newLines := []*buffer.Line{
		{Text: []byte("one")},
		{Text: []byte("two")},
	}
	require.NoError(t, eng.ReplLines(buf.File(), 1, newLines))
	eng.EndCommand()

	assert.Equal(t, []string{"one", "two"}, lineTexts(buf))

	_, ok := eng.Undo()
	require.True(t, ok)
	assert.Equal(t, []string{""}, lineTexts(buf))

	_, ok = eng.Redo()
	require.True(t, ok)
	assert.Equal(t, []string{"one", "two"}, lineTexts(buf))
}

func TestEngine_Nesting_OnlyOutermostCommits(t *testing.T) {
	buf := buffer.New("t")
	eng := New(buf, 10)
	line := buf.File()

	eng.StartCommand(buffer.Position{Line: line, Index: 0})
	eng.StartCommand(buffer.Position{Line: line, Index: 0})
	require.NoError(t, eng.ReplChars(line, 0, 0, []byte("x")))
	eng.EndCommand()
	assert.False(t, eng.CanUndo(), "inner EndCommand must not commit")
	eng.EndCommand()
	assert.True(t, eng.CanUndo())
}

func TestEngine_EmptyCompositeNotPushed(t *testing.T) {
	buf := buffer.New("t")
	eng := New(buf, 10)

	eng.StartCommand(buffer.Position{Line: buf.File(), Index: 0})
	eng.EndCommand()

	assert.False(t, eng.CanUndo())
}

func TestEngine_UndoClearsRedoOnNewEdit(t *testing.T) {
	buf := buffer.New("t")
	eng := New(buf, 10)
	line := buf.File()

	eng.StartCommand(buffer.Position{Line: line, Index: 0})
	require.NoError(t, eng.ReplChars(line, 0, 0, []byte("a")))
	eng.EndCommand()

	_, ok := eng.Undo()
	require.True(t, ok)
	assert.True(t, eng.CanRedo())

	eng.StartCommand(buffer.Position{Line: line, Index: 0})
	require.NoError(t, eng.ReplChars(line, 0, 0, []byte("b")))
	eng.EndCommand()

	assert.False(t, eng.CanRedo(), "a fresh edit must discard the redo stack")
}

func TestEngine_MaxUndoEvictsOldest(t *testing.T) {
	buf := buffer.New("t")
	eng := New(buf, 2)
	line := buf.File()

	for i := 0; i < 3; i++ {
		eng.StartCommand(buffer.Position{Line: line, Index: 0})
		require.NoError(t, eng.ReplChars(line, len(line.Text), 0, []byte("x")))
		eng.EndCommand()
	}

	assert.Len(t, eng.undoStack, 2)
}

func TestEngine_ReplOutsideCommandFails(t *testing.T) {
	buf := buffer.New("t")
	eng := New(buf, 10)

	err := eng.ReplChars(buf.File(), 0, 0, []byte("x"))
	assert.Error(t, err)

	err = eng.ReplLines(buf.File(), 0, nil)
	assert.Error(t, err)
}

func TestEngine_CanUndoRedoWhenEmpty(t *testing.T) {
	buf := buffer.New("t")
	eng := New(buf, 10)

	assert.False(t, eng.CanUndo())
	assert.False(t, eng.CanRedo())

	_, ok := eng.Undo()
	assert.False(t, ok)
	_, ok = eng.Redo()
	assert.False(t, ok)
}

func TestEngine_ReplBuffer_UndoRestoresWholeBuffer(t *testing.T) {
	buf := buffer.New("t")
	eng := New(buf, 10)

	eng.StartCommand(buffer.Position{Line: buf.File(), Index: 0})
	fresh := &buffer.Line{Text: []byte("alpha")}
	fresh.Next = &buffer.Line{Text: []byte("beta")}
	fresh.Next.Prev = fresh
	require.NoError(t, eng.ReplBuffer(fresh))
	eng.EndCommand()

	assert.Equal(t, []string{"alpha", "beta"}, lineTexts(buf))

	_, ok := eng.Undo()
	require.True(t, ok)
	assert.Equal(t, []string{""}, lineTexts(buf))
}

func TestEngine_Report(t *testing.T) {
	buf := buffer.New("t")
	eng := New(buf, 10)
	eng.Report = 2

	eng.StartCommand(buffer.Position{Line: buf.File(), Index: 0})
	newLines := []*buffer.Line{
		{Text: []byte("a")},
		{Text: []byte("b")},
		{Text: []byte("c")},
		{Text: []byte("d")},
	}
	require.NoError(t, eng.ReplLines(buf.File(), 1, newLines))
	eng.EndCommand()

	assert.Equal(t, "3 more lines", eng.LastReport)
}
