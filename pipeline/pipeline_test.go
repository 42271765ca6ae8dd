package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/undo"
)

func newBufWithLines(t *testing.T, lines ...string) *buffer.Buffer {
	t.Helper()
	b := buffer.New("")
	eng := undo.New(b, 100)
	newLines := make([]*buffer.Line, len(lines))
	for i, text := range lines {
		l := &buffer.Line{}
		l.SetText([]byte(text))
		newLines[i] = l
	}
	eng.StartCommand(buffer.Position{})
	require.NoError(t, b.ReplLines(b.File(), 1, newLines))
	eng.EndCommand()
	return b
}

func TestFilterReplacesLinesWithCommandOutput(t *testing.T) {
	buf := newBufWithLines(t, "banana", "apple", "cherry")
	eng := undo.New(buf, 100)
	eng.StartCommand(buffer.Position{})
	ok, err := Filter(context.Background(), buf, "/bin/sh", buf.File(), buf.Lastline().Prev, "sort")
	eng.EndCommand()
	require.NoError(t, err)
	assert.True(t, ok)

	var got []string
	for l := buf.File(); !buffer.IsLastline(l); l = l.Next {
		got = append(got, string(l.Text))
	}
	assert.Equal(t, []string{"apple", "banana", "cherry"}, got)
}

func TestLastCmdResolvesRepeatShorthand(t *testing.T) {
	var l LastCmd
	cmd, err := l.Resolve("sort -r")
	require.NoError(t, err)
	assert.Equal(t, "sort -r", cmd)

	cmd, err = l.Resolve("!")
	require.NoError(t, err)
	assert.Equal(t, "sort -r", cmd)
}

func TestLastCmdRepeatWithNoPriorFails(t *testing.T) {
	var l LastCmd
	_, err := l.Resolve("!")
	assert.Error(t, err)
}

func TestFilterNoOutputReportsNotOK(t *testing.T) {
	buf := newBufWithLines(t, "x")
	eng := undo.New(buf, 100)
	eng.StartCommand(buffer.Position{})
	ok, err := Filter(context.Background(), buf, "/bin/sh", buf.File(), buf.Lastline().Prev, "true")
	eng.EndCommand()
	require.NoError(t, err)
	assert.False(t, ok)
}
